package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"career-management/internal/models"
)

// EmployeeRepository предоставляет методы для работы с кадровыми карточками в БД
type EmployeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository создает новый экземпляр EmployeeRepository
func NewEmployeeRepository(db *sql.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// scanEmployee сканирует одну строку сотрудника (с названием должности из JOIN)
func scanEmployee(scan func(dest ...interface{}) error) (*models.Employee, error) {
	emp := &models.Employee{}
	var (
		positionID   sql.NullInt64
		positionName sql.NullString
		departmentID sql.NullInt64
		managerID    sql.NullInt64
		salary       sql.NullFloat64
		hireDate     sql.NullTime
	)

	err := scan(
		&emp.ID, &emp.FullName, &positionID, &positionName,
		&departmentID, &managerID, &salary, &hireDate,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	emp.PositionID = nullableInt(positionID)
	emp.DepartmentID = nullableInt(departmentID)
	emp.ManagerID = nullableInt(managerID)
	if positionName.Valid {
		emp.PositionName = &positionName.String
	}
	if salary.Valid {
		emp.Salary = &salary.Float64
	}
	if hireDate.Valid {
		emp.HireDate = &models.CustomDate{Time: hireDate.Time}
	}
	return emp, nil
}

const employeeSelect = `
	SELECT e.id, e.full_name, e.position_id, p.name AS position_name,
	       e.department_id, e.manager_id, e.salary, e.hire_date,
	       e.created_at, e.updated_at
	FROM employees e
	LEFT JOIN positions p ON e.position_id = p.id`

// GetByID находит сотрудника по ID. Возвращает (nil, nil), если сотрудника нет.
func (r *EmployeeRepository) GetByID(id int) (*models.Employee, error) {
	row := r.db.QueryRow(employeeSelect+` WHERE e.id = ?`, id)
	emp, err := scanEmployee(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения сотрудника %d из БД: %w", id, err)
	}
	return emp, nil
}

// GetAll получает всех сотрудников
func (r *EmployeeRepository) GetAll() ([]models.Employee, error) {
	rows, err := r.db.Query(employeeSelect + ` ORDER BY e.full_name`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка сотрудников: %w", err)
	}
	defer rows.Close()

	employees := []models.Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования сотрудника: %w", err)
		}
		employees = append(employees, *emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения сотрудников: %w", err)
	}
	return employees, nil
}

// CreateEmployee создает кадровую карточку сотрудника
func (r *EmployeeRepository) CreateEmployee(emp *models.Employee) error {
	query := `
		INSERT INTO employees (full_name, position_id, department_id, manager_id, salary, hire_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`

	result, err := r.db.Exec(query,
		emp.FullName, emp.PositionID, emp.DepartmentID, emp.ManagerID, emp.Salary, emp.HireDate,
	)
	if err != nil {
		return fmt.Errorf("ошибка создания сотрудника: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("ошибка получения ID нового сотрудника: %w", err)
	}
	emp.ID = int(id)
	return nil
}

// UpdateEmployee обновляет кадровую карточку на основе заполненных полей DTO
func (r *EmployeeRepository) UpdateEmployee(employeeID int, updateData *models.EmployeeUpdateDTO) error {
	if updateData == nil {
		return errors.New("данные для обновления не предоставлены")
	}

	query := "UPDATE employees SET "
	args := []interface{}{}

	// Динамически строим запрос из заполненных полей
	if updateData.FullName != nil {
		query += "full_name = ?, "
		args = append(args, *updateData.FullName)
	}
	if updateData.PositionID != nil {
		query += "position_id = ?, "
		args = append(args, *updateData.PositionID)
	}
	if updateData.DepartmentID != nil {
		query += "department_id = ?, "
		args = append(args, *updateData.DepartmentID)
	}
	if updateData.ManagerID != nil {
		query += "manager_id = ?, "
		args = append(args, *updateData.ManagerID)
	}
	if updateData.Salary != nil {
		query += "salary = ?, "
		args = append(args, *updateData.Salary)
	}

	if len(args) == 0 {
		return errors.New("нет полей для обновления")
	}

	query += "updated_at = CURRENT_TIMESTAMP "
	query += "WHERE id = ?"
	args = append(args, employeeID)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("ошибка выполнения запроса на обновление сотрудника: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка получения количества обновленных строк: %w", err)
	}
	if rowsAffected == 0 {
		return errors.New("сотрудник для обновления не найден или данные не изменились")
	}

	return nil
}

// GetSubordinateIDs возвращает ID всех сотрудников в цепочке подчинения
// руководителя (его непосредственные и транзитивные подчиненные, без него
// самого). Иерархия строится в памяти по полю manager_id.
func (r *EmployeeRepository) GetSubordinateIDs(managerEmployeeID int) ([]int, error) {
	allEmployees, err := r.GetAll()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения сотрудников для построения иерархии: %w", err)
	}

	if len(allEmployees) == 0 {
		return []int{}, nil
	}

	// Строим карту managerID -> []employeeID для быстрого обхода
	childrenMap := make(map[int][]int)
	managerExists := false
	for _, emp := range allEmployees {
		if emp.ID == managerEmployeeID {
			managerExists = true
		}
		if emp.ManagerID != nil {
			childrenMap[*emp.ManagerID] = append(childrenMap[*emp.ManagerID], emp.ID)
		}
	}

	if !managerExists {
		return nil, fmt.Errorf("сотрудник с ID %d не найден", managerEmployeeID)
	}

	// Рекурсивный обход цепочки подчинения
	var subordinateIDs []int
	visited := make(map[int]bool) // Защита от циклов в данных
	var collectIDs func(currentID int)
	collectIDs = func(currentID int) {
		if visited[currentID] {
			return
		}
		visited[currentID] = true
		for _, childID := range childrenMap[currentID] {
			subordinateIDs = append(subordinateIDs, childID)
			collectIDs(childID)
		}
	}
	collectIDs(managerEmployeeID)

	return subordinateIDs, nil
}

// IsManagerOf сообщает, входит ли сотрудник employeeID в цепочку подчинения
// руководителя managerEmployeeID
func (r *EmployeeRepository) IsManagerOf(managerEmployeeID int, employeeID int) (bool, error) {
	if managerEmployeeID == employeeID {
		return false, nil
	}
	subordinateIDs, err := r.GetSubordinateIDs(managerEmployeeID)
	if err != nil {
		return false, err
	}
	for _, id := range subordinateIDs {
		if id == employeeID {
			return true, nil
		}
	}
	return false, nil
}
