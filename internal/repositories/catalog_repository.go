package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"career-management/internal/models"
)

// CatalogRepository предоставляет методы для работы со справочниками
// подразделений и должностей
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository создает новый экземпляр CatalogRepository
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// GetAllDepartments получает все подразделения
func (r *CatalogRepository) GetAllDepartments() ([]models.Department, error) {
	query := `SELECT id, name, manager_id, created_at, updated_at FROM departments ORDER BY name`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка подразделений: %w", err)
	}
	defer rows.Close()

	departments := []models.Department{}
	for rows.Next() {
		d := models.Department{}
		var managerID sql.NullInt64
		if err := rows.Scan(&d.ID, &d.Name, &managerID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования подразделения: %w", err)
		}
		d.ManagerID = nullableInt(managerID)
		departments = append(departments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения подразделений: %w", err)
	}
	return departments, nil
}

// GetDepartmentByID находит подразделение по ID. Возвращает (nil, nil), если
// подразделения нет.
func (r *CatalogRepository) GetDepartmentByID(id int) (*models.Department, error) {
	query := `SELECT id, name, manager_id, created_at, updated_at FROM departments WHERE id = ?`

	d := &models.Department{}
	var managerID sql.NullInt64
	err := r.db.QueryRow(query, id).Scan(&d.ID, &d.Name, &managerID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения подразделения %d: %w", id, err)
	}
	d.ManagerID = nullableInt(managerID)
	return d, nil
}

// GetAllPositions получает все должности
func (r *CatalogRepository) GetAllPositions() ([]models.Position, error) {
	query := `SELECT id, name FROM positions ORDER BY name`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка должностей: %w", err)
	}
	defer rows.Close()

	positions := []models.Position{}
	for rows.Next() {
		p := models.Position{}
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("ошибка сканирования должности: %w", err)
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения должностей: %w", err)
	}
	return positions, nil
}

// GetPositionByID находит должность по ID. Возвращает (nil, nil), если
// должности нет.
func (r *CatalogRepository) GetPositionByID(id int) (*models.Position, error) {
	query := `SELECT id, name FROM positions WHERE id = ?`

	p := &models.Position{}
	err := r.db.QueryRow(query, id).Scan(&p.ID, &p.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения должности %d: %w", id, err)
	}
	return p, nil
}
