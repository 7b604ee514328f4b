package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"career-management/internal/models"
)

// ErrVersionConflict возвращается, когда UPDATE по версии не затронул ни одной
// строки: заявку успела изменить параллельная операция.
var ErrVersionConflict = errors.New("версия заявки устарела")

// statusIDToNameMap - вспомогательная карта для получения имени статуса по ID
var statusIDToNameMap = map[int]string{
	models.StatusPending:         "На рассмотрении",
	models.StatusManagerApproved: "Утверждена руководителем",
	models.StatusHRApproved:      "Утверждена HR",
	models.StatusRejected:        "Отклонена",
	models.StatusAutoApproved:    "Утверждена автоматически",
	models.StatusCancelled:       "Отменена",
}

// StatusName возвращает человекочитаемое имя статуса заявки
func StatusName(statusID int) string {
	if name, ok := statusIDToNameMap[statusID]; ok {
		return name
	}
	return fmt.Sprintf("статус %d", statusID)
}

// RequestRepository предоставляет методы для работы с кадровыми заявками в БД.
// Все типы заявок хранятся в одной широкой таблице employee_requests с
// nullable-колонками для полей конкретных типов.
type RequestRepository struct {
	db *sql.DB
}

// NewRequestRepository создает новый экземпляр RequestRepository
func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// requestColumns - единый список колонок для выборки заявки
const requestColumns = `
	id, request_type, requester_id, target_employee_id, status_id, notes,
	request_date, approved_by_manager_id, approved_by_hr_id,
	manager_approval_date, hr_approval_date, processed_date, effective_date,
	rejection_reason, new_position_id, proposed_salary, justification,
	new_department_id, reason, new_manager_id, version, created_at, updated_at`

// scanRequest сканирует одну строку заявки из *sql.Row или *sql.Rows
func scanRequest(scan func(dest ...interface{}) error) (*models.EmployeeRequest, error) {
	req := &models.EmployeeRequest{}
	var (
		targetEmployeeID    sql.NullInt64
		approvedByManagerID sql.NullInt64
		approvedByHRID      sql.NullInt64
		managerApprovalDate sql.NullTime
		hrApprovalDate      sql.NullTime
		processedDate       sql.NullTime
		effectiveDate       sql.NullTime
		rejectionReason     sql.NullString
		newPositionID       sql.NullInt64
		proposedSalary      sql.NullFloat64
		justification       sql.NullString
		newDepartmentID     sql.NullInt64
		reason              sql.NullString
		newManagerID        sql.NullInt64
	)

	err := scan(
		&req.ID, &req.RequestType, &req.RequesterID, &targetEmployeeID, &req.StatusID, &req.Notes,
		&req.RequestDate, &approvedByManagerID, &approvedByHRID,
		&managerApprovalDate, &hrApprovalDate, &processedDate, &effectiveDate,
		&rejectionReason, &newPositionID, &proposedSalary, &justification,
		&newDepartmentID, &reason, &newManagerID, &req.Version, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	req.TargetEmployeeID = nullableInt(targetEmployeeID)
	req.ApprovedByManagerID = nullableInt(approvedByManagerID)
	req.ApprovedByHRID = nullableInt(approvedByHRID)
	req.NewPositionID = nullableInt(newPositionID)
	req.NewDepartmentID = nullableInt(newDepartmentID)
	req.NewManagerID = nullableInt(newManagerID)
	if managerApprovalDate.Valid {
		req.ManagerApprovalDate = &managerApprovalDate.Time
	}
	if hrApprovalDate.Valid {
		req.HRApprovalDate = &hrApprovalDate.Time
	}
	if processedDate.Valid {
		req.ProcessedDate = &processedDate.Time
	}
	if effectiveDate.Valid {
		req.EffectiveDate = &models.CustomDate{Time: effectiveDate.Time}
	}
	if rejectionReason.Valid {
		req.RejectionReason = &rejectionReason.String
	}
	if proposedSalary.Valid {
		req.ProposedSalary = &proposedSalary.Float64
	}
	if justification.Valid {
		req.Justification = &justification.String
	}
	if reason.Valid {
		req.Reason = &reason.String
	}

	return req, nil
}

// CreateRequest сохраняет новую заявку и проставляет ей ID и начальную версию
func (r *RequestRepository) CreateRequest(req *models.EmployeeRequest) error {
	query := `
		INSERT INTO employee_requests (
			request_type, requester_id, target_employee_id, status_id, notes,
			request_date, approved_by_manager_id, approved_by_hr_id,
			manager_approval_date, hr_approval_date, processed_date, effective_date,
			rejection_reason, new_position_id, proposed_salary, justification,
			new_department_id, reason, new_manager_id, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`

	result, err := r.db.Exec(query,
		req.RequestType, req.RequesterID, req.TargetEmployeeID, req.StatusID, req.Notes,
		req.RequestDate, req.ApprovedByManagerID, req.ApprovedByHRID,
		req.ManagerApprovalDate, req.HRApprovalDate, req.ProcessedDate, req.EffectiveDate,
		req.RejectionReason, req.NewPositionID, req.ProposedSalary, req.Justification,
		req.NewDepartmentID, req.Reason, req.NewManagerID,
	)
	if err != nil {
		return fmt.Errorf("ошибка сохранения заявки: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("ошибка получения ID сохраненной заявки: %w", err)
	}
	req.ID = int(id)
	req.Version = 1
	return nil
}

// GetRequestByID получает заявку по ID. Возвращает (nil, nil), если заявки нет.
func (r *RequestRepository) GetRequestByID(requestID int) (*models.EmployeeRequest, error) {
	query := `SELECT` + requestColumns + ` FROM employee_requests WHERE id = ?`

	row := r.db.QueryRow(query, requestID)
	req, err := scanRequest(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения заявки %d из БД: %w", requestID, err)
	}
	return req, nil
}

// UpdateRequest сохраняет измененную заявку с проверкой версии (оптимистичная
// блокировка). Если строка с ожидаемой версией не найдена, возвращает
// ErrVersionConflict: заявку успела изменить параллельная операция.
func (r *RequestRepository) UpdateRequest(req *models.EmployeeRequest) error {
	query := `
		UPDATE employee_requests SET
			status_id = ?, notes = ?,
			approved_by_manager_id = ?, approved_by_hr_id = ?,
			manager_approval_date = ?, hr_approval_date = ?, processed_date = ?,
			rejection_reason = ?,
			version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND version = ?`

	result, err := r.db.Exec(query,
		req.StatusID, req.Notes,
		req.ApprovedByManagerID, req.ApprovedByHRID,
		req.ManagerApprovalDate, req.HRApprovalDate, req.ProcessedDate,
		req.RejectionReason,
		req.ID, req.Version,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления заявки %d: %w", req.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка получения количества обновленных строк для заявки %d: %w", req.ID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("заявка %d (версия %d): %w", req.ID, req.Version, ErrVersionConflict)
	}
	req.Version++
	return nil
}

// GetRequestsByRequester получает все заявки, поданные сотрудником
func (r *RequestRepository) GetRequestsByRequester(employeeID int) ([]models.EmployeeRequest, error) {
	query := `SELECT` + requestColumns + ` FROM employee_requests WHERE requester_id = ? ORDER BY request_date DESC`

	rows, err := r.db.Query(query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения заявок сотрудника %d: %w", employeeID, err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

// GetPendingForHR получает все заявки, ожидающие решения HR: на рассмотрении
// или уже согласованные руководителем
func (r *RequestRepository) GetPendingForHR() ([]models.EmployeeRequest, error) {
	query := `SELECT` + requestColumns + `
		FROM employee_requests
		WHERE status_id IN (?, ?)
		ORDER BY request_date`

	rows, err := r.db.Query(query, models.StatusPending, models.StatusManagerApproved)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения заявок для HR: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

// GetPendingForManager получает заявки на рассмотрении, в которых целью или
// подателем является один из подчиненных сотрудников
func (r *RequestRepository) GetPendingForManager(subordinateIDs []int) ([]models.EmployeeRequest, error) {
	if len(subordinateIDs) == 0 {
		return []models.EmployeeRequest{}, nil
	}

	placeholders := sqlRepeatParams(len(subordinateIDs))
	query := `SELECT` + requestColumns + `
		FROM employee_requests
		WHERE status_id = ?
		  AND (target_employee_id IN (` + placeholders + `) OR requester_id IN (` + placeholders + `))
		ORDER BY request_date`

	args := make([]interface{}, 0, 1+2*len(subordinateIDs))
	args = append(args, models.StatusPending)
	for _, id := range subordinateIDs {
		args = append(args, id)
	}
	for _, id := range subordinateIDs {
		args = append(args, id)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения заявок для руководителя: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

// collectRequests вычитывает все строки результата в срез заявок
func collectRequests(rows *sql.Rows) ([]models.EmployeeRequest, error) {
	requests := []models.EmployeeRequest{}
	for rows.Next() {
		req, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования заявки: %w", err)
		}
		requests = append(requests, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения заявок: %w", err)
	}
	return requests, nil
}

// nullableInt преобразует sql.NullInt64 в указатель на int
func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

// sqlRepeatParams возвращает строку вида "?, ?, ?" для IN-условий
func sqlRepeatParams(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", count), ", ")
}
