package models

import (
	"time"
)

// --- Статусы заявок ---
const (
	StatusPending         = 1 // На рассмотрении
	StatusManagerApproved = 2 // Утверждена руководителем
	StatusHRApproved      = 3 // Утверждена HR
	StatusRejected        = 4 // Отклонена
	StatusAutoApproved    = 5 // Утверждена автоматически
	StatusCancelled       = 6 // Отменена
)

// --- Типы заявок ---
const (
	RequestTypePositionChange   = "POSITION_CHANGE"
	RequestTypeDepartmentChange = "DEPARTMENT_CHANGE"
)

// EmployeeRequest - модель кадровой заявки.
// Все виды заявок хранятся в одной широкой строке: общие поля документооборота
// плюс nullable-поля конкретного типа. Какие поля заполнены, однозначно
// определяется полем RequestType.
type EmployeeRequest struct {
	ID                  int         `json:"id" db:"id"`
	RequestType         string      `json:"request_type" db:"request_type"` // 'POSITION_CHANGE', 'DEPARTMENT_CHANGE'
	RequesterID         int         `json:"requester_id" db:"requester_id"`
	TargetEmployeeID    *int        `json:"target_employee_id,omitempty" db:"target_employee_id"`
	StatusID            int         `json:"status_id" db:"status_id"`
	Notes               string      `json:"notes" db:"notes"`
	RequestDate         time.Time   `json:"request_date" db:"request_date"`
	ApprovedByManagerID *int        `json:"approved_by_manager_id,omitempty" db:"approved_by_manager_id"`
	ApprovedByHRID      *int        `json:"approved_by_hr_id,omitempty" db:"approved_by_hr_id"`
	ManagerApprovalDate *time.Time  `json:"manager_approval_date,omitempty" db:"manager_approval_date"`
	HRApprovalDate      *time.Time  `json:"hr_approval_date,omitempty" db:"hr_approval_date"`
	ProcessedDate       *time.Time  `json:"processed_date,omitempty" db:"processed_date"`
	EffectiveDate       *CustomDate `json:"effective_date,omitempty" db:"effective_date"`
	RejectionReason     *string     `json:"rejection_reason,omitempty" db:"rejection_reason"`

	// Поля заявки на смену должности ('POSITION_CHANGE')
	NewPositionID  *int     `json:"new_position_id,omitempty" db:"new_position_id"`
	ProposedSalary *float64 `json:"proposed_salary,omitempty" db:"proposed_salary"`
	Justification  *string  `json:"justification,omitempty" db:"justification"`

	// Поля заявки на перевод в другое подразделение ('DEPARTMENT_CHANGE')
	NewDepartmentID *int    `json:"new_department_id,omitempty" db:"new_department_id"`
	Reason          *string `json:"reason,omitempty" db:"reason"`

	// Общее для обоих типов: новый руководитель (опционально)
	NewManagerID *int `json:"new_manager_id,omitempty" db:"new_manager_id"`

	// Версия строки для оптимистичной блокировки
	Version int `json:"-" db:"version"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateRequestDTO - входящие данные для создания заявки.
// RequesterID заполняется только HR/администратором при подаче от чужого имени,
// в остальных случаях берется из контекста аутентификации.
type CreateRequestDTO struct {
	RequestType      string      `json:"request_type"`
	RequesterID      *int        `json:"requester_id,omitempty"`
	TargetEmployeeID *int        `json:"target_employee_id,omitempty"`
	Notes            string      `json:"notes"`
	EffectiveDate    *CustomDate `json:"effective_date,omitempty"`

	NewPositionID   *int     `json:"new_position_id,omitempty"`
	ProposedSalary  *float64 `json:"proposed_salary,omitempty"`
	Justification   *string  `json:"justification,omitempty"`
	NewDepartmentID *int     `json:"new_department_id,omitempty"`
	Reason          *string  `json:"reason,omitempty"`
	NewManagerID    *int     `json:"new_manager_id,omitempty"`
}

// IsSelfRequest сообщает, подана ли заявка сотрудником на самого себя
func (r *EmployeeRequest) IsSelfRequest() bool {
	return r.TargetEmployeeID != nil && *r.TargetEmployeeID == r.RequesterID
}

// IsValidForRequestType - финальная проверка заявки перед сохранением:
// обязательные поля конкретного типа должны быть заполнены.
func (r *EmployeeRequest) IsValidForRequestType() bool {
	switch r.RequestType {
	case RequestTypePositionChange:
		return r.NewPositionID != nil
	case RequestTypeDepartmentChange:
		return r.NewDepartmentID != nil
	default:
		// Неизвестные типы отсекаются реестром еще до построения заявки
		return false
	}
}
