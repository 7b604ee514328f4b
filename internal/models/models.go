package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// --- Роли пользователей ---
const (
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
	RoleHR       = "HR"
	RoleAdmin    = "ADMIN"
)

// CustomDate - обертка над time.Time для единого формата JSON и сканирования из БД
type CustomDate struct {
	time.Time
}

const customDateFormat = time.RFC3339

// UnmarshalJSON implements the json.Unmarshaler interface.
func (cd *CustomDate) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	if s == "null" || s == "" {
		cd.Time = time.Time{} // null или пустая строка трактуются как нулевое время
		return nil
	}
	t, err := time.Parse(customDateFormat, s)
	if err != nil {
		return err
	}
	cd.Time = t
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (cd CustomDate) MarshalJSON() ([]byte, error) {
	if cd.Time.IsZero() {
		return json.Marshal(nil)
	}
	return json.Marshal(cd.Time.Format(customDateFormat))
}

// Value implements the driver.Valuer interface.
func (cd CustomDate) Value() (driver.Value, error) {
	if cd.Time.IsZero() {
		return nil, nil
	}
	return cd.Time, nil
}

// Scan implements the sql.Scanner interface.
func (cd *CustomDate) Scan(value interface{}) error {
	if value == nil {
		cd.Time = time.Time{}
		return nil
	}
	if t, ok := value.(time.Time); ok {
		cd.Time = t
		return nil
	}
	return fmt.Errorf("не удалось сканировать тип %T в CustomDate", value)
}

// User - модель учетной записи пользователя
type User struct {
	ID         int       `json:"id" db:"id"`
	Login      string    `json:"login" db:"login"`
	Password   string    `json:"-" db:"password"`
	FullName   string    `json:"full_name" db:"full_name"`
	Role       string    `json:"role" db:"role"` // 'EMPLOYEE', 'MANAGER', 'HR', 'ADMIN'
	EmployeeID *int      `json:"employee_id,omitempty" db:"employee_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Employee - модель сотрудника (кадровая карточка)
type Employee struct {
	ID           int         `json:"id" db:"id"`
	FullName     string      `json:"full_name" db:"full_name"`
	PositionID   *int        `json:"position_id,omitempty" db:"position_id"`
	PositionName *string     `json:"positionName,omitempty" db:"position_name"`
	DepartmentID *int        `json:"department_id,omitempty" db:"department_id"`
	ManagerID    *int        `json:"manager_id,omitempty" db:"manager_id"` // Непосредственный руководитель
	Salary       *float64    `json:"salary,omitempty" db:"salary"`
	HireDate     *CustomDate `json:"hire_date,omitempty" db:"hire_date"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// EmployeeUpdateDTO - структура для обновления данных сотрудника
type EmployeeUpdateDTO struct {
	FullName     *string  `json:"full_name"` // Указатели, чтобы различать пустое значение и отсутствие поля
	PositionID   *int     `json:"position_id"`
	DepartmentID *int     `json:"department_id"`
	ManagerID    *int     `json:"manager_id"`
	Salary       *float64 `json:"salary"`
}

// Department - модель подразделения
type Department struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	ManagerID *int      `json:"manager_id,omitempty" db:"manager_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Position - модель должности
type Position struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Notification - модель уведомления
type Notification struct {
	ID               int       `json:"id" db:"id"`
	UserID           int       `json:"user_id" db:"user_id"`
	Title            string    `json:"title" db:"title"`
	Message          string    `json:"message" db:"message"`
	RelatedRequestID *int      `json:"related_request_id,omitempty" db:"related_request_id"`
	IsRead           bool      `json:"is_read" db:"is_read"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// UserProfileDTO - DTO для отображения профиля текущего пользователя
type UserProfileDTO struct {
	ID             int     `json:"id"`
	Login          string  `json:"login"`
	FullName       string  `json:"full_name"`
	Role           string  `json:"role"`
	EmployeeID     *int    `json:"employee_id,omitempty"`
	PositionName   *string `json:"positionName,omitempty"`
	DepartmentName *string `json:"departmentName,omitempty"`
	ManagerName    *string `json:"managerName,omitempty"`
}
