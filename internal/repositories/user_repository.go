package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"career-management/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// UserRepository предоставляет методы для работы с учетными записями в БД
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository создает новый экземпляр UserRepository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, login, password, full_name, role, employee_id, created_at, updated_at`

// scanUser сканирует одну строку пользователя
func scanUser(scan func(dest ...interface{}) error) (*models.User, error) {
	user := &models.User{}
	var employeeID sql.NullInt64

	err := scan(
		&user.ID, &user.Login, &user.Password, &user.FullName, &user.Role,
		&employeeID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.EmployeeID = nullableInt(employeeID)
	return user, nil
}

// FindByLogin находит пользователя по логину. Возвращает (nil, nil), если
// пользователь не найден.
func (r *UserRepository) FindByLogin(login string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE login = ?`

	row := r.db.QueryRow(query, login)
	user, err := scanUser(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Пользователь не найден, ошибки нет
		}
		return nil, fmt.Errorf("ошибка при поиске пользователя в БД: %w", err)
	}
	return user, nil
}

// FindByID находит пользователя по ID
func (r *UserRepository) FindByID(id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	row := r.db.QueryRow(query, id)
	user, err := scanUser(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка при поиске пользователя %d в БД: %w", id, err)
	}
	return user, nil
}

// FindByEmployeeID находит учетную запись, привязанную к сотруднику
func (r *UserRepository) FindByEmployeeID(employeeID int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE employee_id = ?`

	row := r.db.QueryRow(query, employeeID)
	user, err := scanUser(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка при поиске учетной записи сотрудника %d: %w", employeeID, err)
	}
	return user, nil
}

// GetUsersByRole получает всех пользователей с указанной ролью
// (используется для адресации уведомлений HR)
func (r *UserRepository) GetUsersByRole(role string) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = ? ORDER BY full_name`

	rows, err := r.db.Query(query, role)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пользователей с ролью %s: %w", role, err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования пользователя: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения пользователей: %w", err)
	}
	return users, nil
}

// CreateUser создает нового пользователя, хешируя пароль
func (r *UserRepository) CreateUser(user *models.User) error {
	// Хешируем пароль перед сохранением с cost = 12
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), 12)
	if err != nil {
		return fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	query := `
		INSERT INTO users (login, password, full_name, role, employee_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`

	result, err := r.db.Exec(query,
		user.Login, string(hashedPassword), user.FullName, user.Role,
		user.EmployeeID, // Может быть nil
	)
	if err != nil {
		// Обработка специфических ошибок БД (например, дубликат login) может быть добавлена здесь
		return fmt.Errorf("ошибка создания пользователя: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("ошибка получения ID нового пользователя: %w", err)
	}
	user.ID = int(id)
	user.Password = "" // Очищаем пароль после сохранения

	return nil
}
