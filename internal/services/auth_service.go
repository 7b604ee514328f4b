package services

import (
	"errors"
	"fmt"
	"time"

	"career-management/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthUserRepo - методы репозитория пользователей, нужные аутентификации
type AuthUserRepo interface {
	FindByLogin(login string) (*models.User, error)
	CreateUser(user *models.User) error
}

// AuthService предоставляет методы для аутентификации пользователей
type AuthService struct {
	userRepo  AuthUserRepo
	jwtSecret string
}

// NewAuthService создает новый экземпляр AuthService
func NewAuthService(userRepo AuthUserRepo, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

// Login проверяет учетные данные пользователя и возвращает JWT токен
func (s *AuthService) Login(login, password string) (string, *models.User, error) {
	user, err := s.userRepo.FindByLogin(login)
	if err != nil {
		return "", nil, errors.New("ошибка при поиске пользователя")
	}
	if user == nil {
		return "", nil, errors.New("неверный логин или пароль")
	}

	// Сравниваем хеш пароля из БД с предоставленным паролем
	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		return "", nil, errors.New("неверный логин или пароль")
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"login":   user.Login,
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour * 72).Unix(), // Токен действителен 72 часа
		"iat":     time.Now().Unix(),
	}
	if user.EmployeeID != nil {
		claims["employee_id"] = *user.EmployeeID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, errors.New("внутренняя ошибка сервера при генерации токена")
	}

	// Убираем хеш пароля перед возвратом данных пользователя
	user.Password = ""

	return tokenString, user, nil
}

// Register создает нового пользователя с ролью рядового сотрудника.
// Роли HR/ADMIN назначаются только администратором.
func (s *AuthService) Register(login, password, fullName string, employeeID *int) (*models.User, error) {
	existingUser, err := s.userRepo.FindByLogin(login)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки существующего пользователя: %w", err)
	}
	if existingUser != nil {
		return nil, errors.New("пользователь с таким логином уже существует")
	}

	newUser := &models.User{
		Login:      login,
		Password:   password, // Пароль будет хеширован в репозитории
		FullName:   fullName,
		Role:       models.RoleEmployee,
		EmployeeID: employeeID,
	}

	if err := s.userRepo.CreateUser(newUser); err != nil {
		return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
	}

	// Пароль уже очищен в репозитории после создания
	return newUser, nil
}
