package services

import (
	"errors"
	"fmt"

	"career-management/internal/models"
)

// ProfileUserRepo - методы репозитория пользователей для профиля
type ProfileUserRepo interface {
	FindByID(id int) (*models.User, error)
}

// ProfileEmployeeRepo - методы репозитория сотрудников для профиля
type ProfileEmployeeRepo interface {
	GetByID(id int) (*models.Employee, error)
}

// ProfileCatalogRepo - методы справочников для профиля
type ProfileCatalogRepo interface {
	GetDepartmentByID(id int) (*models.Department, error)
}

// UserService предоставляет операции над учетными записями пользователей
type UserService struct {
	userRepo     ProfileUserRepo
	employeeRepo ProfileEmployeeRepo
	catalogRepo  ProfileCatalogRepo
}

// NewUserService создает новый экземпляр UserService
func NewUserService(userRepo ProfileUserRepo, employeeRepo ProfileEmployeeRepo, catalogRepo ProfileCatalogRepo) *UserService {
	return &UserService{
		userRepo:     userRepo,
		employeeRepo: employeeRepo,
		catalogRepo:  catalogRepo,
	}
}

// GetProfile собирает профиль пользователя: учетную запись, должность,
// подразделение и руководителя из кадровой карточки
func (s *UserService) GetProfile(userID int) (*models.UserProfileDTO, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пользователя %d: %w", userID, err)
	}
	if user == nil {
		return nil, errors.New("пользователь не найден")
	}

	profile := &models.UserProfileDTO{
		ID:         user.ID,
		Login:      user.Login,
		FullName:   user.FullName,
		Role:       user.Role,
		EmployeeID: user.EmployeeID,
	}

	if user.EmployeeID == nil {
		return profile, nil
	}

	employee, err := s.employeeRepo.GetByID(*user.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения кадровой карточки %d: %w", *user.EmployeeID, err)
	}
	if employee == nil {
		// Учетная запись ссылается на несуществующую карточку; профиль
		// возвращаем без кадровых данных
		return profile, nil
	}

	profile.PositionName = employee.PositionName
	if employee.DepartmentID != nil {
		department, err := s.catalogRepo.GetDepartmentByID(*employee.DepartmentID)
		if err == nil && department != nil {
			profile.DepartmentName = &department.Name
		}
	}
	if employee.ManagerID != nil {
		manager, err := s.employeeRepo.GetByID(*employee.ManagerID)
		if err == nil && manager != nil {
			profile.ManagerName = &manager.FullName
		}
	}

	return profile, nil
}
