package services

import (
	"fmt"

	"career-management/internal/models"
)

// EmployeeDirectoryRepo - методы репозитория сотрудников, нужные справочнику
type EmployeeDirectoryRepo interface {
	GetByID(id int) (*models.Employee, error)
	GetSubordinateIDs(managerEmployeeID int) ([]int, error)
	IsManagerOf(managerEmployeeID int, employeeID int) (bool, error)
}

// UserDirectoryRepo - методы репозитория пользователей, нужные справочнику
type UserDirectoryRepo interface {
	FindByID(id int) (*models.User, error)
	FindByEmployeeID(employeeID int) (*models.User, error)
}

// DirectoryService - справочник организационной структуры. Реализует
// workflow.Directory для оценщика прав и дает движку заявок доступ к
// цепочкам подчинения и ролям сотрудников.
type DirectoryService struct {
	employeeRepo EmployeeDirectoryRepo
	userRepo     UserDirectoryRepo
}

// NewDirectoryService создает новый экземпляр DirectoryService
func NewDirectoryService(employeeRepo EmployeeDirectoryRepo, userRepo UserDirectoryRepo) *DirectoryService {
	return &DirectoryService{
		employeeRepo: employeeRepo,
		userRepo:     userRepo,
	}
}

// IsManagerOf сообщает, входит ли сотрудник в цепочку подчинения руководителя
func (s *DirectoryService) IsManagerOf(managerEmployeeID int, employeeID int) (bool, error) {
	return s.employeeRepo.IsManagerOf(managerEmployeeID, employeeID)
}

// RoleOf возвращает роль учетной записи пользователя
func (s *DirectoryService) RoleOf(userID int) (string, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return "", fmt.Errorf("ошибка получения пользователя %d: %w", userID, err)
	}
	if user == nil {
		return "", fmt.Errorf("пользователь %d не найден", userID)
	}
	return user.Role, nil
}

// EmployeeIDOf возвращает ID сотрудника, привязанного к учетной записи
// (nil, если привязки нет)
func (s *DirectoryService) EmployeeIDOf(userID int) (*int, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пользователя %d: %w", userID, err)
	}
	if user == nil {
		return nil, fmt.Errorf("пользователь %d не найден", userID)
	}
	return user.EmployeeID, nil
}

// RoleOfEmployee возвращает роль учетной записи, привязанной к сотруднику.
// Если учетной записи нет, сотрудник считается рядовым: начальный статус
// его заявок вычисляется без привилегий.
func (s *DirectoryService) RoleOfEmployee(employeeID int) (string, error) {
	user, err := s.userRepo.FindByEmployeeID(employeeID)
	if err != nil {
		return "", fmt.Errorf("ошибка получения учетной записи сотрудника %d: %w", employeeID, err)
	}
	if user == nil {
		return models.RoleEmployee, nil
	}
	return user.Role, nil
}

// ManagerOf возвращает ID непосредственного руководителя сотрудника
// (nil, если руководителя нет)
func (s *DirectoryService) ManagerOf(employeeID int) (*int, error) {
	emp, err := s.employeeRepo.GetByID(employeeID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения сотрудника %d: %w", employeeID, err)
	}
	if emp == nil {
		return nil, fmt.Errorf("сотрудник %d не найден", employeeID)
	}
	return emp.ManagerID, nil
}

// SubordinateIDsOf возвращает ID всех подчиненных руководителя
func (s *DirectoryService) SubordinateIDsOf(managerEmployeeID int) ([]int, error) {
	return s.employeeRepo.GetSubordinateIDs(managerEmployeeID)
}
