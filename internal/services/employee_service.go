package services

import (
	"errors"
	"fmt"

	"career-management/internal/models"
)

// EmployeeRepositoryInterface определяет методы репозитория сотрудников,
// используемые административными операциями
type EmployeeRepositoryInterface interface {
	GetByID(id int) (*models.Employee, error)
	GetAll() ([]models.Employee, error)
	CreateEmployee(emp *models.Employee) error
	UpdateEmployee(employeeID int, updateData *models.EmployeeUpdateDTO) error
}

// CatalogRepositoryInterface определяет методы справочников подразделений
// и должностей
type CatalogRepositoryInterface interface {
	GetAllDepartments() ([]models.Department, error)
	GetDepartmentByID(id int) (*models.Department, error)
	GetAllPositions() ([]models.Position, error)
	GetPositionByID(id int) (*models.Position, error)
}

// EmployeeService предоставляет операции над кадровыми карточками и
// справочниками. Права (только HR/администратор) проверяются middleware
// на маршрутах.
type EmployeeService struct {
	employeeRepo EmployeeRepositoryInterface
	catalogRepo  CatalogRepositoryInterface
}

// NewEmployeeService создает новый экземпляр EmployeeService
func NewEmployeeService(employeeRepo EmployeeRepositoryInterface, catalogRepo CatalogRepositoryInterface) *EmployeeService {
	return &EmployeeService{
		employeeRepo: employeeRepo,
		catalogRepo:  catalogRepo,
	}
}

// GetAllEmployees получает всех сотрудников
func (s *EmployeeService) GetAllEmployees() ([]models.Employee, error) {
	return s.employeeRepo.GetAll()
}

// GetEmployeeByID получает сотрудника по ID
func (s *EmployeeService) GetEmployeeByID(id int) (*models.Employee, error) {
	emp, err := s.employeeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, errors.New("сотрудник не найден")
	}
	return emp, nil
}

// CreateEmployee создает кадровую карточку, проверяя ссылки на справочники
func (s *EmployeeService) CreateEmployee(emp *models.Employee) error {
	if emp.FullName == "" {
		return errors.New("необходимо указать ФИО сотрудника")
	}
	if err := s.validateReferences(emp.PositionID, emp.DepartmentID, emp.ManagerID); err != nil {
		return err
	}
	return s.employeeRepo.CreateEmployee(emp)
}

// UpdateEmployee обновляет кадровую карточку, проверяя ссылки на справочники
func (s *EmployeeService) UpdateEmployee(employeeID int, updateData *models.EmployeeUpdateDTO) error {
	if updateData == nil {
		return errors.New("данные для обновления не предоставлены")
	}
	if err := s.validateReferences(updateData.PositionID, updateData.DepartmentID, updateData.ManagerID); err != nil {
		return err
	}
	return s.employeeRepo.UpdateEmployee(employeeID, updateData)
}

// validateReferences проверяет, что указанные должность, подразделение и
// руководитель существуют
func (s *EmployeeService) validateReferences(positionID, departmentID, managerID *int) error {
	if positionID != nil {
		position, err := s.catalogRepo.GetPositionByID(*positionID)
		if err != nil {
			return fmt.Errorf("ошибка проверки должности %d: %w", *positionID, err)
		}
		if position == nil {
			return fmt.Errorf("должность %d не найдена", *positionID)
		}
	}
	if departmentID != nil {
		department, err := s.catalogRepo.GetDepartmentByID(*departmentID)
		if err != nil {
			return fmt.Errorf("ошибка проверки подразделения %d: %w", *departmentID, err)
		}
		if department == nil {
			return fmt.Errorf("подразделение %d не найдено", *departmentID)
		}
	}
	if managerID != nil {
		manager, err := s.employeeRepo.GetByID(*managerID)
		if err != nil {
			return fmt.Errorf("ошибка проверки руководителя %d: %w", *managerID, err)
		}
		if manager == nil {
			return fmt.Errorf("руководитель %d не найден", *managerID)
		}
	}
	return nil
}

// GetDepartments получает справочник подразделений
func (s *EmployeeService) GetDepartments() ([]models.Department, error) {
	return s.catalogRepo.GetAllDepartments()
}

// GetPositions получает справочник должностей
func (s *EmployeeService) GetPositions() ([]models.Position, error) {
	return s.catalogRepo.GetAllPositions()
}
