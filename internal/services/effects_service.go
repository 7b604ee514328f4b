package services

import (
	"errors"
	"fmt"
	"log"

	"career-management/internal/models"
)

// EffectsEmployeeRepo - методы репозитория сотрудников для применения
// кадровых изменений
type EffectsEmployeeRepo interface {
	GetByID(id int) (*models.Employee, error)
	UpdateEmployee(employeeID int, updateData *models.EmployeeUpdateDTO) error
}

// EffectsCatalogRepo - методы справочников для проверки ссылок заявки
type EffectsCatalogRepo interface {
	GetPositionByID(id int) (*models.Position, error)
	GetDepartmentByID(id int) (*models.Department, error)
}

// EffectsService применяет кадровые изменения утвержденной заявки к карточке
// сотрудника: должность, подразделение, руководителя, оклад. Вызывается
// движком заявок ровно один раз при входе заявки в успешный терминальный
// статус. Ошибка применения не откатывает уже сохраненное утверждение.
type EffectsService struct {
	employeeRepo EffectsEmployeeRepo
	catalogRepo  EffectsCatalogRepo
}

// NewEffectsService создает новый экземпляр EffectsService
func NewEffectsService(employeeRepo EffectsEmployeeRepo, catalogRepo EffectsCatalogRepo) *EffectsService {
	return &EffectsService{
		employeeRepo: employeeRepo,
		catalogRepo:  catalogRepo,
	}
}

// Apply применяет изменения утвержденной заявки к целевому сотруднику
func (s *EffectsService) Apply(req *models.EmployeeRequest) error {
	if req.TargetEmployeeID == nil {
		// Заявка не про конкретного сотрудника, применять нечего
		log.Printf("[Effects] Request %d has no target employee, nothing to apply", req.ID)
		return nil
	}

	employee, err := s.employeeRepo.GetByID(*req.TargetEmployeeID)
	if err != nil {
		return fmt.Errorf("ошибка получения целевого сотрудника %d: %w", *req.TargetEmployeeID, err)
	}
	if employee == nil {
		return fmt.Errorf("целевой сотрудник %d не найден", *req.TargetEmployeeID)
	}

	update := &models.EmployeeUpdateDTO{}
	switch req.RequestType {
	case models.RequestTypePositionChange:
		if req.NewPositionID == nil {
			return errors.New("в заявке на смену должности отсутствует новая должность")
		}
		position, err := s.catalogRepo.GetPositionByID(*req.NewPositionID)
		if err != nil {
			return fmt.Errorf("ошибка проверки должности %d: %w", *req.NewPositionID, err)
		}
		if position == nil {
			return fmt.Errorf("должность %d не найдена", *req.NewPositionID)
		}
		update.PositionID = req.NewPositionID
		update.Salary = req.ProposedSalary
		update.ManagerID = req.NewManagerID
	case models.RequestTypeDepartmentChange:
		if req.NewDepartmentID == nil {
			return errors.New("в заявке на перевод отсутствует новое подразделение")
		}
		department, err := s.catalogRepo.GetDepartmentByID(*req.NewDepartmentID)
		if err != nil {
			return fmt.Errorf("ошибка проверки подразделения %d: %w", *req.NewDepartmentID, err)
		}
		if department == nil {
			return fmt.Errorf("подразделение %d не найдено", *req.NewDepartmentID)
		}
		update.DepartmentID = req.NewDepartmentID
		update.ManagerID = req.NewManagerID
	default:
		return fmt.Errorf("неизвестный тип заявки для применения: %s", req.RequestType)
	}

	if err := s.employeeRepo.UpdateEmployee(employee.ID, update); err != nil {
		return fmt.Errorf("ошибка применения изменений заявки %d к сотруднику %d: %w", req.ID, employee.ID, err)
	}

	log.Printf("[Effects] Applied request %d (%s) to employee %d", req.ID, req.RequestType, employee.ID)
	return nil
}
