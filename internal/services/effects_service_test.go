package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-management/internal/models"
)

type fakeEffectsEmployeeRepo struct {
	employees map[int]models.Employee
	updates   map[int]*models.EmployeeUpdateDTO
}

func (r *fakeEffectsEmployeeRepo) GetByID(id int) (*models.Employee, error) {
	emp, ok := r.employees[id]
	if !ok {
		return nil, nil
	}
	return &emp, nil
}

func (r *fakeEffectsEmployeeRepo) UpdateEmployee(employeeID int, updateData *models.EmployeeUpdateDTO) error {
	if r.updates == nil {
		r.updates = map[int]*models.EmployeeUpdateDTO{}
	}
	r.updates[employeeID] = updateData
	return nil
}

type fakeCatalogRepo struct {
	positions   map[int]models.Position
	departments map[int]models.Department
}

func (r *fakeCatalogRepo) GetPositionByID(id int) (*models.Position, error) {
	p, ok := r.positions[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *fakeCatalogRepo) GetDepartmentByID(id int) (*models.Department, error) {
	d, ok := r.departments[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func newEffectsFixture() (*EffectsService, *fakeEffectsEmployeeRepo) {
	empRepo := &fakeEffectsEmployeeRepo{
		employees: map[int]models.Employee{5: {ID: 5, FullName: "Иванов Иван"}},
	}
	catRepo := &fakeCatalogRepo{
		positions:   map[int]models.Position{3: {ID: 3, Name: "Старший инженер"}},
		departments: map[int]models.Department{2: {ID: 2, Name: "Отдел разработки"}},
	}
	return NewEffectsService(empRepo, catRepo), empRepo
}

func TestApplyPositionChange(t *testing.T) {
	svc, empRepo := newEffectsFixture()

	target, posID := 5, 3
	salary := 150000.0
	req := &models.EmployeeRequest{
		ID:               1,
		RequestType:      models.RequestTypePositionChange,
		TargetEmployeeID: &target,
		NewPositionID:    &posID,
		ProposedSalary:   &salary,
	}

	require.NoError(t, svc.Apply(req))
	update := empRepo.updates[5]
	require.NotNil(t, update)
	assert.Equal(t, &posID, update.PositionID)
	assert.Equal(t, &salary, update.Salary)
	assert.Nil(t, update.DepartmentID)
}

func TestApplyDepartmentChange(t *testing.T) {
	svc, empRepo := newEffectsFixture()

	target, depID, managerID := 5, 2, 4
	req := &models.EmployeeRequest{
		ID:               2,
		RequestType:      models.RequestTypeDepartmentChange,
		TargetEmployeeID: &target,
		NewDepartmentID:  &depID,
		NewManagerID:     &managerID,
	}

	require.NoError(t, svc.Apply(req))
	update := empRepo.updates[5]
	require.NotNil(t, update)
	assert.Equal(t, &depID, update.DepartmentID)
	assert.Equal(t, &managerID, update.ManagerID)
	assert.Nil(t, update.PositionID)
}

func TestApplyUnknownReferences(t *testing.T) {
	svc, empRepo := newEffectsFixture()

	// Несуществующая должность
	target, posID := 5, 999
	err := svc.Apply(&models.EmployeeRequest{
		ID:               3,
		RequestType:      models.RequestTypePositionChange,
		TargetEmployeeID: &target,
		NewPositionID:    &posID,
	})
	assert.Error(t, err)
	assert.Empty(t, empRepo.updates)

	// Несуществующий сотрудник
	missing, okPos := 999, 3
	err = svc.Apply(&models.EmployeeRequest{
		ID:               4,
		RequestType:      models.RequestTypePositionChange,
		TargetEmployeeID: &missing,
		NewPositionID:    &okPos,
	})
	assert.Error(t, err)
}

func TestApplyWithoutTarget(t *testing.T) {
	svc, empRepo := newEffectsFixture()

	posID := 3
	err := svc.Apply(&models.EmployeeRequest{
		ID:            5,
		RequestType:   models.RequestTypePositionChange,
		NewPositionID: &posID,
	})
	assert.NoError(t, err)
	assert.Empty(t, empRepo.updates)
}
