package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-management/internal/models"
)

// fakeDirectory - справочник оргструктуры в памяти для тестов оценщика прав
type fakeDirectory struct {
	// managers[employeeID] -> список руководителей по всей цепочке
	managers map[int][]int
	calls    int
}

func (d *fakeDirectory) IsManagerOf(managerEmployeeID, employeeID int) (bool, error) {
	d.calls++
	for _, m := range d.managers[employeeID] {
		if m == managerEmployeeID {
			return true, nil
		}
	}
	return false, nil
}

func (d *fakeDirectory) RoleOf(userID int) (string, error)     { return models.RoleEmployee, nil }
func (d *fakeDirectory) EmployeeIDOf(userID int) (*int, error) { return nil, nil }

func pendingSelfRequest(requesterID int) *models.EmployeeRequest {
	target := requesterID
	return &models.EmployeeRequest{
		ID:               1,
		RequestType:      models.RequestTypePositionChange,
		RequesterID:      requesterID,
		TargetEmployeeID: &target,
		StatusID:         models.StatusPending,
	}
}

func TestCanApproveAsManager(t *testing.T) {
	dir := &fakeDirectory{managers: map[int][]int{5: {4, 1}}}
	auth := NewAuthorizer(dir)
	req := pendingSelfRequest(5)

	// Непосредственный руководитель и руководитель выше по цепочке
	ok, err := auth.CanApproveAsManager(req, 4)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = auth.CanApproveAsManager(req, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	// Посторонний сотрудник
	ok, err = auth.CanApproveAsManager(req, 9)
	require.NoError(t, err)
	assert.False(t, ok)

	// Сам податель (цель заявки) не согласует собственную заявку
	ok, err = auth.CanApproveAsManager(req, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	// Не из статуса 'На рассмотрении' права нет
	req.StatusID = models.StatusManagerApproved
	ok, err = auth.CanApproveAsManager(req, 4)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanApproveAsManagerSingleLookup(t *testing.T) {
	// Податель совпадает с целью: справочник опрашивается один раз
	dir := &fakeDirectory{managers: map[int][]int{5: {4}}}
	auth := NewAuthorizer(dir)

	ok, err := auth.CanApproveAsManager(pendingSelfRequest(5), 9)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, dir.calls)
}

func TestCanApproveAsHR(t *testing.T) {
	auth := NewAuthorizer(&fakeDirectory{managers: map[int][]int{}})
	req := pendingSelfRequest(5)

	ok, err := auth.CanApproveAsHR(req, 10, models.RoleHR)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = auth.CanApproveAsHR(req, 10, models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, ok)

	// Роль руководителя недостаточна для этапа HR
	ok, err = auth.CanApproveAsHR(req, 10, models.RoleManager)
	require.NoError(t, err)
	assert.False(t, ok)

	// HR не утверждает заявку, целью которой является он сам
	ok, err = auth.CanApproveAsHR(req, 5, models.RoleHR)
	require.NoError(t, err)
	assert.False(t, ok)

	// Терминальный статус
	req.StatusID = models.StatusRejected
	ok, err = auth.CanApproveAsHR(req, 10, models.RoleHR)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanCancel(t *testing.T) {
	auth := NewAuthorizer(&fakeDirectory{managers: map[int][]int{}})
	req := pendingSelfRequest(5)

	ok, err := auth.CanCancel(req, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	// Не податель
	ok, err = auth.CanCancel(req, 4)
	require.NoError(t, err)
	assert.False(t, ok)

	// Терминальный статус нельзя отменить даже подателю
	req.StatusID = models.StatusHRApproved
	ok, err = auth.CanCancel(req, 5)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanView(t *testing.T) {
	dir := &fakeDirectory{managers: map[int][]int{5: {4}}}
	auth := NewAuthorizer(dir)
	req := pendingSelfRequest(5)

	// HR видит все
	ok, err := auth.CanView(req, Actor{UserID: 1, EmployeeID: 99, Role: models.RoleHR})
	require.NoError(t, err)
	assert.True(t, ok)

	// Податель видит свою заявку
	ok, err = auth.CanView(req, Actor{UserID: 2, EmployeeID: 5, Role: models.RoleEmployee})
	require.NoError(t, err)
	assert.True(t, ok)

	// Руководитель видит заявку подчиненного
	ok, err = auth.CanView(req, Actor{UserID: 3, EmployeeID: 4, Role: models.RoleManager})
	require.NoError(t, err)
	assert.True(t, ok)

	// Посторонний сотрудник не видит
	ok, err = auth.CanView(req, Actor{UserID: 4, EmployeeID: 9, Role: models.RoleEmployee})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanCreate(t *testing.T) {
	auth := NewAuthorizer(&fakeDirectory{managers: map[int][]int{}})

	// От собственного имени может любой
	assert.True(t, auth.CanCreate(5, Actor{EmployeeID: 5, Role: models.RoleEmployee}))

	// От чужого имени только HR или администратор
	assert.False(t, auth.CanCreate(5, Actor{EmployeeID: 4, Role: models.RoleManager}))
	assert.True(t, auth.CanCreate(5, Actor{EmployeeID: 10, Role: models.RoleHR}))
	assert.True(t, auth.CanCreate(5, Actor{EmployeeID: 11, Role: models.RoleAdmin}))
}
