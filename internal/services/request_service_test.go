package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-management/internal/models"
	"career-management/internal/repositories"
	"career-management/internal/workflow"
)

// --- Фейки коллабораторов движка ---

// fakeRequestRepo - хранилище заявок в памяти с оптимистичной блокировкой,
// повторяющей поведение SQL-репозитория (UPDATE ... WHERE version = ?)
type fakeRequestRepo struct {
	nextID   int
	requests map[int]models.EmployeeRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{nextID: 1, requests: map[int]models.EmployeeRequest{}}
}

func (r *fakeRequestRepo) CreateRequest(req *models.EmployeeRequest) error {
	req.ID = r.nextID
	r.nextID++
	req.Version = 1
	r.requests[req.ID] = *req
	return nil
}

func (r *fakeRequestRepo) GetRequestByID(requestID int) (*models.EmployeeRequest, error) {
	req, ok := r.requests[requestID]
	if !ok {
		return nil, nil
	}
	copied := req
	return &copied, nil
}

func (r *fakeRequestRepo) UpdateRequest(req *models.EmployeeRequest) error {
	stored, ok := r.requests[req.ID]
	if !ok || stored.Version != req.Version {
		return repositories.ErrVersionConflict
	}
	req.Version++
	r.requests[req.ID] = *req
	return nil
}

func (r *fakeRequestRepo) GetRequestsByRequester(employeeID int) ([]models.EmployeeRequest, error) {
	result := []models.EmployeeRequest{}
	for _, req := range r.requests {
		if req.RequesterID == employeeID {
			result = append(result, req)
		}
	}
	return result, nil
}

func (r *fakeRequestRepo) GetPendingForHR() ([]models.EmployeeRequest, error) {
	result := []models.EmployeeRequest{}
	for _, req := range r.requests {
		if req.StatusID == models.StatusPending || req.StatusID == models.StatusManagerApproved {
			result = append(result, req)
		}
	}
	return result, nil
}

func (r *fakeRequestRepo) GetPendingForManager(subordinateIDs []int) ([]models.EmployeeRequest, error) {
	ids := map[int]bool{}
	for _, id := range subordinateIDs {
		ids[id] = true
	}
	result := []models.EmployeeRequest{}
	for _, req := range r.requests {
		if req.StatusID != models.StatusPending {
			continue
		}
		if ids[req.RequesterID] || (req.TargetEmployeeID != nil && ids[*req.TargetEmployeeID]) {
			result = append(result, req)
		}
	}
	return result, nil
}

// fakeEngineDirectory - оргструктура в памяти
type fakeEngineDirectory struct {
	// manager[employeeID] -> непосредственный руководитель
	manager map[int]int
	// roles[employeeID] -> роль учетной записи сотрудника
	roles map[int]string
}

func (d *fakeEngineDirectory) IsManagerOf(managerEmployeeID, employeeID int) (bool, error) {
	seen := map[int]bool{}
	for cur, ok := d.manager[employeeID]; ok; cur, ok = d.manager[cur] {
		if seen[cur] {
			break
		}
		seen[cur] = true
		if cur == managerEmployeeID {
			return true, nil
		}
	}
	return false, nil
}

func (d *fakeEngineDirectory) RoleOf(userID int) (string, error)     { return models.RoleEmployee, nil }
func (d *fakeEngineDirectory) EmployeeIDOf(userID int) (*int, error) { return nil, nil }

func (d *fakeEngineDirectory) RoleOfEmployee(employeeID int) (string, error) {
	if role, ok := d.roles[employeeID]; ok {
		return role, nil
	}
	return models.RoleEmployee, nil
}

func (d *fakeEngineDirectory) ManagerOf(employeeID int) (*int, error) {
	if m, ok := d.manager[employeeID]; ok {
		return &m, nil
	}
	return nil, nil
}

func (d *fakeEngineDirectory) SubordinateIDsOf(managerEmployeeID int) ([]int, error) {
	result := []int{}
	for emp := range d.manager {
		ok, _ := d.IsManagerOf(managerEmployeeID, emp)
		if ok {
			result = append(result, emp)
		}
	}
	return result, nil
}

// fakeNotifier запоминает отправленные уведомления
type fakeNotifier struct {
	employeeNotes []string
	roleNotes     []string
}

func (n *fakeNotifier) NotifyEmployee(employeeID int, title, message string, relatedRequestID *int) {
	n.employeeNotes = append(n.employeeNotes, fmt.Sprintf("%d:%s", employeeID, title))
}

func (n *fakeNotifier) NotifyRole(role string, title, message string, relatedRequestID *int) {
	n.roleNotes = append(n.roleNotes, fmt.Sprintf("%s:%s", role, title))
}

// fakeEffects считает применения кадровых изменений
type fakeEffects struct {
	applied []int
	fail    bool
}

func (e *fakeEffects) Apply(req *models.EmployeeRequest) error {
	e.applied = append(e.applied, req.ID)
	if e.fail {
		return fmt.Errorf("справочная ошибка")
	}
	return nil
}

// --- Тестовая оргструктура ---
//
//	1 (директор)
//	└── 4 (руководитель, MANAGER)
//	    ├── 5 (сотрудник)
//	    └── 6 (сотрудник)
//	10 - HR (без руководителя)
func newEngine() (*RequestService, *fakeRequestRepo, *fakeNotifier, *fakeEffects) {
	repo := newFakeRequestRepo()
	dir := &fakeEngineDirectory{
		manager: map[int]int{4: 1, 5: 4, 6: 4},
		roles:   map[int]string{1: models.RoleManager, 4: models.RoleManager, 10: models.RoleHR},
	}
	notifier := &fakeNotifier{}
	effects := &fakeEffects{}
	return NewRequestService(repo, dir, notifier, effects), repo, notifier, effects
}

var (
	employeeActor = workflow.Actor{UserID: 105, EmployeeID: 5, Role: models.RoleEmployee}
	managerActor  = workflow.Actor{UserID: 104, EmployeeID: 4, Role: models.RoleManager}
	hrActor       = workflow.Actor{UserID: 110, EmployeeID: 10, Role: models.RoleHR}
)

func positionChangeDTO(targetID int) *models.CreateRequestDTO {
	posID := 3
	salary := 120000.0
	return &models.CreateRequestDTO{
		RequestType:      models.RequestTypePositionChange,
		TargetEmployeeID: &targetID,
		NewPositionID:    &posID,
		ProposedSalary:   &salary,
	}
}

func TestCreateSelfRequestStartsPending(t *testing.T) {
	svc, _, notifier, effects := newEngine()

	req, err := svc.CreateRequest(positionChangeDTO(5), employeeActor)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, req.StatusID)
	assert.Nil(t, req.ApprovedByManagerID)
	assert.Empty(t, effects.applied)
	// Уведомлен непосредственный руководитель
	require.Len(t, notifier.employeeNotes, 1)
	assert.Contains(t, notifier.employeeNotes[0], "4:")
}

func TestManagerCreatesForSubordinate(t *testing.T) {
	svc, _, notifier, _ := newEngine()

	req, err := svc.CreateRequest(positionChangeDTO(5), managerActor)
	require.NoError(t, err)
	// Этап руководителя пройден самим фактом подачи
	assert.Equal(t, models.StatusManagerApproved, req.StatusID)
	require.NotNil(t, req.ApprovedByManagerID)
	assert.Equal(t, 4, *req.ApprovedByManagerID)
	assert.NotNil(t, req.ManagerApprovalDate)
	// Заявка ушла на этап HR
	require.NotEmpty(t, notifier.roleNotes)
	assert.Contains(t, notifier.roleNotes[0], models.RoleHR)
}

func TestManagerSelfRequestDoesNotSkipStages(t *testing.T) {
	svc, _, _, _ := newEngine()

	actor := workflow.Actor{UserID: 104, EmployeeID: 4, Role: models.RoleManager}
	req, err := svc.CreateRequest(positionChangeDTO(4), actor)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, req.StatusID)
	assert.Nil(t, req.ApprovedByManagerID)
}

func TestHRCreateAutoApprovesAndAppliesEffects(t *testing.T) {
	svc, _, _, effects := newEngine()

	req, err := svc.CreateRequest(positionChangeDTO(5), hrActor)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAutoApproved, req.StatusID)
	require.NotNil(t, req.ApprovedByHRID)
	assert.Equal(t, 10, *req.ApprovedByHRID)
	assert.NotNil(t, req.ProcessedDate)
	// Кадровые изменения применены ровно один раз
	assert.Equal(t, []int{req.ID}, effects.applied)
}

func TestHRCreateOnBehalfUsesRequesterRole(t *testing.T) {
	svc, _, _, _ := newEngine()

	// HR подает от имени сотрудника 5 на него самого: привилегии HR
	// не наследуются, заявка на себя идет обычным маршрутом
	dto := positionChangeDTO(5)
	requesterID := 5
	dto.RequesterID = &requesterID

	req, err := svc.CreateRequest(dto, hrActor)
	require.NoError(t, err)
	assert.Equal(t, 5, req.RequesterID)
	assert.Equal(t, models.StatusPending, req.StatusID)
}

func TestCreateOnBehalfForbiddenForEmployee(t *testing.T) {
	svc, _, _, _ := newEngine()

	dto := positionChangeDTO(6)
	requesterID := 6
	dto.RequesterID = &requesterID

	_, err := svc.CreateRequest(dto, employeeActor)
	assert.ErrorIs(t, err, workflow.ErrForbidden)
}

func TestFullApprovalFlow(t *testing.T) {
	svc, _, _, effects := newEngine()

	req, err := svc.CreateRequest(positionChangeDTO(5), employeeActor)
	require.NoError(t, err)

	// Этап руководителя
	req, err = svc.Approve(req.ID, managerActor, ApproveAsManager, "не возражаю")
	require.NoError(t, err)
	assert.Equal(t, models.StatusManagerApproved, req.StatusID)
	require.NotNil(t, req.ApprovedByManagerID)
	assert.Equal(t, 4, *req.ApprovedByManagerID)
	assert.Empty(t, effects.applied)

	// Этап HR
	req, err = svc.Approve(req.ID, hrActor, ApproveAsHR, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusHRApproved, req.StatusID)
	require.NotNil(t, req.ApprovedByHRID)
	assert.NotNil(t, req.ProcessedDate)
	assert.Equal(t, []int{req.ID}, effects.applied)
}

func TestHRFastTrackFromPending(t *testing.T) {
	svc, _, _, _ := newEngine()

	req, err := svc.CreateRequest(positionChangeDTO(5), employeeActor)
	require.NoError(t, err)

	// HR утверждает до решения руководителя
	req, err = svc.Approve(req.ID, hrActor, ApproveAsHR, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusHRApproved, req.StatusID)
	// Отметка руководителя не проставлена
	assert.Nil(t, req.ApprovedByManagerID)
}

func TestSelfApproveForbidden(t *testing.T) {
	svc, _, _, _ := newEngine()

	// Руководитель подал заявку на себя и пытается сам же ее согласовать
	req, err := svc.CreateRequest(positionChangeDTO(4), managerActor)
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, req.StatusID)

	_, err = svc.Approve(req.ID, managerActor, ApproveAsManager, "")
	assert.ErrorIs(t, err, workflow.ErrForbidden)
	assert.NotErrorIs(t, err, workflow.ErrInvalidTransition)
}

func TestApproveAsManagerAfterManagerStage(t *testing.T) {
	svc, _, _, _ := newEngine()

	req, err := svc.CreateRequest(positionChangeDTO(5), employeeActor)
	require.NoError(t, err)
	_, err = svc.Approve(req.ID, managerActor, ApproveAsManager, "")
	require.NoError(t, err)

	// Повторное согласование руководителем - ошибка перехода, а не прав,
	// даже для сотрудника без права согласования
	_, err = svc.Approve(req.ID, employeeActor, ApproveAsManager, "")
	assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
	assert.NotErrorIs(t, err, workflow.ErrForbidden)
}

func TestRejectRequiresReason(t *testing.T) {
	svc, _, _, _ := newEngine()

	req, err := svc.CreateRequest(positionChangeDTO(5), employeeActor)
	require.NoError(t, err)

	_, err = svc.Reject(req.ID, managerActor, "   ")
	assert.ErrorIs(t, err, workflow.ErrValidation)

	rejected, err := svc.Reject(req.ID, managerActor, "нет вакансии")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.StatusID)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "нет вакансии", *rejected.RejectionReason)
	assert.NotNil(t, rejected.ProcessedDate)
}

func TestRejectTerminalRequest(t *testing.T) {
	svc, _, _, effects := newEngine()

	req, err := svc.CreateRequest(positionChangeDTO(5), employeeActor)
	require.NoError(t, err)
	_, err = svc.Approve(req.ID, hrActor, ApproveAsHR, "")
	require.NoError(t, err)

	_, err = svc.Reject(req.ID, hrActor, "передумали")
	assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
	// Уже примененные изменения не трогаем
	assert.Len(t, effects.applied, 1)
}

func TestCancelOnlyByRequester(t *testing.T) {
	svc, _, _, _ := newEngine()

	req, err := svc.CreateRequest(positionChangeDTO(5), employeeActor)
	require.NoError(t, err)

	_, err = svc.Cancel(req.ID, managerActor)
	assert.ErrorIs(t, err, workflow.ErrForbidden)

	cancelled, err := svc.Cancel(req.ID, employeeActor)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.StatusID)

	// Терминальную заявку уже не отменить повторно
	_, err = svc.Cancel(req.ID, employeeActor)
	assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
}

func TestCreateWithoutTargetEmployee(t *testing.T) {
	svc, _, _, effects := newEngine()

	// Заявка без целевого сотрудника допустима: обязательные поля типа
	// не включают цель
	dto := positionChangeDTO(5)
	dto.TargetEmployeeID = nil

	req, err := svc.CreateRequest(dto, employeeActor)
	require.NoError(t, err)
	assert.Nil(t, req.TargetEmployeeID)
	assert.Equal(t, models.StatusPending, req.StatusID)

	// Автоматическое утверждение такой заявки тоже проходит: применение
	// изменений без цели - no-op, а не ошибка
	dto = positionChangeDTO(5)
	dto.TargetEmployeeID = nil
	req, err = svc.CreateRequest(dto, hrActor)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAutoApproved, req.StatusID)
	assert.Contains(t, effects.applied, req.ID)
}

func TestConcurrentApprovalLosesOnVersion(t *testing.T) {
	svc, repo, _, effects := newEngine()

	req, err := svc.CreateRequest(positionChangeDTO(5), employeeActor)
	require.NoError(t, err)

	// Две загрузки одной версии: побеждает первый сохранивший
	stale, err := repo.GetRequestByID(req.ID)
	require.NoError(t, err)

	_, err = svc.Approve(req.ID, hrActor, ApproveAsHR, "")
	require.NoError(t, err)

	// Проигравший пытается сохранить переход поверх устаревшей версии
	err = repo.UpdateRequest(stale)
	assert.ErrorIs(t, err, repositories.ErrVersionConflict)

	// Изменения применены один раз
	assert.Len(t, effects.applied, 1)
}

// staleRequestRepo имитирует проигрыш оптимистичной блокировки: любое
// сохранение отвечает конфликтом версии
type staleRequestRepo struct {
	*fakeRequestRepo
}

func (r *staleRequestRepo) UpdateRequest(req *models.EmployeeRequest) error {
	return repositories.ErrVersionConflict
}

func TestApproveMapsVersionConflict(t *testing.T) {
	repo := newFakeRequestRepo()
	dir := &fakeEngineDirectory{
		manager: map[int]int{4: 1, 5: 4, 6: 4},
		roles:   map[int]string{4: models.RoleManager, 10: models.RoleHR},
	}
	svc := NewRequestService(&staleRequestRepo{repo}, dir, &fakeNotifier{}, &fakeEffects{})

	// Создание пишет напрямую в базовый репозиторий, конфликтует только UPDATE
	req, err := workflowCreate(repo)
	require.NoError(t, err)

	_, err = svc.Approve(req.ID, hrActor, ApproveAsHR, "")
	assert.ErrorIs(t, err, workflow.ErrConflict)
	assert.NotErrorIs(t, err, workflow.ErrInvalidTransition)
}

// workflowCreate кладет в репозиторий заявку сотрудника 5 на себя в статусе
// 'На рассмотрении'
func workflowCreate(repo *fakeRequestRepo) (*models.EmployeeRequest, error) {
	target := 5
	req := &models.EmployeeRequest{
		RequestType:      models.RequestTypePositionChange,
		RequesterID:      5,
		TargetEmployeeID: &target,
		StatusID:         models.StatusPending,
	}
	if err := repo.CreateRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

func TestApproverWithoutEmployeeCard(t *testing.T) {
	svc, _, _, _ := newEngine()

	req, err := svc.CreateRequest(positionChangeDTO(5), employeeActor)
	require.NoError(t, err)

	// Учетная запись HR без кадровой карточки не оставляет отметок
	detachedHR := workflow.Actor{UserID: 120, EmployeeID: 0, Role: models.RoleHR}
	_, err = svc.Approve(req.ID, detachedHR, ApproveAsHR, "")
	assert.ErrorIs(t, err, workflow.ErrForbidden)

	_, err = svc.Reject(req.ID, detachedHR, "не согласовано")
	assert.ErrorIs(t, err, workflow.ErrForbidden)

	// Заявка не изменилась
	stored, err := svc.GetByID(req.ID, hrActor)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.StatusID)
	assert.Nil(t, stored.ApprovedByHRID)
}

func TestEffectsFailureDoesNotRollBackApproval(t *testing.T) {
	svc, repo, _, effects := newEngine()
	effects.fail = true

	req, err := svc.CreateRequest(positionChangeDTO(5), employeeActor)
	require.NoError(t, err)
	approved, err := svc.Approve(req.ID, hrActor, ApproveAsHR, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusHRApproved, approved.StatusID)

	stored, err := repo.GetRequestByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusHRApproved, stored.StatusID)
}

func TestGetByIDEnforcesView(t *testing.T) {
	svc, _, _, _ := newEngine()

	req, err := svc.CreateRequest(positionChangeDTO(5), employeeActor)
	require.NoError(t, err)

	// Посторонний сотрудник
	outsider := workflow.Actor{UserID: 106, EmployeeID: 6, Role: models.RoleEmployee}
	_, err = svc.GetByID(req.ID, outsider)
	assert.ErrorIs(t, err, workflow.ErrForbidden)

	_, err = svc.GetByID(req.ID, employeeActor)
	assert.NoError(t, err)

	_, err = svc.GetByID(999, hrActor)
	assert.ErrorIs(t, err, workflow.ErrNotFound)
}

func TestListPendingFor(t *testing.T) {
	svc, _, _, _ := newEngine()

	_, err := svc.CreateRequest(positionChangeDTO(5), employeeActor)
	require.NoError(t, err)
	other := workflow.Actor{UserID: 106, EmployeeID: 6, Role: models.RoleEmployee}
	_, err = svc.CreateRequest(positionChangeDTO(6), other)
	require.NoError(t, err)

	// Руководитель видит заявки своих подчиненных
	pending, err := svc.ListPendingFor(managerActor)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	// HR видит все незавершенные
	pending, err = svc.ListPendingFor(hrActor)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	// Обычный сотрудник ничего не согласует
	pending, err = svc.ListPendingFor(employeeActor)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestUnknownApproveRole(t *testing.T) {
	svc, _, _, _ := newEngine()

	req, err := svc.CreateRequest(positionChangeDTO(5), employeeActor)
	require.NoError(t, err)

	_, err = svc.Approve(req.ID, hrActor, "DIRECTOR", "")
	assert.ErrorIs(t, err, workflow.ErrValidation)
}
