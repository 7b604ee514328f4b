package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"career-management/internal/models"
	"career-management/internal/repositories"
	"career-management/internal/workflow"
)

// Роли согласования для операции Approve
const (
	ApproveAsManager = "MANAGER"
	ApproveAsHR      = "HR"
)

// RequestRepositoryInterface определяет методы для работы с данными заявок
type RequestRepositoryInterface interface {
	CreateRequest(req *models.EmployeeRequest) error
	GetRequestByID(requestID int) (*models.EmployeeRequest, error)
	UpdateRequest(req *models.EmployeeRequest) error
	GetRequestsByRequester(employeeID int) ([]models.EmployeeRequest, error)
	GetPendingForHR() ([]models.EmployeeRequest, error)
	GetPendingForManager(subordinateIDs []int) ([]models.EmployeeRequest, error)
}

// RequestDirectoryInterface - справочник организационной структуры,
// используемый движком заявок
type RequestDirectoryInterface interface {
	workflow.Directory
	RoleOfEmployee(employeeID int) (string, error)
	ManagerOf(employeeID int) (*int, error)
	SubordinateIDsOf(managerEmployeeID int) ([]int, error)
}

// RequestNotifierInterface - уведомления о переходах заявки (best-effort)
type RequestNotifierInterface interface {
	NotifyEmployee(employeeID int, title, message string, relatedRequestID *int)
	NotifyRole(role string, title, message string, relatedRequestID *int)
}

// RequestEffectsInterface - применение кадровых изменений утвержденной заявки
type RequestEffectsInterface interface {
	Apply(req *models.EmployeeRequest) error
}

// RequestService - движок кадровых заявок. Создает заявки, проводит их через
// этапы согласования и единственный имеет право изменять заявку: оценщик прав
// и машина состояний только вычисляют, все мутации происходят здесь после
// проверки вычисленного перехода.
type RequestService struct {
	requestRepo RequestRepositoryInterface
	directory   RequestDirectoryInterface
	authorizer  *workflow.Authorizer
	notifier    RequestNotifierInterface
	effects     RequestEffectsInterface
}

// NewRequestService создает новый экземпляр RequestService
func NewRequestService(
	requestRepo RequestRepositoryInterface,
	directory RequestDirectoryInterface,
	notifier RequestNotifierInterface,
	effects RequestEffectsInterface,
) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		directory:   directory,
		authorizer:  workflow.NewAuthorizer(directory),
		notifier:    notifier,
		effects:     effects,
	}
}

// CreateRequest создает новую кадровую заявку: разрешает тип через реестр,
// проверяет права подателя, вычисляет начальный статус и сохраняет заявку.
func (s *RequestService) CreateRequest(dto *models.CreateRequestDTO, actor workflow.Actor) (*models.EmployeeRequest, error) {
	requesterID := actor.EmployeeID
	if dto.RequesterID != nil {
		requesterID = *dto.RequesterID
	}
	if requesterID == 0 {
		return nil, fmt.Errorf("%w: податель заявки не определен", workflow.ErrValidation)
	}

	if !s.authorizer.CanCreate(requesterID, actor) {
		return nil, fmt.Errorf("%w: подать заявку от имени другого сотрудника могут только HR и администратор", workflow.ErrForbidden)
	}

	now := time.Now()
	req, err := workflow.BuildRequest(dto, requesterID, now)
	if err != nil {
		return nil, err
	}

	// Финальная проверка перед сохранением: заявка с незаполненными
	// обязательными полями своего типа не должна попасть в БД
	if !req.IsValidForRequestType() {
		return nil, fmt.Errorf("%w: заявка не соответствует требованиям типа %s", workflow.ErrValidation, req.RequestType)
	}

	// Начальный статус зависит от роли подателя, а не оператора:
	// при подаче HR от чужого имени привилегии подателя не наследуются
	requesterRole := actor.Role
	if requesterID != actor.EmployeeID {
		requesterRole, err = s.directory.RoleOfEmployee(requesterID)
		if err != nil {
			return nil, fmt.Errorf("ошибка определения роли подателя %d: %w", requesterID, err)
		}
	}

	trans := workflow.ComputeInitialStatus(requesterRole, req.IsSelfRequest())
	applyTransition(req, trans, requesterID, now)

	if err := s.requestRepo.CreateRequest(req); err != nil {
		return nil, fmt.Errorf("ошибка сохранения заявки: %w", err)
	}

	log.Printf("[Engine Create] Request %d (%s) created by employee %d, initial status %d", req.ID, req.RequestType, requesterID, req.StatusID)

	s.notifyAfterCreate(req)
	s.applyEffectsIfApproved(req)
	return req, nil
}

// Approve согласует заявку от имени руководителя или HR. Сначала проверяется
// допустимость перехода (недопустимый переход - ошибка перехода, а не прав),
// затем право пользователя на этот этап согласования.
func (s *RequestService) Approve(requestID int, actor workflow.Actor, asRole string, comment string) (*models.EmployeeRequest, error) {
	// Отметки согласования ссылаются на кадровую карточку согласующего:
	// учетная запись без карточки не может оставить корректную отметку
	if actor.EmployeeID == 0 {
		return nil, fmt.Errorf("%w: учетная запись не привязана к кадровой карточке", workflow.ErrForbidden)
	}

	req, err := s.loadRequest(requestID)
	if err != nil {
		return nil, err
	}

	var trans workflow.Transition
	switch asRole {
	case ApproveAsManager:
		trans, err = workflow.ApproveAsManager(req.StatusID)
		if err != nil {
			return nil, err
		}
		ok, authErr := s.authorizer.CanApproveAsManager(req, actor.EmployeeID)
		if authErr != nil {
			return nil, authErr
		}
		if !ok {
			return nil, fmt.Errorf("%w: сотрудник %d не может согласовать заявку %d как руководитель", workflow.ErrForbidden, actor.EmployeeID, requestID)
		}
	case ApproveAsHR:
		trans, err = workflow.ApproveAsHR(req.StatusID)
		if err != nil {
			return nil, err
		}
		ok, authErr := s.authorizer.CanApproveAsHR(req, actor.EmployeeID, actor.Role)
		if authErr != nil {
			return nil, authErr
		}
		if !ok {
			return nil, fmt.Errorf("%w: пользователь %d не может утвердить заявку %d как HR", workflow.ErrForbidden, actor.UserID, requestID)
		}
	default:
		return nil, fmt.Errorf("%w: неизвестная роль согласования %q", workflow.ErrValidation, asRole)
	}

	applyTransition(req, trans, actor.EmployeeID, time.Now())
	if err := s.saveTransition(req); err != nil {
		return nil, err
	}

	log.Printf("[Engine Approve] Request %d approved as %s by employee %d, new status %d", req.ID, asRole, actor.EmployeeID, req.StatusID)

	title := "Заявка согласована"
	message := fmt.Sprintf("Заявка '%s' согласована (%s).", workflow.VariantTitle(req.RequestType), repositories.StatusName(req.StatusID))
	if comment != "" {
		message += " Комментарий: " + comment
	}
	s.notifier.NotifyEmployee(req.RequesterID, title, message, &req.ID)
	if req.StatusID == models.StatusManagerApproved {
		s.notifier.NotifyRole(models.RoleHR, "Заявка ожидает решения HR",
			fmt.Sprintf("Заявка %d ('%s') согласована руководителем и ожидает утверждения HR.", req.ID, workflow.VariantTitle(req.RequestType)), &req.ID)
	}

	s.applyEffectsIfApproved(req)
	return req, nil
}

// Reject отклоняет заявку. Причина обязательна; право отклонить совпадает с
// правом согласовать на текущем этапе.
func (s *RequestService) Reject(requestID int, actor workflow.Actor, reason string) (*models.EmployeeRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: причина отклонения обязательна", workflow.ErrValidation)
	}
	if actor.EmployeeID == 0 {
		return nil, fmt.Errorf("%w: учетная запись не привязана к кадровой карточке", workflow.ErrForbidden)
	}

	req, err := s.loadRequest(requestID)
	if err != nil {
		return nil, err
	}

	trans, err := workflow.Reject(req.StatusID, reason)
	if err != nil {
		return nil, err
	}
	ok, err := s.authorizer.CanReject(req, actor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: пользователь %d не может отклонить заявку %d", workflow.ErrForbidden, actor.UserID, requestID)
	}

	req.RejectionReason = &reason
	applyTransition(req, trans, actor.EmployeeID, time.Now())
	if err := s.saveTransition(req); err != nil {
		return nil, err
	}

	log.Printf("[Engine Reject] Request %d rejected by employee %d", req.ID, actor.EmployeeID)

	s.notifier.NotifyEmployee(req.RequesterID, "Заявка отклонена",
		fmt.Sprintf("Заявка '%s' отклонена. Причина: %s", workflow.VariantTitle(req.RequestType), reason), &req.ID)
	return req, nil
}

// Cancel отменяет заявку. Отменить может только податель и только пока
// заявка не в терминальном статусе; отмена - переход статуса, а не удаление.
func (s *RequestService) Cancel(requestID int, actor workflow.Actor) (*models.EmployeeRequest, error) {
	req, err := s.loadRequest(requestID)
	if err != nil {
		return nil, err
	}

	previousStatus := req.StatusID
	trans, err := workflow.Cancel(req.StatusID)
	if err != nil {
		return nil, err
	}
	ok, err := s.authorizer.CanCancel(req, actor.EmployeeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: отменить заявку может только ее податель", workflow.ErrForbidden)
	}

	applyTransition(req, trans, actor.EmployeeID, time.Now())
	if err := s.saveTransition(req); err != nil {
		return nil, err
	}

	log.Printf("[Engine Cancel] Request %d cancelled by employee %d", req.ID, actor.EmployeeID)

	// Сообщаем тому, у кого заявка была на рассмотрении
	switch previousStatus {
	case models.StatusPending:
		if managerID, mErr := s.directory.ManagerOf(req.RequesterID); mErr == nil && managerID != nil {
			s.notifier.NotifyEmployee(*managerID, "Заявка отменена",
				fmt.Sprintf("Заявка %d ('%s') отменена подателем.", req.ID, workflow.VariantTitle(req.RequestType)), &req.ID)
		}
	case models.StatusManagerApproved:
		s.notifier.NotifyRole(models.RoleHR, "Заявка отменена",
			fmt.Sprintf("Заявка %d ('%s') отменена подателем.", req.ID, workflow.VariantTitle(req.RequestType)), &req.ID)
	}
	return req, nil
}

// GetByID получает заявку с проверкой права просмотра
func (s *RequestService) GetByID(requestID int, actor workflow.Actor) (*models.EmployeeRequest, error) {
	req, err := s.loadRequest(requestID)
	if err != nil {
		return nil, err
	}
	ok, err := s.authorizer.CanView(req, actor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: нет прав на просмотр заявки %d", workflow.ErrForbidden, requestID)
	}
	return req, nil
}

// ListByRequester получает заявки, поданные самим пользователем
func (s *RequestService) ListByRequester(actor workflow.Actor) ([]models.EmployeeRequest, error) {
	return s.requestRepo.GetRequestsByRequester(actor.EmployeeID)
}

// ListPendingFor получает заявки, ожидающие решения пользователя: для HR и
// администратора - все незавершенные, для руководителя - заявки его
// подчиненных на рассмотрении, для остальных - пустой список.
func (s *RequestService) ListPendingFor(actor workflow.Actor) ([]models.EmployeeRequest, error) {
	switch actor.Role {
	case models.RoleHR, models.RoleAdmin:
		return s.requestRepo.GetPendingForHR()
	case models.RoleManager:
		subordinateIDs, err := s.directory.SubordinateIDsOf(actor.EmployeeID)
		if err != nil {
			return nil, fmt.Errorf("ошибка получения подчиненных сотрудника %d: %w", actor.EmployeeID, err)
		}
		return s.requestRepo.GetPendingForManager(subordinateIDs)
	}
	return []models.EmployeeRequest{}, nil
}

// loadRequest загружает заявку, транслируя отсутствие в типизированную ошибку
func (s *RequestService) loadRequest(requestID int) (*models.EmployeeRequest, error) {
	req, err := s.requestRepo.GetRequestByID(requestID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения заявки %d: %w", requestID, err)
	}
	if req == nil {
		return nil, fmt.Errorf("заявка %d: %w", requestID, workflow.ErrNotFound)
	}
	return req, nil
}

// saveTransition сохраняет заявку после перехода, транслируя проигрыш
// оптимистичной блокировки в ошибку конфликта
func (s *RequestService) saveTransition(req *models.EmployeeRequest) error {
	if err := s.requestRepo.UpdateRequest(req); err != nil {
		if errors.Is(err, repositories.ErrVersionConflict) {
			return fmt.Errorf("заявка %d: %w", req.ID, workflow.ErrConflict)
		}
		return fmt.Errorf("ошибка сохранения заявки %d: %w", req.ID, err)
	}
	return nil
}

// notifyAfterCreate уведомляет следующего согласующего о новой заявке
func (s *RequestService) notifyAfterCreate(req *models.EmployeeRequest) {
	switch req.StatusID {
	case models.StatusPending:
		managerID, err := s.directory.ManagerOf(req.RequesterID)
		if err != nil {
			log.Printf("[Engine Create] Failed to resolve manager of employee %d: %v", req.RequesterID, err)
			return
		}
		if managerID == nil {
			// У подателя нет руководителя, заявку сразу увидит HR
			s.notifier.NotifyRole(models.RoleHR, "Новая заявка",
				fmt.Sprintf("Поступила заявка %d ('%s').", req.ID, workflow.VariantTitle(req.RequestType)), &req.ID)
			return
		}
		s.notifier.NotifyEmployee(*managerID, "Новая заявка на согласование",
			fmt.Sprintf("Поступила заявка %d ('%s'), требуется ваше согласование.", req.ID, workflow.VariantTitle(req.RequestType)), &req.ID)
	case models.StatusManagerApproved:
		s.notifier.NotifyRole(models.RoleHR, "Заявка ожидает решения HR",
			fmt.Sprintf("Заявка %d ('%s') согласована руководителем и ожидает утверждения HR.", req.ID, workflow.VariantTitle(req.RequestType)), &req.ID)
	}
	// Автоматически утвержденные заявки дальнейших согласований не требуют
}

// applyEffectsIfApproved применяет кадровые изменения, если заявка вошла в
// успешный терминальный статус. Вызывается ровно один раз: только из
// операции, выполнившей сам переход. Ошибка применения логируется, но не
// откатывает уже сохраненное утверждение.
func (s *RequestService) applyEffectsIfApproved(req *models.EmployeeRequest) {
	if !workflow.IsTerminalSuccess(req.StatusID) {
		return
	}
	if err := s.effects.Apply(req); err != nil {
		log.Printf("[Engine Effects] CRITICAL: Request %d approved but applying changes failed: %v", req.ID, err)
	}
}

// applyTransition проставляет заявке новый статус и отметки согласования.
// Каждая отметка проставляется ровно один раз - на переходе, который ее
// порождает.
func applyTransition(req *models.EmployeeRequest, trans workflow.Transition, byEmployeeID int, now time.Time) {
	req.StatusID = trans.NewStatusID
	if trans.StampManager {
		req.ApprovedByManagerID = &byEmployeeID
		req.ManagerApprovalDate = &now
	}
	if trans.StampHR {
		req.ApprovedByHRID = &byEmployeeID
		req.HRApprovalDate = &now
	}
	if trans.StampProcessed {
		req.ProcessedDate = &now
	}
}
