package workflow

import (
	"fmt"

	"career-management/internal/models"
)

// Actor - аутентифицированный пользователь, выполняющий операцию.
// Передается явно в каждую операцию движка: никакого неявного
// "текущего пользователя" в глобальном состоянии.
type Actor struct {
	UserID     int
	EmployeeID int
	Role       string
}

// Directory - справочник организационной структуры (внешний коллаборатор).
// Используется оценщиком прав для проверки отношений руководства.
type Directory interface {
	// IsManagerOf сообщает, находится ли сотрудник employeeID в цепочке
	// подчинения руководителя managerEmployeeID
	IsManagerOf(managerEmployeeID int, employeeID int) (bool, error)
	// RoleOf возвращает роль учетной записи пользователя
	RoleOf(userID int) (string, error)
	// EmployeeIDOf возвращает ID сотрудника, привязанного к учетной записи
	// (nil, если привязки нет)
	EmployeeIDOf(userID int) (*int, error)
}

// Authorizer - оценщик прав на операции с заявками. Все методы чистые
// относительно своих входов: заявку не изменяют, справочник опрашивают не
// более одного раза на каждое нужное отношение.
type Authorizer struct {
	dir Directory
}

// NewAuthorizer создает новый экземпляр Authorizer
func NewAuthorizer(dir Directory) *Authorizer {
	return &Authorizer{dir: dir}
}

// managesParticipant проверяет, руководит ли actor целевым сотрудником или
// подателем заявки. Если целевой сотрудник и податель совпадают, справочник
// опрашивается один раз.
func (a *Authorizer) managesParticipant(req *models.EmployeeRequest, actorEmployeeID int) (bool, error) {
	if req.TargetEmployeeID != nil {
		managesTarget, err := a.dir.IsManagerOf(actorEmployeeID, *req.TargetEmployeeID)
		if err != nil {
			return false, fmt.Errorf("ошибка проверки подчиненности целевого сотрудника: %w", err)
		}
		if managesTarget {
			return true, nil
		}
		if *req.TargetEmployeeID == req.RequesterID {
			// Податель совпадает с целевым сотрудником, второй запрос не нужен
			return false, nil
		}
	}
	managesRequester, err := a.dir.IsManagerOf(actorEmployeeID, req.RequesterID)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки подчиненности подателя заявки: %w", err)
	}
	return managesRequester, nil
}

// CanApproveAsManager сообщает, может ли сотрудник согласовать заявку как
// руководитель: заявка ожидает рассмотрения, сотрудник не является целью
// заявки и руководит целевым сотрудником либо подателем.
func (a *Authorizer) CanApproveAsManager(req *models.EmployeeRequest, actorEmployeeID int) (bool, error) {
	if req.StatusID != models.StatusPending {
		return false, nil
	}
	if req.TargetEmployeeID != nil && *req.TargetEmployeeID == actorEmployeeID {
		return false, nil
	}
	return a.managesParticipant(req, actorEmployeeID)
}

// CanApproveAsHR сообщает, может ли пользователь утвердить заявку как HR:
// роль HR или администратора, заявка не в терминальном статусе после этапа
// руководителя, пользователь не является целью заявки.
func (a *Authorizer) CanApproveAsHR(req *models.EmployeeRequest, actorEmployeeID int, actorRole string) (bool, error) {
	if req.StatusID != models.StatusPending && req.StatusID != models.StatusManagerApproved {
		return false, nil
	}
	if actorRole != models.RoleHR && actorRole != models.RoleAdmin {
		return false, nil
	}
	if req.TargetEmployeeID != nil && *req.TargetEmployeeID == actorEmployeeID {
		return false, nil
	}
	return true, nil
}

// CanReject сообщает, может ли пользователь отклонить заявку на текущем
// этапе. Право отклонить совпадает с правом согласовать: либо как
// руководитель, либо как HR.
func (a *Authorizer) CanReject(req *models.EmployeeRequest, actor Actor) (bool, error) {
	okHR, err := a.CanApproveAsHR(req, actor.EmployeeID, actor.Role)
	if err != nil {
		return false, err
	}
	if okHR {
		return true, nil
	}
	return a.CanApproveAsManager(req, actor.EmployeeID)
}

// CanCancel сообщает, может ли пользователь отменить заявку: только
// податель и только пока заявка не в терминальном статусе.
func (a *Authorizer) CanCancel(req *models.EmployeeRequest, actorEmployeeID int) (bool, error) {
	if IsTerminal(req.StatusID) {
		return false, nil
	}
	return req.RequesterID == actorEmployeeID, nil
}

// CanView сообщает, может ли пользователь просматривать заявку: HR и
// администратор - всегда; остальные - если являются подателем, целевым
// сотрудником или текущим согласующим.
func (a *Authorizer) CanView(req *models.EmployeeRequest, actor Actor) (bool, error) {
	if actor.Role == models.RoleHR || actor.Role == models.RoleAdmin {
		return true, nil
	}
	if req.RequesterID == actor.EmployeeID {
		return true, nil
	}
	if req.TargetEmployeeID != nil && *req.TargetEmployeeID == actor.EmployeeID {
		return true, nil
	}
	return a.CanApproveAsManager(req, actor.EmployeeID)
}

// CanCreate сообщает, может ли пользователь подать заявку от имени
// указанного подателя: от чужого имени заявки подают только HR и
// администратор.
func (a *Authorizer) CanCreate(requesterID int, actor Actor) bool {
	if requesterID == actor.EmployeeID {
		return true
	}
	return actor.Role == models.RoleHR || actor.Role == models.RoleAdmin
}
