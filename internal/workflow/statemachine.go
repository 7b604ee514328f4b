package workflow

import (
	"fmt"

	"career-management/internal/models"
)

// Transition - результат вычисления перехода: новый статус и отметки,
// которые движок заявок должен проставить. Сами функции переходов чистые:
// они ничего не изменяют и не обращаются к БД.
type Transition struct {
	NewStatusID    int
	StampManager   bool // проставить approved_by_manager_id + manager_approval_date
	StampHR        bool // проставить approved_by_hr_id + hr_approval_date
	StampProcessed bool // проставить processed_date
}

// IsTerminal сообщает, является ли статус терминальным
func IsTerminal(statusID int) bool {
	switch statusID {
	case models.StatusHRApproved, models.StatusAutoApproved, models.StatusRejected, models.StatusCancelled:
		return true
	}
	return false
}

// IsTerminalSuccess сообщает, является ли статус успешным терминальным.
// Именно при входе в такой статус применяются кадровые изменения.
func IsTerminalSuccess(statusID int) bool {
	return statusID == models.StatusHRApproved || statusID == models.StatusAutoApproved
}

// ComputeInitialStatus вычисляет начальный статус новой заявки по роли
// подателя. Заявка на самого себя никогда не пропускает этапы согласования,
// какой бы ни была роль подателя. HR и администратор, подающие заявку за
// другого сотрудника, считаются уже принявшими решение; руководитель,
// подающий за подчиненного, считается согласовавшим свой этап, но требует
// решения HR.
func ComputeInitialStatus(requesterRole string, isSelfRequest bool) Transition {
	if isSelfRequest {
		return Transition{NewStatusID: models.StatusPending}
	}
	switch requesterRole {
	case models.RoleHR, models.RoleAdmin:
		return Transition{
			NewStatusID:    models.StatusAutoApproved,
			StampHR:        true,
			StampProcessed: true,
		}
	case models.RoleManager:
		return Transition{
			NewStatusID:  models.StatusManagerApproved,
			StampManager: true,
		}
	}
	return Transition{NewStatusID: models.StatusPending}
}

// ApproveAsManager вычисляет переход "согласовано руководителем".
// Допустим только из статуса 'На рассмотрении'; повторное согласование -
// ошибка, а не тихий no-op.
func ApproveAsManager(statusID int) (Transition, error) {
	if statusID != models.StatusPending {
		return Transition{}, fmt.Errorf("%w: согласование руководителем возможно только из статуса 'На рассмотрении' (текущий статус: %d)", ErrInvalidTransition, statusID)
	}
	return Transition{
		NewStatusID:  models.StatusManagerApproved,
		StampManager: true,
	}, nil
}

// ApproveAsHR вычисляет переход "утверждено HR". HR может утвердить заявку и
// до решения руководителя, поэтому переход допустим из 'На рассмотрении' и
// из 'Утверждена руководителем'.
func ApproveAsHR(statusID int) (Transition, error) {
	if statusID != models.StatusPending && statusID != models.StatusManagerApproved {
		return Transition{}, fmt.Errorf("%w: утверждение HR возможно только из статусов 'На рассмотрении' или 'Утверждена руководителем' (текущий статус: %d)", ErrInvalidTransition, statusID)
	}
	return Transition{
		NewStatusID:    models.StatusHRApproved,
		StampHR:        true,
		StampProcessed: true,
	}, nil
}

// Reject вычисляет переход "отклонена". Допустим из любого нетерминального
// статуса; причина отклонения обязательна.
func Reject(statusID int, reason string) (Transition, error) {
	if reason == "" {
		return Transition{}, fmt.Errorf("%w: причина отклонения обязательна", ErrValidation)
	}
	if IsTerminal(statusID) {
		return Transition{}, fmt.Errorf("%w: нельзя отклонить заявку в терминальном статусе %d", ErrInvalidTransition, statusID)
	}
	return Transition{
		NewStatusID:    models.StatusRejected,
		StampProcessed: true,
	}, nil
}

// Cancel вычисляет переход "отменена". Допустим из любого нетерминального
// статуса; право отмены (только податель) проверяет не машина состояний,
// а оценщик прав.
func Cancel(statusID int) (Transition, error) {
	if IsTerminal(statusID) {
		return Transition{}, fmt.Errorf("%w: нельзя отменить заявку в терминальном статусе %d", ErrInvalidTransition, statusID)
	}
	return Transition{
		NewStatusID:    models.StatusCancelled,
		StampProcessed: true,
	}, nil
}
