package workflow

import "errors"

// Типизированные ошибки документооборота. Сравниваются через errors.Is;
// дополнительный контекст добавляется оберткой fmt.Errorf("%w: ...").
var (
	// ErrValidation - некорректные или неполные данные для выбранного типа заявки
	ErrValidation = errors.New("некорректные данные заявки")
	// ErrUnknownRequestType - тип заявки отсутствует в реестре
	ErrUnknownRequestType = errors.New("неизвестный тип заявки")
	// ErrForbidden - у пользователя нет прав на операцию
	ErrForbidden = errors.New("нет прав на выполнение операции")
	// ErrInvalidTransition - недопустимый переход статуса заявки
	ErrInvalidTransition = errors.New("недопустимый переход статуса заявки")
	// ErrNotFound - заявка не найдена
	ErrNotFound = errors.New("заявка не найдена")
	// ErrConflict - заявка была изменена параллельной операцией
	ErrConflict = errors.New("заявка была изменена другой операцией, повторите запрос")
)
