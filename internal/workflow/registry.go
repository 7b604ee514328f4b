package workflow

import (
	"fmt"
	"time"

	"career-management/internal/models"
)

// VariantDescriptor описывает один конкретный тип заявки: человекочитаемое
// название и правило обязательных полей.
type VariantDescriptor struct {
	Tag      string
	Title    string
	Validate func(dto *models.CreateRequestDTO) error
}

// variantRegistry - закрытый реестр типов заявок. Тип разрешается только по
// явной записи в этой карте: неизвестные теги отклоняются детерминированно,
// никакой десериализации "во что получится" по данным клиента.
var variantRegistry = map[string]VariantDescriptor{
	models.RequestTypePositionChange: {
		Tag:   models.RequestTypePositionChange,
		Title: "Смена должности",
		Validate: func(dto *models.CreateRequestDTO) error {
			if dto.NewPositionID == nil {
				return fmt.Errorf("%w: поле new_position_id обязательно для заявки на смену должности", ErrValidation)
			}
			if dto.ProposedSalary != nil && *dto.ProposedSalary < 0 {
				return fmt.Errorf("%w: предлагаемый оклад не может быть отрицательным", ErrValidation)
			}
			return nil
		},
	},
	models.RequestTypeDepartmentChange: {
		Tag:   models.RequestTypeDepartmentChange,
		Title: "Перевод в другое подразделение",
		Validate: func(dto *models.CreateRequestDTO) error {
			if dto.NewDepartmentID == nil {
				return fmt.Errorf("%w: поле new_department_id обязательно для заявки на перевод", ErrValidation)
			}
			return nil
		},
	},
}

// ResolveVariant возвращает дескриптор типа заявки по тегу
func ResolveVariant(tag string) (VariantDescriptor, error) {
	desc, ok := variantRegistry[tag]
	if !ok {
		return VariantDescriptor{}, fmt.Errorf("%w: %q", ErrUnknownRequestType, tag)
	}
	return desc, nil
}

// VariantTitle возвращает название типа заявки для уведомлений.
// Для неизвестного тега возвращает сам тег.
func VariantTitle(tag string) string {
	if desc, ok := variantRegistry[tag]; ok {
		return desc.Title
	}
	return tag
}

// BuildRequest разрешает тип заявки через реестр, проверяет обязательные поля
// и собирает сущность заявки. Статус здесь не назначается: начальный статус
// вычисляет машина состояний, а проставляет его движок заявок.
func BuildRequest(dto *models.CreateRequestDTO, requesterID int, now time.Time) (*models.EmployeeRequest, error) {
	desc, err := ResolveVariant(dto.RequestType)
	if err != nil {
		return nil, err
	}
	if err := desc.Validate(dto); err != nil {
		return nil, err
	}

	req := &models.EmployeeRequest{
		RequestType:      desc.Tag,
		RequesterID:      requesterID,
		TargetEmployeeID: dto.TargetEmployeeID,
		Notes:            dto.Notes,
		RequestDate:      now,
		EffectiveDate:    dto.EffectiveDate,
		NewPositionID:    dto.NewPositionID,
		ProposedSalary:   dto.ProposedSalary,
		Justification:    dto.Justification,
		NewDepartmentID:  dto.NewDepartmentID,
		Reason:           dto.Reason,
		NewManagerID:     dto.NewManagerID,
	}
	return req, nil
}
