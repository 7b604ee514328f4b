package services

import (
	"fmt"
	"log"

	"career-management/internal/models"
)

// NotificationRepositoryInterface определяет методы для работы с уведомлениями
type NotificationRepositoryInterface interface {
	CreateNotification(notification *models.Notification) error
	GetByUser(userID int) ([]models.Notification, error)
	MarkRead(notificationID int, userID int) error
}

// NotificationUserRepo - методы репозитория пользователей для адресации
// уведомлений
type NotificationUserRepo interface {
	FindByEmployeeID(employeeID int) (*models.User, error)
	GetUsersByRole(role string) ([]models.User, error)
}

// NotificationService реализует работу с уведомлениями. Со стороны движка
// заявок доставка best-effort: ошибки записи логируются и не прерывают
// операцию.
type NotificationService struct {
	notificationRepo NotificationRepositoryInterface
	userRepo         NotificationUserRepo
}

// NewNotificationService создает новый экземпляр NotificationService
func NewNotificationService(notificationRepo NotificationRepositoryInterface, userRepo NotificationUserRepo) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

// NotifyUser создает уведомление для пользователя
func (s *NotificationService) NotifyUser(userID int, title, message string, relatedRequestID *int) {
	notification := &models.Notification{
		UserID:           userID,
		Title:            title,
		Message:          message,
		RelatedRequestID: relatedRequestID,
		IsRead:           false,
	}
	if err := s.notificationRepo.CreateNotification(notification); err != nil {
		log.Printf("[Notify] Failed to create notification for user %d: %v", userID, err)
	}
}

// NotifyEmployee создает уведомление для учетной записи сотрудника.
// Если у сотрудника нет учетной записи, уведомление пропускается.
func (s *NotificationService) NotifyEmployee(employeeID int, title, message string, relatedRequestID *int) {
	user, err := s.userRepo.FindByEmployeeID(employeeID)
	if err != nil {
		log.Printf("[Notify] Failed to resolve user for employee %d: %v", employeeID, err)
		return
	}
	if user == nil {
		log.Printf("[Notify] Employee %d has no user account, skipping notification", employeeID)
		return
	}
	s.NotifyUser(user.ID, title, message, relatedRequestID)
}

// NotifyRole создает уведомление для всех пользователей с указанной ролью
func (s *NotificationService) NotifyRole(role string, title, message string, relatedRequestID *int) {
	users, err := s.userRepo.GetUsersByRole(role)
	if err != nil {
		log.Printf("[Notify] Failed to get users with role %s: %v", role, err)
		return
	}
	for _, user := range users {
		s.NotifyUser(user.ID, title, message, relatedRequestID)
	}
}

// GetUserNotifications получает уведомления пользователя
func (s *NotificationService) GetUserNotifications(userID int) ([]models.Notification, error) {
	return s.notificationRepo.GetByUser(userID)
}

// MarkNotificationRead помечает уведомление пользователя прочитанным
func (s *NotificationService) MarkNotificationRead(notificationID int, userID int) error {
	if err := s.notificationRepo.MarkRead(notificationID, userID); err != nil {
		return fmt.Errorf("ошибка отметки уведомления %d прочитанным: %w", notificationID, err)
	}
	return nil
}
