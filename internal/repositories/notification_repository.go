package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"career-management/internal/models"
)

// NotificationRepository предоставляет методы для работы с уведомлениями в БД
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository создает новый экземпляр NotificationRepository
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateNotification сохраняет новое уведомление
func (r *NotificationRepository) CreateNotification(notification *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, title, message, related_request_id, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`

	result, err := r.db.Exec(query,
		notification.UserID, notification.Title, notification.Message,
		notification.RelatedRequestID, notification.IsRead,
	)
	if err != nil {
		return fmt.Errorf("ошибка создания уведомления: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("ошибка получения ID нового уведомления: %w", err)
	}
	notification.ID = int(id)
	return nil
}

// GetByUser получает уведомления пользователя, новые первыми
func (r *NotificationRepository) GetByUser(userID int) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, title, message, related_request_id, is_read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения уведомлений пользователя %d: %w", userID, err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		n := models.Notification{}
		var relatedRequestID sql.NullInt64
		err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &relatedRequestID, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования уведомления: %w", err)
		}
		n.RelatedRequestID = nullableInt(relatedRequestID)
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения уведомлений: %w", err)
	}
	return notifications, nil
}

// MarkRead помечает уведомление прочитанным; уведомление должно принадлежать
// пользователю
func (r *NotificationRepository) MarkRead(notificationID int, userID int) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = ? AND user_id = ?`

	result, err := r.db.Exec(query, notificationID, userID)
	if err != nil {
		return fmt.Errorf("ошибка обновления уведомления %d: %w", notificationID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка получения количества обновленных строк: %w", err)
	}
	if rowsAffected == 0 {
		return errors.New("уведомление не найдено или не принадлежит пользователю")
	}
	return nil
}
