package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Lina3386/financeflow/internal/models"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, userID int64, message string) (*models.Notification, error) {
	notification := &models.Notification{
		UserID:  userID,
		Message: message,
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO notifications (user_id, message) VALUES ($1, $2) RETURNING id, status, created_at`,
		userID, message).Scan(&notification.ID, &notification.Status, &notification.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	return notification, nil
}

func (r *NotificationRepository) GetUserNotifications(ctx context.Context, userID int64) ([]models.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, message, status, created_at
		 FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		notification := models.Notification{}
		err := rows.Scan(&notification.ID, &notification.UserID, &notification.Message,
			&notification.Status, &notification.CreatedAt)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}

	return notifications, rows.Err()
}
