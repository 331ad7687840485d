package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"parkshare/internal/db"
)

type NotificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(conn *sql.DB) *NotificationRepository {
	return &NotificationRepository{DB: conn}
}

func (r *NotificationRepository) Create(ctx context.Context, n *db.Notification) error {
	data := n.Data
	if data == nil {
		data = map[string]interface{}{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("error encoding notification data: %w", err)
	}
	query := `INSERT INTO notifications (user_id, type, title, message, data) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.DB.ExecContext(ctx, query, n.UserID, n.Type, n.Title, n.Message, payload); err != nil {
		return fmt.Errorf("error inserting notification for user %s: %w", n.UserID, err)
	}
	return nil
}
