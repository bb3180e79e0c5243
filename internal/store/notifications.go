package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dmarifin/dompet/internal/dbx"
	"github.com/google/uuid"
)

// NotificationRepository persists user-facing notifications created by the
// trigger service. Notifications are never deleted here; the UI marks them
// read via MarkRead.
type NotificationRepository struct {
	db dbx.DBTX
}

func NewNotificationRepository(db dbx.DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create assigns an id to the draft and inserts it. Returns the new id.
func (r *NotificationRepository) Create(ctx context.Context, d NotificationDraft) (string, error) {
	id := uuid.NewString()
	query := `INSERT INTO notifications
		(id, type, title, message, icon, priority, is_read, created_at, related_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		id, string(d.Type), d.Title, d.Message, d.Icon, string(d.Priority),
		d.IsRead, d.CreatedAt.Format(time.RFC3339Nano), d.RelatedID)
	if err != nil {
		return "", fmt.Errorf("failed to insert notification: %w", err)
	}
	return id, nil
}

// MarkRead flags a notification as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	return nil
}

// All returns every notification, newest first.
func (r *NotificationRepository) All(ctx context.Context) ([]Notification, error) {
	query := `SELECT id, type, title, message, icon, priority, is_read, created_at, related_id
		FROM notifications ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select notifications: %w", err)
	}
	defer rows.Close()

	var result []Notification
	for rows.Next() {
		var (
			item                   Notification
			typ, priority, created string
		)
		if err := rows.Scan(&item.ID, &typ, &item.Title, &item.Message, &item.Icon,
			&priority, &item.IsRead, &created, &item.RelatedID); err != nil {
			return nil, err
		}
		item.Type = NotificationType(typ)
		item.Priority = NotificationPriority(priority)
		if item.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("bad created_at for notification %s: %w", item.ID, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
