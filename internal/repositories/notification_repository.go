package repositories

import (
	"context"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

type notificationRepo struct {
	db DB
}

func NewNotificationRepository(db DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO notifications (id, type, title, message, is_read, recipient_role, recipient_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, n.ID, string(n.Type), n.Title, n.Message, n.IsRead, string(n.RecipientRole), n.RecipientID, n.CreatedAt)
	return err
}

// inbox scopes a query to the notifications the session may see.
func inbox(s models.Session) whereBuilder {
	var w whereBuilder
	w.add("recipient_role = $%[1]d", string(s.Role))
	if s.Role == models.RoleAdmin {
		w.add("(recipient_id IS NULL OR recipient_id = $%[1]d)", s.UserID)
	} else {
		w.add("recipient_id = $%[1]d", s.UserID)
	}
	return w
}

func (r *notificationRepo) List(ctx context.Context, s models.Session, unreadOnly bool, limit int) ([]*models.Notification, error) {
	w := inbox(s)
	if unreadOnly {
		w.add("is_read = $%[1]d", false)
	}
	_, limit = models.NormalizePage(1, limit)
	pageSQL, args := w.page(limit, 0)

	rows, err := r.db.Query(ctx, `
		SELECT id, type, title, message, is_read, recipient_role, recipient_id, created_at
		FROM notifications`+w.sql()+" ORDER BY created_at DESC, id"+pageSQL, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *notificationRepo) CountUnread(ctx context.Context, s models.Session) (int, error) {
	w := inbox(s)
	w.add("is_read = $%[1]d", false)
	var n int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM notifications"+w.sql(), w.args...).Scan(&n)
	return n, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, id uuid.UUID, s models.Session) (bool, error) {
	w := inbox(s)
	w.add("id = $%[1]d", id)
	tag, err := r.db.Exec(ctx, "UPDATE notifications SET is_read = TRUE"+w.sql(), w.args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, s models.Session) (int64, error) {
	w := inbox(s)
	w.add("is_read = $%[1]d", false)
	tag, err := r.db.Exec(ctx, "UPDATE notifications SET is_read = TRUE"+w.sql(), w.args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanNotification(row pgx.Row) (*models.Notification, error) {
	var n models.Notification
	var typ, role string
	if err := row.Scan(&n.ID, &typ, &n.Title, &n.Message, &n.IsRead, &role, &n.RecipientID, &n.CreatedAt); err != nil {
		return nil, err
	}
	n.Type = models.NotificationType(typ)
	n.RecipientRole = models.Role(role)
	return &n, nil
}
