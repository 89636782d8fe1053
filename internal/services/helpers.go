package services

import (
	"context"
	"errors"
	"time"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/lifecycle"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/repositories"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/sirupsen/logrus"
)

var errAdminOnly = &lifecycle.ForbiddenError{Message: "admin access required"}

func requireAdmin(s models.Session) error {
	if !s.IsAdmin() {
		return errAdminOnly
	}
	return nil
}

func requireAssociate(s models.Session) error {
	if !s.IsAssociate() {
		return &lifecycle.ForbiddenError{Message: "associate access required"}
	}
	return nil
}

// updateUser applies mutate to the latest version of the user row. A
// concurrent write re-reads the row and runs mutate again.
func updateUser(ctx context.Context, tx repositories.Tx, id uuid.UUID, mutate func(*models.User) error) (*models.User, error) {
	var out *models.User
	err := tx.Users().UpdateWithRetry(ctx, id, func(u *models.User) error {
		if err := mutate(u); err != nil {
			return err
		}
		out = u
		return nil
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, lifecycle.NotFound("user", id)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// scopeToActor narrows listings: associates only ever see their own rows.
func scopeToActor(s models.Session, requested *uuid.UUID) *uuid.UUID {
	if s.IsAssociate() {
		id := s.UserID
		return &id
	}
	return requested
}

func now() time.Time {
	return time.Now().UTC()
}

// NotificationPublisher delivers committed notifications to live clients.
type NotificationPublisher interface {
	Publish(n *models.Notification)
}

type noopPublisher struct{}

func (noopPublisher) Publish(*models.Notification) {}

// outbox collects notifications written inside a transaction so they are
// pushed only after it commits.
type outbox struct {
	items []*models.Notification
}

func (o *outbox) add(ctx context.Context, tx repositories.Tx, n *models.Notification) error {
	n.ID = uuid.New()
	n.CreatedAt = now()
	if err := tx.Notifications().Create(ctx, n); err != nil {
		return err
	}
	o.items = append(o.items, n)
	return nil
}

func (o *outbox) toAdmins(ctx context.Context, tx repositories.Tx, typ models.NotificationType, title string, message *string) error {
	return o.add(ctx, tx, &models.Notification{
		Type:          typ,
		Title:         title,
		Message:       message,
		RecipientRole: models.RoleAdmin,
	})
}

func (o *outbox) toAssociate(ctx context.Context, tx repositories.Tx, associateID uuid.UUID, typ models.NotificationType, title string, message *string) error {
	return o.add(ctx, tx, &models.Notification{
		Type:          typ,
		Title:         title,
		Message:       message,
		RecipientRole: models.RoleAssociate,
		RecipientID:   &associateID,
	})
}

func (o *outbox) flush(p NotificationPublisher) {
	for _, n := range o.items {
		p.Publish(n)
	}
	o.items = nil
}

// conflictAsValidation turns a storage uniqueness error into the domain
// error a caller can act on.
func conflictAsValidation(err error, field, message string, sentinel error) error {
	if errors.Is(err, sentinel) {
		return &lifecycle.ValidationError{Field: field, Message: message}
	}
	return err
}

func logBestEffort(err error, what string, fields logrus.Fields) {
	if err == nil {
		return
	}
	utils.Logger.WithError(err).WithFields(fields).Warnf("%s failed; continuing", what)
}
