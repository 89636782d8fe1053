package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/constants"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/lifecycle"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/repositories"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/google/uuid"
)

// reminderListMax caps how many packages the reminder message names.
const reminderListMax = 10

type NotificationService interface {
	List(ctx context.Context, s models.Session, unreadOnly bool, limit int) ([]*models.Notification, error)
	UnreadCount(ctx context.Context, s models.Session) (int, error)
	MarkRead(ctx context.Context, s models.Session, id uuid.UUID) error
	MarkAllRead(ctx context.Context, s models.Session) (int64, error)
	// SendCommissionReminder notifies admins about packages still awaiting
	// payment. It returns how many packages were outstanding.
	SendCommissionReminder(ctx context.Context) (int, error)
}

type notificationService struct {
	store     repositories.Store
	publisher NotificationPublisher
}

func NewNotificationService(store repositories.Store, publisher NotificationPublisher) NotificationService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &notificationService{store: store, publisher: publisher}
}

func (s *notificationService) List(ctx context.Context, session models.Session, unreadOnly bool, limit int) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = constants.NotificationListLimit
	}
	var out []*models.Notification
	err := s.store.WithTx(ctx, func(tx repositories.Tx) error {
		var err error
		out, err = tx.Notifications().List(ctx, session, unreadOnly, limit)
		return err
	})
	return out, err
}

func (s *notificationService) UnreadCount(ctx context.Context, session models.Session) (int, error) {
	var n int
	err := s.store.WithTx(ctx, func(tx repositories.Tx) error {
		var err error
		n, err = tx.Notifications().CountUnread(ctx, session)
		return err
	})
	return n, err
}

func (s *notificationService) MarkRead(ctx context.Context, session models.Session, id uuid.UUID) error {
	return s.store.WithTx(ctx, func(tx repositories.Tx) error {
		ok, err := tx.Notifications().MarkRead(ctx, id, session)
		if err != nil {
			return err
		}
		if !ok {
			return lifecycle.NotFound("notification", id)
		}
		return nil
	})
}

func (s *notificationService) MarkAllRead(ctx context.Context, session models.Session) (int64, error) {
	var n int64
	err := s.store.WithTx(ctx, func(tx repositories.Tx) error {
		var err error
		n, err = tx.Notifications().MarkAllRead(ctx, session)
		return err
	})
	return n, err
}

func (s *notificationService) SendCommissionReminder(ctx context.Context) (int, error) {
	var outstanding int
	var box outbox
	err := s.store.WithTx(ctx, func(tx repositories.Tx) error {
		pkgs, err := tx.Packages().ListAwaitingPayment(ctx)
		if err != nil {
			return err
		}
		outstanding = len(pkgs)
		if outstanding == 0 {
			return nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%d approved package(s) have an unpaid commission:", outstanding)
		for i, p := range pkgs {
			if i == reminderListMax {
				fmt.Fprintf(&b, " and %d more", outstanding-reminderListMax)
				break
			}
			fmt.Fprintf(&b, " %s (%s)", p.ID.String()[:8], p.CommissionAmount.StringFixed(2))
		}
		msg := b.String()
		return box.toAdmins(ctx, tx, models.NotificationCommissionReminder, "Commissions awaiting payment", &msg)
	})
	if err != nil {
		return 0, err
	}
	box.flush(s.publisher)
	utils.Logger.WithField("outstanding", outstanding).Info("Commission reminder run complete")
	return outstanding, nil
}
