package repositories

import (
	"context"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
)

// Getters return (nil, nil) when no row matches.

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUniqueID(ctx context.Context, uniqueID string) (*models.User, error)
	// NextUniqueID reserves the next human-readable code for the role.
	NextUniqueID(ctx context.Context, role models.Role) (string, error)
	List(ctx context.Context, f models.UserFilter) ([]*models.User, int, error)
	UpdateIfVersion(ctx context.Context, u *models.User, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.User) error) error
}

type LeadRepository interface {
	Create(ctx context.Context, l *models.Lead) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	List(ctx context.Context, f models.LeadFilter) ([]*models.Lead, int, error)
	UpdateIfVersion(ctx context.Context, l *models.Lead, expected int64) (pgconn.CommandTag, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context, associateID *uuid.UUID) (map[models.LeadStatus]int, error)
}

type PackageRepository interface {
	Create(ctx context.Context, p *models.Package) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Package, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Package, error)
	GetByLeadID(ctx context.Context, leadID uuid.UUID) (*models.Package, error)
	List(ctx context.Context, f models.PackageFilter) ([]*models.Package, int, error)
	UpdateIfVersion(ctx context.Context, p *models.Package, expected int64) (pgconn.CommandTag, error)
	CountByStatus(ctx context.Context, associateID *uuid.UUID) (map[models.PackageStatus]int, error)
	// ListAwaitingPayment returns payable packages with no Paid commission.
	ListAwaitingPayment(ctx context.Context) ([]*models.Package, error)
}

type CommissionRepository interface {
	Create(ctx context.Context, c *models.Commission) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Commission, error)
	GetPaidByPackageID(ctx context.Context, packageID uuid.UUID) (*models.Commission, error)
	GetPendingByPackageID(ctx context.Context, packageID uuid.UUID) (*models.Commission, error)
	List(ctx context.Context, f models.CommissionFilter) ([]*models.Commission, int, error)
	UpdateIfVersion(ctx context.Context, c *models.Commission, expected int64) (pgconn.CommandTag, error)
	Summary(ctx context.Context, associateID *uuid.UUID) (*models.CommissionSummary, error)
}

type PolicyRepository interface {
	Create(ctx context.Context, p *models.CommissionPolicy) error
	GetByType(ctx context.Context, t models.PackageType) (*models.CommissionPolicy, error)
	List(ctx context.Context) ([]*models.CommissionPolicy, error)
	UpdateIfVersion(ctx context.Context, p *models.CommissionPolicy, expected int64) (pgconn.CommandTag, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, s models.Session, unreadOnly bool, limit int) ([]*models.Notification, error)
	CountUnread(ctx context.Context, s models.Session) (int, error)
	// MarkRead reports false when the notification is not in the session's inbox.
	MarkRead(ctx context.Context, id uuid.UUID, s models.Session) (bool, error)
	MarkAllRead(ctx context.Context, s models.Session) (int64, error)
}

// Tx exposes every repository bound to one transaction.
type Tx interface {
	Users() UserRepository
	Leads() LeadRepository
	Packages() PackageRepository
	Commissions() CommissionRepository
	Policies() PolicyRepository
	Notifications() NotificationRepository
}

// Store runs each business action as one atomic unit. If fn returns an
// error nothing it wrote becomes visible.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
	Close()
}
