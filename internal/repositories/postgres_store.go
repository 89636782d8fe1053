package repositories

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type pgTx struct {
	tx pgx.Tx
}

func (t pgTx) Users() UserRepository                 { return NewUserRepository(t.tx) }
func (t pgTx) Leads() LeadRepository                 { return NewLeadRepository(t.tx) }
func (t pgTx) Packages() PackageRepository           { return NewPackageRepository(t.tx) }
func (t pgTx) Commissions() CommissionRepository     { return NewCommissionRepository(t.tx) }
func (t pgTx) Policies() PolicyRepository            { return NewPolicyRepository(t.tx) }
func (t pgTx) Notifications() NotificationRepository { return NewNotificationRepository(t.tx) }

type pgStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an already connected pool. Migrations are the
// caller's job (see RunMigrations).
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

func (s *pgStore) WithTx(ctx context.Context, fn func(tx Tx) error) (err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	return fn(pgTx{tx: tx})
}

func (s *pgStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *pgStore) Close() {
	s.pool.Close()
}
