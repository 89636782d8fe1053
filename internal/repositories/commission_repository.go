package repositories

import (
	"context"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

type commissionRepo struct {
	*BaseVersionedRepo[*models.Commission]
	db DB
}

func NewCommissionRepository(db DB) CommissionRepository {
	r := &commissionRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectCommission()+" WHERE id=$1", scanCommission)
	return r
}

func (r *commissionRepo) Create(ctx context.Context, c *models.Commission) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO commissions (
			id, associate_id, package_id, lead_id, amount, status,
			transaction_id, screenshot_url, payment_date,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5::numeric,$6,$7,$8,$9,$10,$11,1)
	`,
		c.ID, c.AssociateID, c.PackageID, c.LeadID, decimalArg(c.Amount), string(c.Status),
		c.TransactionID, c.ScreenshotURL, c.PaymentDate,
		c.CreatedAt, c.UpdatedAt,
	)
	if _, ok := uniqueViolation(err); ok {
		return utils.ErrPaidCommissionExists
	}
	if err != nil {
		return err
	}
	c.RowVersion = 1
	return nil
}

func (r *commissionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Commission, error) {
	return r.getByID(ctx, id.String())
}

func (r *commissionRepo) GetPaidByPackageID(ctx context.Context, packageID uuid.UUID) (*models.Commission, error) {
	row := r.db.QueryRow(ctx, baseSelectCommission()+" WHERE package_id=$1 AND status='Paid'", packageID)
	return scanCommission(row)
}

func (r *commissionRepo) GetPendingByPackageID(ctx context.Context, packageID uuid.UUID) (*models.Commission, error) {
	row := r.db.QueryRow(ctx, baseSelectCommission()+
		" WHERE package_id=$1 AND status='Pending' ORDER BY created_at DESC LIMIT 1 FOR UPDATE", packageID)
	return scanCommission(row)
}

func (r *commissionRepo) List(ctx context.Context, f models.CommissionFilter) ([]*models.Commission, int, error) {
	var w whereBuilder
	if f.AssociateID != nil {
		w.add("associate_id = $%[1]d", *f.AssociateID)
	}
	if f.Status != nil {
		w.add("status = $%[1]d", string(*f.Status))
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM commissions"+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset, limit := models.NormalizePage(f.Page, f.PageSize)
	pageSQL, args := w.page(limit, offset)
	rows, err := r.db.Query(ctx, baseSelectCommission()+w.sql()+" ORDER BY created_at DESC, id"+pageSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*models.Commission
	for rows.Next() {
		c, err := scanCommission(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// UpdateIfVersion only ever promotes a Pending record; Paid rows are final.
func (r *commissionRepo) UpdateIfVersion(ctx context.Context, c *models.Commission, expected int64) (pgconn.CommandTag, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE commissions SET
			amount=$1::numeric, status=$2, transaction_id=$3, screenshot_url=$4, payment_date=$5,
			updated_at=NOW(), row_version=row_version+1
		WHERE id=$6 AND row_version=$7 AND status <> 'Paid'`,
		decimalArg(c.Amount), string(c.Status), c.TransactionID, c.ScreenshotURL, c.PaymentDate,
		c.ID, expected,
	)
	if _, ok := uniqueViolation(err); ok {
		return nil, utils.ErrPaidCommissionExists
	}
	return tag, err
}

func (r *commissionRepo) Summary(ctx context.Context, associateID *uuid.UUID) (*models.CommissionSummary, error) {
	var s models.CommissionSummary

	// Paid money follows the commission row, whatever happened to the
	// package or lead afterwards.
	var paidW whereBuilder
	paidW.clauses = append(paidW.clauses, "status = 'Paid'")
	if associateID != nil {
		paidW.add("associate_id = $%[1]d", *associateID)
	}
	var paid string
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)::text, COUNT(*)
		FROM commissions`+paidW.sql(), paidW.args...,
	).Scan(&paid, &s.PaidCount)
	if err != nil {
		return nil, err
	}

	var unpaidW whereBuilder
	unpaidW.clauses = append(unpaidW.clauses,
		"p.status IN ('Approved','TripComplete')",
		"NOT EXISTS (SELECT 1 FROM commissions c WHERE c.package_id = p.id AND c.status = 'Paid')",
	)
	if associateID != nil {
		unpaidW.add("l.associate_id = $%[1]d", *associateID)
	}
	var unpaid string
	err = r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(p.commission_amount), 0)::text, COUNT(*)
		FROM packages p
		JOIN leads l ON l.id = p.lead_id`+unpaidW.sql(), unpaidW.args...,
	).Scan(&unpaid, &s.UnpaidCount)
	if err != nil {
		return nil, err
	}

	if s.Paid, err = parseDecimal(paid); err != nil {
		return nil, err
	}
	if s.Pending, err = parseDecimal(unpaid); err != nil {
		return nil, err
	}
	s.Earned = s.Paid.Add(s.Pending)
	return &s, nil
}

func baseSelectCommission() string {
	return `
		SELECT id, associate_id, package_id, lead_id, amount::text, status,
		       transaction_id, screenshot_url, payment_date,
		       row_version, created_at, updated_at
		FROM commissions`
}

func scanCommission(row pgx.Row) (*models.Commission, error) {
	var c models.Commission
	var amount, status string

	err := row.Scan(
		&c.ID, &c.AssociateID, &c.PackageID, &c.LeadID, &amount, &status,
		&c.TransactionID, &c.ScreenshotURL, &c.PaymentDate,
		&c.RowVersion, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	c.Status = models.CommissionStatus(status)
	if c.Amount, err = parseDecimal(amount); err != nil {
		return nil, err
	}
	return &c, nil
}
