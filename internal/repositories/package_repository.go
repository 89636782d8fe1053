package repositories

import (
	"context"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

type packageRepo struct {
	*BaseVersionedRepo[*models.Package]
	db DB
}

func NewPackageRepository(db DB) PackageRepository {
	r := &packageRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectPackage()+" WHERE p.id=$1", scanPackage)
	return r
}

func (r *packageRepo) Create(ctx context.Context, p *models.Package) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO packages (
			id, lead_id, package_type, base_amount, commission_percent,
			commission_amount, final_amount, status, admin_approved, approved_at,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4::numeric,$5::numeric,$6::numeric,$7::numeric,$8,$9,$10,$11,$12,1)
	`,
		p.ID, p.LeadID, string(p.PackageType), decimalArg(p.BaseAmount), decimalArg(p.CommissionPercent),
		decimalArg(p.CommissionAmount), decimalArg(p.FinalAmount), string(p.Status), p.AdminApproved, p.ApprovedAt,
		p.CreatedAt, p.UpdatedAt,
	)
	if _, ok := uniqueViolation(err); ok {
		return utils.ErrPackageExistsForLead
	}
	if err != nil {
		return err
	}
	p.RowVersion = 1
	return nil
}

func (r *packageRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Package, error) {
	return r.getByID(ctx, id.String())
}

func (r *packageRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Package, error) {
	row := r.db.QueryRow(ctx, baseSelectPackage()+" WHERE p.id=$1 FOR UPDATE", id)
	return scanPackage(row)
}

func (r *packageRepo) GetByLeadID(ctx context.Context, leadID uuid.UUID) (*models.Package, error) {
	row := r.db.QueryRow(ctx, baseSelectPackage()+" WHERE p.lead_id=$1", leadID)
	return scanPackage(row)
}

func (r *packageRepo) List(ctx context.Context, f models.PackageFilter) ([]*models.Package, int, error) {
	var w whereBuilder
	if f.AssociateID != nil {
		w.add("p.lead_id IN (SELECT id FROM leads WHERE associate_id = $%[1]d)", *f.AssociateID)
	}
	if f.Status != nil {
		w.add("p.status = $%[1]d", string(*f.Status))
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM packages p"+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset, limit := models.NormalizePage(f.Page, f.PageSize)
	pageSQL, args := w.page(limit, offset)
	rows, err := r.db.Query(ctx, baseSelectPackage()+w.sql()+" ORDER BY p.created_at DESC, p.id"+pageSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	return collectPackages(rows, total)
}

func (r *packageRepo) UpdateIfVersion(ctx context.Context, p *models.Package, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE packages SET
			commission_amount=$1::numeric, final_amount=$2::numeric, status=$3,
			admin_approved=$4, approved_at=$5,
			updated_at=NOW(), row_version=row_version+1
		WHERE id=$6 AND row_version=$7`,
		decimalArg(p.CommissionAmount), decimalArg(p.FinalAmount), string(p.Status),
		p.AdminApproved, p.ApprovedAt,
		p.ID, expected,
	)
}

func (r *packageRepo) CountByStatus(ctx context.Context, associateID *uuid.UUID) (map[models.PackageStatus]int, error) {
	var w whereBuilder
	if associateID != nil {
		w.add("p.lead_id IN (SELECT id FROM leads WHERE associate_id = $%[1]d)", *associateID)
	}
	rows, err := r.db.Query(ctx, "SELECT p.status, COUNT(*) FROM packages p"+w.sql()+" GROUP BY p.status", w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[models.PackageStatus]int, len(models.AllPackageStatuses))
	for rows.Next() {
		var st string
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, err
		}
		out[models.PackageStatus(st)] = n
	}
	return out, rows.Err()
}

func (r *packageRepo) ListAwaitingPayment(ctx context.Context) ([]*models.Package, error) {
	rows, err := r.db.Query(ctx, baseSelectPackage()+`
		WHERE p.status IN ('Approved','TripComplete')
		  AND NOT EXISTS (
		      SELECT 1 FROM commissions c WHERE c.package_id = p.id AND c.status = 'Paid'
		  )
		ORDER BY p.approved_at, p.id`)
	if err != nil {
		return nil, err
	}
	out, _, err := collectPackages(rows, 0)
	return out, err
}

func collectPackages(rows pgx.Rows, total int) ([]*models.Package, int, error) {
	defer rows.Close()
	var out []*models.Package
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func baseSelectPackage() string {
	return `
		SELECT p.id, p.lead_id, p.package_type, p.base_amount::text, p.commission_percent::text,
		       p.commission_amount::text, p.final_amount::text, p.status, p.admin_approved,
		       p.approved_at, p.row_version, p.created_at, p.updated_at
		FROM packages p`
}

func scanPackage(row pgx.Row) (*models.Package, error) {
	var p models.Package
	var pkgType, status string
	var base, pct, commission, final string

	err := row.Scan(
		&p.ID, &p.LeadID, &pkgType, &base, &pct,
		&commission, &final, &status, &p.AdminApproved,
		&p.ApprovedAt, &p.RowVersion, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	p.PackageType = models.PackageType(pkgType)
	p.Status = models.PackageStatus(status)
	if p.BaseAmount, err = parseDecimal(base); err != nil {
		return nil, err
	}
	if p.CommissionPercent, err = parseDecimal(pct); err != nil {
		return nil, err
	}
	if p.CommissionAmount, err = parseDecimal(commission); err != nil {
		return nil, err
	}
	if p.FinalAmount, err = parseDecimal(final); err != nil {
		return nil, err
	}
	return &p, nil
}
