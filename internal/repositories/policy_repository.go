package repositories

import (
	"context"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

type policyRepo struct {
	db DB
}

func NewPolicyRepository(db DB) PolicyRepository {
	return &policyRepo{db: db}
}

func (r *policyRepo) Create(ctx context.Context, p *models.CommissionPolicy) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO commission_policies (
			id, package_type, commission_percent, is_active, created_at, updated_at, row_version
		) VALUES ($1,$2,$3::numeric,$4,$5,$6,1)
	`, p.ID, string(p.PackageType), decimalArg(p.CommissionPercent), p.IsActive, p.CreatedAt, p.UpdatedAt)
	if _, ok := uniqueViolation(err); ok {
		return utils.ErrPolicyExists
	}
	if err != nil {
		return err
	}
	p.RowVersion = 1
	return nil
}

func (r *policyRepo) GetByType(ctx context.Context, t models.PackageType) (*models.CommissionPolicy, error) {
	row := r.db.QueryRow(ctx, baseSelectPolicy()+" WHERE package_type=$1", string(t))
	return scanPolicy(row)
}

func (r *policyRepo) List(ctx context.Context) ([]*models.CommissionPolicy, error) {
	rows, err := r.db.Query(ctx, baseSelectPolicy()+" ORDER BY package_type")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.CommissionPolicy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *policyRepo) UpdateIfVersion(ctx context.Context, p *models.CommissionPolicy, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE commission_policies SET
			commission_percent=$1::numeric, is_active=$2,
			updated_at=NOW(), row_version=row_version+1
		WHERE id=$3 AND row_version=$4`,
		decimalArg(p.CommissionPercent), p.IsActive, p.ID, expected,
	)
}

func baseSelectPolicy() string {
	return `
		SELECT id, package_type, commission_percent::text, is_active,
		       row_version, created_at, updated_at
		FROM commission_policies`
}

func scanPolicy(row pgx.Row) (*models.CommissionPolicy, error) {
	var p models.CommissionPolicy
	var pkgType, pct string
	err := row.Scan(&p.ID, &pkgType, &pct, &p.IsActive, &p.RowVersion, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	p.PackageType = models.PackageType(pkgType)
	if p.CommissionPercent, err = parseDecimal(pct); err != nil {
		return nil, err
	}
	return &p, nil
}
