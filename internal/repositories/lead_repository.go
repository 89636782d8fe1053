package repositories

import (
	"context"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

type leadRepo struct {
	*BaseVersionedRepo[*models.Lead]
	db DB
}

func NewLeadRepository(db DB) LeadRepository {
	r := &leadRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectLead()+" WHERE id=$1", scanLead)
	return r
}

func (r *leadRepo) Create(ctx context.Context, l *models.Lead) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO leads (
			id, customer_name, phone, email, number_of_people, visiting_date,
			visiting_location, current_location, client_budget, associate_id,
			status, remarks, package_type, attachment_url,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9::numeric,$10,$11,$12,$13,$14,$15,$16,1)
	`,
		l.ID, l.CustomerName, l.Phone, l.Email, l.NumberOfPeople, l.VisitingDate,
		l.VisitingLocation, l.CurrentLocation, decimalPtrArg(l.ClientBudget), l.AssociateID,
		string(l.Status), l.Remarks, packageTypeArg(l.PackageType), l.AttachmentURL,
		l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return err
	}
	l.RowVersion = 1
	return nil
}

func (r *leadRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	return r.getByID(ctx, id.String())
}

func (r *leadRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	row := r.db.QueryRow(ctx, baseSelectLead()+" WHERE id=$1 FOR UPDATE", id)
	return scanLead(row)
}

func (r *leadRepo) List(ctx context.Context, f models.LeadFilter) ([]*models.Lead, int, error) {
	var w whereBuilder
	if f.AssociateID != nil {
		w.add("associate_id = $%[1]d", *f.AssociateID)
	}
	if f.Status != nil {
		w.add("status = $%[1]d", string(*f.Status))
	}
	if f.Search != "" {
		w.add("(customer_name ILIKE $%[1]d OR phone ILIKE $%[1]d OR COALESCE(email,'') ILIKE $%[1]d)", likePattern(f.Search))
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM leads"+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset, limit := models.NormalizePage(f.Page, f.PageSize)
	pageSQL, args := w.page(limit, offset)
	rows, err := r.db.Query(ctx, baseSelectLead()+w.sql()+" ORDER BY created_at DESC, id"+pageSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*models.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}

func (r *leadRepo) UpdateIfVersion(ctx context.Context, l *models.Lead, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE leads SET
			customer_name=$1, phone=$2, email=$3, number_of_people=$4, visiting_date=$5,
			visiting_location=$6, current_location=$7, client_budget=$8::numeric, associate_id=$9,
			status=$10, remarks=$11, package_type=$12, attachment_url=$13,
			updated_at=NOW(), row_version=row_version+1
		WHERE id=$14 AND row_version=$15`,
		l.CustomerName, l.Phone, l.Email, l.NumberOfPeople, l.VisitingDate,
		l.VisitingLocation, l.CurrentLocation, decimalPtrArg(l.ClientBudget), l.AssociateID,
		string(l.Status), l.Remarks, packageTypeArg(l.PackageType), l.AttachmentURL,
		l.ID, expected,
	)
}

func (r *leadRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM leads WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *leadRepo) CountByStatus(ctx context.Context, associateID *uuid.UUID) (map[models.LeadStatus]int, error) {
	var w whereBuilder
	if associateID != nil {
		w.add("associate_id = $%[1]d", *associateID)
	}
	rows, err := r.db.Query(ctx, "SELECT status, COUNT(*) FROM leads"+w.sql()+" GROUP BY status", w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[models.LeadStatus]int, len(models.AllLeadStatuses))
	for rows.Next() {
		var st string
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, err
		}
		out[models.LeadStatus(st)] = n
	}
	return out, rows.Err()
}

func packageTypeArg(t *models.PackageType) *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}

func baseSelectLead() string {
	return `
		SELECT id, customer_name, phone, email, number_of_people, visiting_date,
		       visiting_location, current_location, client_budget::text, associate_id,
		       status, remarks, package_type, attachment_url,
		       row_version, created_at, updated_at
		FROM leads`
}

func scanLead(row pgx.Row) (*models.Lead, error) {
	var l models.Lead
	var budget, pkgType *string
	var status string

	err := row.Scan(
		&l.ID, &l.CustomerName, &l.Phone, &l.Email, &l.NumberOfPeople, &l.VisitingDate,
		&l.VisitingLocation, &l.CurrentLocation, &budget, &l.AssociateID,
		&status, &l.Remarks, &pkgType, &l.AttachmentURL,
		&l.RowVersion, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	l.Status = models.LeadStatus(status)
	if pkgType != nil {
		t := models.PackageType(*pkgType)
		l.PackageType = &t
	}
	if l.ClientBudget, err = parseDecimalPtr(budget); err != nil {
		return nil, err
	}
	return &l, nil
}
