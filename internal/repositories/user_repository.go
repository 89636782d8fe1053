package repositories

import (
	"context"
	"fmt"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

type userRepo struct {
	*BaseVersionedRepo[*models.User]
	db DB
}

// NewUserRepository returns the Postgres-backed UserRepository.
func NewUserRepository(db DB) UserRepository {
	r := &userRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectUser()+" WHERE id=$1", scanUser)
	return r
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	u.Email = utils.NormalizeEmail(u.Email)
	bank := u.BankDetails
	if bank == nil {
		bank = &models.BankDetails{}
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (
			id, name, email, unique_id, role, is_active, requires_password_change,
			phone, address, bank_account_number, bank_ifsc_code, bank_upi_id,
			password_hash, approved_at, created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NULLIF($10,''),NULLIF($11,''),NULLIF($12,''),$13,$14,$15,$16,1)
	`,
		u.ID, u.Name, u.Email, u.UniqueID, string(u.Role), u.IsActive, u.RequiresPasswordChange,
		u.Phone, u.Address, bank.AccountNumber, bank.IFSCCode, bank.UPIID,
		u.PasswordHash, u.ApprovedAt, u.CreatedAt, u.UpdatedAt,
	)
	if c, ok := uniqueViolation(err); ok {
		if c == "users_unique_id_key" {
			return utils.ErrUniqueIDExists
		}
		return utils.ErrEmailExists
	}
	if err != nil {
		return err
	}
	u.RowVersion = 1
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getByID(ctx, id.String())
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE LOWER(email)=$1", utils.NormalizeEmail(email))
	return scanUser(row)
}

func (r *userRepo) GetByUniqueID(ctx context.Context, uniqueID string) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE UPPER(unique_id)=UPPER($1)", uniqueID)
	return scanUser(row)
}

func (r *userRepo) NextUniqueID(ctx context.Context, role models.Role) (string, error) {
	seq, prefix := "associate_code_seq", associateCodePrefix
	if role == models.RoleAdmin {
		seq, prefix = "admin_code_seq", adminCodePrefix
	}
	var n int64
	if err := r.db.QueryRow(ctx, "SELECT nextval('"+seq+"')").Scan(&n); err != nil {
		return "", err
	}
	return FormatUniqueID(prefix, n), nil
}

func (r *userRepo) List(ctx context.Context, f models.UserFilter) ([]*models.User, int, error) {
	var w whereBuilder
	if f.Role != nil {
		w.add("role = $%[1]d", string(*f.Role))
	}
	if f.State != nil {
		switch *f.State {
		case models.AccountStateActive:
			w.add("is_active = $%[1]d", true)
		case models.AccountStatePending:
			w.add("is_active = $%[1]d AND approved_at IS NULL", false)
		case models.AccountStateInactive:
			w.add("is_active = $%[1]d AND approved_at IS NOT NULL", false)
		}
	}
	if f.Search != "" {
		w.add("(name ILIKE $%[1]d OR email ILIKE $%[1]d OR unique_id ILIKE $%[1]d OR phone ILIKE $%[1]d)", likePattern(f.Search))
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM users"+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset, limit := models.NormalizePage(f.Page, f.PageSize)
	pageSQL, args := w.page(limit, offset)
	rows, err := r.db.Query(ctx, baseSelectUser()+w.sql()+" ORDER BY created_at DESC, unique_id"+pageSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *userRepo) UpdateIfVersion(ctx context.Context, u *models.User, expected int64) (pgconn.CommandTag, error) {
	bank := u.BankDetails
	if bank == nil {
		bank = &models.BankDetails{}
	}
	return r.db.Exec(ctx, `
		UPDATE users SET
			name=$1, phone=$2, address=$3,
			bank_account_number=NULLIF($4,''), bank_ifsc_code=NULLIF($5,''), bank_upi_id=NULLIF($6,''),
			is_active=$7, requires_password_change=$8, password_hash=$9, approved_at=$10,
			updated_at=NOW(), row_version=row_version+1
		WHERE id=$11 AND row_version=$12`,
		u.Name, u.Phone, u.Address,
		bank.AccountNumber, bank.IFSCCode, bank.UPIID,
		u.IsActive, u.RequiresPasswordChange, u.PasswordHash, u.ApprovedAt,
		u.ID, expected,
	)
}

func (r *userRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.User) error) error {
	return r.updateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

const (
	associateCodePrefix = "BA"
	adminCodePrefix     = "AD"
)

// FormatUniqueID renders codes like BA-001. Numbers beyond 999 widen.
func FormatUniqueID(prefix string, n int64) string {
	return fmt.Sprintf("%s-%03d", prefix, n)
}

func baseSelectUser() string {
	return `
		SELECT id, name, email, unique_id, role, is_active, requires_password_change,
		       phone, address, bank_account_number, bank_ifsc_code, bank_upi_id,
		       password_hash, approved_at, row_version, created_at, updated_at
		FROM users`
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var role string
	var acct, ifsc, upi *string

	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.UniqueID, &role, &u.IsActive, &u.RequiresPasswordChange,
		&u.Phone, &u.Address, &acct, &ifsc, &upi,
		&u.PasswordHash, &u.ApprovedAt, &u.RowVersion, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	u.Role = models.Role(role)

	bank := models.BankDetails{
		AccountNumber: utils.Val(acct),
		IFSCCode:      utils.Val(ifsc),
		UPIID:         utils.Val(upi),
	}
	if !bank.IsZero() {
		u.BankDetails = &bank
	}
	return &u, nil
}
