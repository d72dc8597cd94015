package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bondaralexcy/medical-diagnostic/internal/model"
	"github.com/bondaralexcy/medical-diagnostic/pkg/errors"
)

const accountColumns = `id, email, password_hash, first_name, last_name, phone, avatar, city,
	is_active, is_superuser, "groups", permissions, token, created_at, updated_at`

type accountRepository struct {
	db sqlx.ExtContext
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	query := `
		INSERT INTO accounts (
			id, email, password_hash, first_name, last_name, phone, avatar, city,
			is_active, is_superuser, "groups", permissions, token, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	if account.Groups == nil {
		account.Groups = []string{}
	}
	if account.Permissions == nil {
		account.Permissions = []string{}
	}

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.FirstName,
		account.LastName,
		account.Phone,
		account.Avatar,
		account.City,
		account.IsActive,
		account.IsSuperuser,
		account.Groups,
		account.Permissions,
		account.Token,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(translate(err, "account"), errors.ErrConflict) {
			return errors.Conflict("account already exists", map[string]string{"email": "an account with this email already exists"})
		}
		return translate(err, "account")
	}
	return nil
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE lower(email) = lower($1)`, email)
}

func (r *accountRepository) GetByToken(ctx context.Context, token string) (*model.Account, error) {
	if token == "" {
		return nil, errors.NotFound("account", nil)
	}
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE token = $1 AND is_active = FALSE`, token)
}

func (r *accountRepository) getOne(ctx context.Context, query string, arg interface{}) (*model.Account, error) {
	var account model.Account
	if err := sqlx.GetContext(ctx, r.db, &account, query, arg); err != nil {
		return nil, translate(err, "account")
	}
	return &account, nil
}

func (r *accountRepository) Update(ctx context.Context, account *model.Account) error {
	query := `
		UPDATE accounts
		SET email = $1, password_hash = $2, first_name = $3, last_name = $4, phone = $5,
			avatar = $6, city = $7, is_active = $8, is_superuser = $9, "groups" = $10,
			permissions = $11, token = $12, updated_at = $13
		WHERE id = $14
	`
	account.UpdatedAt = time.Now()
	if account.Groups == nil {
		account.Groups = []string{}
	}
	if account.Permissions == nil {
		account.Permissions = []string{}
	}

	res, err := r.db.ExecContext(ctx, query,
		account.Email,
		account.PasswordHash,
		account.FirstName,
		account.LastName,
		account.Phone,
		account.Avatar,
		account.City,
		account.IsActive,
		account.IsSuperuser,
		account.Groups,
		account.Permissions,
		account.Token,
		account.UpdatedAt,
		account.ID,
	)
	return expectOne(res, err, "account")
}

func (r *accountRepository) List(ctx context.Context) ([]*model.Account, error) {
	accounts := []*model.Account{}
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY email`
	if err := sqlx.SelectContext(ctx, r.db, &accounts, query); err != nil {
		return nil, translate(err, "account")
	}
	return accounts, nil
}
