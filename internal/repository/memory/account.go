package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bondaralexcy/medical-diagnostic/internal/model"
	"github.com/bondaralexcy/medical-diagnostic/pkg/errors"
)

type accountRepository struct {
	st *state
}

func copyAccount(a model.Account) *model.Account {
	a.Groups = append(a.Groups[:0:0], a.Groups...)
	a.Permissions = append(a.Permissions[:0:0], a.Permissions...)
	if a.Token != nil {
		token := *a.Token
		a.Token = &token
	}
	return &a
}

func emailTaken(d *data, email string, except uuid.UUID) bool {
	for id, a := range d.accounts {
		if id != except && strings.EqualFold(a.Email, email) {
			return true
		}
	}
	return false
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	return r.st.write(func(d *data) error {
		if emailTaken(d, account.Email, uuid.Nil) {
			return errors.Conflict("account already exists", map[string]string{"email": "an account with this email already exists"})
		}
		if account.ID == uuid.Nil {
			account.ID = uuid.New()
		}
		now := time.Now()
		account.CreatedAt = now
		account.UpdatedAt = now
		d.accounts[account.ID] = *copyAccount(*account)
		return nil
	})
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var (
		out *model.Account
		ok  bool
	)
	r.st.read(func(d *data) {
		var a model.Account
		if a, ok = d.accounts[id]; ok {
			out = copyAccount(a)
		}
	})
	if !ok {
		return nil, errors.NotFound("account", nil)
	}
	return out, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return r.find(func(a *model.Account) bool { return strings.EqualFold(a.Email, email) })
}

func (r *accountRepository) GetByToken(ctx context.Context, token string) (*model.Account, error) {
	if token == "" {
		return nil, errors.NotFound("account", nil)
	}
	return r.find(func(a *model.Account) bool {
		return !a.IsActive && a.Token != nil && *a.Token == token
	})
}

func (r *accountRepository) find(match func(*model.Account) bool) (*model.Account, error) {
	var out *model.Account
	r.st.read(func(d *data) {
		for _, a := range d.accounts {
			if match(&a) {
				out = copyAccount(a)
				return
			}
		}
	})
	if out == nil {
		return nil, errors.NotFound("account", nil)
	}
	return out, nil
}

func (r *accountRepository) Update(ctx context.Context, account *model.Account) error {
	return r.st.write(func(d *data) error {
		existing, ok := d.accounts[account.ID]
		if !ok {
			return errors.NotFound("account", nil)
		}
		if emailTaken(d, account.Email, account.ID) {
			return errors.Conflict("account already exists", map[string]string{"email": "an account with this email already exists"})
		}
		account.CreatedAt = existing.CreatedAt
		account.UpdatedAt = time.Now()
		d.accounts[account.ID] = *copyAccount(*account)
		return nil
	})
}

func (r *accountRepository) List(ctx context.Context) ([]*model.Account, error) {
	out := []*model.Account{}
	r.st.read(func(d *data) {
		for _, a := range d.accounts {
			out = append(out, copyAccount(a))
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}
