package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bondaralexcy/medical-diagnostic/internal/email"
	"github.com/bondaralexcy/medical-diagnostic/internal/model"
	"github.com/bondaralexcy/medical-diagnostic/internal/repository"
	"github.com/bondaralexcy/medical-diagnostic/pkg/auth"
	"github.com/bondaralexcy/medical-diagnostic/pkg/errors"
	"github.com/bondaralexcy/medical-diagnostic/pkg/metrics"
	"github.com/bondaralexcy/medical-diagnostic/pkg/security"
	"github.com/bondaralexcy/medical-diagnostic/pkg/validator"
)

// ActivationPath is the route an activation link points at, relative to
// the public URL.
const ActivationPath = "/api/v1/auth/email-confirm/"

const activationTokenBytes = 16

var (
	ErrInvalidCredentials = &errors.AppError{Code: errors.ErrUnauthorized, Message: "invalid email or password"}
	ErrInactive           = &errors.AppError{Code: errors.ErrForbidden, Message: "account is not activated"}
)

type Service struct {
	store     repository.Store
	hasher    security.PasswordHasher
	jwtSvc    auth.JWTService
	mailer    email.Service
	validator validator.Validator
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

func NewService(store repository.Store, hasher security.PasswordHasher, jwtSvc auth.JWTService,
	mailer email.Service, v validator.Validator, m *metrics.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		store:     store,
		hasher:    hasher,
		jwtSvc:    jwtSvc,
		mailer:    mailer,
		validator: v,
		metrics:   m,
		logger:    logger.With().Str("service", "account").Logger(),
	}
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// ActivationLink builds the link mailed to a pending account.
func ActivationLink(linkBase, token string) string {
	return strings.TrimRight(linkBase, "/") + ActivationPath + token
}

// Register creates a pending account and mails its activation link. A mail
// failure is logged; the account stays registered.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest, linkBase string) (*model.Account, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}
	token, err := security.GenerateToken(activationTokenBytes)
	if err != nil {
		return nil, errors.Internal(err)
	}

	account := &model.Account{
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		IsActive:     false,
		Token:        &token,
	}
	if err := s.store.Accounts().Create(ctx, account); err != nil {
		return nil, err
	}
	s.metrics.AccountEvent("registered")

	if err := s.mailer.SendActivation(ctx, account.Email, ActivationLink(linkBase, token)); err != nil {
		s.logger.Error().Err(err).Str("account_id", account.ID.String()).Msg("failed to send activation mail")
	}
	return account, nil
}

// Activate consumes an activation token. Any token that does not belong to
// a pending account is reported the same way.
func (s *Service) Activate(ctx context.Context, token string) (*model.Account, error) {
	account, err := s.store.Accounts().GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	account.Token = nil
	account.IsActive = true
	if err := s.store.Accounts().Update(ctx, account); err != nil {
		return nil, err
	}
	s.metrics.AccountEvent("activated")
	return account, nil
}

// ResendActivation issues a fresh token to a pending account.
func (s *Service) ResendActivation(ctx context.Context, req *model.EmailRequest, linkBase string) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}
	account, err := s.store.Accounts().GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return err
	}
	if account.IsActive {
		return errors.NotFound("account", nil)
	}

	token, err := security.GenerateToken(activationTokenBytes)
	if err != nil {
		return errors.Internal(err)
	}
	account.Token = &token
	if err := s.store.Accounts().Update(ctx, account); err != nil {
		return err
	}

	if err := s.mailer.SendActivation(ctx, account.Email, ActivationLink(linkBase, token)); err != nil {
		s.logger.Error().Err(err).Str("account_id", account.ID.String()).Msg("failed to resend activation mail")
	}
	return nil
}

// ResetPassword replaces the password of the account registered under the
// given email with a random one and mails it in plain text. Anyone able to
// read that mailbox controls the account.
func (s *Service) ResetPassword(ctx context.Context, req *model.EmailRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}
	account, err := s.store.Accounts().GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return err
	}

	password, err := security.GenerateRandomPassword(security.ResetPasswordLen)
	if err != nil {
		return errors.Internal(err)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return errors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	account.PasswordHash = hash
	if err := s.store.Accounts().Update(ctx, account); err != nil {
		return err
	}
	s.metrics.AccountEvent("password_reset")

	if err := s.mailer.SendPasswordReset(ctx, account.Email, password); err != nil {
		s.logger.Error().Err(err).Str("account_id", account.ID.String()).Msg("failed to send password reset mail")
	}
	return nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	account, err := s.store.Accounts().GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.hasher.Compare(account.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, ErrInactive
	}

	tokens, err := s.jwtSvc.GenerateAccessToken(account)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return tokens, nil
}

// Authenticate resolves a bearer token to an active account.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.Account, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, errors.Unauthorized(err)
	}

	account, err := s.store.Accounts().Get(ctx, claims.AccountID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized(err)
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, ErrInactive
	}
	return account, nil
}

func (s *Service) Profile(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	return s.store.Accounts().Get(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req *model.UpdateProfileRequest) (*model.Account, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	account, err := s.store.Accounts().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FirstName != nil {
		account.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		account.LastName = *req.LastName
	}
	if req.Phone != nil {
		account.Phone = *req.Phone
	}
	if req.Avatar != nil {
		account.Avatar = *req.Avatar
	}
	if req.City != nil {
		account.City = *req.City
	}

	if err := s.store.Accounts().Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// List returns every account. Superuser only.
func (s *Service) List(ctx context.Context, actor *model.Account) ([]*model.Account, error) {
	if !actor.IsSuperuser {
		return nil, errors.Forbidden("list accounts")
	}
	return s.store.Accounts().List(ctx)
}

// SetRoles changes groups, capabilities and flags of an account. Superuser only.
func (s *Service) SetRoles(ctx context.Context, actor *model.Account, id uuid.UUID, req *model.RolesRequest) (*model.Account, error) {
	if !actor.IsSuperuser {
		return nil, errors.Forbidden("manage roles")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	account, err := s.store.Accounts().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.IsSuperuser != nil {
		if account.ID == actor.ID && !*req.IsSuperuser {
			return nil, errors.BadRequest("cannot revoke your own superuser status", nil)
		}
		account.IsSuperuser = *req.IsSuperuser
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		if account.IsActive {
			account.Token = nil
		}
	}
	if req.Groups != nil {
		account.Groups = req.Groups
	}
	if req.Permissions != nil {
		account.Permissions = req.Permissions
	}

	if err := s.store.Accounts().Update(ctx, account); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("actor_id", actor.ID.String()).
		Str("account_id", account.ID.String()).
		Strs("groups", account.Groups).
		Strs("permissions", account.Permissions).
		Bool("is_superuser", account.IsSuperuser).
		Msg("account roles changed")
	return account, nil
}

// EnsureSuperuser creates an active superuser under email unless an
// account with that email already exists. Empty email is a no-op.
func (s *Service) EnsureSuperuser(ctx context.Context, email, password string) error {
	if email == "" {
		return nil
	}
	_, err := s.store.Accounts().GetByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return nil
	}
	if !errors.IsNotFound(err) {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("bootstrap superuser: %w", err)
	}
	account := &model.Account{
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		IsActive:     true,
		IsSuperuser:  true,
	}
	if err := s.store.Accounts().Create(ctx, account); err != nil {
		return fmt.Errorf("bootstrap superuser: %w", err)
	}
	s.logger.Info().Str("email", account.Email).Msg("superuser created")
	return nil
}
