package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pkoziol/bookshare/internal/model"
	"github.com/pkoziol/bookshare/internal/repository"
	"github.com/pkoziol/bookshare/internal/utils"
)

// VerificationMailer delivers account verification links. A nil mailer
// disables delivery, which keeps registration usable in development
// without an SMTP server.
type VerificationMailer interface {
	SendVerification(to, link string) error
}

var (
	// ErrLoginTaken is returned when the login or email is already in use.
	ErrLoginTaken = errors.New("login or email already taken")
	// ErrInvalidCredentials is returned when a login attempt or an old
	// password check fails.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountDisabled is returned when a disabled account tries to
	// log in before verifying its email.
	ErrAccountDisabled = errors.New("account not verified")
	// ErrTokenExpired is returned when a verification token is past its
	// expiry.
	ErrTokenExpired = errors.New("verification token expired")
)

// RegisterParams carries the fields needed to create an account.
type RegisterParams struct {
	Name     string
	LastName string
	Login    string
	Email    string
	Password string
}

// AccountService implements registration, email verification, login
// checks and password changes.
type AccountService interface {
	Register(ctx context.Context, params RegisterParams) (*model.User, error)
	VerifyEmail(ctx context.Context, token string) (*model.User, error)
	Authenticate(ctx context.Context, login, password string) (*model.User, error)
	ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword string) error
	GetUser(ctx context.Context, id uint64) (*model.User, error)
}

// AccountConfig groups the construction-time settings of the account
// service. Verification expiry is an explicit value here, never a
// package-level variable.
type AccountConfig struct {
	BcryptCost int
	VerifyTTL  time.Duration
	BaseURL    string
}

type accountService struct {
	users  repository.UserRepository
	roles  repository.RoleRepository
	tokens repository.VerificationTokenRepository
	mailer VerificationMailer
	cfg    AccountConfig
	logger *zerolog.Logger
}

// NewAccountService wires an AccountService over the given
// repositories. mailer may be nil to skip email delivery.
func NewAccountService(
	users repository.UserRepository,
	roles repository.RoleRepository,
	tokens repository.VerificationTokenRepository,
	mailer VerificationMailer,
	cfg AccountConfig,
	logger *zerolog.Logger,
) AccountService {
	return &accountService{
		users:  users,
		roles:  roles,
		tokens: tokens,
		mailer: mailer,
		cfg:    cfg,
		logger: logger,
	}
}

// Register creates a disabled account with ROLE_USER, issues an email
// verification token and mails the verification link.
func (s *accountService) Register(ctx context.Context, params RegisterParams) (*model.User, error) {
	hash, err := utils.HashPassword(params.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, &AddFailure{Msg: "could not hash password", Err: err}
	}

	user, err := s.users.Create(ctx, &model.User{
		Name:         params.Name,
		LastName:     params.LastName,
		Login:        params.Login,
		Email:        params.Email,
		PasswordHash: hash,
		Enabled:      false,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrLoginTaken
		}
		return nil, &AddFailure{Msg: "could not create user", Err: err}
	}

	role, err := s.roles.GetByName(ctx, model.RoleUser)
	if err != nil {
		return nil, &AddFailure{Msg: "default role missing", Err: err}
	}
	if err := s.users.GrantRole(ctx, user.ID, role.ID); err != nil {
		return nil, &AddFailure{Msg: "could not grant default role", Err: err}
	}

	token, err := s.tokens.Create(ctx, &model.EmailVerificationToken{
		Token:   uuid.NewString(),
		UserID:  user.ID,
		Expires: time.Now().UTC().Add(s.cfg.VerifyTTL),
	})
	if err != nil {
		return nil, &AddFailure{Msg: "could not create verification token", Err: err}
	}

	if s.mailer != nil {
		link := fmt.Sprintf("%s/v1/auth/verify?token=%s", s.cfg.BaseURL, token.Token)
		if err := s.mailer.SendVerification(user.Email, link); err != nil {
			// the account stays registered; the user can ask for the
			// link again or be swept by the cleanup job
			s.logger.Error().Err(err).Str("email", user.Email).
				Msg("failed to send verification email")
		}
	}

	return user, nil
}

// VerifyEmail consumes the token: the owning user is enabled and the
// token row deleted.
func (s *accountService) VerifyEmail(ctx context.Context, token string) (*model.User, error) {
	t, err := s.tokens.GetByToken(ctx, token)
	if err != nil {
		return nil, &GetFailure{Msg: "verification token not found", Err: err}
	}
	if time.Now().UTC().After(t.Expires) {
		return nil, ErrTokenExpired
	}
	if err := s.users.SetEnabled(ctx, t.UserID, true); err != nil {
		return nil, &ModifyFailure{Msg: "could not enable user", Err: err}
	}
	if err := s.tokens.Delete(ctx, t.ID); err != nil {
		return nil, &DeleteFailure{Msg: "could not consume verification token", Err: err}
	}
	user, err := s.users.GetByID(ctx, t.UserID)
	if err != nil {
		return nil, &GetFailure{Msg: "could not load verified user", Err: err}
	}
	s.logger.Info().Uint64("user_id", user.ID).Msg("email verified")
	return user, nil
}

// Authenticate checks login and password and rejects accounts that have
// not completed verification.
func (s *accountService) Authenticate(ctx context.Context, login, password string) (*model.User, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, &GetFailure{Msg: "could not look up user", Err: err}
	}
	if !utils.VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !user.Enabled {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

// ChangePassword replaces the password only after the old one verifies.
func (s *accountService) ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return &GetFailure{Msg: "could not load user", Err: err}
	}
	if !utils.VerifyPassword(user.PasswordHash, oldPassword) {
		return ErrInvalidCredentials
	}
	hash, err := utils.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return &ModifyFailure{Msg: "could not hash new password", Err: err}
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return &ModifyFailure{Msg: "could not update password", Err: err}
	}
	return nil
}

func (s *accountService) GetUser(ctx context.Context, id uint64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, &GetFailure{Msg: fmt.Sprintf("could not get user %d", id), Err: err}
	}
	return user, nil
}
