package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stockroomhq/stockroom-backend/internal/users"
	pkgauth "github.com/stockroomhq/stockroom-backend/pkg/auth"
	"github.com/stockroomhq/stockroom-backend/pkg/config"
	"github.com/stockroomhq/stockroom-backend/pkg/db"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/security"
	"gorm.io/gorm"
)

// Signin failures never reveal whether the email exists or the password was
// wrong. Both paths answer with the same message.
const invalidCredentialsMessage = "invalid email or password"

// Service registers users and exchanges credentials for bearer tokens.
type Service interface {
	Signup(ctx context.Context, input SignupInput) (*SignupDTO, error)
	Signin(ctx context.Context, input SigninInput) (*SessionDTO, error)
}

type service struct {
	usersRepo   *users.Repository
	dbClient    *db.Client
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

// NewService constructs an auth service instance.
func NewService(usersRepo *users.Repository, dbClient *db.Client, jwtCfg config.JWTConfig, passwordCfg config.PasswordConfig) (Service, error) {
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if jwtCfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	return &service{
		usersRepo:   usersRepo,
		dbClient:    dbClient,
		jwtCfg:      jwtCfg,
		passwordCfg: passwordCfg,
		now:         time.Now,
	}, nil
}

// Signup hashes the password and creates the user. A duplicate email answers
// with a conflict whether caught by the pre-check or the unique index.
func (s *service) Signup(ctx context.Context, input SignupInput) (*SignupDTO, error) {
	email := normalizeEmail(input.Email)

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *users.UserDTO
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.usersRepo.WithTx(tx)

		if _, err := txRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !db.IsNotFound(err) {
			return err
		}

		user, err := txRepo.Create(ctx, users.CreateUserDTO{Email: email, PasswordHash: hash})
		if err != nil {
			return err
		}
		created = users.FromModel(user)
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		if db.IsUniqueViolation(err, "idx_users_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	return &SignupDTO{ID: created.ID, Email: created.Email}, nil
}

func (s *service) Signin(ctx context.Context, input SigninInput) (*SessionDTO, error) {
	email := normalizeEmail(input.Email)

	user, err := s.usersRepo.FindByEmail(ctx, email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "fetch user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	return &SessionDTO{
		Token:     token,
		ExpiresIn: int64(s.jwtCfg.Expiration().Seconds()),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
