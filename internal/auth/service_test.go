package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/stockroomhq/stockroom-backend/internal/users"
	pkgauth "github.com/stockroomhq/stockroom-backend/pkg/auth"
	"github.com/stockroomhq/stockroom-backend/pkg/config"
	"github.com/stockroomhq/stockroom-backend/pkg/db"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "stockroom-test", ExpirationMinutes: 15}
}

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	svc, err := NewService(
		users.NewRepository(conn),
		db.FromGorm(conn),
		testJWTConfig(),
		config.PasswordConfig{BcryptCost: 4},
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestSignupCreatesUser(t *testing.T) {
	svc := newTestService(t)

	out, err := svc.Signup(context.Background(), SignupInput{Email: "Ops@Example.Com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if out.ID == 0 {
		t.Fatal("expected generated user id")
	}
	if out.Email != "ops@example.com" {
		t.Fatalf("email should be normalized, got %q", out.Email)
	}
}

func TestSignupDuplicateEmailIsConflict(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{Email: "ops@example.com", Password: "s3cret-pass"}); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	_, err := svc.Signup(ctx, SignupInput{Email: "OPS@example.com", Password: "other-pass"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestSigninReturnsValidToken(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Signup(ctx, SignupInput{Email: "ops@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	session, err := svc.Signin(ctx, SigninInput{Email: "ops@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("signin: %v", err)
	}
	if session.ExpiresIn != 15*60 {
		t.Fatalf("unexpected expiresIn %d", session.ExpiresIn)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), session.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != created.ID {
		t.Fatalf("token user id %d does not match created user %d", claims.UserID, created.ID)
	}
	if claims.Email != "ops@example.com" {
		t.Fatalf("unexpected token email %q", claims.Email)
	}
}

func TestSigninWrongPasswordIsUnauthorized(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{Email: "ops@example.com", Password: "s3cret-pass"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, err := svc.Signin(ctx, SigninInput{Email: "ops@example.com", Password: "wrong"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	wrongPasswordMsg := typed.Error()

	_, err = svc.Signin(ctx, SigninInput{Email: "nobody@example.com", Password: "wrong"})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}
	if typed.Error() != wrongPasswordMsg {
		t.Fatal("unknown email and wrong password must produce identical messages")
	}
}
