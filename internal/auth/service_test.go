package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"golang.org/x/crypto/bcrypt"
)

var errAuth = errors.New("auth error")

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	return mock
}

func TestCreateAdminAndLogin(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	createdAt := time.Now().Add(-time.Minute)

	mock.ExpectQuery(`INSERT INTO dashboard_admins`).
		WithArgs(pgxmock.AnyArg(), "ops@pacebeats.app", pgxmock.AnyArg(), "Ops One").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	svc := NewService("test-secret", mock)
	admin, err := svc.CreateAdmin(context.Background(), "ops@pacebeats.app", "password123", "Ops One")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if admin.ID == "" || admin.PasswordHash == "" {
		t.Fatalf("expected admin with hash")
	}

	mock.ExpectQuery(`SELECT id, email, password_hash, full_name, created_at`).
		WithArgs("ops@pacebeats.app").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "full_name", "created_at"}).
			AddRow(admin.ID, admin.Email, admin.PasswordHash, admin.FullName, createdAt))

	loggedIn, tokens, err := svc.Login(context.Background(), LoginRequest{Email: "ops@pacebeats.app", Password: "password123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loggedIn.ID != admin.ID || tokens.Token == "" || tokens.TokenType != "Bearer" {
		t.Fatalf("unexpected login result")
	}

	adminID, err := svc.ValidateAccessToken(tokens.Token)
	if err != nil || adminID != admin.ID {
		t.Fatalf("token did not validate: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.DefaultCost)

	mock.ExpectQuery(`SELECT id, email, password_hash, full_name, created_at`).
		WithArgs("ops@pacebeats.app").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "full_name", "created_at"}).
			AddRow("a1", "ops@pacebeats.app", string(hash), "Ops", time.Now()))

	svc := NewService("test-secret", mock)
	_, _, err := svc.Login(context.Background(), LoginRequest{Email: "ops@pacebeats.app", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownAdmin(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, email, password_hash, full_name, created_at`).
		WithArgs("ghost@pacebeats.app").
		WillReturnError(errAuth)

	svc := NewService("test-secret", mock)
	_, _, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@pacebeats.app", Password: "x"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCreateAdminValidation(t *testing.T) {
	svc := NewService("test-secret", nil)
	if _, err := svc.CreateAdmin(context.Background(), "", "pw", ""); err == nil {
		t.Fatalf("expected error without email")
	}
	if _, err := svc.CreateAdmin(context.Background(), "a@b.c", "", ""); err == nil {
		t.Fatalf("expected error without password")
	}
}

func TestValidateAccessTokenRejectsGarbage(t *testing.T) {
	svc := NewService("test-secret", nil)
	if _, err := svc.ValidateAccessToken("not-a-token"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidateAccessTokenRejectsWrongSecret(t *testing.T) {
	signer := NewService("secret-a", nil)
	token, err := signer.signToken("a1", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	verifier := NewService("secret-b", nil)
	if _, err := verifier.ValidateAccessToken(token); err == nil {
		t.Fatalf("expected signature error")
	}
}
