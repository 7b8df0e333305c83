package service

import (
	"errors"
	"testing"
	"time"

	"github.com/northstarhq/northstar/internal/model"
	"github.com/northstarhq/northstar/internal/repository"
)

type mockUserRepo struct {
	CreateFn         func(user *model.User) error
	ByIDFn           func(id string) (*model.User, error)
	ByEmailFn        func(email string) (*model.User, error)
	UpdatePasswordFn func(id, passwordHash string) error
}

func (m *mockUserRepo) Create(user *model.User) error          { return m.CreateFn(user) }
func (m *mockUserRepo) ByID(id string) (*model.User, error)    { return m.ByIDFn(id) }
func (m *mockUserRepo) ByEmail(email string) (*model.User, error) {
	return m.ByEmailFn(email)
}
func (m *mockUserRepo) UpdatePassword(id, passwordHash string) error {
	return m.UpdatePasswordFn(id, passwordHash)
}

type mockTokenRepo struct {
	CreateFn              func(token *model.Token) error
	ConsumeFn             func(token string) (*model.Token, error)
	DeleteByUserAndTypeFn func(userID, tokenType string) error
}

func (m *mockTokenRepo) Create(token *model.Token) error { return m.CreateFn(token) }
func (m *mockTokenRepo) Consume(token string) (*model.Token, error) {
	return m.ConsumeFn(token)
}
func (m *mockTokenRepo) DeleteByUserAndType(userID, tokenType string) error {
	return m.DeleteByUserAndTypeFn(userID, tokenType)
}

func testAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository) *AuthService {
	email := NewEmailService("", "noreply@example.com", "http://localhost:8090", "Northstar", true)
	return NewAuthService(userRepo, tokenRepo, email, "test-secret", false, 168*time.Hour, time.Hour)
}

func TestSignupHashesPassword(t *testing.T) {
	var created *model.User
	userRepo := &mockUserRepo{
		CreateFn: func(u *model.User) error {
			created = u
			return nil
		},
	}

	svc := testAuthService(userRepo, &mockTokenRepo{})

	user, err := svc.Signup("Alice@Example.com", "correct horse battery staple")
	if err != nil {
		t.Fatal(err)
	}

	if user.Email != "alice@example.com" {
		t.Fatalf("email = %q, want lowercased", user.Email)
	}
	if created == nil || created.PasswordHash == nil {
		t.Fatal("no hash stored")
	}
	if *created.PasswordHash == "correct horse battery staple" {
		t.Fatal("password stored in plain text")
	}
	if err := svc.ComparePassword("correct horse battery staple", *created.PasswordHash); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestSignupRejectsWeakPassword(t *testing.T) {
	svc := testAuthService(&mockUserRepo{}, &mockTokenRepo{})

	_, err := svc.Signup("alice@example.com", "short")
	if !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("err = %v, want ErrInvalidPassword", err)
	}

	_, err = svc.Signup("alice@example.com", "password12345678")
	if !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("common pattern: err = %v, want ErrInvalidPassword", err)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	userRepo := &mockUserRepo{
		CreateFn: func(*model.User) error { return repository.ErrDuplicateEmail },
	}

	svc := testAuthService(userRepo, &mockTokenRepo{})

	_, err := svc.Signup("alice@example.com", "correct horse battery staple")
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("err = %v, want ErrEmailAlreadyExists", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := testAuthService(&mockUserRepo{}, &mockTokenRepo{})
	hash, err := svc.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatal(err)
	}

	userRepo := &mockUserRepo{
		ByEmailFn: func(email string) (*model.User, error) {
			return &model.User{ID: "user-1", Email: email, PasswordHash: &hash}, nil
		},
	}
	svc = testAuthService(userRepo, &mockTokenRepo{})

	_, err = svc.Login("alice@example.com", "wrong password entirely")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}

	user, err := svc.Login("alice@example.com", "correct horse battery staple")
	if err != nil {
		t.Fatal(err)
	}
	if user.ID != "user-1" {
		t.Fatalf("user = %+v", user)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	userRepo := &mockUserRepo{
		ByEmailFn: func(string) (*model.User, error) { return nil, repository.ErrUserNotFound },
	}
	svc := testAuthService(userRepo, &mockTokenRepo{})

	_, err := svc.Login("nobody@example.com", "correct horse battery staple")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestJWTRoundTrip(t *testing.T) {
	svc := testAuthService(&mockUserRepo{}, &mockTokenRepo{})

	token, err := svc.GenerateJWT(&model.User{ID: "user-1", Email: "alice@example.com"})
	if err != nil {
		t.Fatal(err)
	}

	claims, err := svc.VerifyJWT(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims["user_id"] != "user-1" {
		t.Fatalf("claims = %v", claims)
	}

	// A token signed with a different secret must not verify
	other := NewAuthService(&mockUserRepo{}, &mockTokenRepo{}, nil, "other-secret", false, time.Hour, time.Hour)
	if _, err := other.VerifyJWT(token); err == nil {
		t.Fatal("token verified under the wrong secret")
	}
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	userRepo := &mockUserRepo{
		ByEmailFn: func(string) (*model.User, error) { return nil, repository.ErrUserNotFound },
	}
	tokenRepo := &mockTokenRepo{
		CreateFn: func(*model.Token) error {
			t.Fatal("must not issue a token for an unknown email")
			return nil
		},
	}

	svc := testAuthService(userRepo, tokenRepo)

	if err := svc.ForgotPassword("nobody@example.com"); err != nil {
		t.Fatalf("unknown email must not error: %v", err)
	}
}

func TestResetPasswordConsumesToken(t *testing.T) {
	var updatedHash string
	userRepo := &mockUserRepo{
		UpdatePasswordFn: func(id, hash string) error {
			if id != "user-1" {
				t.Fatalf("updated user %q", id)
			}
			updatedHash = hash
			return nil
		},
	}
	tokenRepo := &mockTokenRepo{
		ConsumeFn: func(token string) (*model.Token, error) {
			if token != "reset-token" {
				return nil, repository.ErrTokenNotFound
			}
			return &model.Token{UserID: "user-1", Type: model.TokenTypePasswordReset}, nil
		},
	}

	svc := testAuthService(userRepo, tokenRepo)

	err := svc.ResetPassword("reset-token", "a brand new passphrase")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.ComparePassword("a brand new passphrase", updatedHash); err != nil {
		t.Fatalf("new hash does not verify: %v", err)
	}

	err = svc.ResetPassword("bogus", "a brand new passphrase")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}
