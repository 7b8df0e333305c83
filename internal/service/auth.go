package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/northstarhq/northstar/internal/model"
	"github.com/northstarhq/northstar/internal/repository"
	"github.com/northstarhq/northstar/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type AuthService struct {
	userRepository           repository.UserRepository
	tokenRepository          repository.TokenRepository
	emailService             *EmailService
	jwtSecret                string
	isProduction             bool
	jwtExpiry                time.Duration
	tokenPasswordResetExpiry time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	tokenRepository repository.TokenRepository,
	emailService *EmailService,
	jwtSecret string,
	isProduction bool,
	jwtExpiry time.Duration,
	tokenPasswordResetExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository:           userRepository,
		tokenRepository:          tokenRepository,
		emailService:             emailService,
		jwtSecret:                jwtSecret,
		isProduction:             isProduction,
		jwtExpiry:                jwtExpiry,
		tokenPasswordResetExpiry: tokenPasswordResetExpiry,
	}
}

func (s *AuthService) Signup(email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, ErrInvalidEmail
	}

	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPassword, err)
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: &hash,
		CreatedAt:    time.Now(),
	}

	err = s.userRepository.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *AuthService) Login(email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}

	err = s.ComparePassword(password, *user.PasswordHash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// ForgotPassword issues a reset token and emails it. Unknown addresses are
// not reported back to the caller, to avoid leaking which emails exist.
func (s *AuthService) ForgotPassword(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			slog.Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	err = s.tokenRepository.DeleteByUserAndType(user.ID, model.TokenTypePasswordReset)
	if err != nil {
		slog.Warn("failed to delete old password reset tokens", "error", err, "user_id", user.ID)
	}

	token, err := s.GenerateToken()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	err = s.tokenRepository.Create(&model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypePasswordReset,
		Token:     token,
		ExpiresAt: time.Now().Add(s.tokenPasswordResetExpiry),
	})
	if err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	return s.emailService.SendPasswordResetEmail(user.Email, token)
}

func (s *AuthService) ResetPassword(token, password string) error {
	err := validation.ValidatePassword(password)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPassword, err)
	}

	t, err := s.tokenRepository.Consume(token)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to consume token: %w", err)
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepository.UpdatePassword(t.UserID, hash)
}

func (s *AuthService) UserByID(id string) (*model.User, error) {
	return s.userRepository.ByID(id)
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) GenerateToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) JWTExpiry() time.Duration {
	return s.jwtExpiry
}
