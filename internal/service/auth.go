package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"psrental-backend/internal/domain"
	"psrental-backend/internal/logger"
)

// DefaultPassword is compared against when the password slot was never written.
const DefaultPassword = "admin123"

// AuthConfig holds the demo credentials. None of them carry real security value.
type AuthConfig struct {
	DemoEmail        string
	DemoPassword     string
	DeletePIN        string
	SimulatedLatency time.Duration
	HashCost         int
}

type authService struct {
	store     RentalStore
	passwords PasswordStore
	cfg       AuthConfig
}

func NewAuthService(store RentalStore, passwords PasswordStore, cfg AuthConfig) AuthService {
	if cfg.HashCost == 0 {
		cfg.HashCost = bcrypt.DefaultCost
	}
	return &authService{
		store:     store,
		passwords: passwords,
		cfg:       cfg,
	}
}

// wait blocks for the simulated latency or until ctx is done.
func (s *authService) wait(ctx context.Context) error {
	if s.cfg.SimulatedLatency <= 0 {
		return nil
	}
	timer := time.NewTimer(s.cfg.SimulatedLatency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	logger.EnterMethod("AuthService.Login", "email", email)

	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if email != s.cfg.DemoEmail || password != s.cfg.DemoPassword {
		logger.ExitMethodWithError("AuthService.Login", ErrInvalidCredentials)
		return nil, ErrInvalidCredentials
	}

	user := domain.DemoUser()
	if err := s.store.SetUser(ctx, user); err != nil {
		return nil, err
	}

	logger.ExitMethod("AuthService.Login", "user_id", user.ID)
	return user, nil
}

func (s *authService) Logout(ctx context.Context) error {
	return s.store.SetUser(ctx, nil)
}

func (s *authService) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	logger.EnterMethod("AuthService.ChangePassword")

	if err := s.wait(ctx); err != nil {
		return err
	}

	stored, ok, err := s.passwords.LoadPassword(ctx)
	if err != nil {
		return err
	}
	if !ok {
		stored = DefaultPassword
	}
	if !passwordMatches(stored, oldPassword) {
		logger.ExitMethodWithError("AuthService.ChangePassword", ErrInvalidCredentials)
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cfg.HashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.passwords.SavePassword(ctx, string(hash)); err != nil {
		return err
	}

	logger.ExitMethod("AuthService.ChangePassword")
	return nil
}

// passwordMatches accepts a bcrypt hash or a legacy plaintext slot value.
func passwordMatches(stored, candidate string) bool {
	if isBcryptHash(stored) {
		err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate))
		return err == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

func isBcryptHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}

func (s *authService) AuthorizeDelete(user *domain.User, pin, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrDeleteReasonRequired
	}
	if !user.IsAdmin() {
		return ErrAdminRequired
	}
	if pin != s.cfg.DeletePIN {
		return ErrInvalidPIN
	}
	return nil
}

