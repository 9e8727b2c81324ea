package service

import (
	"errors"
	"strings"

	"rifa/config"
	"rifa/internal/auth"
	"rifa/internal/domain"
	"rifa/internal/models"
	"rifa/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCreds = errors.New("invalid email or password")

// AuthService handles credential login for admins and lightweight email
// identification for buyers.
type AuthService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo}
}

func (s *AuthService) Login(email, password string) (*models.User, auth.TokenPair, error) {
	u, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.TokenPair{}, ErrInvalidCreds
		}
		return nil, auth.TokenPair{}, err
	}
	if u.PasswordHash == "" {
		return nil, auth.TokenPair{}, ErrInvalidCreds
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, auth.TokenPair{}, ErrInvalidCreds
	}
	pair, err := auth.IssueTokenPair(&s.cfg.JWT, u)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. Role is re-read
// from the database, so a demoted admin cannot refresh into access.
func (s *AuthService) Refresh(refreshToken string) (*models.User, auth.TokenPair, error) {
	userID, err := auth.RefreshUserID(&s.cfg.JWT, refreshToken)
	if err != nil {
		return nil, auth.TokenPair{}, auth.ErrInvalidToken
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, auth.TokenPair{}, auth.ErrInvalidToken
	}
	if !u.IsAdmin() {
		return nil, auth.TokenPair{}, auth.ErrInvalidToken
	}
	pair, err := auth.IssueTokenPair(&s.cfg.JWT, u)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	return u, pair, nil
}

// Identify finds or creates a buyer by email, updating the display name when
// it changed. Buyers have no password; they are identified, not authenticated.
func (s *AuthService) Identify(email, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return nil, domain.ValidationError("email and name are required")
	}
	if !strings.Contains(email, "@") || strings.ContainsAny(email, " \t") {
		return nil, domain.ValidationError("invalid email format")
	}
	if len(name) < 2 {
		return nil, domain.ValidationError("name must be at least 2 characters")
	}

	u, err := s.userRepo.GetByEmail(email)
	if err == nil {
		if u.Name != name {
			u.Name = name
			if err := s.userRepo.Update(u); err != nil {
				return nil, err
			}
		}
		return u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	u = &models.User{
		Name:  name,
		Email: email,
		Role:  domain.RoleUser,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}
