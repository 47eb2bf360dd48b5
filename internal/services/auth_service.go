package services

import (
	"errors"
	"fmt"
	"time"

	"tokorate/internal/models"
	"tokorate/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login, password changes, and token
// issuance and verification.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenDurat time.Duration) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: tokenDurat,
	}
}

// TokenTTL returns how long issued tokens stay valid.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenDurat
}

// Register hashes the password and saves the user. The role defaults to
// "user" when unset. A reused email is reported as ErrEmailTaken.
func (s *AuthService) Register(user *models.User) error {
	if _, err := s.userRepo.GetByEmail(user.Email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)

	if user.Role == "" {
		user.Role = models.RoleUser
	}

	if err := s.userRepo.Create(user); err != nil {
		// The unique index is the backstop for a concurrent signup with
		// the same email.
		if errors.Is(err, repositories.ErrDuplicate) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// Login authenticates a user by email and password and returns a signed
// token together with the user record. Every failure mode collapses to
// ErrInvalidCredentials.
func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// UpdatePassword verifies the current password, stores a hash of the new
// one, and issues a fresh token.
func (s *AuthService) UpdatePassword(userID uint, currentPassword, newPassword string) (string, *models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", nil, repositories.ErrNotFound
		}
		return "", nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return "", nil, ErrWrongPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	updated, err := s.userRepo.Update(userID, map[string]interface{}{"password": string(hashedPassword)})
	if err != nil {
		return "", nil, fmt.Errorf("failed to update password: %w", err)
	}

	token, err := s.GenerateToken(updated.ID)
	if err != nil {
		return "", nil, err
	}
	return token, updated, nil
}

// GenerateToken issues a signed HS256 token binding the user's id.
func (s *AuthService) GenerateToken(userID uint) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(s.tokenDurat).Unix(),
		"iat":     time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// CurrentUser verifies a token and resolves its user id to a live user
// record. Any failure, including a user that has since been deleted,
// returns ErrInvalidToken so the response leaks nothing about the cause.
func (s *AuthService) CurrentUser(tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	rawID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(uint(rawID))
	if err != nil {
		return nil, ErrInvalidToken
	}
	return user, nil
}
