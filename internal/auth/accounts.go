package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/charlesng35/storeadmin/internal/database"
	"github.com/charlesng35/storeadmin/internal/models"
	"github.com/charlesng35/storeadmin/pkg/crypto"
)

var (
	// ErrInvalidCredentials is returned when the email or password does not match.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("auth: email already registered")
	// ErrUserNotFound indicates the user id does not exist.
	ErrUserNotFound = errors.New("auth: user not found")
)

// RegisterInput carries the fields accepted on registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AccountService manages administrator accounts.
type AccountService struct {
	db *gorm.DB
}

// NewAccountService constructs an AccountService.
func NewAccountService(db *gorm.DB) (*AccountService, error) {
	if db == nil {
		return nil, errors.New("account service: db is required")
	}
	return &AccountService{db: db}, nil
}

// Register stores a new user with a bcrypt hashed password.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := normaliseEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, errors.New("account service: email and password are required")
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account service: hash password: %w", err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Password: hash,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("account service: create user: %w", err)
	}
	return user, nil
}

// Authenticate returns the user matching the credentials.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = normaliseEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("account service: find user: %w", err)
	}

	if !crypto.VerifyPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// FindUser loads a user by id.
func (s *AccountService) FindUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Take(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("account service: find user: %w", err)
	}
	return &user, nil
}

// EmailTaken reports whether an account already uses email.
func (s *AccountService) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", normaliseEmail(email)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("account service: check email: %w", err)
	}
	return count > 0, nil
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
