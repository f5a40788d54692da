package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"goforum/internal/model"
	"goforum/internal/pkg/jwtutil"
	"goforum/internal/repository"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUserExists   = errors.New("username or email already exists")
	// ErrInvalidCredentials is deliberately shared between the
	// unknown-username and wrong-password cases.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	userRepo      *repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	IsAdmin  bool
}

type LoginInput struct {
	Username string
	Password string
}

type LoginResult struct {
	Token string
	User  *model.User
}

type UpdateMeInput struct {
	Email    string
	Password string
}

func NewAuthService(userRepo *repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register creates a user with a bcrypt-hashed password. Uniqueness of
// username and email is checked with a single OR query.
func (s *AuthService) Register(input RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if username == "" || email == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.userRepo.GetByUsernameOrEmail(username, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      input.IsAdmin,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the password and issues a token embedding the user's
// id and admin flag, valid for the configured expiration.
func (s *AuthService) Login(input LoginInput) (*LoginResult, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}

func (s *AuthService) GetUserByID(id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateMe patches the caller's email and/or password, re-hashing when
// the password changes.
func (s *AuthService) UpdateMe(userID uint, input UpdateMeInput) (*model.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" && input.Password == "" {
		return nil, ErrInvalidInput
	}

	if email != "" && email != user.Email {
		existing, err := s.userRepo.GetByUsernameOrEmail("", email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != user.ID {
			return nil, ErrUserExists
		}
		user.Email = email
	}

	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password failed: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) DeleteMe(userID uint) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	return s.userRepo.Delete(user.ID)
}
