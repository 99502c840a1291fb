package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"communityboard/internal/model"
	"communityboard/internal/pkg/jwtutil"
	"communityboard/internal/repository"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmailExists       = errors.New("email already exists")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidPassword   = errors.New("password must be 12-20 characters and contain a lowercase letter, a digit, and a special character")
	ErrInvalidUsername   = errors.New("username must be 1-10 Korean characters")
)

// Signup/update field policy. Deployment policy rather than core logic,
// kept at the service boundary so every entry point shares it.
var (
	passwordLowerPattern   = regexp.MustCompile(`[a-z]`)
	passwordDigitPattern   = regexp.MustCompile(`[0-9]`)
	passwordSpecialPattern = regexp.MustCompile(`[!@#$%^&*]`)
	usernamePattern        = regexp.MustCompile(`^[가-힣]+$`)
)

// UserStore is the slice of the user repository the auth service needs.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint) (*model.User, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) (*model.User, error)
}

// LoginRecorder appends one login event. Recording is best-effort: a
// failure never fails the login itself.
type LoginRecorder interface {
	Record(ctx context.Context, record model.LoginRecord) error
}

type AuthService struct {
	users         UserStore
	recorder      LoginRecorder
	jwtSecret     string
	jwtExpiration time.Duration
	log           *logrus.Logger
}

type RegisterInput struct {
	Email    string
	Password string
	Username string
}

type LoginInput struct {
	Email    string
	Password string
}

// UpdateProfileInput carries partial-update semantics: nil means leave the
// field untouched.
type UpdateProfileInput struct {
	Password *string
	Username *string
}

func NewAuthService(users UserStore, recorder LoginRecorder, jwtSecret string, jwtExpiration time.Duration, log *logrus.Logger) *AuthService {
	return &AuthService{
		users:         users,
		recorder:      recorder,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		log:           log,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" {
		return nil, ErrInvalidInput
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}
	if err := validateUsername(input.Username); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Email:        email,
		Username:     input.Username,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Two racing signups can both pass the read above; the unique
		// index settles it.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials, appends a login record carrying the
// client address, and issues a signed bearer token.
func (s *AuthService) Login(ctx context.Context, input LoginInput, sourceIP string) (string, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || input.Password == "" {
		return "", ErrInvalidCredential
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return "", ErrInvalidCredential
	}

	record := model.LoginRecord{
		UserID:    user.ID,
		LoginTime: time.Now(),
		IPAddress: sourceIP,
	}
	if err := s.recorder.Record(ctx, record); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("record login failed")
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("issue token failed: %w", err)
	}
	return token, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*model.User, error) {
	fields := map[string]interface{}{}

	if input.Password != nil {
		if err := validatePassword(*input.Password); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password failed: %w", err)
		}
		fields["password_hash"] = string(hash)
	}

	if input.Username != nil {
		if err := validateUsername(*input.Username); err != nil {
			return nil, err
		}
		fields["username"] = *input.Username
	}

	user, err := s.users.Update(ctx, userID, fields)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	return s.users.GetByID(ctx, id)
}

func validatePassword(password string) error {
	if len(password) < 12 || len(password) > 20 {
		return ErrInvalidPassword
	}
	if !passwordLowerPattern.MatchString(password) ||
		!passwordDigitPattern.MatchString(password) ||
		!passwordSpecialPattern.MatchString(password) {
		return ErrInvalidPassword
	}
	return nil
}

func validateUsername(username string) error {
	length := utf8.RuneCountInString(username)
	if length < 1 || length > 10 {
		return ErrInvalidUsername
	}
	if !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}
