package authsvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/corray333/bookstore/internal/auth/dal/interfaces/iuserrepo"
	"github.com/corray333/bookstore/internal/auth/service/models/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("forbidden")
)

// AuthService manages accounts and bearer tokens.
type AuthService struct {
	userRepo iuserrepo.IUserRepository
}

// option is a function that configures the AuthService.
type option func(*AuthService)

// MustNewAuthService creates a new AuthService.
func MustNewAuthService(opts ...option) *AuthService {
	s := &AuthService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithUserRepository sets the user repository for the AuthService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUserRepository(userRepo iuserrepo.IUserRepository) option {
	return func(s *AuthService) {
		s.userRepo = userRepo
	}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *AuthService) Register(
	ctx context.Context,
	name, email, password string,
	isAdmin bool,
) (*user.User, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "AuthService.Register")
	defer span.End()

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.userRepo.Insert(ctx, user.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		IsAdmin:  isAdmin,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("User registered", "user_id", created.ID, "email", created.Email)

	return &created, nil
}

// Login checks the credentials and issues a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *user.User, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "AuthService.Login")
	defer span.End()

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	expiresHours := viper.GetInt("jwt.expires_hours")
	if expiresHours == 0 {
		expiresHours = 2
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      fmt.Sprintf("%d", u.ID),
		"email":    u.Email,
		"name":     u.Name,
		"is_admin": u.IsAdmin,
		"exp":      time.Now().Add(time.Duration(expiresHours) * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	})

	signed, err := token.SignedString(jwtSecret())
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, u, nil
}

// Validate parses the token and loads the current account behind it.
func (s *AuthService) Validate(ctx context.Context, tokenString string) (*user.User, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "AuthService.Validate")
	defer span.End()

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return nil, ErrInvalidToken
	}

	var userID int64
	if _, err := fmt.Sscanf(sub, "%d", &userID); err != nil {
		return nil, ErrInvalidToken
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	return u, nil
}

// GetUser returns a single account by id.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	return u, nil
}

// ListUsers returns all accounts. Admin only.
func (s *AuthService) ListUsers(ctx context.Context, caller *user.User) ([]user.User, error) {
	if !caller.IsAdmin {
		return nil, ErrForbidden
	}

	return s.userRepo.List(ctx)
}

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET_KEY"))
}
