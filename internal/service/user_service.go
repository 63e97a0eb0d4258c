package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hivetech/kanban-api/internal/domain"
	"github.com/hivetech/kanban-api/internal/platform/logger"
	"github.com/hivetech/kanban-api/internal/service/auth"
	"github.com/hivetech/kanban-api/internal/store"
)

// User service errors.
var (
	// ErrInvalidCredentials is returned when login fails, whether the
	// account is unknown or the password is wrong. The two cases are
	// deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserService handles account registration and login. Successful flows
// return the account together with a freshly issued token.
type UserService struct {
	userStore  store.UserStore
	jwtService auth.JWTService
	hasher     auth.PasswordHasher
	verifier   auth.PasswordVerifier
}

// NewUserService creates a new UserService with the given dependencies.
func NewUserService(
	userStore store.UserStore,
	jwtService auth.JWTService,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
) *UserService {
	return &UserService{
		userStore:  userStore,
		jwtService: jwtService,
		hasher:     hasher,
		verifier:   verifier,
	}
}

// Register creates a new account, hashes its password, persists it, and
// issues a token for immediate use.
// Returns store.ErrEmailExists if the email is already taken.
func (s *UserService) Register(
	ctx context.Context,
	firstName, lastName, email, password string,
) (*domain.User, string, error) {
	log := logger.FromContext(ctx)

	user, err := domain.NewUser(firstName, lastName, email, password)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.jwtService.GenerateToken(ctx, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	log.Info("user registered", "user_id", user.ID)
	return user, token, nil
}

// Login verifies the email/password pair and issues a token.
// Returns ErrInvalidCredentials on unknown email or wrong password.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(ctx, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}
