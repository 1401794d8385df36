package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/it-inventory/internal/auth"
	"github.com/spec-kit/it-inventory/internal/config"
	"github.com/spec-kit/it-inventory/internal/domain"
	"github.com/spec-kit/it-inventory/internal/repository"
	apperrors "github.com/spec-kit/it-inventory/pkg/util"
)

const invalidCredentials = "Credenciales inválidas"

// AuthService coordinates signup, login and the bootstrap admin.
type AuthService struct {
	users        repository.UserRepository
	cfg          config.AuthConfig
	emailPattern *regexp.Regexp
	logger       *zap.Logger
}

// SignupInput is the self-service registration payload.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, logger *zap.Logger) *AuthService {
	pattern := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@` + regexp.QuoteMeta(cfg.SignupEmailDomain) + `$`)
	return &AuthService{users: users, cfg: cfg, emailPattern: pattern, logger: nopIfNil(logger)}
}

// Signup registers a regular user restricted to the configured email domain.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	email := strings.TrimSpace(input.Email)
	if !s.emailPattern.MatchString(email) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Solo se permite el registro con correos de %s", s.cfg.SignupEmailDomain))
	}
	if strings.TrimSpace(input.Username) == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("Error al registrarse. Inténtalo de nuevo.")
	}

	hash, err := auth.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError("", err)
	}
	user := &domain.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUsuario,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewValidationError("Error al registrarse. Inténtalo de nuevo.")
		}
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and records the access time.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewUnauthorized(invalidCredentials)
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized(invalidCredentials)
	}
	if !user.Active {
		return nil, apperrors.NewUnauthorized("Tu cuenta está desactivada. Contacta con un administrador.")
	}

	if err := s.users.TouchLastAccess(ctx, user.ID); err != nil {
		s.logger.Warn("update last access failed", zap.Int64("user_id", user.ID), zap.Error(err))
	}
	return user, nil
}

// EnsureAdmin seeds the bootstrap administrator when it does not exist yet.
func (s *AuthService) EnsureAdmin(ctx context.Context) error {
	if s.cfg.AdminPassword == "" {
		s.logger.Warn("ADMIN_PASSWORD not set; skipping admin bootstrap")
		return nil
	}
	hash, err := auth.HashPassword(s.cfg.AdminPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	created, err := s.users.EnsureAdmin(ctx, &domain.User{
		Username:     s.cfg.AdminUsername,
		Email:        s.cfg.AdminEmail,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Active:       true,
	})
	if err != nil {
		return err
	}
	if created {
		s.logger.Info("bootstrap admin created", zap.String("email", s.cfg.AdminEmail))
	}
	return nil
}
