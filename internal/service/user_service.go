package service

import (
	"context"
	"strings"

	"github.com/spec-kit/it-inventory/internal/auth"
	"github.com/spec-kit/it-inventory/internal/domain"
	"github.com/spec-kit/it-inventory/internal/repository"
	apperrors "github.com/spec-kit/it-inventory/pkg/util"
)

// UserInput is the admin-side account payload. An empty Password on update keeps the current one.
type UserInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
	Active   bool
}

// UserService manages accounts on behalf of administrators.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// List returns every account.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// Get fetches an account by id.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	return found(user, err, "Usuario")
}

// Create registers an account with a hashed password.
func (s *UserService) Create(ctx context.Context, input UserInput) (*domain.User, error) {
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("Rol no válido")
	}
	if input.Password == "" {
		return nil, apperrors.NewValidationError("La contraseña es obligatoria")
	}
	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError("", err)
	}
	user := &domain.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: hash,
		Role:         input.Role,
		Active:       input.Active,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewValidationError("El correo ya está registrado")
		}
		return nil, err
	}
	return user, nil
}

// Update changes an account. The password is rehashed only when a new one is given.
func (s *UserService) Update(ctx context.Context, id int64, input UserInput) error {
	if !input.Role.Valid() {
		return apperrors.NewValidationError("Rol no válido")
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	user.Username = strings.TrimSpace(input.Username)
	user.Email = strings.TrimSpace(input.Email)
	user.Role = input.Role
	user.Active = input.Active
	if err := s.users.Update(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return apperrors.NewValidationError("El correo ya está registrado")
		}
		return err
	}
	if input.Password == "" {
		return nil
	}
	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError("", err)
	}
	return s.users.UpdatePassword(ctx, id, hash)
}

// Delete removes an account. Accounts still referenced by incidents or maintenance are kept.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := s.users.Delete(ctx, id)
	switch {
	case err == nil:
		return nil
	case apperrors.IsNotFound(err):
		return apperrors.NewNotFound("Usuario")
	case apperrors.IsForeignKeyViolation(err):
		return apperrors.NewValidationError("No se puede eliminar el usuario: tiene incidencias o mantenimientos asociados")
	default:
		return err
	}
}
