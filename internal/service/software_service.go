package service

import (
	"context"

	"github.com/spec-kit/it-inventory/internal/domain"
	"github.com/spec-kit/it-inventory/internal/repository"
	apperrors "github.com/spec-kit/it-inventory/pkg/util"
)

// SoftwareService manages license records.
type SoftwareService struct {
	software repository.SoftwareRepository
}

// NewSoftwareService constructs the service.
func NewSoftwareService(software repository.SoftwareRepository) *SoftwareService {
	return &SoftwareService{software: software}
}

// List returns software titles narrowed by filter.
func (s *SoftwareService) List(ctx context.Context, filter repository.Filter) ([]domain.Software, error) {
	return s.software.List(ctx, filter)
}

// Get fetches a software title by id.
func (s *SoftwareService) Get(ctx context.Context, id int64) (*domain.Software, error) {
	software, err := s.software.GetByID(ctx, id)
	return found(software, err, "Software")
}

// Create stores a new software title.
func (s *SoftwareService) Create(ctx context.Context, software *domain.Software) error {
	return s.software.Create(ctx, software)
}

// Update overwrites a software title.
func (s *SoftwareService) Update(ctx context.Context, software *domain.Software) error {
	if err := s.software.Update(ctx, software); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("Software")
		}
		return err
	}
	return nil
}

// Delete removes a software title.
func (s *SoftwareService) Delete(ctx context.Context, id int64) error {
	if err := s.software.Delete(ctx, id); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("Software")
		}
		return err
	}
	return nil
}
