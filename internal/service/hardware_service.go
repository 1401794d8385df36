package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/it-inventory/internal/domain"
	"github.com/spec-kit/it-inventory/internal/events"
	"github.com/spec-kit/it-inventory/internal/repository"
	apperrors "github.com/spec-kit/it-inventory/pkg/util"
)

// HardwareService manages standalone components.
type HardwareService struct {
	hardware    repository.HardwareRepository
	incidents   repository.IncidentRepository
	maintenance repository.MaintenanceRepository
	events      publisher
	logger      *zap.Logger
}

// NewHardwareService constructs the service.
func NewHardwareService(deps AssetDependencies) *HardwareService {
	logger := nopIfNil(deps.Logger)
	return &HardwareService{
		hardware:    deps.HardwareRepo,
		incidents:   deps.IncidentRepo,
		maintenance: deps.MaintenanceRepo,
		events:      publisher{dispatcher: deps.Dispatcher, logger: logger},
		logger:      logger,
	}
}

// List returns hardware rows joined with their location, narrowed by filter.
func (s *HardwareService) List(ctx context.Context, filter repository.Filter) ([]domain.HardwareRow, error) {
	return s.hardware.List(ctx, filter)
}

// ListByLocation returns the hardware installed at a location.
func (s *HardwareService) ListByLocation(ctx context.Context, locationID int64) ([]domain.Hardware, error) {
	return s.hardware.ListByLocation(ctx, locationID)
}

// Get fetches a hardware item by id.
func (s *HardwareService) Get(ctx context.Context, id int64) (*domain.Hardware, error) {
	hardware, err := s.hardware.GetByID(ctx, id)
	return found(hardware, err, "Hardware")
}

// Create stores a new hardware item.
func (s *HardwareService) Create(ctx context.Context, hardware *domain.Hardware) error {
	return s.hardware.Create(ctx, hardware)
}

// Update overwrites a hardware item.
func (s *HardwareService) Update(ctx context.Context, hardware *domain.Hardware) error {
	if err := s.hardware.Update(ctx, hardware); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("Hardware")
		}
		return err
	}
	return nil
}

// Delete removes the component's incidents and maintenance records, then the component.
func (s *HardwareService) Delete(ctx context.Context, id int64) error {
	asset := domain.AssetRef{Kind: domain.AssetHardware, ID: id}
	removed, err := deleteAssetDependents(ctx, asset, s.incidents, s.maintenance, s.logger)
	if err != nil {
		return err
	}
	if err := s.hardware.Delete(ctx, id); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("Hardware")
		}
		return err
	}
	s.events.publish(ctx, events.EventRecordsCascadeDeleted, events.RecordsCascadeDeletedPayload{
		Entity: string(domain.AssetHardware), EntityID: id, Removed: removed,
	})
	return nil
}
