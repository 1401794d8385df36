package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/it-inventory/internal/domain"
	"github.com/spec-kit/it-inventory/internal/events"
	"github.com/spec-kit/it-inventory/internal/repository"
	apperrors "github.com/spec-kit/it-inventory/pkg/util"
)

// LocationService manages locations and their cascading removal.
type LocationService struct {
	locations   repository.LocationRepository
	equipment   repository.EquipmentRepository
	hardware    repository.HardwareRepository
	incidents   repository.IncidentRepository
	maintenance repository.MaintenanceRepository
	events      publisher
	logger      *zap.Logger
}

// LocationDependencies bundles repositories for the location service.
type LocationDependencies struct {
	LocationRepo    repository.LocationRepository
	EquipmentRepo   repository.EquipmentRepository
	HardwareRepo    repository.HardwareRepository
	IncidentRepo    repository.IncidentRepository
	MaintenanceRepo repository.MaintenanceRepository
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
}

// NewLocationService constructs the service.
func NewLocationService(deps LocationDependencies) *LocationService {
	logger := nopIfNil(deps.Logger)
	return &LocationService{
		locations:   deps.LocationRepo,
		equipment:   deps.EquipmentRepo,
		hardware:    deps.HardwareRepo,
		incidents:   deps.IncidentRepo,
		maintenance: deps.MaintenanceRepo,
		events:      publisher{dispatcher: deps.Dispatcher, logger: logger},
		logger:      logger,
	}
}

// List returns every location.
func (s *LocationService) List(ctx context.Context) ([]domain.Location, error) {
	return s.locations.List(ctx)
}

// Get fetches a location by id.
func (s *LocationService) Get(ctx context.Context, id int64) (*domain.Location, error) {
	location, err := s.locations.GetByID(ctx, id)
	return found(location, err, "Ubicación")
}

// Create stores a new location.
func (s *LocationService) Create(ctx context.Context, location *domain.Location) error {
	return s.locations.Create(ctx, location)
}

// Update overwrites a location.
func (s *LocationService) Update(ctx context.Context, location *domain.Location) error {
	if err := s.locations.Update(ctx, location); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("Ubicación")
		}
		return err
	}
	return nil
}

// Delete removes everything that references the location, children first, then the
// location itself. Steps run in sequence; a failure leaves earlier steps committed.
func (s *LocationService) Delete(ctx context.Context, id int64) error {
	removed := map[string]int64{}
	steps := []struct {
		name string
		run  func(context.Context, int64) (int64, error)
	}{
		{"incidencias", s.incidents.DeleteByLocation},
		{"mantenimiento", s.maintenance.DeleteByLocation},
		{"equipos", s.equipment.DeleteByLocation},
		{"hardware", s.hardware.DeleteByLocation},
	}
	for _, step := range steps {
		n, err := step.run(ctx, id)
		if err != nil {
			s.logger.Error("location cascade step failed",
				zap.Int64("id_ubicacion", id), zap.String("step", step.name), zap.Error(err))
			return err
		}
		s.logger.Debug("location cascade step", zap.Int64("id_ubicacion", id), zap.String("step", step.name), zap.Int64("rows", n))
		removed[step.name] = n
	}

	if err := s.locations.Delete(ctx, id); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("Ubicación")
		}
		return err
	}

	s.events.publish(ctx, events.EventRecordsCascadeDeleted, events.RecordsCascadeDeletedPayload{
		Entity:   "ubicacion",
		EntityID: id,
		Removed:  removed,
	})
	return nil
}
