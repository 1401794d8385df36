package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/it-inventory/internal/domain"
	"github.com/spec-kit/it-inventory/internal/events"
	"github.com/spec-kit/it-inventory/internal/repository"
	apperrors "github.com/spec-kit/it-inventory/pkg/util"
)

// RecordDependencies bundles repositories for the incident and maintenance services.
type RecordDependencies struct {
	IncidentRepo    repository.IncidentRepository
	MaintenanceRepo repository.MaintenanceRepository
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
}

// IncidentService manages incident reports against either asset kind.
type IncidentService struct {
	incidents   repository.IncidentRepository
	maintenance repository.MaintenanceRepository
	events      publisher
	logger      *zap.Logger
}

// NewIncidentService constructs the service.
func NewIncidentService(deps RecordDependencies) *IncidentService {
	logger := nopIfNil(deps.Logger)
	return &IncidentService{
		incidents:   deps.IncidentRepo,
		maintenance: deps.MaintenanceRepo,
		events:      publisher{dispatcher: deps.Dispatcher, logger: logger},
		logger:      logger,
	}
}

// List returns the incidents on assets of kind.
func (s *IncidentService) List(ctx context.Context, kind domain.AssetKind, filter repository.Filter) ([]domain.IncidentRow, error) {
	return s.incidents.List(ctx, kind, filter)
}

// Get fetches an incident by id.
func (s *IncidentService) Get(ctx context.Context, id int64) (*domain.Incident, error) {
	incident, err := s.incidents.GetByID(ctx, id)
	return found(incident, err, "Incidencia")
}

// Create stores an incident against an asset of kind. New incidents start open.
func (s *IncidentService) Create(ctx context.Context, kind domain.AssetKind, incident *domain.Incident) error {
	if err := checkAsset(incident.Asset, kind); err != nil {
		return err
	}
	if incident.Status == "" {
		incident.Status = domain.IncidentOpen
	}
	return s.incidents.Create(ctx, incident)
}

// Update overwrites an incident.
func (s *IncidentService) Update(ctx context.Context, kind domain.AssetKind, incident *domain.Incident) error {
	if err := checkAsset(incident.Asset, kind); err != nil {
		return err
	}
	if err := s.incidents.Update(ctx, incident); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("Incidencia")
		}
		return err
	}
	return nil
}

// Delete removes the maintenance records of the incident's asset, then the incident.
func (s *IncidentService) Delete(ctx context.Context, id int64) error {
	incident, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	removed := map[string]int64{}
	if asset, err := incident.Asset(); err == nil {
		n, err := s.maintenance.DeleteByAsset(ctx, asset)
		if err != nil {
			s.logger.Error("delete maintenance for incident failed", zap.Int64("id_incidencia", id), zap.Error(err))
			return err
		}
		removed["mantenimiento"] = n
	}

	if err := s.incidents.Delete(ctx, id); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("Incidencia")
		}
		return err
	}
	s.events.publish(ctx, events.EventRecordsCascadeDeleted, events.RecordsCascadeDeletedPayload{
		Entity: "incidencia", EntityID: id, Removed: removed,
	})
	return nil
}

// checkAsset enforces that a record references exactly one asset of the expected kind.
func checkAsset(resolve func() (domain.AssetRef, error), kind domain.AssetKind) error {
	asset, err := resolve()
	if err != nil {
		if errors.Is(err, domain.ErrAssetReference) {
			return apperrors.NewValidationError("Debe indicarse exactamente un equipo o un hardware")
		}
		return err
	}
	if asset.Kind != kind {
		return apperrors.NewValidationError("El activo indicado no corresponde a este listado")
	}
	return nil
}
