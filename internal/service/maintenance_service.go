package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/it-inventory/internal/domain"
	"github.com/spec-kit/it-inventory/internal/events"
	"github.com/spec-kit/it-inventory/internal/repository"
	apperrors "github.com/spec-kit/it-inventory/pkg/util"
)

// MaintenanceService manages service records and keeps incident statuses in step with them.
type MaintenanceService struct {
	maintenance repository.MaintenanceRepository
	incidents   repository.IncidentRepository
	events      publisher
	logger      *zap.Logger
}

// NewMaintenanceService constructs the service.
func NewMaintenanceService(deps RecordDependencies) *MaintenanceService {
	logger := nopIfNil(deps.Logger)
	return &MaintenanceService{
		maintenance: deps.MaintenanceRepo,
		incidents:   deps.IncidentRepo,
		events:      publisher{dispatcher: deps.Dispatcher, logger: logger},
		logger:      logger,
	}
}

// List returns the maintenance records on assets of kind.
func (s *MaintenanceService) List(ctx context.Context, kind domain.AssetKind, filter repository.Filter) ([]domain.MaintenanceRow, error) {
	return s.maintenance.List(ctx, kind, filter)
}

// Get fetches a maintenance record by id.
func (s *MaintenanceService) Get(ctx context.Context, id int64) (*domain.Maintenance, error) {
	maintenance, err := s.maintenance.GetByID(ctx, id)
	return found(maintenance, err, "Mantenimiento")
}

// Create stores the record and then derives the status of every incident on the same asset.
func (s *MaintenanceService) Create(ctx context.Context, kind domain.AssetKind, maintenance *domain.Maintenance) error {
	if err := checkAsset(maintenance.Asset, kind); err != nil {
		return err
	}
	if err := s.maintenance.Create(ctx, maintenance); err != nil {
		return err
	}
	return s.deriveIncidents(ctx, maintenance)
}

// Update overwrites the record and then derives the status of every incident on the same asset.
func (s *MaintenanceService) Update(ctx context.Context, kind domain.AssetKind, maintenance *domain.Maintenance) error {
	if err := checkAsset(maintenance.Asset, kind); err != nil {
		return err
	}
	if err := s.maintenance.Update(ctx, maintenance); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("Mantenimiento")
		}
		return err
	}
	return s.deriveIncidents(ctx, maintenance)
}

// Delete removes the incidents of the record's asset, then the record.
func (s *MaintenanceService) Delete(ctx context.Context, id int64) error {
	maintenance, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	removed := map[string]int64{}
	if asset, err := maintenance.Asset(); err == nil {
		n, err := s.incidents.DeleteByAsset(ctx, asset)
		if err != nil {
			s.logger.Error("delete incidents for maintenance failed", zap.Int64("id_mantenimiento", id), zap.Error(err))
			return err
		}
		removed["incidencias"] = n
	}

	if err := s.maintenance.Delete(ctx, id); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("Mantenimiento")
		}
		return err
	}
	s.events.publish(ctx, events.EventRecordsCascadeDeleted, events.RecordsCascadeDeletedPayload{
		Entity: "mantenimiento", EntityID: id, Removed: removed,
	})
	return nil
}

func (s *MaintenanceService) deriveIncidents(ctx context.Context, maintenance *domain.Maintenance) error {
	asset, err := maintenance.Asset()
	if err != nil {
		return err
	}
	status := domain.DeriveIncidentStatus(maintenance.Status)
	n, err := s.incidents.UpdateStatusByAsset(ctx, asset, status)
	if err != nil {
		s.logger.Error("derive incident status failed",
			zap.Int64("id_mantenimiento", maintenance.ID),
			zap.String("kind", string(asset.Kind)),
			zap.Int64("asset_id", asset.ID),
			zap.Error(err))
		return err
	}

	s.events.publish(ctx, events.EventIncidentStatusDerived, events.IncidentStatusDerivedPayload{
		MaintenanceID:     maintenance.ID,
		MaintenanceStatus: maintenance.Status,
		AssetKind:         asset.Kind,
		AssetID:           asset.ID,
		IncidentStatus:    status,
		IncidentsUpdated:  n,
	})
	return nil
}
