package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/it-inventory/internal/domain"
	"github.com/spec-kit/it-inventory/internal/events"
	"github.com/spec-kit/it-inventory/internal/importer"
	"github.com/spec-kit/it-inventory/internal/repository"
	apperrors "github.com/spec-kit/it-inventory/pkg/util"
)

// EquipmentService manages computers and their dependent records.
type EquipmentService struct {
	equipment   repository.EquipmentRepository
	incidents   repository.IncidentRepository
	maintenance repository.MaintenanceRepository
	events      publisher
	logger      *zap.Logger
}

// AssetDependencies bundles repositories shared by the equipment and hardware services.
type AssetDependencies struct {
	EquipmentRepo   repository.EquipmentRepository
	HardwareRepo    repository.HardwareRepository
	IncidentRepo    repository.IncidentRepository
	MaintenanceRepo repository.MaintenanceRepository
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
}

// ImportResult summarizes a bulk upload.
type ImportResult struct {
	Inserted int
	Failed   int
}

// NewEquipmentService constructs the service.
func NewEquipmentService(deps AssetDependencies) *EquipmentService {
	logger := nopIfNil(deps.Logger)
	return &EquipmentService{
		equipment:   deps.EquipmentRepo,
		incidents:   deps.IncidentRepo,
		maintenance: deps.MaintenanceRepo,
		events:      publisher{dispatcher: deps.Dispatcher, logger: logger},
		logger:      logger,
	}
}

// List returns equipment rows joined with their location, narrowed by filter.
func (s *EquipmentService) List(ctx context.Context, filter repository.Filter) ([]domain.EquipmentRow, error) {
	return s.equipment.List(ctx, filter)
}

// ListByLocation returns the equipment installed at a location.
func (s *EquipmentService) ListByLocation(ctx context.Context, locationID int64) ([]domain.Equipment, error) {
	return s.equipment.ListByLocation(ctx, locationID)
}

// Get fetches an equipment by id.
func (s *EquipmentService) Get(ctx context.Context, id int64) (*domain.Equipment, error) {
	equipment, err := s.equipment.GetByID(ctx, id)
	return found(equipment, err, "Equipo")
}

// Create stores a new equipment.
func (s *EquipmentService) Create(ctx context.Context, equipment *domain.Equipment) error {
	return s.equipment.Create(ctx, equipment)
}

// Update overwrites an equipment.
func (s *EquipmentService) Update(ctx context.Context, equipment *domain.Equipment) error {
	if err := s.equipment.Update(ctx, equipment); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("Equipo")
		}
		return err
	}
	return nil
}

// Delete removes the equipment's incidents and maintenance records, then the equipment.
func (s *EquipmentService) Delete(ctx context.Context, id int64) error {
	asset := domain.AssetRef{Kind: domain.AssetEquipment, ID: id}
	removed, err := deleteAssetDependents(ctx, asset, s.incidents, s.maintenance, s.logger)
	if err != nil {
		return err
	}
	if err := s.equipment.Delete(ctx, id); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("Equipo")
		}
		return err
	}
	s.events.publish(ctx, events.EventRecordsCascadeDeleted, events.RecordsCascadeDeletedPayload{
		Entity: string(domain.AssetEquipment), EntityID: id, Removed: removed,
	})
	return nil
}

// Import inserts each row independently. Rows that fail to map or insert are logged and counted.
func (s *EquipmentService) Import(ctx context.Context, rows []importer.Row) ImportResult {
	var result ImportResult
	for _, row := range rows {
		equipment, err := importer.Equipment(row)
		if err != nil {
			s.logger.Warn("skipping import row", zap.Int("line", row.Line), zap.Error(err))
			result.Failed++
			continue
		}
		if err := s.equipment.Create(ctx, &equipment); err != nil {
			s.logger.Error("insert imported equipment failed", zap.Int("line", row.Line), zap.Error(err))
			result.Failed++
			continue
		}
		result.Inserted++
	}
	return result
}

func deleteAssetDependents(
	ctx context.Context,
	asset domain.AssetRef,
	incidents repository.IncidentRepository,
	maintenance repository.MaintenanceRepository,
	logger *zap.Logger,
) (map[string]int64, error) {
	removed := map[string]int64{}

	n, err := incidents.DeleteByAsset(ctx, asset)
	if err != nil {
		logger.Error("delete asset incidents failed", zap.String("kind", string(asset.Kind)), zap.Int64("id", asset.ID), zap.Error(err))
		return nil, err
	}
	removed["incidencias"] = n

	n, err = maintenance.DeleteByAsset(ctx, asset)
	if err != nil {
		logger.Error("delete asset maintenance failed", zap.String("kind", string(asset.Kind)), zap.Int64("id", asset.ID), zap.Error(err))
		return nil, err
	}
	removed["mantenimiento"] = n
	return removed, nil
}
