package memory

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/it-inventory/internal/domain"
	"github.com/spec-kit/it-inventory/internal/repository"
)

// Incidents

type incidentRepo struct{ s *Store }

// IncidentRepository returns the store's incident repository.
func (s *Store) IncidentRepository() repository.IncidentRepository { return incidentRepo{s} }

func (r incidentRepo) Create(_ context.Context, i *domain.Incident) error {
	if err := r.s.begin("incidents.Create"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	i.ID = r.s.id()
	cp := *i
	r.s.Incidents[i.ID] = &cp
	return nil
}

func (r incidentRepo) Update(_ context.Context, i *domain.Incident) error {
	if err := r.s.begin("incidents.Update"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.Incidents[i.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *i
	r.s.Incidents[i.ID] = &cp
	return nil
}

func (r incidentRepo) GetByID(_ context.Context, id int64) (*domain.Incident, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.Incidents[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *i
	return &cp, nil
}

func (r incidentRepo) List(_ context.Context, kind domain.AssetKind, filter repository.Filter) ([]domain.IncidentRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.LastFilter = filter
	var out []domain.IncidentRow
	for _, id := range sortedKeys(r.s.Incidents) {
		i := r.s.Incidents[id]
		name, k := r.s.assetName(i.EquipmentID, i.HardwareID)
		if k != kind {
			continue
		}
		out = append(out, domain.IncidentRow{
			Incident:     *i,
			AssetName:    name,
			UserName:     r.s.userName(i.UserID),
			LocationName: r.s.locationName(i.LocationID),
		})
	}
	return out, nil
}

func (r incidentRepo) Delete(_ context.Context, id int64) error {
	if err := r.s.begin("incidents.Delete"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.Incidents[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.Incidents, id)
	return nil
}

func (r incidentRepo) UpdateStatusByAsset(_ context.Context, ref domain.AssetRef, status domain.IncidentStatus) (int64, error) {
	if err := r.s.begin("incidents.UpdateStatusByAsset"); err != nil {
		return 0, err
	}
	defer r.s.mu.Unlock()
	var n int64
	for _, i := range r.s.Incidents {
		if matchesAsset(i.EquipmentID, i.HardwareID, ref) {
			i.Status = status
			n++
		}
	}
	return n, nil
}

func (r incidentRepo) DeleteByAsset(_ context.Context, ref domain.AssetRef) (int64, error) {
	if err := r.s.begin("incidents.DeleteByAsset"); err != nil {
		return 0, err
	}
	defer r.s.mu.Unlock()
	var n int64
	for id, i := range r.s.Incidents {
		if matchesAsset(i.EquipmentID, i.HardwareID, ref) {
			delete(r.s.Incidents, id)
			n++
		}
	}
	return n, nil
}

func (r incidentRepo) DeleteByLocation(_ context.Context, locationID int64) (int64, error) {
	if err := r.s.begin("incidents.DeleteByLocation"); err != nil {
		return 0, err
	}
	defer r.s.mu.Unlock()
	var n int64
	for id, i := range r.s.Incidents {
		if r.s.locatedAt(locationID, i.LocationID, i.EquipmentID, i.HardwareID) {
			delete(r.s.Incidents, id)
			n++
		}
	}
	return n, nil
}

// Maintenance

type maintenanceRepo struct{ s *Store }

// MaintenanceRepository returns the store's maintenance repository.
func (s *Store) MaintenanceRepository() repository.MaintenanceRepository { return maintenanceRepo{s} }

func (r maintenanceRepo) Create(_ context.Context, m *domain.Maintenance) error {
	if err := r.s.begin("maintenance.Create"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	m.ID = r.s.id()
	cp := *m
	r.s.Maintenance[m.ID] = &cp
	return nil
}

func (r maintenanceRepo) Update(_ context.Context, m *domain.Maintenance) error {
	if err := r.s.begin("maintenance.Update"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.Maintenance[m.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *m
	r.s.Maintenance[m.ID] = &cp
	return nil
}

func (r maintenanceRepo) GetByID(_ context.Context, id int64) (*domain.Maintenance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.Maintenance[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *m
	return &cp, nil
}

func (r maintenanceRepo) List(_ context.Context, kind domain.AssetKind, filter repository.Filter) ([]domain.MaintenanceRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.LastFilter = filter
	var out []domain.MaintenanceRow
	for _, id := range sortedKeys(r.s.Maintenance) {
		m := r.s.Maintenance[id]
		name, k := r.s.assetName(m.EquipmentID, m.HardwareID)
		if k != kind {
			continue
		}
		row := domain.MaintenanceRow{
			Maintenance:  *m,
			AssetName:    name,
			UserName:     r.s.userName(m.UserID),
			LocationName: r.s.locationName(m.LocationID),
		}
		if asset, err := m.Asset(); err == nil {
			var descriptions []string
			for _, iid := range sortedKeys(r.s.Incidents) {
				i := r.s.Incidents[iid]
				if matchesAsset(i.EquipmentID, i.HardwareID, asset) {
					descriptions = append(descriptions, i.Description)
				}
			}
			if len(descriptions) > 0 {
				joined := strings.Join(descriptions, "; ")
				row.IncidentDescription = &joined
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (r maintenanceRepo) Delete(_ context.Context, id int64) error {
	if err := r.s.begin("maintenance.Delete"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.Maintenance[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.Maintenance, id)
	return nil
}

func (r maintenanceRepo) DeleteByAsset(_ context.Context, ref domain.AssetRef) (int64, error) {
	if err := r.s.begin("maintenance.DeleteByAsset"); err != nil {
		return 0, err
	}
	defer r.s.mu.Unlock()
	var n int64
	for id, m := range r.s.Maintenance {
		if matchesAsset(m.EquipmentID, m.HardwareID, ref) {
			delete(r.s.Maintenance, id)
			n++
		}
	}
	return n, nil
}

func (r maintenanceRepo) DeleteByLocation(_ context.Context, locationID int64) (int64, error) {
	if err := r.s.begin("maintenance.DeleteByLocation"); err != nil {
		return 0, err
	}
	defer r.s.mu.Unlock()
	var n int64
	for id, m := range r.s.Maintenance {
		if r.s.locatedAt(locationID, m.LocationID, m.EquipmentID, m.HardwareID) {
			delete(r.s.Maintenance, id)
			n++
		}
	}
	return n, nil
}
