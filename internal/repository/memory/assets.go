package memory

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/it-inventory/internal/domain"
	"github.com/spec-kit/it-inventory/internal/repository"
)

// Equipment

type equipmentRepo struct{ s *Store }

// EquipmentRepository returns the store's equipment repository.
func (s *Store) EquipmentRepository() repository.EquipmentRepository { return equipmentRepo{s} }

func (r equipmentRepo) Create(_ context.Context, e *domain.Equipment) error {
	if err := r.s.begin("equipment.Create"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	e.ID = r.s.id()
	e.CreatedAt, e.UpdatedAt = time.Now(), time.Now()
	cp := *e
	r.s.Equipment[e.ID] = &cp
	return nil
}

func (r equipmentRepo) Update(_ context.Context, e *domain.Equipment) error {
	if err := r.s.begin("equipment.Update"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.Equipment[e.ID]; !ok {
		return pgx.ErrNoRows
	}
	e.UpdatedAt = time.Now()
	cp := *e
	r.s.Equipment[e.ID] = &cp
	return nil
}

func (r equipmentRepo) GetByID(_ context.Context, id int64) (*domain.Equipment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.Equipment[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *e
	return &cp, nil
}

func (r equipmentRepo) List(_ context.Context, filter repository.Filter) ([]domain.EquipmentRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.Fail["equipment.List"]; err != nil {
		return nil, err
	}
	r.s.LastFilter = filter
	var out []domain.EquipmentRow
	for _, id := range sortedKeys(r.s.Equipment) {
		e := r.s.Equipment[id]
		out = append(out, domain.EquipmentRow{Equipment: *e, LocationName: r.s.locationName(e.LocationID)})
	}
	return out, nil
}

func (r equipmentRepo) ListByLocation(_ context.Context, locationID int64) ([]domain.Equipment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Equipment{}
	for _, id := range sortedKeys(r.s.Equipment) {
		if e := r.s.Equipment[id]; e.LocationID == locationID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r equipmentRepo) Delete(_ context.Context, id int64) error {
	if err := r.s.begin("equipment.Delete"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.Equipment[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.Equipment, id)
	return nil
}

func (r equipmentRepo) DeleteByLocation(_ context.Context, locationID int64) (int64, error) {
	if err := r.s.begin("equipment.DeleteByLocation"); err != nil {
		return 0, err
	}
	defer r.s.mu.Unlock()
	var n int64
	for id, e := range r.s.Equipment {
		if e.LocationID == locationID {
			delete(r.s.Equipment, id)
			n++
		}
	}
	return n, nil
}

// Hardware

type hardwareRepo struct{ s *Store }

// HardwareRepository returns the store's hardware repository.
func (s *Store) HardwareRepository() repository.HardwareRepository { return hardwareRepo{s} }

func (r hardwareRepo) Create(_ context.Context, h *domain.Hardware) error {
	if err := r.s.begin("hardware.Create"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	h.ID = r.s.id()
	h.CreatedAt, h.UpdatedAt = time.Now(), time.Now()
	cp := *h
	r.s.Hardware[h.ID] = &cp
	return nil
}

func (r hardwareRepo) Update(_ context.Context, h *domain.Hardware) error {
	if err := r.s.begin("hardware.Update"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.Hardware[h.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *h
	r.s.Hardware[h.ID] = &cp
	return nil
}

func (r hardwareRepo) GetByID(_ context.Context, id int64) (*domain.Hardware, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h, ok := r.s.Hardware[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *h
	return &cp, nil
}

func (r hardwareRepo) List(_ context.Context, filter repository.Filter) ([]domain.HardwareRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.LastFilter = filter
	var out []domain.HardwareRow
	for _, id := range sortedKeys(r.s.Hardware) {
		h := r.s.Hardware[id]
		out = append(out, domain.HardwareRow{Hardware: *h, LocationName: r.s.locationName(h.LocationID)})
	}
	return out, nil
}

func (r hardwareRepo) ListByLocation(_ context.Context, locationID int64) ([]domain.Hardware, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Hardware{}
	for _, id := range sortedKeys(r.s.Hardware) {
		if h := r.s.Hardware[id]; h.LocationID == locationID {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (r hardwareRepo) Delete(_ context.Context, id int64) error {
	if err := r.s.begin("hardware.Delete"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.Hardware[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.Hardware, id)
	return nil
}

func (r hardwareRepo) DeleteByLocation(_ context.Context, locationID int64) (int64, error) {
	if err := r.s.begin("hardware.DeleteByLocation"); err != nil {
		return 0, err
	}
	defer r.s.mu.Unlock()
	var n int64
	for id, h := range r.s.Hardware {
		if h.LocationID == locationID {
			delete(r.s.Hardware, id)
			n++
		}
	}
	return n, nil
}

// Software

type softwareRepo struct{ s *Store }

// SoftwareRepository returns the store's software repository.
func (s *Store) SoftwareRepository() repository.SoftwareRepository { return softwareRepo{s} }

func (r softwareRepo) Create(_ context.Context, sw *domain.Software) error {
	if err := r.s.begin("software.Create"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	sw.ID = r.s.id()
	cp := *sw
	r.s.Software[sw.ID] = &cp
	return nil
}

func (r softwareRepo) Update(_ context.Context, sw *domain.Software) error {
	if err := r.s.begin("software.Update"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.Software[sw.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *sw
	r.s.Software[sw.ID] = &cp
	return nil
}

func (r softwareRepo) GetByID(_ context.Context, id int64) (*domain.Software, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sw, ok := r.s.Software[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *sw
	return &cp, nil
}

func (r softwareRepo) List(_ context.Context, filter repository.Filter) ([]domain.Software, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.LastFilter = filter
	var out []domain.Software
	for _, id := range sortedKeys(r.s.Software) {
		out = append(out, *r.s.Software[id])
	}
	return out, nil
}

func (r softwareRepo) Delete(_ context.Context, id int64) error {
	if err := r.s.begin("software.Delete"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.Software[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.Software, id)
	return nil
}
