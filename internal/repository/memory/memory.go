// Package memory holds map-backed repository implementations used by tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/it-inventory/internal/domain"
	"github.com/spec-kit/it-inventory/internal/repository"
)

// Store is a shared in-memory database. Calls records every mutating
// operation in order; Fail injects an error for an operation name.
type Store struct {
	mu sync.Mutex

	Users       map[int64]*domain.User
	Locations   map[int64]*domain.Location
	Equipment   map[int64]*domain.Equipment
	Hardware    map[int64]*domain.Hardware
	Software    map[int64]*domain.Software
	Incidents   map[int64]*domain.Incident
	Maintenance map[int64]*domain.Maintenance

	Calls      []string
	Fail       map[string]error
	LastFilter repository.Filter

	nextID int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		Users:       map[int64]*domain.User{},
		Locations:   map[int64]*domain.Location{},
		Equipment:   map[int64]*domain.Equipment{},
		Hardware:    map[int64]*domain.Hardware{},
		Software:    map[int64]*domain.Software{},
		Incidents:   map[int64]*domain.Incident{},
		Maintenance: map[int64]*domain.Maintenance{},
		Fail:        map[string]error{},
	}
}

func (s *Store) begin(op string) error {
	s.mu.Lock()
	if err := s.Fail[op]; err != nil {
		s.mu.Unlock()
		return err
	}
	s.Calls = append(s.Calls, op)
	return nil
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func sortedKeys[T any](m map[int64]T) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func matchesAsset(equipmentID, hardwareID *int64, ref domain.AssetRef) bool {
	switch ref.Kind {
	case domain.AssetEquipment:
		return equipmentID != nil && *equipmentID == ref.ID
	case domain.AssetHardware:
		return hardwareID != nil && *hardwareID == ref.ID
	}
	return false
}

func (s *Store) locatedAt(locationID int64, recordLocation int64, equipmentID, hardwareID *int64) bool {
	if recordLocation == locationID {
		return true
	}
	if equipmentID != nil {
		if e, ok := s.Equipment[*equipmentID]; ok && e.LocationID == locationID {
			return true
		}
	}
	if hardwareID != nil {
		if h, ok := s.Hardware[*hardwareID]; ok && h.LocationID == locationID {
			return true
		}
	}
	return false
}

func (s *Store) locationName(id int64) string {
	if l, ok := s.Locations[id]; ok {
		return l.Name
	}
	return ""
}

func (s *Store) assetName(equipmentID, hardwareID *int64) (string, domain.AssetKind) {
	if equipmentID != nil {
		if e, ok := s.Equipment[*equipmentID]; ok {
			return e.Brand, domain.AssetEquipment
		}
	}
	if hardwareID != nil {
		if h, ok := s.Hardware[*hardwareID]; ok {
			return h.Brand, domain.AssetHardware
		}
	}
	return "", ""
}

func (s *Store) userName(id int64) string {
	if u, ok := s.Users[id]; ok {
		return u.Username
	}
	return ""
}

// Users

type userRepo struct{ s *Store }

// UserRepository returns the store's user repository.
func (s *Store) UserRepository() repository.UserRepository { return userRepo{s} }

func (r userRepo) Create(_ context.Context, user *domain.User) error {
	if err := r.s.begin("users.Create"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	user.ID = r.s.id()
	user.CreatedAt = time.Now()
	cp := *user
	r.s.Users[user.ID] = &cp
	return nil
}

func (r userRepo) Update(_ context.Context, user *domain.User) error {
	if err := r.s.begin("users.Update"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	cur, ok := r.s.Users[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	cur.Username, cur.Email, cur.Role, cur.Active = user.Username, user.Email, user.Role, user.Active
	return nil
}

func (r userRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	if err := r.s.begin("users.UpdatePassword"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	cur, ok := r.s.Users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	cur.PasswordHash = hash
	return nil
}

func (r userRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.Fail["users.GetByID"]; err != nil {
		return nil, err
	}
	u, ok := r.s.Users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range sortedKeys(r.s.Users) {
		if u := r.s.Users[id]; u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r userRepo) List(_ context.Context) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.User
	for _, id := range sortedKeys(r.s.Users) {
		out = append(out, *r.s.Users[id])
	}
	return out, nil
}

func (r userRepo) Delete(_ context.Context, id int64) error {
	if err := r.s.begin("users.Delete"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.Users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.Users, id)
	return nil
}

func (r userRepo) TouchLastAccess(_ context.Context, id int64) error {
	if err := r.s.begin("users.TouchLastAccess"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if u, ok := r.s.Users[id]; ok {
		now := time.Now()
		u.LastAccessAt = &now
	}
	return nil
}

func (r userRepo) EnsureAdmin(_ context.Context, user *domain.User) (bool, error) {
	if err := r.s.begin("users.EnsureAdmin"); err != nil {
		return false, err
	}
	defer r.s.mu.Unlock()
	for _, u := range r.s.Users {
		if u.Email == user.Email {
			return false, nil
		}
	}
	cp := *user
	cp.ID = r.s.id()
	cp.Active = true
	r.s.Users[cp.ID] = &cp
	return true, nil
}

// Locations

type locationRepo struct{ s *Store }

// LocationRepository returns the store's location repository.
func (s *Store) LocationRepository() repository.LocationRepository { return locationRepo{s} }

func (r locationRepo) Create(_ context.Context, location *domain.Location) error {
	if err := r.s.begin("locations.Create"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	location.ID = r.s.id()
	cp := *location
	r.s.Locations[location.ID] = &cp
	return nil
}

func (r locationRepo) Update(_ context.Context, location *domain.Location) error {
	if err := r.s.begin("locations.Update"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.Locations[location.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *location
	r.s.Locations[location.ID] = &cp
	return nil
}

func (r locationRepo) GetByID(_ context.Context, id int64) (*domain.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.Locations[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *l
	return &cp, nil
}

func (r locationRepo) List(_ context.Context) ([]domain.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Location
	for _, id := range sortedKeys(r.s.Locations) {
		out = append(out, *r.s.Locations[id])
	}
	return out, nil
}

func (r locationRepo) Delete(_ context.Context, id int64) error {
	if err := r.s.begin("locations.Delete"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.Locations[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.Locations, id)
	return nil
}
