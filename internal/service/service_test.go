package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/it-inventory/internal/config"
	"github.com/spec-kit/it-inventory/internal/domain"
	"github.com/spec-kit/it-inventory/internal/events"
	"github.com/spec-kit/it-inventory/internal/importer"
	"github.com/spec-kit/it-inventory/internal/repository/memory"
	apperrors "github.com/spec-kit/it-inventory/pkg/util"
)

type recorder struct {
	events.Dispatcher
	published []events.Event
}

func newRecorder() *recorder {
	return &recorder{Dispatcher: events.NewInMemoryDispatcher()}
}

func (r *recorder) Publish(ctx context.Context, e events.Event) error {
	r.published = append(r.published, e)
	return r.Dispatcher.Publish(ctx, e)
}

func ptr(v int64) *int64 { return &v }

type world struct {
	store    *memory.Store
	events   *recorder
	location *domain.Location
	user     *domain.User
	pc       *domain.Equipment
	monitor  *domain.Hardware
}

func newWorld(t *testing.T) *world {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	user := &domain.User{Username: "tec", Email: "tec@educa.madrid.org", Role: domain.RoleTecnico, Active: true}
	require.NoError(t, store.UserRepository().Create(ctx, user))
	location := &domain.Location{Name: "Aula 1", ResponsibleDepartment: "TIC"}
	require.NoError(t, store.LocationRepository().Create(ctx, location))
	pc := &domain.Equipment{Type: "Sobremesa", Brand: "Dell", Model: "7010", LocationID: location.ID, Status: "operativo"}
	require.NoError(t, store.EquipmentRepository().Create(ctx, pc))
	monitor := &domain.Hardware{ComponentType: "Monitor", Brand: "LG", Model: "24", LocationID: location.ID, Status: "operativo"}
	require.NoError(t, store.HardwareRepository().Create(ctx, monitor))
	store.Calls = nil

	return &world{store: store, events: newRecorder(), location: location, user: user, pc: pc, monitor: monitor}
}

func (w *world) recordDeps() RecordDependencies {
	return RecordDependencies{
		IncidentRepo:    w.store.IncidentRepository(),
		MaintenanceRepo: w.store.MaintenanceRepository(),
		Dispatcher:      w.events,
		Logger:          zap.NewNop(),
	}
}

func (w *world) addIncident(t *testing.T, equipmentID, hardwareID *int64) *domain.Incident {
	t.Helper()
	incident := &domain.Incident{
		Description: "Falla", ReportedOn: time.Now(), Status: domain.IncidentOpen, Priority: "alta",
		LocationID: w.location.ID, EquipmentID: equipmentID, HardwareID: hardwareID, UserID: w.user.ID,
	}
	require.NoError(t, w.store.IncidentRepository().Create(context.Background(), incident))
	return incident
}

func TestMaintenanceWriteDerivesEveryIncidentOnAsset(t *testing.T) {
	w := newWorld(t)
	a := w.addIncident(t, ptr(w.pc.ID), nil)
	b := w.addIncident(t, ptr(w.pc.ID), nil)
	other := w.addIncident(t, nil, ptr(w.monitor.ID))
	svc := NewMaintenanceService(w.recordDeps())
	ctx := WithActor(context.Background(), events.Actor{UserID: w.user.ID, Role: w.user.Role})

	cases := []struct {
		status domain.MaintenanceStatus
		want   domain.IncidentStatus
	}{
		{domain.MaintenancePending, domain.IncidentInProgress},
		{domain.MaintenanceCompleted, domain.IncidentClosed},
		{domain.MaintenanceCancelled, domain.IncidentCancelled},
		{"en revisión", domain.IncidentOpen},
	}

	m := &domain.Maintenance{
		Type: "correctivo", Description: "Cambio de fuente", PerformedOn: time.Now(),
		LocationID: w.location.ID, EquipmentID: ptr(w.pc.ID), UserID: w.user.ID,
	}
	for i, tc := range cases {
		m.Status = tc.status
		if i == 0 {
			require.NoError(t, svc.Create(ctx, domain.AssetEquipment, m))
		} else {
			require.NoError(t, svc.Update(ctx, domain.AssetEquipment, m))
		}
		assert.Equal(t, tc.want, w.store.Incidents[a.ID].Status, tc.status)
		assert.Equal(t, tc.want, w.store.Incidents[b.ID].Status, tc.status)
		assert.Equal(t, domain.IncidentOpen, w.store.Incidents[other.ID].Status, "other asset untouched")
	}

	require.Len(t, w.events.published, len(cases))
	last := w.events.published[len(cases)-1]
	assert.Equal(t, events.EventIncidentStatusDerived, last.Type)
	assert.Equal(t, w.user.ID, last.Actor.UserID)
	payload := last.Payload.(events.IncidentStatusDerivedPayload)
	assert.Equal(t, int64(2), payload.IncidentsUpdated)
	assert.Equal(t, domain.IncidentOpen, payload.IncidentStatus)
}

func TestMaintenanceRejectsBadAssetReference(t *testing.T) {
	w := newWorld(t)
	svc := NewMaintenanceService(w.recordDeps())

	both := &domain.Maintenance{Status: domain.MaintenancePending, EquipmentID: ptr(w.pc.ID), HardwareID: ptr(w.monitor.ID)}
	err := svc.Create(context.Background(), domain.AssetEquipment, both)
	assert.Equal(t, http.StatusBadRequest, apperrors.ToDomainError(err).HTTPStatus)

	wrongKind := &domain.Maintenance{Status: domain.MaintenancePending, HardwareID: ptr(w.monitor.ID)}
	err = svc.Create(context.Background(), domain.AssetEquipment, wrongKind)
	assert.Equal(t, http.StatusBadRequest, apperrors.ToDomainError(err).HTTPStatus)
	assert.Empty(t, w.store.Calls)
}

func TestMaintenanceDerivationFailureSurfaces(t *testing.T) {
	w := newWorld(t)
	w.store.Fail["incidents.UpdateStatusByAsset"] = errors.New("connection reset")
	svc := NewMaintenanceService(w.recordDeps())

	m := &domain.Maintenance{Status: domain.MaintenanceCompleted, HardwareID: ptr(w.monitor.ID), LocationID: w.location.ID, UserID: w.user.ID}
	err := svc.Create(context.Background(), domain.AssetHardware, m)
	assert.EqualError(t, err, "connection reset")
	assert.Len(t, w.store.Maintenance, 1, "maintenance write is not rolled back")
	assert.Empty(t, w.events.published)
}

func TestLocationDeleteCascadesChildrenFirst(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	elsewhere := &domain.Location{Name: "Sala 2"}
	require.NoError(t, w.store.LocationRepository().Create(ctx, elsewhere))
	kept := &domain.Equipment{Type: "Portátil", Brand: "HP", LocationID: elsewhere.ID, Status: "operativo"}
	require.NoError(t, w.store.EquipmentRepository().Create(ctx, kept))

	w.addIncident(t, ptr(w.pc.ID), nil)
	moved := w.addIncident(t, nil, ptr(w.monitor.ID))
	w.store.Incidents[moved.ID].LocationID = elsewhere.ID
	keptIncident := w.addIncident(t, ptr(kept.ID), nil)
	w.store.Incidents[keptIncident.ID].LocationID = elsewhere.ID
	require.NoError(t, w.store.MaintenanceRepository().Create(ctx, &domain.Maintenance{
		Status: domain.MaintenancePending, EquipmentID: ptr(w.pc.ID), LocationID: w.location.ID, UserID: w.user.ID,
	}))
	w.store.Calls = nil

	svc := NewLocationService(LocationDependencies{
		LocationRepo:    w.store.LocationRepository(),
		EquipmentRepo:   w.store.EquipmentRepository(),
		HardwareRepo:    w.store.HardwareRepository(),
		IncidentRepo:    w.store.IncidentRepository(),
		MaintenanceRepo: w.store.MaintenanceRepository(),
		Dispatcher:      w.events,
		Logger:          zap.NewNop(),
	})
	require.NoError(t, svc.Delete(ctx, w.location.ID))

	assert.Equal(t, []string{
		"incidents.DeleteByLocation",
		"maintenance.DeleteByLocation",
		"equipment.DeleteByLocation",
		"hardware.DeleteByLocation",
		"locations.Delete",
	}, w.store.Calls)

	assert.Len(t, w.store.Incidents, 1)
	assert.Contains(t, w.store.Incidents, keptIncident.ID)
	assert.Empty(t, w.store.Maintenance)
	assert.Len(t, w.store.Equipment, 1)
	assert.Empty(t, w.store.Hardware)
	assert.NotContains(t, w.store.Locations, w.location.ID)

	require.Len(t, w.events.published, 1)
	payload := w.events.published[0].Payload.(events.RecordsCascadeDeletedPayload)
	assert.Equal(t, int64(2), payload.Removed["incidencias"])
	assert.Equal(t, int64(1), payload.Removed["equipos"])
}

func TestLocationDeleteStopsAtFailedStep(t *testing.T) {
	w := newWorld(t)
	w.store.Fail["equipment.DeleteByLocation"] = errors.New("lock timeout")
	w.addIncident(t, ptr(w.pc.ID), nil)

	svc := NewLocationService(LocationDependencies{
		LocationRepo:    w.store.LocationRepository(),
		EquipmentRepo:   w.store.EquipmentRepository(),
		HardwareRepo:    w.store.HardwareRepository(),
		IncidentRepo:    w.store.IncidentRepository(),
		MaintenanceRepo: w.store.MaintenanceRepository(),
	})
	assert.Error(t, svc.Delete(context.Background(), w.location.ID))
	assert.Empty(t, w.store.Incidents, "earlier steps stay committed")
	assert.Contains(t, w.store.Locations, w.location.ID)
	assert.NotContains(t, w.store.Calls, "locations.Delete")
}

func TestEquipmentDeleteRemovesDependents(t *testing.T) {
	w := newWorld(t)
	w.addIncident(t, ptr(w.pc.ID), nil)
	hw := w.addIncident(t, nil, ptr(w.monitor.ID))
	w.store.Calls = nil

	svc := NewEquipmentService(AssetDependencies{
		EquipmentRepo:   w.store.EquipmentRepository(),
		IncidentRepo:    w.store.IncidentRepository(),
		MaintenanceRepo: w.store.MaintenanceRepository(),
		Dispatcher:      w.events,
	})
	require.NoError(t, svc.Delete(context.Background(), w.pc.ID))
	assert.Equal(t, []string{"incidents.DeleteByAsset", "maintenance.DeleteByAsset", "equipment.Delete"}, w.store.Calls)
	assert.Len(t, w.store.Incidents, 1)
	assert.Contains(t, w.store.Incidents, hw.ID)

	err := svc.Delete(context.Background(), 999)
	assert.Equal(t, "Equipo no encontrado", apperrors.ToDomainError(err).Message)
}

func TestHardwareDeleteRemovesDependents(t *testing.T) {
	w := newWorld(t)
	w.addIncident(t, nil, ptr(w.monitor.ID))
	svc := NewHardwareService(AssetDependencies{
		HardwareRepo:    w.store.HardwareRepository(),
		IncidentRepo:    w.store.IncidentRepository(),
		MaintenanceRepo: w.store.MaintenanceRepository(),
	})
	require.NoError(t, svc.Delete(context.Background(), w.monitor.ID))
	assert.Empty(t, w.store.Incidents)
	assert.Empty(t, w.store.Hardware)
}

func TestIncidentDeleteRemovesAssetMaintenanceFirst(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	incident := w.addIncident(t, ptr(w.pc.ID), nil)
	require.NoError(t, w.store.MaintenanceRepository().Create(ctx, &domain.Maintenance{
		Status: domain.MaintenancePending, EquipmentID: ptr(w.pc.ID), LocationID: w.location.ID, UserID: w.user.ID,
	}))
	w.store.Calls = nil

	svc := NewIncidentService(w.recordDeps())
	require.NoError(t, svc.Delete(ctx, incident.ID))
	assert.Equal(t, []string{"maintenance.DeleteByAsset", "incidents.Delete"}, w.store.Calls)
	assert.Empty(t, w.store.Maintenance)

	err := svc.Delete(ctx, incident.ID)
	assert.Equal(t, http.StatusNotFound, apperrors.ToDomainError(err).HTTPStatus)
}

func TestMaintenanceDeleteRemovesAssetIncidentsFirst(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	w.addIncident(t, nil, ptr(w.monitor.ID))
	m := &domain.Maintenance{Status: domain.MaintenancePending, HardwareID: ptr(w.monitor.ID), LocationID: w.location.ID, UserID: w.user.ID}
	require.NoError(t, w.store.MaintenanceRepository().Create(ctx, m))
	w.store.Calls = nil

	svc := NewMaintenanceService(w.recordDeps())
	require.NoError(t, svc.Delete(ctx, m.ID))
	assert.Equal(t, []string{"incidents.DeleteByAsset", "maintenance.Delete"}, w.store.Calls)
	assert.Empty(t, w.store.Incidents)
}

func TestIncidentCreateDefaultsStatus(t *testing.T) {
	w := newWorld(t)
	svc := NewIncidentService(w.recordDeps())
	incident := &domain.Incident{Description: "Pantalla azul", HardwareID: ptr(w.monitor.ID), LocationID: w.location.ID, UserID: w.user.ID}
	require.NoError(t, svc.Create(context.Background(), domain.AssetHardware, incident))
	assert.Equal(t, domain.IncidentOpen, w.store.Incidents[incident.ID].Status)

	none := &domain.Incident{Description: "Sin activo"}
	err := svc.Create(context.Background(), domain.AssetHardware, none)
	assert.Equal(t, http.StatusBadRequest, apperrors.ToDomainError(err).HTTPStatus)
}

func TestEquipmentImportCountsFailures(t *testing.T) {
	w := newWorld(t)
	w.store.Equipment = map[int64]*domain.Equipment{}
	svc := NewEquipmentService(AssetDependencies{EquipmentRepo: w.store.EquipmentRepository()})

	csv := "tipo,marca,modelo,id_ubicacion,estado\n" +
		"Sobremesa,Dell,7010,1,operativo\n" +
		"Portátil,HP,450,abc,operativo\n" +
		"Servidor,Lenovo,SR650,1,operativo\n"
	rows, err := importer.ReadRows(importer.FormatCSV, strings.NewReader(csv))
	require.NoError(t, err)

	result := svc.Import(context.Background(), rows)
	assert.Equal(t, ImportResult{Inserted: 2, Failed: 1}, result)
	assert.Len(t, w.store.Equipment, 2)
}

func TestAuthSignupAndLogin(t *testing.T) {
	store := memory.NewStore()
	svc := NewAuthService(config.AuthConfig{SignupEmailDomain: "educa.madrid.org", BcryptCost: 4}, store.UserRepository(), zap.NewNop())
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Username: "eva", Email: "eva@gmail.com", Password: "x"})
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, "Solo se permite el registro con correos de educa.madrid.org", de.Message)

	_, err = svc.Signup(ctx, SignupInput{Username: "eva", Email: "eva@educaXmadrid.org", Password: "x"})
	assert.Error(t, err, "domain dots are literal")

	user, err := svc.Signup(ctx, SignupInput{Username: "eva", Email: "eva.p@educa.madrid.org", Password: "secreta"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUsuario, user.Role)
	assert.NotEqual(t, "secreta", store.Users[user.ID].PasswordHash)

	_, err = svc.Login(ctx, "eva.p@educa.madrid.org", "mala")
	assert.Equal(t, http.StatusUnauthorized, apperrors.ToDomainError(err).HTTPStatus)
	_, err = svc.Login(ctx, "nadie@educa.madrid.org", "secreta")
	assert.Equal(t, invalidCredentials, apperrors.ToDomainError(err).Message)

	logged, err := svc.Login(ctx, "eva.p@educa.madrid.org", "secreta")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotNil(t, store.Users[user.ID].LastAccessAt)

	store.Users[user.ID].Active = false
	_, err = svc.Login(ctx, "eva.p@educa.madrid.org", "secreta")
	assert.Contains(t, apperrors.ToDomainError(err).Message, "desactivada")
}

func TestEnsureAdminSeedsOnce(t *testing.T) {
	store := memory.NewStore()
	svc := NewAuthService(config.AuthConfig{
		BcryptCost: 4, AdminUsername: "admin", AdminEmail: "admin@educa.madrid.org", AdminPassword: "root",
	}, store.UserRepository(), zap.NewNop())

	require.NoError(t, svc.EnsureAdmin(context.Background()))
	require.NoError(t, svc.EnsureAdmin(context.Background()))
	require.Len(t, store.Users, 1)

	logged, err := svc.Login(context.Background(), "admin@educa.madrid.org", "root")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, logged.Role)
}

func TestUserServiceHashesAndGuardsDelete(t *testing.T) {
	store := memory.NewStore()
	svc := NewUserService(store.UserRepository(), 4)
	ctx := context.Background()

	_, err := svc.Create(ctx, UserInput{Username: "x", Email: "x@educa.madrid.org", Password: "p", Role: "root"})
	assert.Equal(t, http.StatusBadRequest, apperrors.ToDomainError(err).HTTPStatus)

	user, err := svc.Create(ctx, UserInput{Username: "x", Email: "x@educa.madrid.org", Password: "p", Role: domain.RoleTecnico, Active: true})
	require.NoError(t, err)
	firstHash := store.Users[user.ID].PasswordHash
	assert.NotEqual(t, "p", firstHash)

	require.NoError(t, svc.Update(ctx, user.ID, UserInput{Username: "y", Email: "y@educa.madrid.org", Role: domain.RoleAdmin}))
	assert.Equal(t, firstHash, store.Users[user.ID].PasswordHash, "blank password keeps hash")
	assert.Equal(t, domain.RoleAdmin, store.Users[user.ID].Role)

	require.NoError(t, svc.Update(ctx, user.ID, UserInput{Username: "y", Email: "y@educa.madrid.org", Password: "nueva", Role: domain.RoleAdmin}))
	assert.NotEqual(t, firstHash, store.Users[user.ID].PasswordHash)

	err = svc.Delete(ctx, 999)
	assert.Equal(t, "Usuario no encontrado", apperrors.ToDomainError(err).Message)
}
