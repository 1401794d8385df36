package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/it-inventory/internal/api/http/handlers"
	"github.com/spec-kit/it-inventory/internal/auth"
	"github.com/spec-kit/it-inventory/internal/config"
	"github.com/spec-kit/it-inventory/internal/domain"
	"github.com/spec-kit/it-inventory/internal/events"
	"github.com/spec-kit/it-inventory/internal/observability"
	"github.com/spec-kit/it-inventory/internal/repository/memory"
	"github.com/spec-kit/it-inventory/internal/service"
	"github.com/spec-kit/it-inventory/internal/session"
)

const testPassword = "secreto"

type harness struct {
	app      *fiber.App
	store    *memory.Store
	location *domain.Location
	admin    *domain.User
	tecnico  *domain.User
	usuario  *domain.User
	cookie   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	hash, err := auth.HashPassword(testPassword, 4)
	require.NoError(t, err)
	seedUser := func(name string, role domain.Role) *domain.User {
		u := &domain.User{Username: name, Email: name + "@educa.madrid.org", PasswordHash: hash, Role: role, Active: true}
		require.NoError(t, store.UserRepository().Create(ctx, u))
		return u
	}
	h := &harness{
		store:   store,
		admin:   seedUser("admin", domain.RoleAdmin),
		tecnico: seedUser("tecnico", domain.RoleTecnico),
		usuario: seedUser("usuario", domain.RoleUsuario),
	}
	h.location = &domain.Location{Name: "Aula 2", ResponsibleDepartment: "TIC"}
	require.NoError(t, store.LocationRepository().Create(ctx, h.location))

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	authCfg := config.AuthConfig{SignupEmailDomain: "educa.madrid.org", BcryptCost: 4}

	locations := service.NewLocationService(service.LocationDependencies{
		LocationRepo:    store.LocationRepository(),
		EquipmentRepo:   store.EquipmentRepository(),
		HardwareRepo:    store.HardwareRepository(),
		IncidentRepo:    store.IncidentRepository(),
		MaintenanceRepo: store.MaintenanceRepository(),
		Dispatcher:      dispatcher,
		Logger:          logger,
	})
	assetDeps := service.AssetDependencies{
		EquipmentRepo:   store.EquipmentRepository(),
		HardwareRepo:    store.HardwareRepository(),
		IncidentRepo:    store.IncidentRepository(),
		MaintenanceRepo: store.MaintenanceRepository(),
		Dispatcher:      dispatcher,
		Logger:          logger,
	}
	recordDeps := service.RecordDependencies{
		IncidentRepo:    store.IncidentRepository(),
		MaintenanceRepo: store.MaintenanceRepository(),
		Dispatcher:      dispatcher,
		Logger:          logger,
	}
	equipment := service.NewEquipmentService(assetDeps)
	hardware := service.NewHardwareService(assetDeps)
	users := service.NewUserService(store.UserRepository(), 4)
	incidents := service.NewIncidentService(recordDeps)
	maintenance := service.NewMaintenanceService(recordDeps)
	lookups := handlers.RecordLookups{Equipment: equipment, Hardware: hardware, Users: users, Locations: locations}

	manager := session.NewManager(session.NewMemoryStore(), session.NewTokenCodec("test-secret"), 60*time.Minute, logger)
	gate := auth.NewGate(store.UserRepository(), auth.SessionPolicy{MaxAge: 30 * time.Minute}, logger, metrics)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, manager, 0)
	RegisterRoutes(app, RouteConfig{
		Health:               handlers.NewHealthHandler("it-inventory", "test", metrics, nil),
		Auth:                 handlers.NewAuthHandler(service.NewAuthService(authCfg, store.UserRepository(), logger)),
		Equipment:            handlers.NewEquipmentHandler(equipment, locations, 1<<20, logger),
		Hardware:             handlers.NewHardwareHandler(hardware, locations),
		Software:             handlers.NewSoftwareHandler(service.NewSoftwareService(store.SoftwareRepository())),
		Locations:            handlers.NewLocationHandler(locations),
		Users:                handlers.NewUsersHandler(users),
		EquipmentIncidents:   handlers.NewIncidentHandler(domain.AssetEquipment, incidents, lookups),
		HardwareIncidents:    handlers.NewIncidentHandler(domain.AssetHardware, incidents, lookups),
		EquipmentMaintenance: handlers.NewMaintenanceHandler(domain.AssetEquipment, maintenance, lookups),
		HardwareMaintenance:  handlers.NewMaintenanceHandler(domain.AssetHardware, maintenance, lookups),
		Gate:                 gate,
	})
	h.app = app
	return h
}

// do sends req with the current session cookie and keeps whatever cookie comes back.
func (h *harness) do(t *testing.T, req *nethttp.Request) *nethttp.Response {
	t.Helper()
	if h.cookie != "" {
		req.AddCookie(&nethttp.Cookie{Name: session.CookieName, Value: h.cookie})
	}
	resp, err := h.app.Test(req)
	require.NoError(t, err)
	for _, ck := range resp.Cookies() {
		if ck.Name == session.CookieName {
			h.cookie = ck.Value
		}
	}
	return resp
}

func (h *harness) get(t *testing.T, path string) *nethttp.Response {
	t.Helper()
	return h.do(t, httptest.NewRequest(nethttp.MethodGet, path, nil))
}

func (h *harness) post(t *testing.T, path string, form url.Values) *nethttp.Response {
	t.Helper()
	req := httptest.NewRequest(nethttp.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return h.do(t, req)
}

func (h *harness) login(t *testing.T, user *domain.User) {
	t.Helper()
	resp := h.post(t, "/login", url.Values{"email": {user.Email}, "password": {testPassword}})
	require.Equal(t, nethttp.StatusFound, resp.StatusCode)
	require.Equal(t, auth.HomePath, resp.Header.Get("Location"))
}

func readView(t *testing.T, resp *nethttp.Response) handlers.View {
	t.Helper()
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var view handlers.View
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	return view
}

func readBody(t *testing.T, resp *nethttp.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func assertRedirect(t *testing.T, resp *nethttp.Response, target string) {
	t.Helper()
	assert.Equal(t, nethttp.StatusFound, resp.StatusCode)
	assert.Equal(t, target, resp.Header.Get("Location"))
}

func TestRootRedirectsToLogup(t *testing.T) {
	h := newHarness(t)
	assertRedirect(t, h.get(t, "/"), "/logup")
}

func TestLoginStartsSession(t *testing.T) {
	h := newHarness(t)
	h.login(t, h.tecnico)

	view := readView(t, h.get(t, "/index"))
	assert.Equal(t, "index", view.Name)
	assert.Equal(t, []string{"¡Bienvenido! Has iniciado sesión correctamente."}, view.Messages[session.FlashSuccess])
	user, ok := view.Data["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "tecnico", user["username"])

	stored, err := h.store.UserRepository().GetByID(context.Background(), h.tecnico.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastAccessAt)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	h := newHarness(t)
	resp := h.post(t, "/login", url.Values{"email": {h.tecnico.Email}, "password": {"nope"}})
	assertRedirect(t, resp, "/logup")

	view := readView(t, h.get(t, "/logup"))
	assert.Equal(t, []string{"Credenciales inválidas"}, view.Messages[session.FlashError])
}

func TestSignupRequiresDomainEmail(t *testing.T) {
	h := newHarness(t)
	resp := h.post(t, "/signup", url.Values{"username": {"eva"}, "email": {"eva@gmail.com"}, "password": {"x"}})
	assertRedirect(t, resp, "/logup")
	view := readView(t, h.get(t, "/logup"))
	assert.Equal(t, []string{"Solo se permite el registro con correos de educa.madrid.org"}, view.Messages[session.FlashError])

	resp = h.post(t, "/signup", url.Values{"username": {"eva"}, "email": {"eva@educa.madrid.org"}, "password": {"x"}})
	assertRedirect(t, resp, "/logup")
	created, err := h.store.UserRepository().GetByEmail(context.Background(), "eva@educa.madrid.org")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUsuario, created.Role)
	assert.NotEqual(t, "x", created.PasswordHash)
}

func TestLogoutDestroysSession(t *testing.T) {
	h := newHarness(t)
	h.login(t, h.usuario)
	assertRedirect(t, h.get(t, "/logout"), "/logup")
	assertRedirect(t, h.get(t, "/index"), "/logup")
}

func TestAnonymousRequestIsSentToLogin(t *testing.T) {
	h := newHarness(t)
	assertRedirect(t, h.get(t, "/equipos/listar"), "/logup")

	view := readView(t, h.get(t, "/logup"))
	assert.Equal(t, []string{"Debes iniciar sesión para acceder a esta página."}, view.Messages[session.FlashError])
}

func TestRoleAllowLists(t *testing.T) {
	h := newHarness(t)
	h.login(t, h.usuario)
	readView(t, h.get(t, "/index"))

	assertRedirect(t, h.get(t, "/equipos/listar"), "/index")
	assertRedirect(t, h.get(t, "/mantenimiento_equipos/listar"), "/index")
	assertRedirect(t, h.get(t, "/usuarios/listar"), "/index")

	view := readView(t, h.get(t, "/index"))
	assert.Len(t, view.Messages[session.FlashError], 3)

	assert.Equal(t, "incidencias_hardware/listar", readView(t, h.get(t, "/incidencias_hardware/listar")).Name)
	assert.Equal(t, "ubicaciones/listar", readView(t, h.get(t, "/ubicaciones/listar")).Name)

	tec := newHarness(t)
	tec.login(t, tec.tecnico)
	assertRedirect(t, tec.get(t, "/usuarios/listar"), "/index")
	assert.Equal(t, "equipos/listar", readView(t, tec.get(t, "/equipos/listar")).Name)
}

func TestLocationLookupReturnsJSONArray(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	pc := &domain.Equipment{Type: "Portátil", Brand: "HP", Model: "840", LocationID: h.location.ID, Status: "operativo"}
	require.NoError(t, h.store.EquipmentRepository().Create(ctx, pc))

	h.login(t, h.usuario)
	resp := h.get(t, "/equipos/ubicacion/"+itoa(h.location.ID))
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var got []domain.Equipment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "HP", got[0].Brand)

	resp = h.get(t, "/hardware/ubicacion/"+itoa(h.location.ID))
	assert.Equal(t, "[]", readBody(t, resp))
}

func TestEquipmentCreateValidatesForm(t *testing.T) {
	h := newHarness(t)
	h.login(t, h.tecnico)

	resp := h.post(t, "/equipos/alta", url.Values{"tipo": {"Sobremesa"}})
	assertRedirect(t, resp, "/equipos/alta")
	view := readView(t, h.get(t, "/equipos/alta"))
	require.Len(t, view.Messages[session.FlashError], 1)
	assert.Contains(t, view.Messages[session.FlashError][0], "marca")
	assert.Empty(t, h.store.Equipment)

	resp = h.post(t, "/equipos/alta", url.Values{
		"tipo": {"Sobremesa"}, "marca": {"Dell"}, "modelo": {"7010"},
		"id_ubicacion": {itoa(h.location.ID)}, "estado": {"operativo"}, "procesador": {"i5"},
	})
	assertRedirect(t, resp, "/equipos/listar")
	require.Len(t, h.store.Equipment, 1)
	for _, e := range h.store.Equipment {
		assert.Equal(t, "i5", e.Processor)
	}
}

func TestListingBuildsFilterFromQuery(t *testing.T) {
	h := newHarness(t)
	h.login(t, h.tecnico)

	view := readView(t, h.get(t, "/equipos/listar?marca=del&ubicacion=abc&desconocido=1&tipo="))
	assert.Equal(t, "equipos/listar", view.Name)
	assert.Contains(t, view.Data, "ubicaciones")
	require.Len(t, h.store.LastFilter, 1)
	assert.Equal(t, "del", h.store.LastFilter[0].Value)
}

func TestMissingRowIsPlainText404(t *testing.T) {
	h := newHarness(t)
	h.login(t, h.tecnico)

	resp := h.get(t, "/equipos/actualizar/999")
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/plain")
	assert.Equal(t, "Equipo no encontrado", readBody(t, resp))

	resp = h.get(t, "/software/actualizar/abc")
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Software no encontrado", readBody(t, resp))
}

func TestStoreFailureIsPlainText500(t *testing.T) {
	h := newHarness(t)
	h.login(t, h.tecnico)
	h.store.Fail["equipment.List"] = errors.New("connection reset")

	resp := h.get(t, "/equipos/listar")
	assert.Equal(t, nethttp.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Error al procesar la solicitud", readBody(t, resp))
}

func TestMaintenanceCreateDerivesIncidentStatus(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	pc := &domain.Equipment{Type: "Sobremesa", Brand: "Dell", Model: "7010", LocationID: h.location.ID, Status: "operativo"}
	require.NoError(t, h.store.EquipmentRepository().Create(ctx, pc))
	pcID := pc.ID
	incident := &domain.Incident{
		Description: "No arranca", ReportedOn: time.Now(), Status: domain.IncidentOpen, Priority: "alta",
		LocationID: h.location.ID, EquipmentID: &pcID, UserID: h.usuario.ID,
	}
	require.NoError(t, h.store.IncidentRepository().Create(ctx, incident))

	h.login(t, h.tecnico)
	resp := h.post(t, "/mantenimiento_equipos/alta", url.Values{
		"tipo": {"correctivo"}, "descripcion_mantenimiento": {"Cambio de fuente"},
		"fecha_mantenimiento": {"2024-05-02"}, "estado": {"completado"},
		"id_ubicacion": {itoa(h.location.ID)}, "id_equipo": {itoa(pc.ID)},
	})
	assertRedirect(t, resp, "/mantenimiento_equipos/listar")
	assert.Equal(t, domain.IncidentClosed, h.store.Incidents[incident.ID].Status)
	require.Len(t, h.store.Maintenance, 1)
	for _, m := range h.store.Maintenance {
		assert.Equal(t, h.tecnico.ID, m.UserID)
	}
}

func TestIncidentWithoutAssetIsRejected(t *testing.T) {
	h := newHarness(t)
	h.login(t, h.usuario)

	resp := h.post(t, "/incidencias_equipos/alta", url.Values{
		"descripcion_incidencia": {"Pantalla rota"}, "fecha_reporte": {"2024-05-02"},
		"prioridad": {"media"}, "id_ubicacion": {itoa(h.location.ID)},
	})
	assertRedirect(t, resp, "/incidencias_equipos/alta")
	assert.Empty(t, h.store.Incidents)

	view := readView(t, h.get(t, "/incidencias_equipos/alta"))
	assert.Equal(t, []string{"Debe indicarse exactamente un equipo o un hardware"}, view.Messages[session.FlashError])
	assert.Contains(t, view.Data, "activos")
	assert.Contains(t, view.Data, "usuarios")
}

func TestLocationDeleteCascades(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	pc := &domain.Equipment{Type: "Sobremesa", Brand: "Dell", Model: "7010", LocationID: h.location.ID, Status: "operativo"}
	require.NoError(t, h.store.EquipmentRepository().Create(ctx, pc))

	h.login(t, h.tecnico)
	resp := h.post(t, "/ubicaciones/eliminar/"+itoa(h.location.ID), nil)
	assertRedirect(t, resp, "/ubicaciones/listar")
	assert.Empty(t, h.store.Locations)
	assert.Empty(t, h.store.Equipment)

	view := readView(t, h.get(t, "/ubicaciones/listar"))
	assert.Equal(t, []string{"Ubicación eliminada exitosamente"}, view.Messages[session.FlashSuccess])
}

func TestUserDeleteBlockedByReferences(t *testing.T) {
	h := newHarness(t)
	h.login(t, h.admin)
	h.store.Fail["users.Delete"] = &pgconn.PgError{Code: "23503"}

	resp := h.post(t, "/usuarios/eliminar/"+itoa(h.usuario.ID), nil)
	assertRedirect(t, resp, "/usuarios/listar")
	view := readView(t, h.get(t, "/usuarios/listar"))
	require.Len(t, view.Messages[session.FlashError], 1)
	assert.Contains(t, view.Messages[session.FlashError][0], "No se puede eliminar el usuario")
}

func TestAdminCreatedUserPasswordIsHashed(t *testing.T) {
	h := newHarness(t)
	h.login(t, h.admin)

	resp := h.post(t, "/usuarios/alta", url.Values{
		"username": {"nuevo"}, "email": {"nuevo@educa.madrid.org"}, "password": {"clave"}, "rol": {"tecnico"},
	})
	assertRedirect(t, resp, "/usuarios/listar")
	created, err := h.store.UserRepository().GetByEmail(context.Background(), "nuevo@educa.madrid.org")
	require.NoError(t, err)
	assert.NoError(t, auth.ComparePassword(created.PasswordHash, "clave"))
	assert.True(t, created.Active)

	resp = h.post(t, "/usuarios/alta", url.Values{
		"username": {"otro"}, "email": {"otro@educa.madrid.org"}, "password": {"clave"}, "rol": {"root"},
	})
	assertRedirect(t, resp, "/usuarios/alta")
}

func uploadRequest(t *testing.T, filename, content string) *nethttp.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(nethttp.MethodPost, "/equipos/upload", &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func TestEquipmentUpload(t *testing.T) {
	h := newHarness(t)
	h.login(t, h.tecnico)

	assertRedirect(t, h.do(t, uploadRequest(t, "", "")), "/equipos/listar")
	view := readView(t, h.get(t, "/equipos/listar"))
	assert.Equal(t, []string{"No se ha subido ningún archivo"}, view.Messages[session.FlashError])

	assertRedirect(t, h.do(t, uploadRequest(t, "equipos.txt", "x")), "/equipos/listar")
	view = readView(t, h.get(t, "/equipos/listar"))
	assert.Equal(t, []string{"Formato de archivo no soportado"}, view.Messages[session.FlashError])

	csv := "tipo,marca,modelo,id_ubicacion,estado\n" +
		"Sobremesa,Dell,7010," + itoa(h.location.ID) + ",operativo\n" +
		"Portátil,HP,840,no-es-numero,operativo\n"
	assertRedirect(t, h.do(t, uploadRequest(t, "equipos.csv", csv)), "/equipos/listar")
	view = readView(t, h.get(t, "/equipos/listar"))
	assert.Equal(t, []string{"Equipos cargados exitosamente"}, view.Messages[session.FlashSuccess])
	assert.Len(t, view.Messages[session.FlashError], 1)
	assert.Len(t, h.store.Equipment, 1)
}

func TestHealthLive(t *testing.T) {
	h := newHarness(t)
	resp := h.get(t, "/health/live")
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "alive", body["status"])
	assert.Contains(t, body, "metrics")

	assert.Equal(t, nethttp.StatusOK, h.get(t, "/health/ready").StatusCode)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
