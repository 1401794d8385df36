package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-inventory/internal/api/http/handlers"
	"github.com/spec-kit/it-inventory/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health               *handlers.HealthHandler
	Auth                 *handlers.AuthHandler
	Equipment            *handlers.EquipmentHandler
	Hardware             *handlers.HardwareHandler
	Software             *handlers.SoftwareHandler
	Locations            *handlers.LocationHandler
	Users                *handlers.UsersHandler
	EquipmentIncidents   *handlers.IncidentHandler
	HardwareIncidents    *handlers.IncidentHandler
	EquipmentMaintenance *handlers.MaintenanceHandler
	HardwareMaintenance  *handlers.MaintenanceHandler
	Gate                 *auth.Gate
}

// crudHandler is the page set shared by every inventory resource.
type crudHandler interface {
	NewForm(c *fiber.Ctx) error
	Create(c *fiber.Ctx) error
	List(c *fiber.Ctx) error
	EditForm(c *fiber.Ctx) error
	Update(c *fiber.Ctx) error
	Delete(c *fiber.Ctx) error
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/", cfg.Auth.Root)
	app.Get(auth.LoginPath, cfg.Auth.LogupPage)
	app.Post("/signup", cfg.Auth.Signup)
	app.Post("/login", cfg.Auth.Login)
	app.Get(auth.HomePath, with(cfg.Gate.Protect(), cfg.Auth.Index)...)
	app.Get("/logout", with(cfg.Gate.Protect(), cfg.Auth.Logout)...)

	staff := cfg.Gate.Protect(auth.Staff...)
	anyone := cfg.Gate.Protect(auth.AnyKnownRole...)

	registerCRUD(app, "/equipos", staff, cfg.Equipment)
	app.Post("/equipos/upload", with(staff, cfg.Equipment.Upload)...)
	app.Get("/equipos/ubicacion/:id", with(anyone, cfg.Equipment.ByLocation)...)

	registerCRUD(app, "/hardware", staff, cfg.Hardware)
	app.Get("/hardware/ubicacion/:id", with(anyone, cfg.Hardware.ByLocation)...)

	registerCRUD(app, "/software", staff, cfg.Software)

	app.Get("/ubicaciones/listar", with(anyone, cfg.Locations.List)...)
	app.Get("/ubicaciones/alta", with(staff, cfg.Locations.NewForm)...)
	app.Post("/ubicaciones/alta", with(staff, cfg.Locations.Create)...)
	app.Get("/ubicaciones/actualizar/:id", with(staff, cfg.Locations.EditForm)...)
	app.Post("/ubicaciones/actualizar/:id", with(staff, cfg.Locations.Update)...)
	app.Post("/ubicaciones/eliminar/:id", with(staff, cfg.Locations.Delete)...)

	registerCRUD(app, cfg.EquipmentIncidents.Base(), anyone, cfg.EquipmentIncidents)
	registerCRUD(app, cfg.HardwareIncidents.Base(), anyone, cfg.HardwareIncidents)
	registerCRUD(app, cfg.EquipmentMaintenance.Base(), staff, cfg.EquipmentMaintenance)
	registerCRUD(app, cfg.HardwareMaintenance.Base(), staff, cfg.HardwareMaintenance)

	registerCRUD(app, "/usuarios", cfg.Gate.Protect(auth.AdminOnly...), cfg.Users)
}

func registerCRUD(app *fiber.App, base string, guard []fiber.Handler, h crudHandler) {
	app.Get(base+"/alta", with(guard, h.NewForm)...)
	app.Post(base+"/alta", with(guard, h.Create)...)
	app.Get(base+"/listar", with(guard, h.List)...)
	app.Get(base+"/actualizar/:id", with(guard, h.EditForm)...)
	app.Post(base+"/actualizar/:id", with(guard, h.Update)...)
	app.Post(base+"/eliminar/:id", with(guard, h.Delete)...)
}

// with appends the route handler to a copy of the guard chain.
func with(guard []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	chain := make([]fiber.Handler, 0, len(guard)+1)
	chain = append(chain, guard...)
	return append(chain, handler)
}
