package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-inventory/internal/api/dto"
	"github.com/spec-kit/it-inventory/internal/domain"
	"github.com/spec-kit/it-inventory/internal/repository"
	"github.com/spec-kit/it-inventory/internal/service"
	"github.com/spec-kit/it-inventory/internal/session"
)

// MaintenanceHandler serves one maintenance listing, mounted at
// /mantenimiento_equipos or /mantenimiento_hardware.
type MaintenanceHandler struct {
	kind        domain.AssetKind
	base        string
	maintenance *service.MaintenanceService
	lookups     RecordLookups
}

// NewMaintenanceHandler constructs handler for maintenance on assets of kind.
func NewMaintenanceHandler(kind domain.AssetKind, maintenance *service.MaintenanceService, lookups RecordLookups) *MaintenanceHandler {
	base := "/mantenimiento_equipos"
	if kind == domain.AssetHardware {
		base = "/mantenimiento_hardware"
	}
	return &MaintenanceHandler{kind: kind, base: base, maintenance: maintenance, lookups: lookups}
}

// Base returns the path prefix the handler is mounted at.
func (h *MaintenanceHandler) Base() string {
	return h.base
}

// NewForm GET .../alta.
func (h *MaintenanceHandler) NewForm(c *fiber.Ctx) error {
	data, err := h.lookups.load(c.UserContext(), h.kind)
	if err != nil {
		return err
	}
	return render(c, viewName(h.base, "alta"), data)
}

// Create POST .../alta stores the record and moves the asset's incidents to the derived status.
func (h *MaintenanceHandler) Create(c *fiber.Ctx) error {
	back := h.base + "/alta"
	var form dto.MaintenanceForm
	if err := bindForm(c, &form); err != nil {
		return flashOrFail(c, err, back)
	}
	maintenance, err := form.ToDomain(h.kind, principalID(c))
	if err != nil {
		return flashOrFail(c, err, back)
	}
	if err := h.maintenance.Create(requestContext(c), h.kind, &maintenance); err != nil {
		return flashOrFail(c, err, back)
	}
	return c.Redirect(h.base + "/listar")
}

// List GET .../listar.
func (h *MaintenanceHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	rows, err := h.maintenance.List(ctx, h.kind, queryFilter(c, repository.MaintenanceFilterFields))
	if err != nil {
		return err
	}
	locations, err := h.lookups.Locations.List(ctx)
	if err != nil {
		return err
	}
	return render(c, viewName(h.base, "listar"), fiber.Map{"mantenimientos": rows, "ubicaciones": locations})
}

// EditForm GET .../actualizar/:id.
func (h *MaintenanceHandler) EditForm(c *fiber.Ctx) error {
	id, err := pathID(c, "Mantenimiento")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	maintenance, err := h.maintenance.Get(ctx, id)
	if err != nil {
		return err
	}
	data, err := h.lookups.load(ctx, h.kind)
	if err != nil {
		return err
	}
	data["mantenimiento"] = maintenance
	return render(c, viewName(h.base, "actualizar"), data)
}

// Update POST .../actualizar/:id derives incident statuses again.
func (h *MaintenanceHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "Mantenimiento")
	if err != nil {
		return err
	}
	back := editPath(h.base, id)
	var form dto.MaintenanceForm
	if err := bindForm(c, &form); err != nil {
		return flashOrFail(c, err, back)
	}
	maintenance, err := form.ToDomain(h.kind, principalID(c))
	if err != nil {
		return flashOrFail(c, err, back)
	}
	maintenance.ID = id
	if err := h.maintenance.Update(requestContext(c), h.kind, &maintenance); err != nil {
		return flashOrFail(c, err, back)
	}
	return c.Redirect(h.base + "/listar")
}

// Delete POST .../eliminar/:id removes the incidents on the same asset, then the record.
func (h *MaintenanceHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "Mantenimiento")
	if err != nil {
		return err
	}
	if err := h.maintenance.Delete(requestContext(c), id); err != nil {
		return err
	}
	return redirectWithFlash(c, session.FlashSuccess, "Mantenimiento eliminado exitosamente", h.base+"/listar")
}
