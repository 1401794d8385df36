package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-inventory/internal/api/dto"
	"github.com/spec-kit/it-inventory/internal/domain"
	"github.com/spec-kit/it-inventory/internal/repository"
	"github.com/spec-kit/it-inventory/internal/service"
	"github.com/spec-kit/it-inventory/internal/session"
)

// IncidentHandler serves one incident listing. There is one instance per asset
// kind, mounted at /incidencias_equipos and /incidencias_hardware.
type IncidentHandler struct {
	kind      domain.AssetKind
	base      string
	filters   []repository.Field
	incidents *service.IncidentService
	lookups   RecordLookups
}

// NewIncidentHandler constructs handler for incidents on assets of kind.
func NewIncidentHandler(kind domain.AssetKind, incidents *service.IncidentService, lookups RecordLookups) *IncidentHandler {
	h := &IncidentHandler{
		kind:      kind,
		base:      "/incidencias_equipos",
		filters:   repository.EquipmentIncidentFilterFields,
		incidents: incidents,
		lookups:   lookups,
	}
	if kind == domain.AssetHardware {
		h.base = "/incidencias_hardware"
		h.filters = repository.HardwareIncidentFilterFields
	}
	return h
}

// Base returns the path prefix the handler is mounted at.
func (h *IncidentHandler) Base() string {
	return h.base
}

// NewForm GET .../alta.
func (h *IncidentHandler) NewForm(c *fiber.Ctx) error {
	data, err := h.lookups.load(c.UserContext(), h.kind)
	if err != nil {
		return err
	}
	return render(c, viewName(h.base, "alta"), data)
}

// Create POST .../alta.
func (h *IncidentHandler) Create(c *fiber.Ctx) error {
	back := h.base + "/alta"
	var form dto.IncidentForm
	if err := bindForm(c, &form); err != nil {
		return flashOrFail(c, err, back)
	}
	incident, err := form.ToDomain(h.kind, principalID(c))
	if err != nil {
		return flashOrFail(c, err, back)
	}
	if err := h.incidents.Create(requestContext(c), h.kind, &incident); err != nil {
		return flashOrFail(c, err, back)
	}
	return c.Redirect(h.base + "/listar")
}

// List GET .../listar.
func (h *IncidentHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	rows, err := h.incidents.List(ctx, h.kind, queryFilter(c, h.filters))
	if err != nil {
		return err
	}
	locations, err := h.lookups.Locations.List(ctx)
	if err != nil {
		return err
	}
	return render(c, viewName(h.base, "listar"), fiber.Map{"incidencias": rows, "ubicaciones": locations})
}

// EditForm GET .../actualizar/:id.
func (h *IncidentHandler) EditForm(c *fiber.Ctx) error {
	id, err := pathID(c, "Incidencia")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	incident, err := h.incidents.Get(ctx, id)
	if err != nil {
		return err
	}
	data, err := h.lookups.load(ctx, h.kind)
	if err != nil {
		return err
	}
	data["incidencia"] = incident
	return render(c, viewName(h.base, "actualizar"), data)
}

// Update POST .../actualizar/:id.
func (h *IncidentHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "Incidencia")
	if err != nil {
		return err
	}
	back := editPath(h.base, id)
	var form dto.IncidentForm
	if err := bindForm(c, &form); err != nil {
		return flashOrFail(c, err, back)
	}
	incident, err := form.ToDomain(h.kind, principalID(c))
	if err != nil {
		return flashOrFail(c, err, back)
	}
	incident.ID = id
	if incident.Status == "" {
		incident.Status = domain.IncidentOpen
	}
	if err := h.incidents.Update(requestContext(c), h.kind, &incident); err != nil {
		return flashOrFail(c, err, back)
	}
	return c.Redirect(h.base + "/listar")
}

// Delete POST .../eliminar/:id removes the maintenance on the same asset, then the incident.
func (h *IncidentHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "Incidencia")
	if err != nil {
		return err
	}
	if err := h.incidents.Delete(requestContext(c), id); err != nil {
		return err
	}
	return redirectWithFlash(c, session.FlashSuccess, "Incidencia eliminada exitosamente", h.base+"/listar")
}
