package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-inventory/internal/api/dto"
	"github.com/spec-kit/it-inventory/internal/service"
	"github.com/spec-kit/it-inventory/internal/session"
)

const locationBase = "/ubicaciones"

// LocationHandler serves the /ubicaciones pages.
type LocationHandler struct {
	locations *service.LocationService
}

// NewLocationHandler constructs handler.
func NewLocationHandler(locations *service.LocationService) *LocationHandler {
	return &LocationHandler{locations: locations}
}

// NewForm GET /ubicaciones/alta.
func (h *LocationHandler) NewForm(c *fiber.Ctx) error {
	return render(c, "ubicaciones/alta", nil)
}

// Create POST /ubicaciones/alta.
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var form dto.LocationForm
	if err := bindForm(c, &form); err != nil {
		return flashOrFail(c, err, locationBase+"/alta")
	}
	location := form.ToDomain()
	if err := h.locations.Create(requestContext(c), &location); err != nil {
		return flashOrFail(c, err, locationBase+"/alta")
	}
	return c.Redirect(locationBase + "/listar")
}

// List GET /ubicaciones/listar.
func (h *LocationHandler) List(c *fiber.Ctx) error {
	locations, err := h.locations.List(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, "ubicaciones/listar", fiber.Map{"ubicaciones": locations})
}

// EditForm GET /ubicaciones/actualizar/:id.
func (h *LocationHandler) EditForm(c *fiber.Ctx) error {
	id, err := pathID(c, "Ubicación")
	if err != nil {
		return err
	}
	location, err := h.locations.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return render(c, "ubicaciones/actualizar", fiber.Map{"ubicacion": location})
}

// Update POST /ubicaciones/actualizar/:id.
func (h *LocationHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "Ubicación")
	if err != nil {
		return err
	}
	back := editPath(locationBase, id)
	var form dto.LocationForm
	if err := bindForm(c, &form); err != nil {
		return flashOrFail(c, err, back)
	}
	location := form.ToDomain()
	location.ID = id
	if err := h.locations.Update(requestContext(c), &location); err != nil {
		return flashOrFail(c, err, back)
	}
	return c.Redirect(locationBase + "/listar")
}

// Delete POST /ubicaciones/eliminar/:id removes everything located there, then the location.
func (h *LocationHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "Ubicación")
	if err != nil {
		return err
	}
	if err := h.locations.Delete(requestContext(c), id); err != nil {
		return err
	}
	return redirectWithFlash(c, session.FlashSuccess, "Ubicación eliminada exitosamente", locationBase+"/listar")
}
