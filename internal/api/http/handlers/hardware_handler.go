package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-inventory/internal/api/dto"
	"github.com/spec-kit/it-inventory/internal/domain"
	"github.com/spec-kit/it-inventory/internal/repository"
	"github.com/spec-kit/it-inventory/internal/service"
	"github.com/spec-kit/it-inventory/internal/session"
)

const hardwareBase = "/hardware"

// HardwareHandler serves the /hardware pages.
type HardwareHandler struct {
	hardware  *service.HardwareService
	locations *service.LocationService
}

// NewHardwareHandler constructs handler.
func NewHardwareHandler(hardware *service.HardwareService, locations *service.LocationService) *HardwareHandler {
	return &HardwareHandler{hardware: hardware, locations: locations}
}

// NewForm GET /hardware/alta.
func (h *HardwareHandler) NewForm(c *fiber.Ctx) error {
	locations, err := h.locations.List(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, "hardware/alta", fiber.Map{"ubicaciones": locations})
}

// Create POST /hardware/alta.
func (h *HardwareHandler) Create(c *fiber.Ctx) error {
	back := hardwareBase + "/alta"
	var form dto.HardwareForm
	if err := bindForm(c, &form); err != nil {
		return flashOrFail(c, err, back)
	}
	hardware, err := form.ToDomain()
	if err != nil {
		return flashOrFail(c, err, back)
	}
	if err := h.hardware.Create(requestContext(c), &hardware); err != nil {
		return flashOrFail(c, err, back)
	}
	return c.Redirect(hardwareBase + "/listar")
}

// List GET /hardware/listar.
func (h *HardwareHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	rows, err := h.hardware.List(ctx, queryFilter(c, repository.HardwareFilterFields))
	if err != nil {
		return err
	}
	locations, err := h.locations.List(ctx)
	if err != nil {
		return err
	}
	return render(c, "hardware/listar", fiber.Map{"hardware": rows, "ubicaciones": locations})
}

// EditForm GET /hardware/actualizar/:id.
func (h *HardwareHandler) EditForm(c *fiber.Ctx) error {
	id, err := pathID(c, "Hardware")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	hardware, err := h.hardware.Get(ctx, id)
	if err != nil {
		return err
	}
	locations, err := h.locations.List(ctx)
	if err != nil {
		return err
	}
	return render(c, "hardware/actualizar", fiber.Map{"hardware": hardware, "ubicaciones": locations})
}

// Update POST /hardware/actualizar/:id.
func (h *HardwareHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "Hardware")
	if err != nil {
		return err
	}
	back := editPath(hardwareBase, id)
	var form dto.HardwareForm
	if err := bindForm(c, &form); err != nil {
		return flashOrFail(c, err, back)
	}
	hardware, err := form.ToDomain()
	if err != nil {
		return flashOrFail(c, err, back)
	}
	hardware.ID = id
	if err := h.hardware.Update(requestContext(c), &hardware); err != nil {
		return flashOrFail(c, err, back)
	}
	return c.Redirect(hardwareBase + "/listar")
}

// Delete POST /hardware/eliminar/:id removes the component with its incidents and maintenance.
func (h *HardwareHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "Hardware")
	if err != nil {
		return err
	}
	if err := h.hardware.Delete(requestContext(c), id); err != nil {
		return err
	}
	return redirectWithFlash(c, session.FlashSuccess, "Hardware eliminado exitosamente", hardwareBase+"/listar")
}

// ByLocation GET /hardware/ubicacion/:id returns the location's hardware as a JSON array.
func (h *HardwareHandler) ByLocation(c *fiber.Ctx) error {
	id, err := pathID(c, "Ubicación")
	if err != nil {
		return err
	}
	hardware, err := h.hardware.ListByLocation(c.UserContext(), id)
	if err != nil {
		return err
	}
	if hardware == nil {
		hardware = []domain.Hardware{}
	}
	return c.JSON(hardware)
}
