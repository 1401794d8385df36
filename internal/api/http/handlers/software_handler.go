package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-inventory/internal/api/dto"
	"github.com/spec-kit/it-inventory/internal/repository"
	"github.com/spec-kit/it-inventory/internal/service"
	"github.com/spec-kit/it-inventory/internal/session"
)

const softwareBase = "/software"

// SoftwareHandler serves the /software pages.
type SoftwareHandler struct {
	software *service.SoftwareService
}

// NewSoftwareHandler constructs handler.
func NewSoftwareHandler(software *service.SoftwareService) *SoftwareHandler {
	return &SoftwareHandler{software: software}
}

// NewForm GET /software/alta.
func (h *SoftwareHandler) NewForm(c *fiber.Ctx) error {
	return render(c, "software/alta", nil)
}

// Create POST /software/alta.
func (h *SoftwareHandler) Create(c *fiber.Ctx) error {
	back := softwareBase + "/alta"
	var form dto.SoftwareForm
	if err := bindForm(c, &form); err != nil {
		return flashOrFail(c, err, back)
	}
	software, err := form.ToDomain()
	if err != nil {
		return flashOrFail(c, err, back)
	}
	if err := h.software.Create(requestContext(c), &software); err != nil {
		return flashOrFail(c, err, back)
	}
	return c.Redirect(softwareBase + "/listar")
}

// List GET /software/listar.
func (h *SoftwareHandler) List(c *fiber.Ctx) error {
	rows, err := h.software.List(c.UserContext(), queryFilter(c, repository.SoftwareFilterFields))
	if err != nil {
		return err
	}
	return render(c, "software/listar", fiber.Map{"software": rows})
}

// EditForm GET /software/actualizar/:id.
func (h *SoftwareHandler) EditForm(c *fiber.Ctx) error {
	id, err := pathID(c, "Software")
	if err != nil {
		return err
	}
	software, err := h.software.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return render(c, "software/actualizar", fiber.Map{"software": software})
}

// Update POST /software/actualizar/:id.
func (h *SoftwareHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "Software")
	if err != nil {
		return err
	}
	back := editPath(softwareBase, id)
	var form dto.SoftwareForm
	if err := bindForm(c, &form); err != nil {
		return flashOrFail(c, err, back)
	}
	software, err := form.ToDomain()
	if err != nil {
		return flashOrFail(c, err, back)
	}
	software.ID = id
	if err := h.software.Update(requestContext(c), &software); err != nil {
		return flashOrFail(c, err, back)
	}
	return c.Redirect(softwareBase + "/listar")
}

// Delete POST /software/eliminar/:id.
func (h *SoftwareHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "Software")
	if err != nil {
		return err
	}
	if err := h.software.Delete(requestContext(c), id); err != nil {
		return err
	}
	return redirectWithFlash(c, session.FlashSuccess, "Software eliminado exitosamente", softwareBase+"/listar")
}
