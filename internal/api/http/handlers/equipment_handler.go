package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/it-inventory/internal/api/dto"
	"github.com/spec-kit/it-inventory/internal/domain"
	"github.com/spec-kit/it-inventory/internal/importer"
	"github.com/spec-kit/it-inventory/internal/repository"
	"github.com/spec-kit/it-inventory/internal/service"
	"github.com/spec-kit/it-inventory/internal/session"
	apperrors "github.com/spec-kit/it-inventory/pkg/util"
)

const equipmentBase = "/equipos"

// EquipmentHandler serves the /equipos pages.
type EquipmentHandler struct {
	equipment *service.EquipmentService
	locations *service.LocationService
	maxUpload int64
	logger    *zap.Logger
}

// NewEquipmentHandler constructs handler. maxUpload bounds the import file size in bytes.
func NewEquipmentHandler(equipment *service.EquipmentService, locations *service.LocationService, maxUpload int64, logger *zap.Logger) *EquipmentHandler {
	return &EquipmentHandler{equipment: equipment, locations: locations, maxUpload: maxUpload, logger: logger}
}

// NewForm GET /equipos/alta.
func (h *EquipmentHandler) NewForm(c *fiber.Ctx) error {
	locations, err := h.locations.List(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, "equipos/alta", fiber.Map{"ubicaciones": locations})
}

// Create POST /equipos/alta.
func (h *EquipmentHandler) Create(c *fiber.Ctx) error {
	var form dto.EquipmentForm
	if err := bindForm(c, &form); err != nil {
		return flashOrFail(c, err, equipmentBase+"/alta")
	}
	equipment, err := form.ToDomain()
	if err != nil {
		return flashOrFail(c, err, equipmentBase+"/alta")
	}
	if err := h.equipment.Create(requestContext(c), &equipment); err != nil {
		return flashOrFail(c, err, equipmentBase+"/alta")
	}
	return c.Redirect(equipmentBase + "/listar")
}

// Upload POST /equipos/upload imports a CSV or XLSX file of equipment rows.
func (h *EquipmentHandler) Upload(c *fiber.Ctx) error {
	back := equipmentBase + "/listar"
	header, err := c.FormFile("file")
	if err != nil {
		return redirectWithFlash(c, session.FlashError, "No se ha subido ningún archivo", back)
	}
	if h.maxUpload > 0 && header.Size > h.maxUpload {
		return redirectWithFlash(c, session.FlashError, "El archivo supera el tamaño máximo permitido", back)
	}
	format, err := importer.DetectFormat(header.Filename, header.Header.Get(fiber.HeaderContentType))
	if err != nil {
		return redirectWithFlash(c, session.FlashError, "Formato de archivo no soportado", back)
	}

	file, err := header.Open()
	if err != nil {
		return apperrors.NewInternalError("", err)
	}
	defer file.Close()

	rows, err := importer.ReadRows(format, file)
	if err != nil {
		h.logger.Warn("unreadable import file", zap.String("filename", header.Filename), zap.Error(err))
		return redirectWithFlash(c, session.FlashError, "No se ha podido leer el archivo", back)
	}
	result := h.equipment.Import(requestContext(c), rows)
	h.logger.Info("equipment import finished",
		zap.String("filename", header.Filename),
		zap.Int("inserted", result.Inserted),
		zap.Int("failed", result.Failed),
	)

	sess := session.Current(c)
	sess.AddFlash(session.FlashSuccess, "Equipos cargados exitosamente")
	if result.Failed > 0 {
		sess.AddFlash(session.FlashError, strconv.Itoa(result.Failed)+" filas no se han podido importar")
	}
	return c.Redirect(back)
}

// List GET /equipos/listar.
func (h *EquipmentHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	rows, err := h.equipment.List(ctx, queryFilter(c, repository.EquipmentFilterFields))
	if err != nil {
		return err
	}
	locations, err := h.locations.List(ctx)
	if err != nil {
		return err
	}
	return render(c, "equipos/listar", fiber.Map{"equipos": rows, "ubicaciones": locations})
}

// EditForm GET /equipos/actualizar/:id.
func (h *EquipmentHandler) EditForm(c *fiber.Ctx) error {
	id, err := pathID(c, "Equipo")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	equipment, err := h.equipment.Get(ctx, id)
	if err != nil {
		return err
	}
	locations, err := h.locations.List(ctx)
	if err != nil {
		return err
	}
	return render(c, "equipos/actualizar", fiber.Map{"equipo": equipment, "ubicaciones": locations})
}

// Update POST /equipos/actualizar/:id.
func (h *EquipmentHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "Equipo")
	if err != nil {
		return err
	}
	back := editPath(equipmentBase, id)
	var form dto.EquipmentForm
	if err := bindForm(c, &form); err != nil {
		return flashOrFail(c, err, back)
	}
	equipment, err := form.ToDomain()
	if err != nil {
		return flashOrFail(c, err, back)
	}
	equipment.ID = id
	if err := h.equipment.Update(requestContext(c), &equipment); err != nil {
		return flashOrFail(c, err, back)
	}
	return c.Redirect(equipmentBase + "/listar")
}

// Delete POST /equipos/eliminar/:id removes the equipment with its incidents and maintenance.
func (h *EquipmentHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "Equipo")
	if err != nil {
		return err
	}
	if err := h.equipment.Delete(requestContext(c), id); err != nil {
		return err
	}
	return redirectWithFlash(c, session.FlashSuccess, "Equipo eliminado exitosamente", equipmentBase+"/listar")
}

// ByLocation GET /equipos/ubicacion/:id returns the location's equipment as a JSON array.
func (h *EquipmentHandler) ByLocation(c *fiber.Ctx) error {
	id, err := pathID(c, "Ubicación")
	if err != nil {
		return err
	}
	equipment, err := h.equipment.ListByLocation(c.UserContext(), id)
	if err != nil {
		return err
	}
	if equipment == nil {
		equipment = []domain.Equipment{}
	}
	return c.JSON(equipment)
}
