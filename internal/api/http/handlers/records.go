package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-inventory/internal/domain"
	"github.com/spec-kit/it-inventory/internal/service"
)

// RecordLookups loads the select lists shown on incident and maintenance forms.
type RecordLookups struct {
	Equipment *service.EquipmentService
	Hardware  *service.HardwareService
	Users     *service.UserService
	Locations *service.LocationService
}

func (l RecordLookups) load(ctx context.Context, kind domain.AssetKind) (fiber.Map, error) {
	var (
		assets any
		err    error
	)
	if kind == domain.AssetHardware {
		assets, err = l.Hardware.List(ctx, nil)
	} else {
		assets, err = l.Equipment.List(ctx, nil)
	}
	if err != nil {
		return nil, err
	}
	users, err := l.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	locations, err := l.Locations.List(ctx)
	if err != nil {
		return nil, err
	}
	return fiber.Map{"activos": assets, "usuarios": users, "ubicaciones": locations}, nil
}

// viewName turns "/incidencias_equipos" and "alta" into "incidencias_equipos/alta".
func viewName(base, page string) string {
	return strings.TrimPrefix(base, "/") + "/" + page
}
