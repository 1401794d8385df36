package dto

import (
	"github.com/spec-kit/it-inventory/internal/domain"
)

// IncidentForm is posted by both incident listings. Only the id field of the
// listing's asset kind is read.
type IncidentForm struct {
	Description string `form:"descripcion_incidencia" validate:"required"`
	ReportedOn  string `form:"fecha_reporte" validate:"required,datetime=2006-01-02"`
	Status      string `form:"estado" validate:"omitempty,oneof=abierta 'en progreso' cerrada cancelada"`
	Priority    string `form:"prioridad" validate:"required"`
	LocationID  string `form:"id_ubicacion" validate:"required,numeric"`
	EquipmentID string `form:"id_equipo" validate:"omitempty,numeric"`
	HardwareID  string `form:"id_hardware" validate:"omitempty,numeric"`
	UserID      string `form:"id_usuario" validate:"omitempty,numeric"`
}

// ToDomain converts the form into an incident on an asset of kind. fallbackUser
// is used when the form does not name a reporter.
func (f IncidentForm) ToDomain(kind domain.AssetKind, fallbackUser int64) (domain.Incident, error) {
	reported, err := parseDate(f.ReportedOn)
	if err != nil {
		return domain.Incident{}, err
	}
	locationID, err := parseID(f.LocationID)
	if err != nil {
		return domain.Incident{}, err
	}
	equipmentID, hardwareID, err := assetIDs(kind, f.EquipmentID, f.HardwareID)
	if err != nil {
		return domain.Incident{}, err
	}
	userID, err := reporter(f.UserID, fallbackUser)
	if err != nil {
		return domain.Incident{}, err
	}
	return domain.Incident{
		Description: f.Description,
		ReportedOn:  reported,
		Status:      domain.IncidentStatus(f.Status),
		Priority:    f.Priority,
		LocationID:  locationID,
		EquipmentID: equipmentID,
		HardwareID:  hardwareID,
		UserID:      userID,
	}, nil
}

// MaintenanceForm is posted by both maintenance listings.
type MaintenanceForm struct {
	Type        string `form:"tipo" validate:"required"`
	Description string `form:"descripcion_mantenimiento" validate:"required"`
	PerformedOn string `form:"fecha_mantenimiento" validate:"required,datetime=2006-01-02"`
	Status      string `form:"estado" validate:"required"`
	LocationID  string `form:"id_ubicacion" validate:"required,numeric"`
	EquipmentID string `form:"id_equipo" validate:"omitempty,numeric"`
	HardwareID  string `form:"id_hardware" validate:"omitempty,numeric"`
	UserID      string `form:"id_usuario" validate:"omitempty,numeric"`
}

// ToDomain converts the form into a maintenance record on an asset of kind.
func (f MaintenanceForm) ToDomain(kind domain.AssetKind, fallbackUser int64) (domain.Maintenance, error) {
	performed, err := parseDate(f.PerformedOn)
	if err != nil {
		return domain.Maintenance{}, err
	}
	locationID, err := parseID(f.LocationID)
	if err != nil {
		return domain.Maintenance{}, err
	}
	equipmentID, hardwareID, err := assetIDs(kind, f.EquipmentID, f.HardwareID)
	if err != nil {
		return domain.Maintenance{}, err
	}
	userID, err := reporter(f.UserID, fallbackUser)
	if err != nil {
		return domain.Maintenance{}, err
	}
	return domain.Maintenance{
		Type:        f.Type,
		Description: f.Description,
		PerformedOn: performed,
		Status:      domain.MaintenanceStatus(f.Status),
		LocationID:  locationID,
		EquipmentID: equipmentID,
		HardwareID:  hardwareID,
		UserID:      userID,
	}, nil
}

func assetIDs(kind domain.AssetKind, equipmentRaw, hardwareRaw string) (*int64, *int64, error) {
	if kind == domain.AssetHardware {
		id, err := parseOptionalID(hardwareRaw)
		return nil, id, err
	}
	id, err := parseOptionalID(equipmentRaw)
	return id, nil, err
}

func reporter(raw string, fallback int64) (int64, error) {
	id, err := parseOptionalID(raw)
	if err != nil {
		return 0, err
	}
	if id == nil {
		return fallback, nil
	}
	return *id, nil
}

// UserForm is posted by the admin user forms. Password is optional on edit.
type UserForm struct {
	Username string `form:"username" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password"`
	Role     string `form:"rol" validate:"required,oneof=admin tecnico usuario"`
	Active   string `form:"activo"`
}

// IsActive reads the checkbox value. A missing field on create means active.
func (f UserForm) IsActive(defaultValue bool) bool {
	switch f.Active {
	case "":
		return defaultValue
	case "1", "on", "true", "si", "sí":
		return true
	}
	return false
}
