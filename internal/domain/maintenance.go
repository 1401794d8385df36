package domain

import "time"

// MaintenanceStatus enumerates the states of a service record.
type MaintenanceStatus string

const (
	MaintenancePending   MaintenanceStatus = "pendiente"
	MaintenanceCompleted MaintenanceStatus = "completado"
	MaintenanceCancelled MaintenanceStatus = "cancelado"
)

// incidentTransitions maps a maintenance status onto the status every incident
// on the same asset takes. Statuses missing from the table yield IncidentOpen.
var incidentTransitions = map[MaintenanceStatus]IncidentStatus{
	MaintenanceCompleted: IncidentClosed,
	MaintenancePending:   IncidentInProgress,
	MaintenanceCancelled: IncidentCancelled,
}

// DeriveIncidentStatus returns the incident status implied by a maintenance status.
func DeriveIncidentStatus(status MaintenanceStatus) IncidentStatus {
	if derived, ok := incidentTransitions[status]; ok {
		return derived
	}
	return IncidentOpen
}

// Maintenance is a service record against exactly one asset.
type Maintenance struct {
	ID          int64             `json:"id_mantenimiento"`
	Type        string            `json:"tipo"`
	Description string            `json:"descripcion_mantenimiento"`
	PerformedOn time.Time         `json:"fecha_mantenimiento"`
	Status      MaintenanceStatus `json:"estado"`
	LocationID  int64             `json:"id_ubicacion"`
	EquipmentID *int64            `json:"id_equipo"`
	HardwareID  *int64            `json:"id_hardware"`
	UserID      int64             `json:"id_usuario"`
	CreatedAt   time.Time         `json:"fecha_creacion"`
	UpdatedAt   time.Time         `json:"fecha_modificacion"`
}

// Asset resolves the record's single asset reference.
func (m Maintenance) Asset() (AssetRef, error) {
	return NewAssetRef(m.EquipmentID, m.HardwareID)
}

// MaintenanceRow is a maintenance listing row with display names resolved.
type MaintenanceRow struct {
	Maintenance
	AssetName           string  `json:"nombre_activo"`
	UserName            string  `json:"nombre_usuario"`
	LocationName        string  `json:"nombre_ubicacion"`
	IncidentDescription *string `json:"descripcion_incidencia"`
}
