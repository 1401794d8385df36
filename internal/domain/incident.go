package domain

import "time"

// IncidentStatus enumerates lifecycle states of an incident report.
type IncidentStatus string

const (
	IncidentOpen       IncidentStatus = "abierta"
	IncidentInProgress IncidentStatus = "en progreso"
	IncidentClosed     IncidentStatus = "cerrada"
	IncidentCancelled  IncidentStatus = "cancelada"
)

// Incident is a problem reported against exactly one asset.
type Incident struct {
	ID          int64          `json:"id_incidencia"`
	Description string         `json:"descripcion_incidencia"`
	ReportedOn  time.Time      `json:"fecha_reporte"`
	Status      IncidentStatus `json:"estado"`
	Priority    string         `json:"prioridad"`
	LocationID  int64          `json:"id_ubicacion"`
	EquipmentID *int64         `json:"id_equipo"`
	HardwareID  *int64         `json:"id_hardware"`
	UserID      int64          `json:"id_usuario"`
	CreatedAt   time.Time      `json:"fecha_creacion"`
	UpdatedAt   time.Time      `json:"fecha_modificacion"`
}

// Asset resolves the incident's single asset reference.
func (i Incident) Asset() (AssetRef, error) {
	return NewAssetRef(i.EquipmentID, i.HardwareID)
}

// IncidentRow is an incident listing row with display names resolved.
type IncidentRow struct {
	Incident
	AssetName    string `json:"nombre_activo"`
	UserName     string `json:"nombre_usuario"`
	LocationName string `json:"nombre_ubicacion"`
}
