package events

import (
	"time"

	"github.com/spec-kit/it-inventory/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIncidentStatusDerived EventType = "incident_status_derived"
	EventRecordsCascadeDeleted EventType = "records_cascade_deleted"
)

// Actor identifies the signed-in user that triggered an event.
type Actor struct {
	UserID int64       `json:"user_id"`
	Role   domain.Role `json:"rol,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// IncidentStatusDerivedPayload is emitted after a maintenance write rewrites incident statuses.
type IncidentStatusDerivedPayload struct {
	MaintenanceID     int64                    `json:"id_mantenimiento"`
	MaintenanceStatus domain.MaintenanceStatus `json:"estado_mantenimiento"`
	AssetKind         domain.AssetKind         `json:"tipo_activo"`
	AssetID           int64                    `json:"id_activo"`
	IncidentStatus    domain.IncidentStatus    `json:"estado_incidencia"`
	IncidentsUpdated  int64                    `json:"incidencias_actualizadas"`
}

// RecordsCascadeDeletedPayload summarizes a parent delete and its dependents.
type RecordsCascadeDeletedPayload struct {
	Entity   string           `json:"entidad"`
	EntityID int64            `json:"id"`
	Removed  map[string]int64 `json:"eliminados"`
}
