package domain

import "time"

// Hardware is a standalone component with its own lifecycle.
type Hardware struct {
	ID             int64     `json:"id_hardware"`
	ComponentType  string    `json:"tipo_componente"`
	Brand          string    `json:"marca"`
	Model          string    `json:"modelo"`
	Specifications string    `json:"especificaciones"`
	Status         string    `json:"estado"`
	LocationID     int64     `json:"id_ubicacion"`
	CreatedAt      time.Time `json:"fecha_creacion"`
	UpdatedAt      time.Time `json:"fecha_modificacion"`
}

// HardwareRow is a hardware listing row joined with its location name.
type HardwareRow struct {
	Hardware
	LocationName string `json:"nombre_ubicacion"`
}
