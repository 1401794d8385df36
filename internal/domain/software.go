package domain

import "time"

// Software is a license record.
type Software struct {
	ID             int64      `json:"id_software"`
	Name           string     `json:"nombre"`
	Version        string     `json:"version"`
	ExpiresOn      *time.Time `json:"fecha_vencimiento"`
	LicenseDetails string     `json:"detalles_licencia"`
	CreatedAt      time.Time  `json:"fecha_creacion"`
	UpdatedAt      time.Time  `json:"fecha_modificacion"`
}
