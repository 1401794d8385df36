package domain

// Location is a physical site that equipment and hardware live in.
type Location struct {
	ID                    int64  `json:"id_ubicacion"`
	Name                  string `json:"nombre_ubicacion"`
	ResponsibleDepartment string `json:"departamento_responsable"`
}
