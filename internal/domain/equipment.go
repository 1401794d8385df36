package domain

import "time"

// Equipment is a computer tracked in the inventory together with its component list.
type Equipment struct {
	ID              int64     `json:"id_equipo"`
	Type            string    `json:"tipo"`
	Brand           string    `json:"marca"`
	Model           string    `json:"modelo"`
	OperatingSystem string    `json:"sistema_operativo"`
	Motherboard     string    `json:"placa_base"`
	Processor       string    `json:"procesador"`
	RAM             string    `json:"memoria_ram"`
	HardDrive       string    `json:"disco_duro"`
	GraphicsCard    string    `json:"tarjeta_grafica"`
	CoolingSystem   string    `json:"sistema_refrigeracion"`
	OpticalDrive    string    `json:"unidad_optica"`
	SoundCard       string    `json:"tarjeta_sonido"`
	NetworkCard     string    `json:"tarjeta_red"`
	Keyboard        string    `json:"teclado"`
	Mouse           string    `json:"raton"`
	Monitor         string    `json:"monitor"`
	Speakers        string    `json:"altavoces"`
	Cables          string    `json:"cables_conectores"`
	LocationID      int64     `json:"id_ubicacion"`
	Status          string    `json:"estado"`
	CreatedAt       time.Time `json:"fecha_creacion"`
	UpdatedAt       time.Time `json:"fecha_modificacion"`
}

// EquipmentRow is an equipment listing row joined with its location name.
type EquipmentRow struct {
	Equipment
	LocationName string `json:"nombre_ubicacion"`
}
