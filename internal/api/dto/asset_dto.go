package dto

import (
	"github.com/spec-kit/it-inventory/internal/domain"
)

// EquipmentForm is posted by the equipment create and edit forms.
type EquipmentForm struct {
	Type            string `form:"tipo" validate:"required"`
	Brand           string `form:"marca" validate:"required"`
	Model           string `form:"modelo" validate:"required"`
	OperatingSystem string `form:"sistema_operativo"`
	Motherboard     string `form:"placa_base"`
	Processor       string `form:"procesador"`
	RAM             string `form:"memoria_ram"`
	HardDrive       string `form:"disco_duro"`
	GraphicsCard    string `form:"tarjeta_grafica"`
	CoolingSystem   string `form:"sistema_refrigeracion"`
	OpticalDrive    string `form:"unidad_optica"`
	SoundCard       string `form:"tarjeta_sonido"`
	NetworkCard     string `form:"tarjeta_red"`
	Keyboard        string `form:"teclado"`
	Mouse           string `form:"raton"`
	Monitor         string `form:"monitor"`
	Speakers        string `form:"altavoces"`
	Cables          string `form:"cables_conectores"`
	LocationID      string `form:"id_ubicacion" validate:"required,numeric"`
	Status          string `form:"estado" validate:"required"`
}

// ToDomain converts the form into an equipment row.
func (f EquipmentForm) ToDomain() (domain.Equipment, error) {
	locationID, err := parseID(f.LocationID)
	if err != nil {
		return domain.Equipment{}, err
	}
	return domain.Equipment{
		Type:            f.Type,
		Brand:           f.Brand,
		Model:           f.Model,
		OperatingSystem: f.OperatingSystem,
		Motherboard:     f.Motherboard,
		Processor:       f.Processor,
		RAM:             f.RAM,
		HardDrive:       f.HardDrive,
		GraphicsCard:    f.GraphicsCard,
		CoolingSystem:   f.CoolingSystem,
		OpticalDrive:    f.OpticalDrive,
		SoundCard:       f.SoundCard,
		NetworkCard:     f.NetworkCard,
		Keyboard:        f.Keyboard,
		Mouse:           f.Mouse,
		Monitor:         f.Monitor,
		Speakers:        f.Speakers,
		Cables:          f.Cables,
		LocationID:      locationID,
		Status:          f.Status,
	}, nil
}

// HardwareForm is posted by the hardware create and edit forms.
type HardwareForm struct {
	ComponentType  string `form:"tipo_componente" validate:"required"`
	Brand          string `form:"marca" validate:"required"`
	Model          string `form:"modelo" validate:"required"`
	Specifications string `form:"especificaciones"`
	Status         string `form:"estado" validate:"required"`
	LocationID     string `form:"id_ubicacion" validate:"required,numeric"`
}

// ToDomain converts the form into a hardware row.
func (f HardwareForm) ToDomain() (domain.Hardware, error) {
	locationID, err := parseID(f.LocationID)
	if err != nil {
		return domain.Hardware{}, err
	}
	return domain.Hardware{
		ComponentType:  f.ComponentType,
		Brand:          f.Brand,
		Model:          f.Model,
		Specifications: f.Specifications,
		Status:         f.Status,
		LocationID:     locationID,
	}, nil
}

// SoftwareForm is posted by the software create and edit forms.
type SoftwareForm struct {
	Name           string `form:"nombre" validate:"required"`
	Version        string `form:"version" validate:"required"`
	ExpiresOn      string `form:"fecha_vencimiento" validate:"omitempty,datetime=2006-01-02"`
	LicenseDetails string `form:"detalles_licencia"`
}

// ToDomain converts the form into a software row.
func (f SoftwareForm) ToDomain() (domain.Software, error) {
	expires, err := parseOptionalDate(f.ExpiresOn)
	if err != nil {
		return domain.Software{}, err
	}
	return domain.Software{
		Name:           f.Name,
		Version:        f.Version,
		ExpiresOn:      expires,
		LicenseDetails: f.LicenseDetails,
	}, nil
}

// LocationForm is posted by the location create and edit forms.
type LocationForm struct {
	Name                  string `form:"nombre_ubicacion" validate:"required"`
	ResponsibleDepartment string `form:"departamento_responsable" validate:"required"`
}

// ToDomain converts the form into a location row.
func (f LocationForm) ToDomain() domain.Location {
	return domain.Location{Name: f.Name, ResponsibleDepartment: f.ResponsibleDepartment}
}
