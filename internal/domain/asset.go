package domain

import "errors"

// AssetKind identifies which kind of physical item an incident or maintenance record targets.
type AssetKind string

const (
	AssetEquipment AssetKind = "equipo"
	AssetHardware  AssetKind = "hardware"
)

// ErrAssetReference is returned when a record points at both asset kinds or at neither.
var ErrAssetReference = errors.New("exactly one of equipment or hardware must be referenced")

// AssetRef points at a single Equipment or Hardware row.
type AssetRef struct {
	Kind AssetKind
	ID   int64
}

// NewAssetRef resolves the pair of nullable foreign keys into a single reference.
func NewAssetRef(equipmentID, hardwareID *int64) (AssetRef, error) {
	switch {
	case equipmentID != nil && hardwareID == nil:
		return AssetRef{Kind: AssetEquipment, ID: *equipmentID}, nil
	case hardwareID != nil && equipmentID == nil:
		return AssetRef{Kind: AssetHardware, ID: *hardwareID}, nil
	default:
		return AssetRef{}, ErrAssetReference
	}
}

// ForeignKeys returns the (equipment, hardware) pair with the unused side left nil.
func (a AssetRef) ForeignKeys() (equipmentID, hardwareID *int64) {
	id := a.ID
	if a.Kind == AssetHardware {
		return nil, &id
	}
	return &id, nil
}
