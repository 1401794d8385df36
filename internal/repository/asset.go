package repository

import (
	"fmt"

	"github.com/spec-kit/it-inventory/internal/domain"
)

// assetTable describes where an asset kind lives and how records point at it.
type assetTable struct {
	table string
	key   string
}

var assetTables = map[domain.AssetKind]assetTable{
	domain.AssetEquipment: {table: "Equipos", key: "id_equipo"},
	domain.AssetHardware:  {table: "Hardware", key: "id_hardware"},
}

func lookupAsset(kind domain.AssetKind) (assetTable, error) {
	t, ok := assetTables[kind]
	if !ok {
		return assetTable{}, fmt.Errorf("unknown asset kind %q", kind)
	}
	return t, nil
}

// join returns the JOIN clause linking alias.<fk> to the asset table aliased as a.
func (t assetTable) join(alias string) string {
	return fmt.Sprintf("%s a ON %s.%s = a.%s", t.table, alias, t.key, t.key)
}

// locatedAt is the predicate selecting records whose asset sits at a location ($1).
const locatedAt = `id_ubicacion=$1
        OR id_equipo IN (SELECT id_equipo FROM Equipos WHERE id_ubicacion=$1)
        OR id_hardware IN (SELECT id_hardware FROM Hardware WHERE id_ubicacion=$1)`
