package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/it-inventory/internal/domain"
)

// MaintenanceFilterFields maps list parameters for maintenance records of either asset kind.
var MaintenanceFilterFields = []Field{
	{Param: "tipo", Column: "m.tipo", Op: OpEq},
	{Param: "estado", Column: "m.estado", Op: OpEq},
	{Param: "id_ubicacion", Column: "m.id_ubicacion", Op: OpEq, Parse: Int},
	{Param: "fecha_desde", Column: "m.fecha_mantenimiento", Op: OpGte, Parse: Date},
	{Param: "fecha_hasta", Column: "m.fecha_mantenimiento", Op: OpLte, Parse: Date},
}

// MaintenanceRepository encapsulates maintenance persistence.
type MaintenanceRepository interface {
	Create(ctx context.Context, maintenance *domain.Maintenance) error
	Update(ctx context.Context, maintenance *domain.Maintenance) error
	GetByID(ctx context.Context, id int64) (*domain.Maintenance, error)
	List(ctx context.Context, kind domain.AssetKind, filter Filter) ([]domain.MaintenanceRow, error)
	Delete(ctx context.Context, id int64) error
	DeleteByAsset(ctx context.Context, asset domain.AssetRef) (int64, error)
	DeleteByLocation(ctx context.Context, locationID int64) (int64, error)
}

type maintenanceRepository struct {
	pool *pgxpool.Pool
}

// NewMaintenanceRepository instantiates repository.
func NewMaintenanceRepository(pool *pgxpool.Pool) MaintenanceRepository {
	return &maintenanceRepository{pool: pool}
}

const maintenanceColumns = `m.id_mantenimiento, m.tipo, m.descripcion_mantenimiento, m.fecha_mantenimiento, m.estado,
        m.id_ubicacion, m.id_equipo, m.id_hardware, m.id_usuario, m.fecha_creacion, m.fecha_modificacion`

func (r *maintenanceRepository) Create(ctx context.Context, maintenance *domain.Maintenance) error {
	const query = `
        INSERT INTO Mantenimiento (tipo, descripcion_mantenimiento, fecha_mantenimiento, estado, id_ubicacion,
            id_equipo, id_hardware, id_usuario)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id_mantenimiento, fecha_creacion, fecha_modificacion`
	return r.pool.QueryRow(ctx, query,
		maintenance.Type,
		maintenance.Description,
		maintenance.PerformedOn,
		maintenance.Status,
		maintenance.LocationID,
		maintenance.EquipmentID,
		maintenance.HardwareID,
		maintenance.UserID,
	).Scan(&maintenance.ID, &maintenance.CreatedAt, &maintenance.UpdatedAt)
}

func (r *maintenanceRepository) Update(ctx context.Context, maintenance *domain.Maintenance) error {
	const query = `
        UPDATE Mantenimiento SET tipo=$1, descripcion_mantenimiento=$2, fecha_mantenimiento=$3, estado=$4,
            id_ubicacion=$5, id_equipo=$6, id_hardware=$7, id_usuario=$8, fecha_modificacion=NOW()
        WHERE id_mantenimiento=$9`
	cmd, err := r.pool.Exec(ctx, query,
		maintenance.Type,
		maintenance.Description,
		maintenance.PerformedOn,
		maintenance.Status,
		maintenance.LocationID,
		maintenance.EquipmentID,
		maintenance.HardwareID,
		maintenance.UserID,
		maintenance.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *maintenanceRepository) GetByID(ctx context.Context, id int64) (*domain.Maintenance, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM Mantenimiento m WHERE m.id_mantenimiento=$1`
	var maintenance domain.Maintenance
	if err := r.pool.QueryRow(ctx, query, id).Scan(maintenanceDest(&maintenance)...); err != nil {
		return nil, err
	}
	return &maintenance, nil
}

func (r *maintenanceRepository) List(ctx context.Context, kind domain.AssetKind, filter Filter) ([]domain.MaintenanceRow, error) {
	asset, err := lookupAsset(kind)
	if err != nil {
		return nil, err
	}
	incidents := fmt.Sprintf(
		"(SELECT string_agg(i.descripcion_incidencia, '; ') FROM Incidencias i WHERE i.%s = m.%s) AS descripcion_incidencia",
		asset.key, asset.key,
	)
	builder := psql().
		Select(maintenanceColumns, "a.marca", "us.username", "u.nombre_ubicacion", incidents).
		From("Mantenimiento m").
		Join(asset.join("m")).
		Join("Usuarios us ON m.id_usuario = us.id").
		Join("Ubicaciones u ON m.id_ubicacion = u.id_ubicacion").
		OrderBy("m.fecha_mantenimiento DESC", "m.id_mantenimiento DESC")
	query, args, err := filter.Apply(builder).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.MaintenanceRow
	for rows.Next() {
		var row domain.MaintenanceRow
		dest := append(maintenanceDest(&row.Maintenance),
			&row.AssetName, &row.UserName, &row.LocationName, &row.IncidentDescription)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *maintenanceRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM Mantenimiento WHERE id_mantenimiento=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *maintenanceRepository) DeleteByAsset(ctx context.Context, ref domain.AssetRef) (int64, error) {
	asset, err := lookupAsset(ref.Kind)
	if err != nil {
		return 0, err
	}
	cmd, err := r.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM Mantenimiento WHERE %s=$1`, asset.key), ref.ID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// DeleteByLocation removes records filed at the location or against an asset located there.
func (r *maintenanceRepository) DeleteByLocation(ctx context.Context, locationID int64) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM Mantenimiento WHERE `+locatedAt, locationID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func maintenanceDest(m *domain.Maintenance) []any {
	return []any{
		&m.ID, &m.Type, &m.Description, &m.PerformedOn, &m.Status, &m.LocationID,
		&m.EquipmentID, &m.HardwareID, &m.UserID, &m.CreatedAt, &m.UpdatedAt,
	}
}
