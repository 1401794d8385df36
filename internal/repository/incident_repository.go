package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/it-inventory/internal/domain"
)

// EquipmentIncidentFilterFields maps list parameters for equipment incidents.
var EquipmentIncidentFilterFields = []Field{
	{Param: "fecha_reporte", Column: "i.fecha_reporte", Op: OpEq, Parse: Date},
	{Param: "estado", Column: "i.estado", Op: OpEq},
	{Param: "prioridad", Column: "i.prioridad", Op: OpEq},
	{Param: "id_ubicacion", Column: "i.id_ubicacion", Op: OpEq, Parse: Int},
	{Param: "fecha_creacion", Column: "i.fecha_creacion::date", Op: OpEq, Parse: Date},
	{Param: "fecha_modificacion", Column: "i.fecha_modificacion::date", Op: OpEq, Parse: Date},
}

// HardwareIncidentFilterFields maps list parameters for hardware incidents.
var HardwareIncidentFilterFields = []Field{
	{Param: "fecha_reporte", Column: "i.fecha_reporte", Op: OpGte, Parse: Date},
	{Param: "estado", Column: "i.estado", Op: OpEq},
	{Param: "prioridad", Column: "i.prioridad", Op: OpEq},
	{Param: "id_ubicacion", Column: "i.id_ubicacion", Op: OpEq, Parse: Int},
	{Param: "fecha_creacion", Column: "i.fecha_creacion", Op: OpGte, Parse: DayStart},
	{Param: "fecha_modificacion", Column: "i.fecha_modificacion", Op: OpGte, Parse: DayStart},
}

// IncidentRepository encapsulates incident persistence.
type IncidentRepository interface {
	Create(ctx context.Context, incident *domain.Incident) error
	Update(ctx context.Context, incident *domain.Incident) error
	GetByID(ctx context.Context, id int64) (*domain.Incident, error)
	List(ctx context.Context, kind domain.AssetKind, filter Filter) ([]domain.IncidentRow, error)
	Delete(ctx context.Context, id int64) error
	UpdateStatusByAsset(ctx context.Context, asset domain.AssetRef, status domain.IncidentStatus) (int64, error)
	DeleteByAsset(ctx context.Context, asset domain.AssetRef) (int64, error)
	DeleteByLocation(ctx context.Context, locationID int64) (int64, error)
}

type incidentRepository struct {
	pool *pgxpool.Pool
}

// NewIncidentRepository instantiates repository.
func NewIncidentRepository(pool *pgxpool.Pool) IncidentRepository {
	return &incidentRepository{pool: pool}
}

const incidentColumns = `i.id_incidencia, i.descripcion_incidencia, i.fecha_reporte, i.estado, i.prioridad,
        i.id_ubicacion, i.id_equipo, i.id_hardware, i.id_usuario, i.fecha_creacion, i.fecha_modificacion`

func (r *incidentRepository) Create(ctx context.Context, incident *domain.Incident) error {
	const query = `
        INSERT INTO Incidencias (descripcion_incidencia, fecha_reporte, estado, prioridad, id_ubicacion,
            id_equipo, id_hardware, id_usuario)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id_incidencia, fecha_creacion, fecha_modificacion`
	return r.pool.QueryRow(ctx, query,
		incident.Description,
		incident.ReportedOn,
		incident.Status,
		incident.Priority,
		incident.LocationID,
		incident.EquipmentID,
		incident.HardwareID,
		incident.UserID,
	).Scan(&incident.ID, &incident.CreatedAt, &incident.UpdatedAt)
}

func (r *incidentRepository) Update(ctx context.Context, incident *domain.Incident) error {
	const query = `
        UPDATE Incidencias SET descripcion_incidencia=$1, fecha_reporte=$2, estado=$3, prioridad=$4,
            id_ubicacion=$5, id_equipo=$6, id_hardware=$7, id_usuario=$8, fecha_modificacion=NOW()
        WHERE id_incidencia=$9`
	cmd, err := r.pool.Exec(ctx, query,
		incident.Description,
		incident.ReportedOn,
		incident.Status,
		incident.Priority,
		incident.LocationID,
		incident.EquipmentID,
		incident.HardwareID,
		incident.UserID,
		incident.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *incidentRepository) GetByID(ctx context.Context, id int64) (*domain.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM Incidencias i WHERE i.id_incidencia=$1`
	var incident domain.Incident
	if err := r.pool.QueryRow(ctx, query, id).Scan(incidentDest(&incident)...); err != nil {
		return nil, err
	}
	return &incident, nil
}

func (r *incidentRepository) List(ctx context.Context, kind domain.AssetKind, filter Filter) ([]domain.IncidentRow, error) {
	asset, err := lookupAsset(kind)
	if err != nil {
		return nil, err
	}
	builder := psql().
		Select(incidentColumns, "a.marca", "us.username", "u.nombre_ubicacion").
		From("Incidencias i").
		Join(asset.join("i")).
		Join("Usuarios us ON i.id_usuario = us.id").
		Join("Ubicaciones u ON i.id_ubicacion = u.id_ubicacion").
		OrderBy("i.fecha_reporte DESC", "i.id_incidencia DESC")
	query, args, err := filter.Apply(builder).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.IncidentRow
	for rows.Next() {
		var row domain.IncidentRow
		dest := append(incidentDest(&row.Incident), &row.AssetName, &row.UserName, &row.LocationName)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *incidentRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM Incidencias WHERE id_incidencia=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateStatusByAsset sets status on every incident of the asset and returns how many changed.
func (r *incidentRepository) UpdateStatusByAsset(ctx context.Context, ref domain.AssetRef, status domain.IncidentStatus) (int64, error) {
	asset, err := lookupAsset(ref.Kind)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`UPDATE Incidencias SET estado=$1, fecha_modificacion=NOW() WHERE %s=$2`, asset.key)
	cmd, err := r.pool.Exec(ctx, query, status, ref.ID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *incidentRepository) DeleteByAsset(ctx context.Context, ref domain.AssetRef) (int64, error) {
	asset, err := lookupAsset(ref.Kind)
	if err != nil {
		return 0, err
	}
	cmd, err := r.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM Incidencias WHERE %s=$1`, asset.key), ref.ID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// DeleteByLocation removes incidents filed at the location or against an asset located there.
func (r *incidentRepository) DeleteByLocation(ctx context.Context, locationID int64) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM Incidencias WHERE `+locatedAt, locationID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func incidentDest(i *domain.Incident) []any {
	return []any{
		&i.ID, &i.Description, &i.ReportedOn, &i.Status, &i.Priority, &i.LocationID,
		&i.EquipmentID, &i.HardwareID, &i.UserID, &i.CreatedAt, &i.UpdatedAt,
	}
}
