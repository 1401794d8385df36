package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/it-inventory/internal/domain"
)

// HardwareFilterFields maps list query parameters onto Hardware columns.
var HardwareFilterFields = []Field{
	{Param: "tipo_componente", Column: "h.tipo_componente", Op: OpEq},
	{Param: "marca", Column: "h.marca", Op: OpContains},
	{Param: "estado", Column: "h.estado", Op: OpEq},
	{Param: "id_ubicacion", Column: "h.id_ubicacion", Op: OpEq, Parse: Int},
	{Param: "fecha_creacion", Column: "h.fecha_creacion", Op: OpGte, Parse: DayStart},
	{Param: "fecha_modificacion", Column: "h.fecha_modificacion", Op: OpLte, Parse: DayEnd},
}

// HardwareRepository encapsulates hardware persistence.
type HardwareRepository interface {
	Create(ctx context.Context, hardware *domain.Hardware) error
	Update(ctx context.Context, hardware *domain.Hardware) error
	GetByID(ctx context.Context, id int64) (*domain.Hardware, error)
	List(ctx context.Context, filter Filter) ([]domain.HardwareRow, error)
	ListByLocation(ctx context.Context, locationID int64) ([]domain.Hardware, error)
	Delete(ctx context.Context, id int64) error
	DeleteByLocation(ctx context.Context, locationID int64) (int64, error)
}

type hardwareRepository struct {
	pool *pgxpool.Pool
}

// NewHardwareRepository instantiates repository.
func NewHardwareRepository(pool *pgxpool.Pool) HardwareRepository {
	return &hardwareRepository{pool: pool}
}

const hardwareColumns = `h.id_hardware, h.tipo_componente, h.marca, h.modelo, h.especificaciones, h.estado,
        h.id_ubicacion, h.fecha_creacion, h.fecha_modificacion`

func (r *hardwareRepository) Create(ctx context.Context, hardware *domain.Hardware) error {
	const query = `
        INSERT INTO Hardware (tipo_componente, marca, modelo, especificaciones, estado, id_ubicacion)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id_hardware, fecha_creacion, fecha_modificacion`
	return r.pool.QueryRow(ctx, query,
		hardware.ComponentType,
		hardware.Brand,
		hardware.Model,
		hardware.Specifications,
		hardware.Status,
		hardware.LocationID,
	).Scan(&hardware.ID, &hardware.CreatedAt, &hardware.UpdatedAt)
}

func (r *hardwareRepository) Update(ctx context.Context, hardware *domain.Hardware) error {
	const query = `
        UPDATE Hardware SET tipo_componente=$1, marca=$2, modelo=$3, especificaciones=$4, estado=$5,
            id_ubicacion=$6, fecha_modificacion=NOW()
        WHERE id_hardware=$7`
	cmd, err := r.pool.Exec(ctx, query,
		hardware.ComponentType,
		hardware.Brand,
		hardware.Model,
		hardware.Specifications,
		hardware.Status,
		hardware.LocationID,
		hardware.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *hardwareRepository) GetByID(ctx context.Context, id int64) (*domain.Hardware, error) {
	query := `SELECT ` + hardwareColumns + ` FROM Hardware h WHERE h.id_hardware=$1`
	var hardware domain.Hardware
	if err := r.pool.QueryRow(ctx, query, id).Scan(hardwareDest(&hardware)...); err != nil {
		return nil, err
	}
	return &hardware, nil
}

func (r *hardwareRepository) List(ctx context.Context, filter Filter) ([]domain.HardwareRow, error) {
	builder := psql().
		Select(hardwareColumns, "u.nombre_ubicacion").
		From("Hardware h").
		Join("Ubicaciones u ON h.id_ubicacion = u.id_ubicacion").
		OrderBy("h.id_hardware")
	query, args, err := filter.Apply(builder).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.HardwareRow
	for rows.Next() {
		var row domain.HardwareRow
		dest := append(hardwareDest(&row.Hardware), &row.LocationName)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *hardwareRepository) ListByLocation(ctx context.Context, locationID int64) ([]domain.Hardware, error) {
	query := `SELECT ` + hardwareColumns + ` FROM Hardware h WHERE h.id_ubicacion=$1 ORDER BY h.id_hardware`
	rows, err := r.pool.Query(ctx, query, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Hardware{}
	for rows.Next() {
		var hardware domain.Hardware
		if err := rows.Scan(hardwareDest(&hardware)...); err != nil {
			return nil, err
		}
		result = append(result, hardware)
	}
	return result, rows.Err()
}

func (r *hardwareRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM Hardware WHERE id_hardware=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *hardwareRepository) DeleteByLocation(ctx context.Context, locationID int64) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM Hardware WHERE id_ubicacion=$1`, locationID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func hardwareDest(h *domain.Hardware) []any {
	return []any{
		&h.ID, &h.ComponentType, &h.Brand, &h.Model, &h.Specifications, &h.Status,
		&h.LocationID, &h.CreatedAt, &h.UpdatedAt,
	}
}
