package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/it-inventory/internal/domain"
)

// EquipmentFilterFields maps list query parameters onto Equipos columns.
var EquipmentFilterFields = []Field{
	{Param: "tipo", Column: "e.tipo", Op: OpEq},
	{Param: "marca", Column: "e.marca", Op: OpContains},
	{Param: "sistema_operativo", Column: "e.sistema_operativo", Op: OpEq},
	{Param: "ubicacion", Column: "e.id_ubicacion", Op: OpEq, Parse: Int},
	{Param: "fecha_creacion_desde", Column: "e.fecha_creacion", Op: OpGte, Parse: DayStart},
	{Param: "fecha_modificacion_hasta", Column: "e.fecha_modificacion", Op: OpLte, Parse: DayEnd},
}

// EquipmentRepository encapsulates equipment persistence.
type EquipmentRepository interface {
	Create(ctx context.Context, equipment *domain.Equipment) error
	Update(ctx context.Context, equipment *domain.Equipment) error
	GetByID(ctx context.Context, id int64) (*domain.Equipment, error)
	List(ctx context.Context, filter Filter) ([]domain.EquipmentRow, error)
	ListByLocation(ctx context.Context, locationID int64) ([]domain.Equipment, error)
	Delete(ctx context.Context, id int64) error
	DeleteByLocation(ctx context.Context, locationID int64) (int64, error)
}

type equipmentRepository struct {
	pool *pgxpool.Pool
}

// NewEquipmentRepository instantiates repository.
func NewEquipmentRepository(pool *pgxpool.Pool) EquipmentRepository {
	return &equipmentRepository{pool: pool}
}

const equipmentColumns = `e.id_equipo, e.tipo, e.marca, e.modelo, e.sistema_operativo, e.placa_base, e.procesador,
        e.memoria_ram, e.disco_duro, e.tarjeta_grafica, e.sistema_refrigeracion, e.unidad_optica,
        e.tarjeta_sonido, e.tarjeta_red, e.teclado, e.raton, e.monitor, e.altavoces, e.cables_conectores,
        e.id_ubicacion, e.estado, e.fecha_creacion, e.fecha_modificacion`

func (r *equipmentRepository) Create(ctx context.Context, equipment *domain.Equipment) error {
	const query = `
        INSERT INTO Equipos (tipo, marca, modelo, sistema_operativo, placa_base, procesador, memoria_ram,
            disco_duro, tarjeta_grafica, sistema_refrigeracion, unidad_optica, tarjeta_sonido, tarjeta_red,
            teclado, raton, monitor, altavoces, cables_conectores, id_ubicacion, estado)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
        RETURNING id_equipo, fecha_creacion, fecha_modificacion`
	return r.pool.QueryRow(ctx, query, equipmentValues(equipment)...).
		Scan(&equipment.ID, &equipment.CreatedAt, &equipment.UpdatedAt)
}

func (r *equipmentRepository) Update(ctx context.Context, equipment *domain.Equipment) error {
	const query = `
        UPDATE Equipos SET tipo=$1, marca=$2, modelo=$3, sistema_operativo=$4, placa_base=$5, procesador=$6,
            memoria_ram=$7, disco_duro=$8, tarjeta_grafica=$9, sistema_refrigeracion=$10, unidad_optica=$11,
            tarjeta_sonido=$12, tarjeta_red=$13, teclado=$14, raton=$15, monitor=$16, altavoces=$17,
            cables_conectores=$18, id_ubicacion=$19, estado=$20, fecha_modificacion=NOW()
        WHERE id_equipo=$21`
	args := append(equipmentValues(equipment), equipment.ID)
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *equipmentRepository) GetByID(ctx context.Context, id int64) (*domain.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM Equipos e WHERE e.id_equipo=$1`
	var equipment domain.Equipment
	if err := r.pool.QueryRow(ctx, query, id).Scan(equipmentDest(&equipment)...); err != nil {
		return nil, err
	}
	return &equipment, nil
}

func (r *equipmentRepository) List(ctx context.Context, filter Filter) ([]domain.EquipmentRow, error) {
	builder := psql().
		Select(equipmentColumns, "u.nombre_ubicacion").
		From("Equipos e").
		Join("Ubicaciones u ON e.id_ubicacion = u.id_ubicacion").
		OrderBy("e.id_equipo")
	query, args, err := filter.Apply(builder).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EquipmentRow
	for rows.Next() {
		var row domain.EquipmentRow
		dest := append(equipmentDest(&row.Equipment), &row.LocationName)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *equipmentRepository) ListByLocation(ctx context.Context, locationID int64) ([]domain.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM Equipos e WHERE e.id_ubicacion=$1 ORDER BY e.id_equipo`
	rows, err := r.pool.Query(ctx, query, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Equipment{}
	for rows.Next() {
		var equipment domain.Equipment
		if err := rows.Scan(equipmentDest(&equipment)...); err != nil {
			return nil, err
		}
		result = append(result, equipment)
	}
	return result, rows.Err()
}

func (r *equipmentRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM Equipos WHERE id_equipo=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *equipmentRepository) DeleteByLocation(ctx context.Context, locationID int64) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM Equipos WHERE id_ubicacion=$1`, locationID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func equipmentValues(e *domain.Equipment) []any {
	return []any{
		e.Type, e.Brand, e.Model, e.OperatingSystem, e.Motherboard, e.Processor, e.RAM,
		e.HardDrive, e.GraphicsCard, e.CoolingSystem, e.OpticalDrive, e.SoundCard, e.NetworkCard,
		e.Keyboard, e.Mouse, e.Monitor, e.Speakers, e.Cables, e.LocationID, e.Status,
	}
}

func equipmentDest(e *domain.Equipment) []any {
	return []any{
		&e.ID, &e.Type, &e.Brand, &e.Model, &e.OperatingSystem, &e.Motherboard, &e.Processor,
		&e.RAM, &e.HardDrive, &e.GraphicsCard, &e.CoolingSystem, &e.OpticalDrive, &e.SoundCard,
		&e.NetworkCard, &e.Keyboard, &e.Mouse, &e.Monitor, &e.Speakers, &e.Cables,
		&e.LocationID, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	}
}
