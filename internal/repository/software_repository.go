package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/it-inventory/internal/domain"
)

// SoftwareFilterFields maps list query parameters onto Software columns.
// Timestamps compare by calendar day.
var SoftwareFilterFields = []Field{
	{Param: "fecha_vencimiento", Column: "fecha_vencimiento", Op: OpEq, Parse: Date},
	{Param: "fecha_creacion", Column: "fecha_creacion::date", Op: OpEq, Parse: Date},
	{Param: "fecha_modificacion", Column: "fecha_modificacion::date", Op: OpEq, Parse: Date},
}

// SoftwareRepository encapsulates license persistence.
type SoftwareRepository interface {
	Create(ctx context.Context, software *domain.Software) error
	Update(ctx context.Context, software *domain.Software) error
	GetByID(ctx context.Context, id int64) (*domain.Software, error)
	List(ctx context.Context, filter Filter) ([]domain.Software, error)
	Delete(ctx context.Context, id int64) error
}

type softwareRepository struct {
	pool *pgxpool.Pool
}

// NewSoftwareRepository instantiates repository.
func NewSoftwareRepository(pool *pgxpool.Pool) SoftwareRepository {
	return &softwareRepository{pool: pool}
}

const softwareColumns = `id_software, nombre, version, fecha_vencimiento, detalles_licencia, fecha_creacion, fecha_modificacion`

func (r *softwareRepository) Create(ctx context.Context, software *domain.Software) error {
	const query = `
        INSERT INTO Software (nombre, version, fecha_vencimiento, detalles_licencia)
        VALUES ($1,$2,$3,$4)
        RETURNING id_software, fecha_creacion, fecha_modificacion`
	return r.pool.QueryRow(ctx, query,
		software.Name,
		software.Version,
		software.ExpiresOn,
		software.LicenseDetails,
	).Scan(&software.ID, &software.CreatedAt, &software.UpdatedAt)
}

func (r *softwareRepository) Update(ctx context.Context, software *domain.Software) error {
	const query = `
        UPDATE Software SET nombre=$1, version=$2, fecha_vencimiento=$3, detalles_licencia=$4,
            fecha_modificacion=NOW()
        WHERE id_software=$5`
	cmd, err := r.pool.Exec(ctx, query,
		software.Name,
		software.Version,
		software.ExpiresOn,
		software.LicenseDetails,
		software.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *softwareRepository) GetByID(ctx context.Context, id int64) (*domain.Software, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+softwareColumns+` FROM Software WHERE id_software=$1`, id)
	var software domain.Software
	if err := row.Scan(softwareDest(&software)...); err != nil {
		return nil, err
	}
	return &software, nil
}

func (r *softwareRepository) List(ctx context.Context, filter Filter) ([]domain.Software, error) {
	builder := psql().Select(softwareColumns).From("Software").OrderBy("id_software")
	query, args, err := filter.Apply(builder).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Software
	for rows.Next() {
		var software domain.Software
		if err := rows.Scan(softwareDest(&software)...); err != nil {
			return nil, err
		}
		result = append(result, software)
	}
	return result, rows.Err()
}

func (r *softwareRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM Software WHERE id_software=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func softwareDest(s *domain.Software) []any {
	return []any{&s.ID, &s.Name, &s.Version, &s.ExpiresOn, &s.LicenseDetails, &s.CreatedAt, &s.UpdatedAt}
}
