package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/it-inventory/internal/domain"
)

// LocationRepository encapsulates location persistence.
type LocationRepository interface {
	Create(ctx context.Context, location *domain.Location) error
	Update(ctx context.Context, location *domain.Location) error
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
	List(ctx context.Context) ([]domain.Location, error)
	Delete(ctx context.Context, id int64) error
}

type locationRepository struct {
	pool *pgxpool.Pool
}

// NewLocationRepository instantiates repository.
func NewLocationRepository(pool *pgxpool.Pool) LocationRepository {
	return &locationRepository{pool: pool}
}

func (r *locationRepository) Create(ctx context.Context, location *domain.Location) error {
	const query = `
        INSERT INTO Ubicaciones (nombre_ubicacion, departamento_responsable)
        VALUES ($1, $2)
        RETURNING id_ubicacion`
	return r.pool.QueryRow(ctx, query, location.Name, location.ResponsibleDepartment).Scan(&location.ID)
}

func (r *locationRepository) Update(ctx context.Context, location *domain.Location) error {
	const query = `
        UPDATE Ubicaciones SET nombre_ubicacion=$1, departamento_responsable=$2
        WHERE id_ubicacion=$3`
	cmd, err := r.pool.Exec(ctx, query, location.Name, location.ResponsibleDepartment, location.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *locationRepository) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	const query = `
        SELECT id_ubicacion, nombre_ubicacion, departamento_responsable
        FROM Ubicaciones WHERE id_ubicacion=$1`
	var location domain.Location
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&location.ID,
		&location.Name,
		&location.ResponsibleDepartment,
	); err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *locationRepository) List(ctx context.Context) ([]domain.Location, error) {
	const query = `
        SELECT id_ubicacion, nombre_ubicacion, departamento_responsable
        FROM Ubicaciones ORDER BY nombre_ubicacion`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Location
	for rows.Next() {
		var location domain.Location
		if err := rows.Scan(&location.ID, &location.Name, &location.ResponsibleDepartment); err != nil {
			return nil, err
		}
		result = append(result, location)
	}
	return result, rows.Err()
}

func (r *locationRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM Ubicaciones WHERE id_ubicacion=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
