package cars

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/carshowroom/internal/common"
	"github.com/dmitrijs2005/carshowroom/internal/dbx"
	"github.com/dmitrijs2005/carshowroom/internal/server/models"
	"github.com/dmitrijs2005/carshowroom/internal/server/repositories/pgerr"
)

const carColumns = `id, user_id, car_name, model_name, buy_date, buy_price, description, tags, images, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts car and fills in the generated id and timestamps.
func (r *PostgresRepository) Create(ctx context.Context, car *models.Car) (*models.Car, error) {
	tags, images, err := encodeLists(car)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO cars (user_id, car_name, model_name, buy_date, buy_price, description, tags, images)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		car.UserID, car.CarName, car.ModelName, car.BuyDate, car.BuyPrice, car.Description, tags, images,
	).Scan(&car.ID, &car.CreatedAt, &car.UpdatedAt)

	if err != nil {
		if pgerr.IsForeignKeyViolation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return car, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetForUpdate is GetByID that also locks the row until the surrounding
// transaction ends.
func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query, id string) (*models.Car, error) {
	car, err := scanCar(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || pgerr.IsInvalidInput(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return car, nil
}

// ListByUser returns the cars of userID, oldest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE user_id = $1 ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		if pgerr.IsInvalidInput(err) {
			return []models.Car{}, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.Car{}
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *car)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

// Update overwrites the mutable fields of car. The owner never changes.
func (r *PostgresRepository) Update(ctx context.Context, car *models.Car) (*models.Car, error) {
	tags, images, err := encodeLists(car)
	if err != nil {
		return nil, err
	}

	query :=
		`UPDATE cars
		 SET car_name = $2, model_name = $3, buy_date = $4, buy_price = $5,
		     description = $6, tags = $7, images = $8, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		car.ID, car.CarName, car.ModelName, car.BuyDate, car.BuyPrice, car.Description, tags, images,
	).Scan(&car.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || pgerr.IsInvalidInput(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return car, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		if pgerr.IsInvalidInput(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCar(s scanner) (*models.Car, error) {
	var (
		car          models.Car
		tags, images []byte
	)
	err := s.Scan(&car.ID, &car.UserID, &car.CarName, &car.ModelName, &car.BuyDate, &car.BuyPrice,
		&car.Description, &tags, &images, &car.CreatedAt, &car.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := decodeList(tags, &car.Tags); err != nil {
		return nil, fmt.Errorf("decode tags of car %s: %w", car.ID, err)
	}
	if err := decodeList(images, &car.Images); err != nil {
		return nil, fmt.Errorf("decode images of car %s: %w", car.ID, err)
	}
	return &car, nil
}

// encodeLists renders the JSONB columns. Nil slices are stored as [].
func encodeLists(car *models.Car) (string, string, error) {
	enc := func(v []string) (string, error) {
		if v == nil {
			v = []string{}
		}
		b, err := json.Marshal(v)
		return string(b), err
	}

	tags, err := enc(car.Tags)
	if err != nil {
		return "", "", fmt.Errorf("encode tags: %w", err)
	}
	images, err := enc(car.Images)
	if err != nil {
		return "", "", fmt.Errorf("encode images: %w", err)
	}
	return tags, images, nil
}

func decodeList(raw []byte, dst *[]string) error {
	*dst = []string{}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
