package cars

import (
	"context"

	"github.com/dmitrijs2005/carshowroom/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, car *models.Car) (*models.Car, error)
	GetByID(ctx context.Context, id string) (*models.Car, error)
	GetForUpdate(ctx context.Context, id string) (*models.Car, error)
	ListByUser(ctx context.Context, userID string) ([]models.Car, error)
	Update(ctx context.Context, car *models.Car) (*models.Car, error)
	Delete(ctx context.Context, id string) error
}
