package client

import (
	"context"

	"github.com/dmitrijs2005/carshowroom/internal/client/models"
)

// Client is the transport-agnostic contract of the car API.
//
// A returned error always means the request did not complete as a business
// operation: the server was unreachable, answered garbage, or rejected the
// credential (ErrUnauthorized). Anything the server decided on is a Result.
type Client interface {
	Signup(ctx context.Context, username, email, password string) (Result[AuthPayload], error)
	Login(ctx context.Context, email, password string) (Result[AuthPayload], error)
	ListCars(ctx context.Context, ownerID, token string) (Result[[]models.Car], error)
	GetCar(ctx context.Context, id, token string) (Result[models.Car], error)

	// CreateCar and UpdateCar succeed with a nil car when the server
	// acknowledged the change without echoing the record back.
	CreateCar(ctx context.Context, form CarForm, token string) (Result[*models.Car], error)
	UpdateCar(ctx context.Context, id string, form CarForm, token string) (Result[*models.Car], error)
	DeleteCar(ctx context.Context, id, token, ownerID string) (Result[Empty], error)
}

// CarForm is the multipart body of create and update calls.
type CarForm struct {
	UserID      string
	CarName     string
	ModelName   string
	BuyDate     string
	BuyPrice    string
	Description string
	Tags        []string

	// ExistingImages lists the stored references to keep. Sent on update only.
	ExistingImages []string

	// Images are local files uploaded as "images" parts.
	Images []models.ImageFile
}
