package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/carshowroom/internal/common"
	"github.com/dmitrijs2005/carshowroom/internal/server/models"
	"github.com/dmitrijs2005/carshowroom/internal/server/services"
)

type fakeUsers struct {
	registerErr error
	loginErr    error
	lastEmail   string
}

func (f *fakeUsers) Register(_ context.Context, username, email, _ string) (*services.Session, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	f.lastEmail = email
	return &services.Session{User: &models.User{ID: "u1", Username: username, Email: email}, Token: "T"}, nil
}

func (f *fakeUsers) Login(_ context.Context, email, _ string) (*services.Session, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.lastEmail = email
	return &services.Session{User: &models.User{ID: "u1", Username: "alice", Email: email}, Token: "T"}, nil
}

func (f *fakeUsers) Authenticate(_ context.Context, token string) (string, error) {
	switch token {
	case "T":
		return "u1", nil
	case "EXPIRED":
		return "", common.ErrTokenExpired
	case "BROKEN":
		return "", errors.New("db down")
	}
	return "", common.ErrInvalidToken
}

type updateCall struct {
	id      string
	in      services.CarInput
	keep    []string
	uploads []models.Image
}

type fakeCars struct {
	cars map[string]*models.Car
	err  error

	created []services.CarInput
	uploads []models.Image
	updates []updateCall
	deleted []string
}

func newFakeCars() *fakeCars {
	return &fakeCars{cars: map[string]*models.Car{
		"c1": {
			ID: "c1", UserID: "u1", CarName: "Civic", ModelName: "Type R",
			BuyDate: time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC), BuyPrice: 30000,
			Description: "red", Tags: []string{"jdm"}, Images: []string{"https://img/1"},
		},
	}}
}

func (f *fakeCars) List(_ context.Context, callerID, ownerID string) ([]models.Car, error) {
	if f.err != nil {
		return nil, f.err
	}
	if callerID != ownerID {
		return nil, common.ErrorForbidden
	}
	var out []models.Car
	for _, c := range f.cars {
		if c.UserID == ownerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCars) Get(_ context.Context, callerID, id string) (*models.Car, error) {
	c, ok := f.cars[id]
	if !ok || c.UserID != callerID {
		return nil, common.ErrorNotFound
	}
	return c, nil
}

func (f *fakeCars) Create(_ context.Context, callerID string, in services.CarInput, uploads []models.Image) (*models.Car, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, in)
	f.uploads = append(f.uploads, uploads...)
	c := &models.Car{ID: "c2", UserID: callerID, CarName: in.CarName, Tags: in.Tags}
	for range uploads {
		c.Images = append(c.Images, "https://img/new")
	}
	f.cars[c.ID] = c
	return c, nil
}

func (f *fakeCars) Update(_ context.Context, callerID, id string, in services.CarInput, keep []string, uploads []models.Image) (*models.Car, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.cars[id]
	if !ok || c.UserID != callerID {
		return nil, common.ErrorNotFound
	}
	f.updates = append(f.updates, updateCall{id: id, in: in, keep: keep, uploads: uploads})
	c.CarName = in.CarName
	return c, nil
}

func (f *fakeCars) Delete(_ context.Context, callerID, id string) error {
	c, ok := f.cars[id]
	if !ok || c.UserID != callerID {
		return common.ErrorNotFound
	}
	delete(f.cars, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }
