package services

import (
	"context"
	"maps"

	"github.com/dmitrijs2005/carshowroom/internal/client/client"
	"github.com/dmitrijs2005/carshowroom/internal/client/models"
)

// fakeClient implements client.Client with canned answers.
type fakeClient struct {
	loginRes  client.Result[client.AuthPayload]
	loginErr  error
	signupRes client.Result[client.AuthPayload]
	signupErr error
	listRes   client.Result[[]models.Car]
	listErr   error
	getRes    client.Result[models.Car]
	getErr    error
	createRes client.Result[*models.Car]
	createErr error
	updateRes client.Result[*models.Car]
	updateErr error
	deleteRes client.Result[client.Empty]
	deleteErr error

	calls     []string
	lastID    string
	lastToken string
	lastOwner string
	lastForm  client.CarForm
}

func (f *fakeClient) Signup(ctx context.Context, username, email, password string) (client.Result[client.AuthPayload], error) {
	f.calls = append(f.calls, "signup")
	return f.signupRes, f.signupErr
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (client.Result[client.AuthPayload], error) {
	f.calls = append(f.calls, "login")
	return f.loginRes, f.loginErr
}

func (f *fakeClient) ListCars(ctx context.Context, ownerID, token string) (client.Result[[]models.Car], error) {
	f.calls = append(f.calls, "list")
	f.lastOwner, f.lastToken = ownerID, token
	return f.listRes, f.listErr
}

func (f *fakeClient) GetCar(ctx context.Context, id, token string) (client.Result[models.Car], error) {
	f.calls = append(f.calls, "get")
	f.lastID, f.lastToken = id, token
	return f.getRes, f.getErr
}

func (f *fakeClient) CreateCar(ctx context.Context, form client.CarForm, token string) (client.Result[*models.Car], error) {
	f.calls = append(f.calls, "create")
	f.lastForm, f.lastToken = form, token
	return f.createRes, f.createErr
}

func (f *fakeClient) UpdateCar(ctx context.Context, id string, form client.CarForm, token string) (client.Result[*models.Car], error) {
	f.calls = append(f.calls, "update")
	f.lastID, f.lastForm, f.lastToken = id, form, token
	return f.updateRes, f.updateErr
}

func (f *fakeClient) DeleteCar(ctx context.Context, id, token, ownerID string) (client.Result[client.Empty], error) {
	f.calls = append(f.calls, "delete")
	f.lastID, f.lastToken, f.lastOwner = id, token, ownerID
	return f.deleteRes, f.deleteErr
}

// memStore is an in-memory Store without SetMany.
type memStore struct {
	data     map[string][]byte
	writes   []string
	setErr   error
	getErr   error
	clearErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (s *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.data[key], nil
}

func (s *memStore) Set(ctx context.Context, key string, value []byte) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.writes = append(s.writes, key)
	s.data[key] = value
	return nil
}

func (s *memStore) Clear(ctx context.Context) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	clear(s.data)
	return nil
}

func (s *memStore) snapshot() map[string][]byte {
	return maps.Clone(s.data)
}

func authOK(id, username, token string) client.Result[client.AuthPayload] {
	return client.Success(client.AuthPayload{User: models.User{ID: id, Username: username}, Token: token})
}
