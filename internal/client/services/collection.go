package services

import (
	"context"
	"slices"
	"strings"

	"github.com/dmitrijs2005/carshowroom/internal/client/client"
	"github.com/dmitrijs2005/carshowroom/internal/client/models"
	"github.com/dmitrijs2005/carshowroom/internal/logging"
)

// Collection caches the cars of the signed-in user. It is reloaded wholesale
// and only changed locally after the server acknowledged a mutation.
type Collection struct {
	client   client.Client
	sessions *SessionManager
	log      logging.Logger
	cars     []models.Car
	loaded   bool
}

// NewCollection returns a collection tracking the sessions of sm: signing out
// empties it, signing in marks it for reload.
func NewCollection(c client.Client, sm *SessionManager, log logging.Logger) *Collection {
	col := &Collection{client: c, sessions: sm, log: log}
	sm.Subscribe(col.onSessionChange)
	return col
}

func (c *Collection) onSessionChange(s State) {
	switch s {
	case StateAnonymous:
		c.cars = nil
		c.loaded = false
	case StateAuthenticated:
		c.loaded = false
	}
}

// Loaded reports whether the snapshot reflects a fetch for the current session.
func (c *Collection) Loaded() bool { return c.loaded }

// Cars returns a copy of the snapshot.
func (c *Collection) Cars() []models.Car { return slices.Clone(c.cars) }

// Refresh replaces the snapshot with the server's list. On any failure the
// previous snapshot is kept.
func (c *Collection) Refresh(ctx context.Context) error {
	s, err := c.sessions.Current()
	if err != nil {
		return err
	}

	res, err := c.client.ListCars(ctx, s.User.ID, s.Token)
	if err != nil {
		return c.sessions.HandleError(ctx, err)
	}
	if !res.OK() {
		return &RejectedError{Message: res.Message}
	}

	c.cars = res.Value
	c.loaded = true
	c.log.Debug(ctx, "collection refreshed", "count", len(c.cars))
	return nil
}

// Ensure loads the snapshot unless it is already current.
func (c *Collection) Ensure(ctx context.Context) error {
	if c.loaded {
		if _, err := c.sessions.Current(); err != nil {
			return err
		}
		return nil
	}
	return c.Refresh(ctx)
}

// Filter returns the cars matching query, in snapshot order. Matching is a
// case-insensitive substring test over the name, model, buy date, price,
// description and tags. An empty query matches everything.
func (c *Collection) Filter(query string) []models.Car {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.Cars()
	}

	out := make([]models.Car, 0, len(c.cars))
	for _, car := range c.cars {
		if matches(car, q) {
			out = append(out, car)
		}
	}
	return out
}

func matches(car models.Car, q string) bool {
	fields := []string{car.CarName, car.ModelName, car.BuyDate, car.PriceText(), car.Description}
	for _, f := range append(fields, car.Tags...) {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Upsert replaces the car with the same id or appends it.
func (c *Collection) Upsert(car models.Car) {
	if i := c.index(car.ID); i >= 0 {
		c.cars[i] = car
		return
	}
	c.cars = append(c.cars, car)
}

// Remove drops the car with id, if cached.
func (c *Collection) Remove(id string) {
	if i := c.index(id); i >= 0 {
		c.cars = slices.Delete(c.cars, i, i+1)
	}
}

func (c *Collection) index(id string) int {
	return slices.IndexFunc(c.cars, func(car models.Car) bool { return car.ID == id })
}

// Fetch loads a single car from the server and refreshes its cached copy.
func (c *Collection) Fetch(ctx context.Context, id string) (models.Car, error) {
	s, err := c.sessions.Current()
	if err != nil {
		return models.Car{}, err
	}

	res, err := c.client.GetCar(ctx, id, s.Token)
	if err != nil {
		return models.Car{}, c.sessions.HandleError(ctx, err)
	}
	if !res.OK() {
		return models.Car{}, &RejectedError{Message: res.Message}
	}

	if c.loaded {
		c.Upsert(res.Value)
	}
	return res.Value, nil
}

// Delete removes the car on the server, then from the snapshot.
func (c *Collection) Delete(ctx context.Context, id string) error {
	s, err := c.sessions.Current()
	if err != nil {
		return err
	}

	res, err := c.client.DeleteCar(ctx, id, s.Token, s.User.ID)
	if err != nil {
		return c.sessions.HandleError(ctx, err)
	}
	if !res.OK() {
		return &RejectedError{Message: res.Message}
	}

	c.Remove(id)
	c.log.Info(ctx, "car deleted", "car_id", id)
	return nil
}
