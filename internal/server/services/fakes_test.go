package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/carshowroom/internal/common"
	"github.com/dmitrijs2005/carshowroom/internal/dbx"
	"github.com/dmitrijs2005/carshowroom/internal/server/config"
	"github.com/dmitrijs2005/carshowroom/internal/server/models"
	carsrepo "github.com/dmitrijs2005/carshowroom/internal/server/repositories/cars"
	usersrepo "github.com/dmitrijs2005/carshowroom/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{SecretKey: "k", TokenValidityDuration: time.Hour}
}

type fakeUsersRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
	nextID  int
	err     error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]*models.User{}, byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	f.nextID++
	u.ID = fmt.Sprintf("u%d", f.nextID)
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

type fakeCarsRepo struct {
	cars      map[string]*models.Car
	nextID    int
	createErr error
	updateErr error
	deleteErr error
	locked    []string
}

func newFakeCarsRepo(cars ...models.Car) *fakeCarsRepo {
	f := &fakeCarsRepo{cars: map[string]*models.Car{}}
	for _, c := range cars {
		c := c
		f.cars[c.ID] = &c
	}
	return f
}

func (f *fakeCarsRepo) Create(_ context.Context, c *models.Car) (*models.Car, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	c.ID = fmt.Sprintf("c%d", f.nextID)
	cp := *c
	f.cars[c.ID] = &cp
	return c, nil
}

func (f *fakeCarsRepo) get(id string) (*models.Car, error) {
	c, ok := f.cars[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	cp.Images = slices.Clone(c.Images)
	return &cp, nil
}

func (f *fakeCarsRepo) GetByID(_ context.Context, id string) (*models.Car, error) { return f.get(id) }

func (f *fakeCarsRepo) GetForUpdate(_ context.Context, id string) (*models.Car, error) {
	f.locked = append(f.locked, id)
	return f.get(id)
}

func (f *fakeCarsRepo) ListByUser(_ context.Context, userID string) ([]models.Car, error) {
	out := []models.Car{}
	for _, c := range f.cars {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	slices.SortFunc(out, func(a, b models.Car) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out, nil
}

func (f *fakeCarsRepo) Update(_ context.Context, c *models.Car) (*models.Car, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if _, ok := f.cars[c.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	f.cars[c.ID] = &cp
	return c, nil
}

func (f *fakeCarsRepo) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.cars[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.cars, id)
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	c *fakeCarsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository          { return m.u }
func (m *fakeRepoManager) Cars(dbx.DBTX) carsrepo.Repository            { return m.c }

type fakeImages struct {
	n         int
	uploaded  []string
	deleted   []string
	failAfter int // uploads allowed before failing; <0 never fails
	deleteErr error
}

func newFakeImages() *fakeImages { return &fakeImages{failAfter: -1} }

func (f *fakeImages) Upload(_ context.Context, ownerID, contentType string, _ []byte) (string, error) {
	if f.failAfter >= 0 && len(f.uploaded) >= f.failAfter {
		return "", errors.New("s3 down")
	}
	f.n++
	u := fmt.Sprintf("https://img/%s/%d", ownerID, f.n)
	f.uploaded = append(f.uploaded, u)
	return u, nil
}

func (f *fakeImages) Delete(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return f.deleteErr
}
