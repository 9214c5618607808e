package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/carshowroom/internal/client/client"
	"github.com/dmitrijs2005/carshowroom/internal/client/models"
	"github.com/dmitrijs2005/carshowroom/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() *models.Draft {
	d := models.NewDraft()
	d.CarName = "Civic"
	d.ModelName = "Type R"
	d.BuyDate = "2020-05-01"
	d.BuyPrice = "30000"
	d.Description = "Red hatch"
	d.AddTag("jdm")
	return d
}

func newEditor(t *testing.T, fc *fakeClient) (*Editor, *Collection) {
	t.Helper()
	col, sm := loaded(t, fc)
	return NewEditor(fc, sm, col, logging.Discard()), col
}

func TestEditor_Validate(t *testing.T) {
	e := NewEditor(&fakeClient{}, newManager(&fakeClient{}, newMemStore()), nil, logging.Discard())

	tests := []struct {
		name   string
		mutate func(d *models.Draft)
		want   []FieldError
	}{
		{name: "valid", mutate: func(d *models.Draft) {}},
		{name: "zero price", mutate: func(d *models.Draft) { d.BuyPrice = "0" }},
		{name: "decimal price", mutate: func(d *models.Draft) { d.BuyPrice = " 12.50 " }},
		{
			name:   "negative price",
			mutate: func(d *models.Draft) { d.BuyPrice = "-5" },
			want:   []FieldError{{Field: "BuyPrice", Message: "Buy price must be a non-negative number"}},
		},
		{
			name:   "negative zero",
			mutate: func(d *models.Draft) { d.BuyPrice = "-0" },
			want:   []FieldError{{Field: "BuyPrice", Message: "Buy price must be a non-negative number"}},
		},
		{
			name:   "exponent",
			mutate: func(d *models.Draft) { d.BuyPrice = "1e3" },
			want:   []FieldError{{Field: "BuyPrice", Message: "Buy price must be a non-negative number"}},
		},
		{
			name:   "missing integer part",
			mutate: func(d *models.Draft) { d.BuyPrice = ".5" },
			want:   []FieldError{{Field: "BuyPrice", Message: "Buy price must be a non-negative number"}},
		},
		{
			name:   "hex float",
			mutate: func(d *models.Draft) { d.BuyPrice = "0x1p3" },
			want:   []FieldError{{Field: "BuyPrice", Message: "Buy price must be a non-negative number"}},
		},
		{
			name:   "not a number",
			mutate: func(d *models.Draft) { d.BuyPrice = "cheap" },
			want:   []FieldError{{Field: "BuyPrice", Message: "Buy price must be a non-negative number"}},
		},
		{
			name:   "bad date",
			mutate: func(d *models.Draft) { d.BuyDate = "01/05/2020" },
			want:   []FieldError{{Field: "BuyDate", Message: "Buy date must be a date in YYYY-MM-DD format"}},
		},
		{
			name: "blank fields",
			mutate: func(d *models.Draft) {
				d.CarName = "  "
				d.Description = ""
			},
			want: []FieldError{
				{Field: "CarName", Message: "Car name is required"},
				{Field: "Description", Message: "Description is required"},
			},
		},
		{
			name:   "everything missing",
			mutate: func(d *models.Draft) { *d = *models.NewDraft() },
			want: []FieldError{
				{Field: "CarName", Message: "Car name is required"},
				{Field: "ModelName", Message: "Model name is required"},
				{Field: "BuyDate", Message: "Buy date is required"},
				{Field: "BuyPrice", Message: "Buy price is required"},
				{Field: "Description", Message: "Description is required"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(d)

			err := e.Validate(d)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.want, verr.Fields)
		})
	}
}

func TestEditor_Submit_NegativePriceNotSent(t *testing.T) {
	fc := &fakeClient{}
	e, _ := newEditor(t, fc)

	d := validDraft()
	d.BuyPrice = "-5"

	_, err := e.Submit(context.Background(), d)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, fc.calls)
}

func TestEditor_Submit_Anonymous(t *testing.T) {
	fc := &fakeClient{}
	sm := newManager(fc, newMemStore())
	e := NewEditor(fc, sm, NewCollection(fc, sm, logging.Discard()), logging.Discard())

	_, err := e.Submit(context.Background(), validDraft())
	require.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Empty(t, fc.calls)
}

func TestEditor_Submit_Create(t *testing.T) {
	fc := &fakeClient{}
	e, col := newEditor(t, fc)
	created := &models.Car{ID: "50", CarName: "Civic"}
	fc.createRes = client.Success(created)

	d := validDraft()
	require.NoError(t, d.AddImages(models.ImageFile{Path: "/tmp/a.jpg"}))

	car, err := e.Submit(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, created, car)

	assert.Equal(t, []string{"create"}, fc.calls)
	assert.Equal(t, "T", fc.lastToken)
	assert.Equal(t, client.CarForm{
		UserID:      "1",
		CarName:     "Civic",
		ModelName:   "Type R",
		BuyDate:     "2020-05-01",
		BuyPrice:    "30000",
		Description: "Red hatch",
		Tags:        []string{"jdm"},
		Images:      []models.ImageFile{{Path: "/tmp/a.jpg"}},
	}, fc.lastForm)

	assert.Equal(t, []string{"42", "43", "44", "50"}, ids(col.Cars()))
}

func TestEditor_Submit_Update(t *testing.T) {
	fc := &fakeClient{}
	e, col := newEditor(t, fc)
	fc.updateRes = client.Success(&models.Car{ID: "42", CarName: "Civic EK9"})

	d := models.DraftFromCar(models.Car{
		ID: "42", CarName: "Civic", ModelName: "Type R", BuyDate: "2020-05-01",
		BuyPrice: 30000, Description: "Red hatch", Images: []string{"u1", "u2"},
	})
	d.CarName = "Civic EK9"
	require.NoError(t, d.RemoveExistingImage(0))

	_, err := e.Submit(context.Background(), d)
	require.NoError(t, err)

	assert.Equal(t, []string{"update"}, fc.calls)
	assert.Equal(t, "42", fc.lastID)
	assert.Equal(t, []string{"u2"}, fc.lastForm.ExistingImages)
	assert.Equal(t, "Civic EK9", col.Cars()[0].CarName)
}

func TestEditor_Submit_ServerOmitsCarRefreshes(t *testing.T) {
	fc := &fakeClient{}
	e, col := newEditor(t, fc)
	fc.createRes = client.Success[*models.Car](nil)
	fc.listRes = client.Success([]models.Car{{ID: "99"}})

	car, err := e.Submit(context.Background(), validDraft())
	require.NoError(t, err)
	assert.Nil(t, car)

	assert.Equal(t, []string{"create", "list"}, fc.calls)
	assert.Equal(t, []string{"99"}, ids(col.Cars()))
}

func TestEditor_Submit_RejectedKeepsDraft(t *testing.T) {
	fc := &fakeClient{}
	e, col := newEditor(t, fc)
	fc.createRes = client.Failure[*models.Car]("Car name already used")

	d := validDraft()
	before := *d

	_, err := e.Submit(context.Background(), d)

	var rej *RejectedError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "Car name already used", rej.Message)
	assert.Equal(t, before.CarName, d.CarName)
	assert.Equal(t, []string{"jdm"}, d.Tags())
	assert.Equal(t, ids(sampleCars), ids(col.Cars()))
}

func TestEditor_Submit_Unauthorized(t *testing.T) {
	fc := &fakeClient{}
	col, sm := loaded(t, fc)
	e := NewEditor(fc, sm, col, logging.Discard())
	fc.updateErr = client.ErrUnauthorized

	d := models.DraftFromCar(sampleCars[0])
	_, err := e.Submit(context.Background(), d)

	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, StateAnonymous, sm.State())
}
