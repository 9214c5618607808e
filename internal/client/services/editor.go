package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/carshowroom/internal/client/client"
	"github.com/dmitrijs2005/carshowroom/internal/client/models"
	"github.com/dmitrijs2005/carshowroom/internal/logging"
	"github.com/go-playground/validator/v10"
)

var fieldLabels = map[string]string{
	"CarName":     "Car name",
	"ModelName":   "Model name",
	"BuyDate":     "Buy date",
	"BuyPrice":    "Buy price",
	"Description": "Description",
}

// Editor validates drafts and submits them to the server.
type Editor struct {
	client   client.Client
	sessions *SessionManager
	cars     *Collection
	log      logging.Logger
	validate *validator.Validate
}

func NewEditor(c client.Client, sm *SessionManager, cars *Collection, log logging.Logger) *Editor {
	v := validator.New(validator.WithRequiredStructEnabled())
	// registration only fails on an empty tag or a nil func
	_ = v.RegisterValidation("notblank", notBlank)
	_ = v.RegisterValidation("price", nonNegativePrice)

	return &Editor{client: c, sessions: sm, cars: cars, log: log, validate: v}
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// priceGrammar is the grammar of the validator's numeric tag, which the
// server applies to the same field. Exponents and hex floats are refused.
var priceGrammar = regexp.MustCompile(`^[-+]?[0-9]+(?:\.[0-9]+)?$`)

func nonNegativePrice(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if !priceGrammar.MatchString(s) {
		return false
	}
	v, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.Signbit(v) && !math.IsInf(v, 0)
}

// Validate checks the draft's scalar fields. It returns *ValidationError
// listing every offending field.
func (e *Editor) Validate(d *models.Draft) error {
	err := e.validate.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate draft: %w", err)
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		label := fieldLabels[fe.Field()]
		if label == "" {
			label = fe.Field()
		}

		var msg string
		switch fe.Tag() {
		case "datetime":
			msg = label + " must be a date in YYYY-MM-DD format"
		case "price":
			msg = label + " must be a non-negative number"
		default:
			msg = label + " is required"
		}
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}

// Submit creates or updates the car behind d. Nothing is sent when the
// session is missing or the draft is invalid. On success the collection is
// updated and the stored car returned (nil if the server did not echo it).
// On failure d is left as it was.
func (e *Editor) Submit(ctx context.Context, d *models.Draft) (*models.Car, error) {
	s, err := e.sessions.Current()
	if err != nil {
		return nil, err
	}
	if err := e.Validate(d); err != nil {
		return nil, err
	}

	form := client.CarForm{
		UserID:      s.User.ID,
		CarName:     strings.TrimSpace(d.CarName),
		ModelName:   strings.TrimSpace(d.ModelName),
		BuyDate:     strings.TrimSpace(d.BuyDate),
		BuyPrice:    strings.TrimSpace(d.BuyPrice),
		Description: strings.TrimSpace(d.Description),
		Tags:        d.Tags(),
		Images:      d.NewImages(),
	}

	var res client.Result[*models.Car]
	if d.IsEdit() {
		form.ExistingImages = d.ExistingImages()
		res, err = e.client.UpdateCar(ctx, d.CarID(), form, s.Token)
	} else {
		res, err = e.client.CreateCar(ctx, form, s.Token)
	}
	if err != nil {
		return nil, e.sessions.HandleError(ctx, err)
	}
	if !res.OK() {
		return nil, &RejectedError{Message: res.Message}
	}

	switch {
	case !e.cars.Loaded():
		// the next Ensure fetches everything anyway
	case res.Value != nil:
		e.cars.Upsert(*res.Value)
	default:
		if err := e.cars.Refresh(ctx); err != nil {
			e.log.Warn(ctx, "refresh after save failed", "error", err)
		}
	}

	return res.Value, nil
}
