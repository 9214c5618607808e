package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/carshowroom/internal/common"
	"github.com/dmitrijs2005/carshowroom/internal/dbx"
	"github.com/dmitrijs2005/carshowroom/internal/logging"
	"github.com/dmitrijs2005/carshowroom/internal/server/models"
	"github.com/dmitrijs2005/carshowroom/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
)

// ImageStore keeps uploaded image bytes and hands out public URLs for them.
type ImageStore interface {
	Upload(ctx context.Context, ownerID, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

// CarInput holds the scalar fields of a create or update request as sent by
// the client.
type CarInput struct {
	CarName     string `validate:"notblank"`
	ModelName   string `validate:"notblank"`
	BuyDate     string `validate:"notblank,datetime=2006-01-02"`
	BuyPrice    string `validate:"notblank,numeric"`
	Description string `validate:"notblank"`
	Tags        []string
}

// CarService manages the cars of the authenticated user. Every operation is
// scoped to callerID; cars of other users are reported as not found.
type CarService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	images      ImageStore
	log         logging.Logger
	validate    *validator.Validate
}

func NewCarService(db *sql.DB, m repomanager.RepositoryManager, images ImageStore, log logging.Logger) *CarService {
	return &CarService{
		db:          db,
		repomanager: m,
		images:      images,
		log:         log.With("module", "car_service"),
		validate:    newValidator(),
	}
}

// List returns the cars of ownerID. Only the owner may list them.
func (s *CarService) List(ctx context.Context, callerID, ownerID string) ([]models.Car, error) {
	if ownerID != callerID {
		return nil, common.ErrorForbidden
	}
	cars, err := s.repomanager.Cars(s.db).ListByUser(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("error listing cars: %w", err)
	}
	return cars, nil
}

func (s *CarService) Get(ctx context.Context, callerID, id string) (*models.Car, error) {
	car, err := s.repomanager.Cars(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if car.UserID != callerID {
		return nil, common.ErrorNotFound
	}
	return car, nil
}

// Create stores a new car with the uploaded images. Uploaded objects are
// removed again if the car cannot be saved.
func (s *CarService) Create(ctx context.Context, callerID string, in CarInput, uploads []models.Image) (*models.Car, error) {
	car, err := s.parse(in)
	if err != nil {
		return nil, err
	}
	if len(uploads) > common.MaxCarImages {
		return nil, invalid(tooManyImages)
	}

	urls, err := s.upload(ctx, callerID, uploads)
	if err != nil {
		return nil, err
	}

	car.UserID = callerID
	car.Images = urls

	created, err := s.repomanager.Cars(s.db).Create(ctx, car)
	if err != nil {
		s.discard(ctx, urls)
		return nil, fmt.Errorf("error creating car: %w", err)
	}

	s.log.Info(ctx, "car created", "car_id", created.ID, "user_id", callerID, "images", len(urls))
	return created, nil
}

// Update replaces the car's fields. The resulting image list is the kept
// subset of the current images, in the order given by keep, followed by the
// new uploads. A nil keep retains every current image. Images that are no
// longer referenced are deleted from the store after the update commits.
func (s *CarService) Update(ctx context.Context, callerID, id string, in CarInput, keep []string, uploads []models.Image) (*models.Car, error) {
	next, err := s.parse(in)
	if err != nil {
		return nil, err
	}

	var (
		updated  *models.Car
		dropped  []string
		uploaded []string
	)

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Cars(tx)

		current, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current.UserID != callerID {
			return common.ErrorNotFound
		}

		kept := keptImages(current.Images, keep)
		if len(kept)+len(uploads) > common.MaxCarImages {
			return invalid(tooManyImages)
		}

		uploaded, err = s.upload(ctx, callerID, uploads)
		if err != nil {
			return err
		}

		next.ID = current.ID
		next.UserID = current.UserID
		next.CreatedAt = current.CreatedAt
		next.Images = append(kept, uploaded...)

		updated, err = repo.Update(ctx, next)
		if err != nil {
			return err
		}

		for _, u := range current.Images {
			if !slices.Contains(kept, u) {
				dropped = append(dropped, u)
			}
		}
		return nil
	})
	if err != nil {
		s.discard(ctx, uploaded)
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating car: %w", err)
	}

	s.discard(ctx, dropped)
	s.log.Info(ctx, "car updated", "car_id", id, "user_id", callerID, "images", len(updated.Images))
	return updated, nil
}

// Delete removes the car and, once that is committed, its images.
func (s *CarService) Delete(ctx context.Context, callerID, id string) error {
	var images []string

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Cars(tx)

		car, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if car.UserID != callerID {
			return common.ErrorNotFound
		}

		images = car.Images
		return repo.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error deleting car: %w", err)
	}

	s.discard(ctx, images)
	s.log.Info(ctx, "car deleted", "car_id", id, "user_id", callerID)
	return nil
}

const tooManyImages = "Maximum 10 images allowed"

// parse validates in and converts it to a car without owner or images.
func (s *CarService) parse(in CarInput) (*models.Car, error) {
	in.CarName = strings.TrimSpace(in.CarName)
	in.ModelName = strings.TrimSpace(in.ModelName)
	in.BuyDate = strings.TrimSpace(in.BuyDate)
	in.BuyPrice = strings.TrimSpace(in.BuyPrice)
	in.Description = strings.TrimSpace(in.Description)

	if err := check(s.validate, in); err != nil {
		return nil, err
	}

	date, err := time.Parse(common.DateLayout, in.BuyDate)
	if err != nil {
		return nil, invalid("Buy date must be a date in YYYY-MM-DD format")
	}
	price, err := strconv.ParseFloat(in.BuyPrice, 64)
	if err != nil || math.Signbit(price) || math.IsInf(price, 0) || math.IsNaN(price) {
		return nil, invalid("Buy price must be a non-negative number")
	}

	return &models.Car{
		CarName:     in.CarName,
		ModelName:   in.ModelName,
		BuyDate:     date,
		BuyPrice:    price,
		Description: in.Description,
		Tags:        normalizeTags(in.Tags),
	}, nil
}

// upload stores every image or none: on failure the already stored ones are
// removed again.
func (s *CarService) upload(ctx context.Context, ownerID string, uploads []models.Image) ([]string, error) {
	urls := make([]string, 0, len(uploads))
	for _, img := range uploads {
		u, err := s.images.Upload(ctx, ownerID, img.ContentType, img.Data)
		if err != nil {
			s.discard(ctx, urls)
			return nil, fmt.Errorf("error uploading %s: %w", img.Name, err)
		}
		urls = append(urls, u)
	}
	return urls, nil
}

// discard deletes images best-effort; failures only leave orphaned objects.
func (s *CarService) discard(ctx context.Context, urls []string) {
	for _, u := range urls {
		if err := s.images.Delete(ctx, u); err != nil {
			s.log.Warn(ctx, "failed to delete image", "url", u, "error", err)
		}
	}
}

// keptImages returns the entries of keep that are current images, without
// duplicates. A nil keep keeps everything.
func keptImages(current, keep []string) []string {
	if keep == nil {
		return slices.Clone(current)
	}
	out := make([]string, 0, len(keep))
	for _, u := range keep {
		if slices.Contains(current, u) && !slices.Contains(out, u) {
			out = append(out, u)
		}
	}
	return out
}

// normalizeTags trims tags and drops blanks and exact duplicates.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}
