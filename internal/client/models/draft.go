package models

import (
	"fmt"
	"slices"

	"github.com/dmitrijs2005/carshowroom/internal/common"
)

// ImageFile is a local file queued for upload with the next submit.
type ImageFile struct {
	Path string
}

// Draft is the working copy behind the car form. Images are split into
// references that are already stored remotely and local files pending
// upload; both lists together never exceed common.MaxCarImages.
type Draft struct {
	CarName     string `validate:"notblank"`
	ModelName   string `validate:"notblank"`
	BuyDate     string `validate:"notblank,datetime=2006-01-02"`
	BuyPrice    string `validate:"notblank,price"`
	Description string `validate:"notblank"`

	carID          string
	tags           []string
	existingImages []string
	newImages      []ImageFile
}

// NewDraft returns an empty draft for creating a car.
func NewDraft() *Draft {
	return &Draft{}
}

// DraftFromCar returns a draft for editing c. Submitting it updates c.
func DraftFromCar(c Car) *Draft {
	d := &Draft{
		CarName:        c.CarName,
		ModelName:      c.ModelName,
		BuyDate:        c.BuyDate,
		BuyPrice:       c.PriceText(),
		Description:    c.Description,
		carID:          c.ID,
		existingImages: slices.Clone(c.Images),
	}
	if t, err := c.PurchaseDate(); err == nil {
		d.BuyDate = t.Format(common.DateLayout)
	}
	for _, tag := range c.Tags {
		d.AddTag(tag)
	}
	return d
}

// CarID is empty in create mode.
func (d *Draft) CarID() string { return d.carID }

// IsEdit reports whether submitting d updates an existing car.
func (d *Draft) IsEdit() bool { return d.carID != "" }

// Tags returns a copy of the tag set in insertion order.
func (d *Draft) Tags() []string { return slices.Clone(d.tags) }

// AddTag appends tag unless it is empty or already present (exact match).
// It reports whether the set changed.
func (d *Draft) AddTag(tag string) bool {
	if tag == "" || slices.Contains(d.tags, tag) {
		return false
	}
	d.tags = append(d.tags, tag)
	return true
}

// RemoveTag drops every occurrence of tag. Absent tags are ignored.
func (d *Draft) RemoveTag(tag string) {
	d.tags = slices.DeleteFunc(d.tags, func(t string) bool { return t == tag })
}

// ExistingImages returns the remote references that will be kept.
func (d *Draft) ExistingImages() []string { return slices.Clone(d.existingImages) }

// NewImages returns the local files that will be uploaded.
func (d *Draft) NewImages() []ImageFile { return slices.Clone(d.newImages) }

// ImageCount is the total of kept and pending images.
func (d *Draft) ImageCount() int { return len(d.existingImages) + len(d.newImages) }

// AddImages queues files for upload. The whole batch is rejected with
// common.ErrTooManyImages when it would push the total past the limit.
func (d *Draft) AddImages(files ...ImageFile) error {
	if d.ImageCount()+len(files) > common.MaxCarImages {
		return common.ErrTooManyImages
	}
	d.newImages = append(d.newImages, files...)
	return nil
}

// RemoveExistingImage drops the kept reference at index i.
func (d *Draft) RemoveExistingImage(i int) error {
	if i < 0 || i >= len(d.existingImages) {
		return fmt.Errorf("no existing image at position %d", i+1)
	}
	d.existingImages = slices.Delete(d.existingImages, i, i+1)
	return nil
}

// RemoveNewImage drops the pending file at index i.
func (d *Draft) RemoveNewImage(i int) error {
	if i < 0 || i >= len(d.newImages) {
		return fmt.Errorf("no new image at position %d", i+1)
	}
	d.newImages = slices.Delete(d.newImages, i, i+1)
	return nil
}
