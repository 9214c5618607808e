package models

import "time"

// Car is a collection record owned by UserID. Images hold public URLs of
// objects in the image store, in display order.
type Car struct {
	ID          string
	UserID      string
	CarName     string
	ModelName   string
	BuyDate     time.Time
	BuyPrice    float64
	Description string
	Tags        []string
	Images      []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Image is an uploaded file on its way to the image store.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}
