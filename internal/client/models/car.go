package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/carshowroom/internal/common"
)

// Car is a record of the signed-in user's collection as acknowledged by the
// server. Images are remote references (URLs).
type Car struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"userId"`
	CarName     string   `json:"carName"`
	ModelName   string   `json:"modelName"`
	BuyDate     string   `json:"buyDate"`
	BuyPrice    float64  `json:"buyPrice"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Images      []string `json:"images"`
}

// PriceText renders BuyPrice the way it is searched and submitted: shortest
// decimal form, no exponent, no trailing zeros.
func (c Car) PriceText() string {
	return strconv.FormatFloat(c.BuyPrice, 'f', -1, 64)
}

// PurchaseDate parses BuyDate. Full timestamps are accepted too, only the
// calendar day is kept.
func (c Car) PurchaseDate() (time.Time, error) {
	return ParseDate(c.BuyDate)
}

// ParseDate accepts "2006-01-02" or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(common.DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// UnmarshalJSON tolerates document-store payloads: the id may come as "_id"
// and buyPrice may be a JSON string.
func (c *Car) UnmarshalJSON(b []byte) error {
	type plain Car
	var aux struct {
		plain
		MongoID  string          `json:"_id"`
		BuyPrice json.RawMessage `json:"buyPrice"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	*c = Car(aux.plain)
	if c.ID == "" {
		c.ID = aux.MongoID
	}

	price, err := parsePrice(aux.BuyPrice)
	if err != nil {
		return err
	}
	c.BuyPrice = price
	return nil
}

func parsePrice(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("invalid buyPrice %s", string(raw))
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid buyPrice %q", s)
	}
	return n, nil
}
