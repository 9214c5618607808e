package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/carshowroom/internal/client/models"
	"github.com/dmitrijs2005/carshowroom/internal/common"
	"github.com/dustin/go-humanize"
)

func formatPrice(p float64) string {
	return "$" + humanize.Commaf(p)
}

func formatDate(c models.Car) string {
	t, err := c.PurchaseDate()
	if err != nil {
		return c.BuyDate
	}
	return t.Format(common.DateLayout)
}

// carLine is the one-line dashboard entry of c.
func carLine(c models.Car) string {
	line := fmt.Sprintf("[%s] %s %s · %s · bought %s", c.ID, c.CarName, c.ModelName, formatPrice(c.BuyPrice), formatDate(c))
	if len(c.Tags) > 0 {
		line += " · #" + strings.Join(c.Tags, " #")
	}
	return line
}

func carDetails(c models.Car) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", c.CarName, c.ModelName)
	fmt.Fprintf(&b, "  id:          %s\n", c.ID)
	fmt.Fprintf(&b, "  price:       %s\n", formatPrice(c.BuyPrice))
	if t, err := c.PurchaseDate(); err == nil {
		fmt.Fprintf(&b, "  bought:      %s (%s)\n", t.Format(common.DateLayout), humanize.Time(t))
	} else {
		fmt.Fprintf(&b, "  bought:      %s\n", c.BuyDate)
	}
	fmt.Fprintf(&b, "  description: %s\n", c.Description)
	if len(c.Tags) > 0 {
		fmt.Fprintf(&b, "  tags:        %s\n", strings.Join(c.Tags, ", "))
	}
	for i, img := range c.Images {
		fmt.Fprintf(&b, "  image %d:     %s\n", i+1, img)
	}
	return strings.TrimRight(b.String(), "\n")
}

func draftSummary(d *models.Draft) string {
	var b strings.Builder

	mode := "New car"
	if d.IsEdit() {
		mode = "Editing car " + d.CarID()
	}
	fmt.Fprintf(&b, "%s\n", mode)
	fmt.Fprintf(&b, "  car name:    %s\n", d.CarName)
	fmt.Fprintf(&b, "  model name:  %s\n", d.ModelName)
	fmt.Fprintf(&b, "  buy date:    %s\n", d.BuyDate)
	fmt.Fprintf(&b, "  buy price:   %s\n", d.BuyPrice)
	fmt.Fprintf(&b, "  description: %s\n", d.Description)
	fmt.Fprintf(&b, "  tags:        %s\n", strings.Join(d.Tags(), ", "))
	fmt.Fprintf(&b, "  images (%d/%d):\n", d.ImageCount(), common.MaxCarImages)

	n := 1
	for _, ref := range d.ExistingImages() {
		fmt.Fprintf(&b, "    %d. %s\n", n, ref)
		n++
	}
	for _, f := range d.NewImages() {
		fmt.Fprintf(&b, "    %d. %s (new)\n", n, f.Path)
		n++
	}
	return strings.TrimRight(b.String(), "\n")
}
