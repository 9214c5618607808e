package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/carshowroom/internal/client/client"
	"github.com/dmitrijs2005/carshowroom/internal/client/models"
	"github.com/dmitrijs2005/carshowroom/internal/client/services"
	"github.com/dmitrijs2005/carshowroom/internal/common"
)

const formHelp = `Form commands:
  fields            re-enter the car fields
  tag <a, b, ...>   add tags
  untag <tag>       remove a tag
  img <path ...>    attach image files
  rmimg <n>         remove image number n
  show              show the form
  save              submit
  cancel            discard changes`

// Add opens an empty car form.
func (a *App) Add(ctx context.Context) error {
	return a.runForm(ctx, models.NewDraft())
}

// Edit opens the form prefilled with the car's current data.
func (a *App) Edit(ctx context.Context, id string) error {
	car, err := a.cars.Fetch(ctx, id)
	if err != nil {
		a.report(ctx, "", err)
		return err
	}
	return a.runForm(ctx, models.DraftFromCar(car))
}

// runForm edits d until it is saved or cancelled. A failed save keeps the
// draft so the user can fix it and save again.
func (a *App) runForm(ctx context.Context, d *models.Draft) error {
	if err := a.promptFields(d); err != nil {
		return err
	}
	if err := a.promptExtras(d); err != nil {
		return err
	}
	a.println(draftSummary(d))

	action := "create"
	if d.IsEdit() {
		action = "update"
	}

	for {
		line, err := getSimpleText(a.reader, "Form command (save, cancel, help)", a.out)
		if err != nil {
			return err
		}
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch cmd {
		case "help":
			a.println(formHelp)

		case "fields":
			if err := a.promptFields(d); err != nil {
				return err
			}

		case "tag":
			for _, t := range SplitList(rest) {
				if !d.AddTag(t) {
					a.printf("Tag %q is already set\n", t)
				}
			}

		case "untag":
			d.RemoveTag(rest)

		case "img":
			a.attachImages(d, strings.Fields(rest))

		case "rmimg":
			if err := removeImage(d, rest); err != nil {
				a.println(err.Error())
			}

		case "show":
			a.println(draftSummary(d))

		case "save":
			_, err := a.editor.Submit(ctx, d)
			if err == nil {
				a.printf("Car %sd successfully!\n", action)
				return nil
			}
			a.report(ctx, fmt.Sprintf("Failed to %s car", action), err)
			if errors.Is(err, services.ErrNotAuthenticated) || errors.Is(err, client.ErrUnauthorized) {
				return err
			}

		case "cancel":
			a.println("Changes discarded")
			return nil

		case "":
			// blank line
		default:
			a.println("Unknown form command:", cmd)
		}
	}
}

func (a *App) promptFields(d *models.Draft) error {
	fields := []struct {
		prompt string
		value  *string
	}{
		{"Car name", &d.CarName},
		{"Model name", &d.ModelName},
		{"Buy date (YYYY-MM-DD)", &d.BuyDate},
		{"Buy price", &d.BuyPrice},
	}
	for _, f := range fields {
		v, err := GetWithDefault(a.reader, f.prompt, *f.value, a.out)
		if err != nil {
			return err
		}
		*f.value = v
	}

	prompt := "Description"
	if d.Description != "" {
		prompt += " (empty keeps the current one)"
	}
	desc, err := GetMultiline(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if desc != "" {
		d.Description = desc
	}
	return nil
}

func (a *App) promptExtras(d *models.Draft) error {
	tags, err := getSimpleText(a.reader, "Tags to add, comma separated (empty to skip)", a.out)
	if err != nil {
		return err
	}
	for _, t := range SplitList(tags) {
		d.AddTag(t)
	}

	paths, err := getSimpleText(a.reader, "Image files to attach, space separated (empty to skip)", a.out)
	if err != nil {
		return err
	}
	a.attachImages(d, strings.Fields(paths))
	return nil
}

// attachImages adds the files as one batch; the batch is refused as a whole
// when it would exceed the image limit.
func (a *App) attachImages(d *models.Draft, paths []string) {
	if len(paths) == 0 {
		return
	}

	files := make([]models.ImageFile, 0, len(paths))
	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil || st.IsDir() {
			a.printf("Cannot read image %s\n", p)
			return
		}
		files = append(files, models.ImageFile{Path: p})
	}

	if err := d.AddImages(files...); err != nil {
		a.println(msgTooManyImages)
		return
	}
	a.printf("Images: %d/%d\n", d.ImageCount(), common.MaxCarImages)
}

// removeImage drops image n (1-based) in the order shown by draftSummary:
// kept images first, then new ones.
func removeImage(d *models.Draft, arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return fmt.Errorf("usage: rmimg <n>")
	}

	existing := len(d.ExistingImages())
	if n <= existing {
		return d.RemoveExistingImage(n - 1)
	}
	return d.RemoveNewImage(n - existing - 1)
}
