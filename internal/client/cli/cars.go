package cli

import (
	"context"
)

// List prints the cached cars matching query, loading them first if needed.
func (a *App) List(ctx context.Context, query string) error {
	if err := a.cars.Ensure(ctx); err != nil {
		a.report(ctx, "Error fetching cars", err)
		return err
	}

	cars := a.cars.Filter(query)
	if len(cars) == 0 {
		if query == "" {
			a.println("No cars yet. Use 'add' to create one.")
		} else {
			a.printf("No cars match %q\n", query)
		}
		return nil
	}

	for _, c := range cars {
		a.println(carLine(c))
	}
	return nil
}

// Refresh reloads the collection from the server.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.cars.Refresh(ctx); err != nil {
		a.report(ctx, "Error fetching cars", err)
		return err
	}
	a.printf("Loaded %d cars\n", len(a.cars.Cars()))
	return nil
}

// Show prints a single car as stored on the server.
func (a *App) Show(ctx context.Context, id string) error {
	car, err := a.cars.Fetch(ctx, id)
	if err != nil {
		a.report(ctx, "", err)
		return err
	}
	a.println(carDetails(car))
	return nil
}

// Delete removes a car after confirmation.
func (a *App) Delete(ctx context.Context, id string) error {
	ok, err := Confirm(a.reader, "Are you sure you want to delete this car?", a.out)
	if err != nil || !ok {
		return err
	}

	if err := a.cars.Delete(ctx, id); err != nil {
		a.report(ctx, "Failed to delete car", err)
		return err
	}
	a.println("Car deleted successfully")
	return nil
}
