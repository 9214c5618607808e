package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/carshowroom/internal/client/client"
	"github.com/dmitrijs2005/carshowroom/internal/client/services"
	"github.com/dmitrijs2005/carshowroom/internal/common"
)

const (
	msgTryAgain      = "Something went wrong. Please try again."
	msgUnauthorized  = "Unauthorized! Please log in."
	msgTooManyImages = "Maximum 10 images allowed"
)

// report turns err into the message the user sees. Server refusals are shown
// with the failure prefix (or verbatim when it is empty); transport errors
// are logged and replaced with a generic hint.
func (a *App) report(ctx context.Context, failure string, err error) {
	var (
		verr *services.ValidationError
		rej  *services.RejectedError
	)

	switch {
	case errors.As(err, &verr):
		for _, f := range verr.Fields {
			a.println(f.Message)
		}
	case errors.As(err, &rej):
		if failure == "" {
			a.println(rej.Message)
		} else {
			a.println(failure + ": " + rej.Message)
		}
	case errors.Is(err, services.ErrNotAuthenticated), errors.Is(err, client.ErrUnauthorized):
		a.println(msgUnauthorized)
	case errors.Is(err, common.ErrTooManyImages):
		a.println(msgTooManyImages)
	default:
		a.log.Error(ctx, "request failed", "action", failure, "error", err)
		a.println(msgTryAgain)
	}
}
