package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/carshowroom/internal/client/services"
	"github.com/dmitrijs2005/carshowroom/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for username, email and password, creates the account
// and signs it in.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.sessions.Signup(ctx, username, email, string(password)); err != nil {
		a.reportAuth(ctx, err)
		return err
	}

	a.println("Successfully signed up!")
	return nil
}

// Login prompts for email and password. A successful login replaces the
// current session, if any.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.sessions.Login(ctx, email, string(password)); err != nil {
		a.reportAuth(ctx, err)
		return err
	}

	a.println("Successfully logged in!")
	return nil
}

func (a *App) reportAuth(ctx context.Context, err error) {
	var rej *services.RejectedError
	if errors.As(err, &rej) {
		msg := rej.Message
		if msg == "" {
			msg = "An error occurred."
		}
		a.println(msg)
		return
	}
	a.log.Error(ctx, "authentication failed", "error", err)
	a.println(msgTryAgain)
}

// Logout forgets the session locally and in storage.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sessions.Logout(ctx); err != nil {
		a.log.Error(ctx, "logout", "error", err)
		return err
	}
	a.println("Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	s, err := a.sessions.Current()
	if err != nil {
		a.report(ctx, "", err)
		return err
	}
	a.printf("%s <%s> (id %s)\n", s.User.Username, s.User.Email, s.User.ID)
	return nil
}
