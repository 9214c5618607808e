package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/carshowroom/internal/client/client"
	"github.com/dmitrijs2005/carshowroom/internal/client/config"
	"github.com/dmitrijs2005/carshowroom/internal/client/repositories"
	"github.com/dmitrijs2005/carshowroom/internal/client/services"
	"github.com/dmitrijs2005/carshowroom/internal/logging"
)

type App struct {
	config   *config.Config
	sessions *services.SessionManager
	cars     *services.Collection
	editor   *services.Editor
	log      logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	closeFn  func() error
}

// NewApp opens the local database and builds the services on top of the
// HTTP API client.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	repos, err := repositories.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	api, err := client.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	a := newApp(c, api, repos.Metadata, log, os.Stdin, os.Stdout)
	a.closeFn = repos.Close
	return a, nil
}

func newApp(c *config.Config, api client.Client, store services.Store, log logging.Logger, in io.Reader, out io.Writer) *App {
	sm := services.NewSessionManager(api, store, log)
	cars := services.NewCollection(api, sm, log)

	return &App{
		config:   c,
		sessions: sm,
		cars:     cars,
		editor:   services.NewEditor(api, sm, cars, log),
		log:      log,
		reader:   bufio.NewReader(in),
		out:      out,
	}
}

// Run restores the previous session and serves commands until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.closeFn != nil {
			if err := a.closeFn(); err != nil {
				a.log.Error(ctx, "failed to close database", "error", err)
			}
		}
	}()

	if err := a.sessions.Restore(ctx); err != nil {
		a.log.Warn(ctx, "could not restore session", "error", err)
	}

	a.println("Welcome to carshowroom (type 'help' for commands)")
	if s, err := a.sessions.Current(); err == nil {
		a.println("Signed in as", s.User.Username)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	_, err := a.sessions.Current()
	return err == nil
}

func (a *App) getStatus() string {
	s, err := a.sessions.Current()
	if err != nil {
		return ""
	}
	return fmt.Sprintf(" (%s)", s.User.Username)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
