// Package httpapi exposes the car showroom services over the JSON and
// multipart HTTP API consumed by the client.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/carshowroom/internal/logging"
	"github.com/dmitrijs2005/carshowroom/internal/server/models"
	"github.com/dmitrijs2005/carshowroom/internal/server/services"
)

// UserService is the part of services.UserService the API needs.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Authenticate(ctx context.Context, token string) (string, error)
}

// CarService is the part of services.CarService the API needs.
type CarService interface {
	List(ctx context.Context, callerID, ownerID string) ([]models.Car, error)
	Get(ctx context.Context, callerID, id string) (*models.Car, error)
	Create(ctx context.Context, callerID string, in services.CarInput, uploads []models.Image) (*models.Car, error)
	Update(ctx context.Context, callerID, id string, in services.CarInput, keep []string, uploads []models.Image) (*models.Car, error)
	Delete(ctx context.Context, callerID, id string) error
}

// Pinger reports database health. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options configure the HTTP server.
type Options struct {
	Address       string
	CORSOrigins   []string
	MaxUploadSize int64
}

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	opts   Options
	users  UserService
	cars   CarService
	db     Pinger
	logger logging.Logger
}

func NewHTTPServer(opts Options, l logging.Logger, us UserService, cs CarService, db Pinger) *HTTPServer {
	return &HTTPServer{
		opts:   opts,
		users:  us,
		cars:   cs,
		db:     db,
		logger: l.With("module", "http_server"),
	}
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
