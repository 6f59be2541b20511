package app

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	ticketinghttp "ticketing/internal/interfaces/http"
)

const shutdownTimeout = 10 * time.Second

// App runs the HTTP server of one service and, for consumers, its message router.
type App struct {
	name   string
	logger zerolog.Logger
	router *message.Router
	srv    *ticketinghttp.Server
}

func newApp(name string, router *message.Router, srv *ticketinghttp.Server) *App {
	return &App{
		name:   name,
		logger: zerolog.New(os.Stdout).With().Timestamp().Str("service", name).Logger(),
		router: router,
		srv:    srv,
	}
}

// Handler exposes the HTTP routes without starting a listener.
func (a *App) Handler() http.Handler {
	return a.srv.Handler()
}

func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if a.router != nil {
		g.Go(func() error {
			a.logger.Info().Msg("starting router")

			return a.router.Run(ctx)
		})
	}

	g.Go(func() error {
		if a.router != nil {
			select {
			case <-a.router.Running():
				a.logger.Info().Msg("router is running")
			case <-ctx.Done():
				return nil
			}
		}

		a.logger.Info().Msg("starting server")
		return a.srv.Start()
	})

	g.Go(func() error {
		// Shut down
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := a.srv.Stop(shutdownCtx)
		if err != nil {
			a.logger.Err(err).Msg("error stopping server")
		}

		return err
	})

	// Will block until all goroutines finish
	err := g.Wait()
	if err != nil {
		a.logger.Err(err).Msg("app stopped with error")
		return err
	}

	a.logger.Info().Msg("app stopped")
	return nil
}
