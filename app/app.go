package app

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/jekabolt/grbpwr-waitlist/config"
	httpapi "github.com/jekabolt/grbpwr-waitlist/internal/api/http"
	"github.com/jekabolt/grbpwr-waitlist/internal/auth/jwt"
	"github.com/jekabolt/grbpwr-waitlist/internal/dependency"
	"github.com/jekabolt/grbpwr-waitlist/internal/store"
	"github.com/jekabolt/grbpwr-waitlist/internal/waitlist"
)

// App is the main application
type App struct {
	hs   *httpapi.Server
	db   dependency.Repository
	c    *config.Config
	done chan struct{}
}

// New returns a new instance of App
func New(c *config.Config) *App {
	return &App{
		c:    c,
		done: make(chan struct{}),
	}
}

// Open connects to the configured database and builds the waitlist service on top of it.
func Open(ctx context.Context, c *config.Config) (*waitlist.Service, dependency.Repository, error) {
	db, err := store.New(ctx, c.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't connect to mysql: %w", err)
	}
	return waitlist.New(&c.Waitlist, db), db, nil
}

// Start starts the app
func (a *App) Start(ctx context.Context) error {
	slog.Default().InfoContext(ctx, "starting waitlist")

	jwtAuth, err := jwt.New(&a.c.Auth)
	if err != nil {
		slog.Default().ErrorContext(ctx, "invalid auth config", slog.String("err", err.Error()))
		return err
	}

	svc, db, err := Open(ctx, a.c)
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't connect to mysql", slog.String("err", err.Error()))
		return err
	}
	a.db = db

	// start API server
	a.hs = httpapi.New(&a.c.HTTP, svc, jwtAuth)
	if err = a.hs.Start(ctx); err != nil {
		slog.Default().ErrorContext(ctx, "cannot start http server", slog.String("err", err.Error()))
		return err
	}

	go func() {
		<-a.hs.Done()
		a.closeDone()
	}()

	return nil
}

// Stop stops the application and waits for all services to exit
func (a *App) Stop(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if a.hs != nil {
		if err := a.hs.Stop(ctx); err != nil {
			slog.Default().ErrorContext(ctx, "http server shutdown failed", slog.String("err", err.Error()))
		}
	}
	if a.db != nil {
		a.db.Close()
	}
	a.closeDone()
}

func (a *App) closeDone() {
	select {
	case <-a.done:
	default:
		close(a.done)
	}
}

// Done returns a channel that is closed after the application has exited
func (a *App) Done() chan struct{} {
	return a.done
}
