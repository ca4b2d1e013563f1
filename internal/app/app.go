package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/boolmaze-server/internal/config"
	"github.com/vancomm/boolmaze-server/internal/database"
	"github.com/vancomm/boolmaze-server/internal/middleware"
	"github.com/vancomm/boolmaze-server/internal/repository"
	"github.com/vancomm/boolmaze-server/internal/session"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	logger   *logrus.Logger
	router   *http.ServeMux
	records  repository.Recorder
	sessions *session.Registry
	cookies  *config.Cookies
	ws       *config.WebSocket
	lifetime *config.Sessions
	closers  []func()
}

func New(logger *logrus.Logger) *App {
	return &App{
		logger: logger,
		router: http.NewServeMux(),
	}
}

// openRecords opens the store solved sessions are written to.
func (a *App) openRecords(ctx context.Context) error {
	cfg, err := config.NewRecords()
	if err != nil {
		return err
	}

	switch cfg.Kind {
	case config.RecordsPostgres:
		db, migrator, err := database.ConnectAndMigrate(ctx, cfg)
		if err != nil {
			return fmt.Errorf("unable to connect to db: %w", err)
		}
		migrator.Close()
		a.closers = append(a.closers, db.Close)
		a.records = repository.New(db)
	case config.RecordsSQLite:
		db, err := database.OpenSQLite(cfg.Path)
		if err != nil {
			return err
		}
		store := repository.NewSQLite(db)
		a.closers = append(a.closers, func() { store.Close() })
		a.records = store
	default:
		a.records = repository.Discard
		a.logger.Warn("no database configured, solved sessions are not recorded")
		return nil
	}

	a.logger.WithField("store", cfg.Kind).Info("recording solved sessions")
	return nil
}

func (a *App) recordSolve(snap session.Snapshot) {
	if snap.EndedAt == nil {
		return
	}
	record := repository.Record{
		SessionID: snap.ID.String(),
		ModuleID:  snap.ModuleID,
		Serial:    snap.Maze.Serial,
		Strikes:   snap.Strikes,
		Presses:   snap.Presses,
		StartedAt: snap.StartedAt,
		EndedAt:   *snap.EndedAt,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log := a.logger.WithField("session", snap.ID)
	err := a.records.CreateRecord(ctx, record)
	if errors.Is(err, repository.ErrRecordExists) {
		log.Warn("record already stored")
		return
	}
	if err != nil {
		log.WithError(err).Error("unable to store record")
	}
}

func (a *App) setup(ctx context.Context) error {
	if err := a.openRecords(ctx); err != nil {
		return err
	}

	j, err := config.NewJWT()
	if err != nil {
		return err
	}

	cookies, err := config.NewCookies(j)
	if err != nil {
		return err
	}
	a.cookies = cookies

	ws, err := config.NewWebSocket()
	if err != nil {
		return err
	}
	a.ws = ws

	lifetime, err := config.NewSessions()
	if err != nil {
		return err
	}
	a.lifetime = lifetime

	a.initSessions()
	a.loadRoutes()
	return nil
}

func (a *App) initSessions(opts ...session.Option) {
	a.sessions = session.NewRegistry(a.logger, createRand(), opts...)
	a.sessions.OnSolve(a.recordSolve)
}

func (a *App) handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Auth(a.logger, a.cookies),
		middleware.Cors(),
		middleware.Logging(a.logger),
	)
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *App) Start(ctx context.Context) error {
	if err := a.setup(ctx); err != nil {
		a.close()
		return err
	}
	defer a.close()

	server := &http.Server{
		Addr:    config.Addr(),
		Handler: a.handler(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.WithField("addr", server.Addr).Info("server listening")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return a.sessions.Run(ctx, a.lifetime.ReapInterval, a.lifetime.IdleTTL)
	})

	return g.Wait()
}
