package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/swamp-dev/eunoia/internal/clock"
	"github.com/swamp-dev/eunoia/internal/config"
	"github.com/swamp-dev/eunoia/internal/gateway"
	"github.com/swamp-dev/eunoia/internal/report"
	"github.com/swamp-dev/eunoia/internal/sample"
	"github.com/swamp-dev/eunoia/internal/service"
	"github.com/swamp-dev/eunoia/internal/store"
)

// app holds the wired components one command invocation uses.
type app struct {
	cfg     *config.Config
	store   *store.Store
	records *service.Services
	reports *report.Service
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return newApp(ctx, cfg, clock.System{}, logger)
}

func newApp(ctx context.Context, cfg *config.Config, c clock.Clock, logger *slog.Logger) (*app, error) {
	if logger == nil {
		logger = slog.Default()
	}

	kv, err := store.OpenBackend(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}
	st := store.New(kv,
		store.WithLogger(logger.With("component", "store")),
		store.WithSampleSeeder(sample.Seeder(c)),
	)

	records := service.New(st, service.Options{
		Clock:        c,
		StreakPolicy: service.StreakPolicy(cfg.Habits.StreakPolicy),
		PastPolicy:   service.PastReminderPolicy(cfg.Reminders.PastPolicy),
		Logger:       logger.With("component", "service"),
	})

	gw, err := gateway.New(cfg.Gateway, logger.With("component", "gateway"))
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("creating %s gateway: %w", cfg.Gateway.Kind, err)
	}
	engine := report.NewEngine(gw, report.WithClock(c), report.WithLogger(logger.With("component", "report")))

	logger.Debug("components ready",
		"storage", cfg.Storage.Backend,
		"gateway", gw.Name(),
		"mode", cfg.Mode,
	)
	return &app{
		cfg:     cfg,
		store:   st,
		records: records,
		reports: report.NewService(records, engine),
	}, nil
}

// scope is the storage scope named by the configured mode and user.
func (a *app) scope() store.Scope {
	if a.cfg.Mode == string(store.ModeSample) {
		return store.Sample()
	}
	return store.User(a.cfg.User.ID)
}

func (a *app) Close() error {
	return a.store.Close()
}
