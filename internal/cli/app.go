package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sandeepkv93/petd/internal/config"
	"github.com/sandeepkv93/petd/internal/events"
	"github.com/sandeepkv93/petd/internal/flavor"
	"github.com/sandeepkv93/petd/internal/metrics"
	"github.com/sandeepkv93/petd/internal/scheduler"
	"github.com/sandeepkv93/petd/internal/session"
	"github.com/sandeepkv93/petd/internal/storage"
)

// app is everything a command needs once configuration is resolved.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     storage.Store
	storeOpts storage.Options
	publisher events.Publisher
	metrics   *metrics.Recorder
	session   *session.Session
	flavor    *flavor.Service
	scheduler *scheduler.Engine
}

type openOptions struct {
	// logToFile sends logs to the data dir instead of stderr, so they do not tear the TUI.
	logToFile bool
	// reminders starts the scheduler when the config enables it.
	reminders bool
}

func loadConfig(flags *rootFlags, stderr io.Writer) (*config.Config, *slog.Logger, error) {
	level := flags.logLevel
	if level == "" {
		level = "warn"
	}
	bootstrap := config.NewLogger(stderr, level)
	cfg, err := config.NewLoader(bootstrap).Load(flags.configPath)
	if err != nil {
		return nil, nil, err
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if _, err := config.ParseLogLevel(cfg.LogLevel); err != nil {
		return nil, nil, err
	}
	return cfg, bootstrap, nil
}

func storageOptions(cfg *config.Config) storage.Options {
	return storage.Options{
		Backend:       cfg.Storage.Backend,
		SQLitePath:    cfg.Storage.SQLitePath,
		FileDir:       cfg.Storage.FileDir,
		RedisAddr:     cfg.Storage.Redis.Addr,
		RedisPassword: cfg.Storage.Redis.Password,
		RedisDB:       cfg.Storage.Redis.DB,
		RedisPrefix:   cfg.Storage.Redis.Prefix,
	}
}

// openApp resolves config and opens the store, publisher, metrics, session and flavor
// service. The returned cleanup flushes pending writes and closes everything in reverse order.
func openApp(ctx context.Context, flags *rootFlags, stderr io.Writer, opts openOptions) (*app, func(), error) {
	cfg, bootstrap, err := loadConfig(flags, stderr)
	if err != nil {
		return nil, nil, err
	}

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*app, func(), error) {
		cleanup()
		return nil, nil, err
	}

	logger := config.NewLogger(stderr, cfg.LogLevel)
	if opts.logToFile {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fail(fmt.Errorf("create data dir: %w", err))
		}
		f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fail(fmt.Errorf("open log file: %w", err))
		}
		closers = append(closers, func() { _ = f.Close() })
		logger = config.NewLogger(f, cfg.LogLevel)
	}

	key, err := config.NewLoader(bootstrap).EnsureDeviceKey(cfg)
	if err != nil {
		return fail(err)
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return fail(err)
	}
	actions, err := cfg.ActionCatalog()
	if err != nil {
		return fail(err)
	}

	storeOpts := storageOptions(cfg)
	store, err := storage.Open(ctx, storeOpts)
	if err != nil {
		return fail(fmt.Errorf("open %s store: %w", cfg.Storage.Backend, err))
	}
	closers = append(closers, func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close store", slog.Any("error", err))
		}
	})

	var publisher events.Publisher = events.Noop{}
	if cfg.Events.NATSURL != "" {
		nc, err := events.ConnectNATS(cfg.Events.NATSURL, cfg.Events.SubjectPrefix)
		if err != nil {
			logger.Warn("Events disabled", slog.String("url", cfg.Events.NATSURL), slog.Any("error", err))
		} else {
			publisher = nc
		}
	}
	closers = append(closers, func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("Failed to close event publisher", slog.Any("error", err))
		}
	})

	recorder := metrics.NewRecorder()

	var sched *scheduler.Engine
	if opts.reminders && cfg.Routine.Reminders {
		sched = scheduler.NewEngine(cfg.Routine.SchedulerBuffer)
		sched.Start()
		closers = append(closers, sched.Stop)
	}

	sess, err := session.Open(ctx, store, session.Options{
		Key:       key,
		Catalog:   catalog,
		Actions:   actions,
		Logger:    logger,
		Publisher: publisher,
		Metrics:   recorder,
		Scheduler: sched,
	})
	if err != nil {
		return fail(fmt.Errorf("open session: %w", err))
	}
	closers = append(closers, sess.Close)
	if sched != nil {
		n := sess.PlanReminders()
		logger.Debug("Planned reminders", slog.Int("count", n))
	}

	flavorSvc, err := flavor.FromConfig(cfg.Flavor, logger, recorder)
	if err != nil {
		return fail(err)
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		storeOpts: storeOpts,
		publisher: publisher,
		metrics:   recorder,
		session:   sess,
		flavor:    flavorSvc,
		scheduler: sched,
	}, cleanup, nil
}
