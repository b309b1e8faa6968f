package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/calderlane/promptward/internal/domain"
	"github.com/calderlane/promptward/internal/infrastructure/config"
	"github.com/calderlane/promptward/internal/infrastructure/model"
	"github.com/calderlane/promptward/internal/infrastructure/trace"
	"github.com/calderlane/promptward/internal/infrastructure/wrappers"
	"github.com/calderlane/promptward/internal/pkg/logger"
	"github.com/calderlane/promptward/internal/ports"
	"github.com/calderlane/promptward/internal/services"
)

// Options configures container construction.
type Options struct {
	Verbose    bool
	ConfigPath string
}

// Container wires up the monitor core with infrastructure adapters.
type Container struct {
	Monitor        *services.MonitorService
	ConfigProvider ports.ConfigProvider
	Config         domain.Config
	Wrappers       ports.WrapperFactory
	TraceStore     ports.TraceStore
	Model          ports.ModelClient
	Logger         ports.Logger
}

// BuildContainer constructs the dependency graph. Configuration problems
// surface here, at startup, before any request is accepted.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.New(opts.Verbose)

	registry, err := wrappers.NewRegistry(cfg.Wrappers)
	if err != nil {
		return nil, err
	}

	store := buildTraceStore(cfg)
	client := model.NewClient(cfg.Model, log)

	monitor := &services.MonitorService{
		ConfigProvider: cfgLoader,
		Wrappers:       registry,
		Model:          client,
		Traces:         trace.NewRetryStore(store, 3),
		Logger:         log,
	}

	return &Container{
		Monitor:        monitor,
		ConfigProvider: cfgLoader,
		Config:         cfg,
		Wrappers:       registry,
		TraceStore:     store,
		Model:          client,
		Logger:         log,
	}, nil
}

func buildTraceStore(cfg domain.Config) ports.TraceStore {
	path := config.TracePath(cfg)
	if strings.EqualFold(cfg.Logging.Store, "sqlite") {
		db := strings.TrimSuffix(path, filepath.Ext(path)) + ".db"
		return trace.NewSQLiteStore(db)
	}
	return trace.NewFileStore(path)
}
