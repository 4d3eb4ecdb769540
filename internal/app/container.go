package app

import (
	"context"
	"path/filepath"

	"github.com/doeshing/chat-cli/internal/application/doctor"
	"github.com/doeshing/chat-cli/internal/application/pipeline"
	"github.com/doeshing/chat-cli/internal/domain"
	"github.com/doeshing/chat-cli/internal/infrastructure/ai"
	"github.com/doeshing/chat-cli/internal/infrastructure/config"
	"github.com/doeshing/chat-cli/internal/infrastructure/executor"
	"github.com/doeshing/chat-cli/internal/infrastructure/history"
	"github.com/doeshing/chat-cli/internal/pkg/filesystem"
	"github.com/doeshing/chat-cli/internal/pkg/logger"
	"github.com/doeshing/chat-cli/internal/ports"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	PipelineService *pipeline.Service
	DoctorService   *doctor.Service
	ProviderFactory ports.ProviderFactory
	ConfigProvider  ports.ConfigProvider
	ConfigLoader    *config.FileLoader
	HistoryStore    *history.SQLiteStore
	Logger          ports.Logger

	// Config is the snapshot taken at build time. Commands that need the
	// current file reload through ConfigProvider.
	Config domain.Config
}

// BuildContainer constructs the dependency graph. A config that fails to load
// does not fail the build so that config and doctor commands can still report
// on it; the pipeline reloads and surfaces the error.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	log := logger.NewStd(verbose)

	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		log.Debug("config load failed during build", map[string]interface{}{"error": err.Error()})
		cfg = domain.Config{}
	}
	return newContainer(cfgLoader, cfg, log), nil
}

func newContainer(cfgLoader *config.FileLoader, cfg domain.Config, log ports.Logger) *Container {
	historyPath := cfg.History.Path
	if historyPath == "" {
		historyPath = filepath.Join(filesystem.AppDir(), "history.db")
	}
	historyStore := history.NewSQLiteStore(historyPath)
	factory := ai.NewFactory()

	pipelineService := &pipeline.Service{
		ConfigProvider:  cfgLoader,
		ProviderFactory: factory,
		Executor:        executor.NewLocalExecutor(cfg.Execution.Shell),
		HistoryStore:    historyStore,
		Logger:          log,
	}

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		ResolveShell:   executor.ResolveShell,
	}

	return &Container{
		PipelineService: pipelineService,
		DoctorService:   doctorService,
		ProviderFactory: factory,
		ConfigProvider:  cfgLoader,
		ConfigLoader:    cfgLoader,
		HistoryStore:    historyStore,
		Logger:          log,
		Config:          cfg,
	}
}

// Close releases resources held by adapters.
func (c *Container) Close() error {
	if c.HistoryStore == nil {
		return nil
	}
	return c.HistoryStore.Close()
}
