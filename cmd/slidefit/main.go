// Command slidefit overlays editable, budget-checked regions on analysed slides.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/slidefit/internal/adapters/driven/ai"
	collabdir "github.com/custodia-labs/slidefit/internal/adapters/driven/collab/dir"
	"github.com/custodia-labs/slidefit/internal/adapters/driven/config/file"
	"github.com/custodia-labs/slidefit/internal/adapters/driven/export"
	"github.com/custodia-labs/slidefit/internal/adapters/driven/raster"
	"github.com/custodia-labs/slidefit/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/slidefit/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/slidefit/internal/adapters/driving/cli"
	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driven"
	"github.com/custodia-labs/slidefit/internal/core/services"
	"github.com/custodia-labs/slidefit/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cleanup, err := wire(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cli.SetVersion(version)
	err = cli.Execute()
	cleanup()
	if err != nil {
		os.Exit(1)
	}
}

// wire builds the services from the user's settings and injects them into the CLI.
// The returned cleanup releases the store and the collaboration channel.
func wire(ctx context.Context) (func(), error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}
	baseDir := filepath.Join(home, ".slidefit")

	configStore, err := file.NewConfigStore(baseDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	prompts, err := file.NewPromptStore(filepath.Join(baseDir, "prompts"))
	if err != nil {
		return nil, fmt.Errorf("opening prompts: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("cleanup: %v", err)
			}
		}
	}

	var (
		slideStore driven.SlideStore
		cache      driven.GeometryCache
	)
	switch settings.Cache.Backend {
	case domain.CacheSQLite:
		store, err := sqlite.NewStore(filepath.Join(baseDir, "data"))
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		closers = append(closers, store.Close)
		slideStore = store.SlideStore()
		cache = store.GeometryCache(settings.Cache.MaxEntries, settings.Cache.TTL)
	case domain.CacheMemory:
		slideStore = memory.NewSlideStore()
		cache = memory.NewGeometryCache(settings.Cache.MaxEntries, settings.Cache.TTL)
	default:
		slideStore = memory.NewSlideStore()
	}

	var collab driven.CollaborationChannel
	switch settings.Collab.Backend {
	case domain.CollabMemory:
		collab = memory.NewBroker().Join()
	case domain.CollabDir:
		channel := collabdir.New(settings.Collab.Dir)
		closers = append(closers, channel.Close)
		collab = channel
	}

	generator, err := ai.CreateGenerator(&settings.Generation, prompts)
	if err != nil {
		// Generation is optional; the generate command reports it as unavailable.
		logger.Warn("content generator: %v", err)
	}

	provider, err := ai.CreateAnalysisProvider(ctx, settings.Analysis, filepath.Join(baseDir, "results"))
	if err != nil {
		cleanup()
		return nil, err
	}

	warn := settings.Fit.WarningPercent
	validator := services.NewFitValidator(warn)
	editor, err := services.NewEditorSession(services.EditorPorts{
		Validator: validator,
		Scaler:    services.NewDisplayScaler(settings.Display, warn),
		Store:     slideStore,
		Collab:    collab,
		Generator: generator,
		User:      settings.Collab.User,
	})
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("creating editor: %w", err)
	}

	cli.SetServices(cli.Services{
		Editor:    editor,
		Analysis:  services.NewAnalysisService(provider, cache),
		Validator: validator,
		Settings:  settingsService,
		Renderer:  raster.NewRenderer(),
		Exporter: func(dir string) driven.Exporter {
			if dir == "" {
				return export.NewWriterExporter(os.Stdout)
			}
			return export.NewDirExporter(dir)
		},
	})

	return cleanup, nil
}
