package commands

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/fieldstack/simport/internal/config"
	"github.com/fieldstack/simport/internal/engine"
)

// debounceDelay is how long after the last write event a file must stay
// quiet before it is converted, so half-copied exports aren't picked up.
const debounceDelay = 200 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the input directory and convert exports as they land",
		Long: `Watch the input directory and convert each new or updated export as it
arrives. Generated files are written to the output directory and are never
re-ingested. Runs until interrupted.`,
		Example: `  simport watch --input-dir ./exports --output-dir ./ready`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd)
		},
	}
}

func runWatch(cmd *cobra.Command) error {
	cfg := config.FromContext(cmd.Context())
	logger := config.LoggerFromContext(cmd.Context())
	eng := engine.New(cfg.Schema(), logger)

	if cfg.InputDir == "" {
		return fmt.Errorf("watch requires an input directory (--input-dir)")
	}
	if err := os.MkdirAll(cfg.InputDir, 0o755); err != nil {
		return fmt.Errorf("creating input directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(cfg.InputDir); err != nil {
		return fmt.Errorf("watching %s: %w", cfg.InputDir, err)
	}
	logger.Info("watching for exports", "dir", cfg.InputDir)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Debounce timers, one per path
	var mu sync.Mutex
	timers := make(map[string]*time.Timer)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !isExportName(event.Name) {
				continue
			}

			path := event.Name
			mu.Lock()
			if t, ok := timers[path]; ok {
				t.Stop()
			}
			timers[path] = time.AfterFunc(debounceDelay, func() {
				mu.Lock()
				delete(timers, path)
				mu.Unlock()

				res := convertFile(eng, logger, path, cfg.OutputDir)
				if res.Err != nil {
					logger.Error("conversion failed", "input", path, "error", res.Err)
				}
			})
			mu.Unlock()

		case err := <-watcher.Errors:
			logger.Error("watcher error", "error", err)
		}
	}
}
