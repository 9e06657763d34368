package app

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/rickgao/ouc-dashboard/internal/config"
)

// watchConfig calls onChange with the reloaded config whenever the file at
// path is written or replaced. Invalid edits are logged and skipped. The
// returned func stops the watcher and waits for the callback loop to exit.
func watchConfig(path string, logger *slog.Logger, onChange func(*config.DashboardConfig)) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create config watcher: %w", err)
	}

	target := filepath.Clean(path)

	// Watch the directory so editors that replace the file are still seen.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch config dir: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := config.LoadAndValidate(target)
				if err != nil {
					logger.Warn("ignoring invalid config change", "path", target, "err", err)
					continue
				}
				logger.Info("config reloaded", "path", target, "interval", cfg.Poller.Interval)
				onChange(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error", "err", err)
			}
		}
	}()

	logger.Info("watching config", "path", target)

	return func() {
		watcher.Close()
		<-done
	}, nil
}
