package config

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors the config file at path and calls onChange with the newly
// loaded Config each time the file is rewritten with valid contents. It
// runs until ctx is cancelled.
//
// A rewrite that fails to load or validate is logged and ignored, so the
// exporter keeps scraping the cluster list it already has.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	slog.Info("config: watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors and config management tools often replace the file
			// via rename, which arrives as Create rather than Write.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := Load(path)
			if err != nil {
				slog.Error("config: reload failed, keeping previous cluster list",
					"path", path, "err", err)
				continue
			}

			slog.Info("config: reloaded", "path", path, "clusters", len(cfg.Clusters))
			onChange(cfg)

			// An atomic save replaces the inode, which drops the watch;
			// re-add the path so the next rewrite is seen too.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}
