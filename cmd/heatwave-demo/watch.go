package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/heatwave"
)

// watchConfig calls onChange with the reloaded config each time the file
// at path is written. Files that fail to load are logged and skipped. The
// watcher stops when ctx is done.
func watchConfig(ctx context.Context, path string, onChange func(heatwave.Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	// Editors often save by rename, which drops a watch on the file itself.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return fmt.Errorf("watch config: %w", err)
	}
	go watchLoop(ctx, w, filepath.Clean(path), onChange)
	return nil
}

func watchLoop(ctx context.Context, w *fsnotify.Watcher, path string, onChange func(heatwave.Config)) {
	defer w.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			cfg, err := heatwave.LoadConfig(path)
			if err != nil {
				heatwave.Logger().Warn("heatwave-demo: reload config", "path", path, "error", err)
				continue
			}
			onChange(cfg)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			heatwave.Logger().Warn("heatwave-demo: config watcher", "error", err)
		}
	}
}
