package pool

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/okian/bricklayers/internal/domain/model"
	"github.com/okian/bricklayers/pkg/logger"
	"github.com/okian/bricklayers/pkg/metrics"
)

// Watch reloads the pool at path whenever the file is written or replaced and
// passes the new pool to onChange. A failed reload is logged and the previous
// pool stays active. Watch blocks until ctx is cancelled.
//
// The parent directory is watched, not the file, so atomic saves that rename
// a new file over path keep being seen.
func Watch(ctx context.Context, path string, log logger.Logger, onChange func(*model.Pool)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}
	log.Info(ctx, "watching pool file", logger.String("path", target))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			// A rename onto path shows up as Create.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			p, err := LoadFile(target)
			if err != nil {
				metrics.RecordPoolReload("file", "error")
				log.Error(ctx, "pool reload failed; keeping previous pool", logger.String("path", target), logger.Error(err))
				continue
			}
			metrics.RecordPoolReload("file", "ok")
			log.Info(ctx, "pool reloaded", logger.String("path", target), logger.Int("players", p.Len()))
			onChange(p)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn(ctx, "pool watcher error", logger.Error(err))
		}
	}
}
