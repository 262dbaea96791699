package file

import (
	"context"
	"path/filepath"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange each time the ledger file is rewritten until ctx is
// done. The directory is watched rather than the file because saves replace
// the file by renaming over it
func Watch(ctx context.Context, path string, onChange func()) error {
	log := logger.New("file-watcher")

	filePath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(filePath)); err != nil {
		log.Errorf("watcher add error: %v, abort", err)
		return err
	}

	base := filepath.Base(filePath)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if watcherEventFileChange(event) {
				log.Debugf("file event: %v", event)
				onChange()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorf("watch %s: %s", filePath, err)
		}
	}
}

func watcherEventFileChange(event fsnotify.Event) bool {
	return event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Create == fsnotify.Create
}
