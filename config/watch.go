package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the file at path whenever it is written and hands the result to onChange.
// args are the command line arguments GetConfig was given, they are applied on every reload.
// A file that fails to load or validate is logged and ignored. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, args []string, onChange func(Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		_ = watcher.Close()
	}()

	// editors often replace the file, so the directory is watched instead
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	err = watcher.Add(filepath.Dir(abs))
	if err != nil {
		return err
	}

	l.Info().Println("watching config file:", abs)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			// truncated but not yet written
			if stat, err := os.Stat(abs); err != nil || stat.Size() == 0 {
				continue
			}

			config, err := Reload(abs, args)
			if err != nil {
				l.Warn().Println("reload config:", err)
				continue
			}

			l.Info().Println("config reloaded:", abs)
			onChange(config)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.Warn().Println("watch config:", err)
		}
	}
}
