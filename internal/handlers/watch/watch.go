package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/kondukto-io/dspolicy/internal/core/usecase/registry"
	"github.com/kondukto-io/dspolicy/pkg/logger"
)

const defaultDebounce = 200 * time.Millisecond

// Watcher republishes the configuration and the states when their files change
type Watcher struct {
	registry   *registry.Registry
	configPath string
	statePath  string
	debounce   time.Duration
}

// New returns a watcher. statePath may be empty.
func New(reg *registry.Registry, configPath, statePath string) *Watcher {
	return &Watcher{
		registry:   reg,
		configPath: filepath.Clean(configPath),
		statePath:  cleanOptional(statePath),
		debounce:   defaultDebounce,
	}
}

// Run watches until SIGINT or SIGTERM
func Run(cmd cobra.Command, reg *registry.Registry, configPath, statePath string) error {
	if configPath == "" {
		return errors.New("[config] flag is required")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sigs)

	// signal handler
	go func() {
		select {
		case s := <-sigs:
			logger.Log.Infof("received %s, stopping the watcher", s)
			cancel()
		case <-ctx.Done():
		}
	}()

	return New(reg, configPath, statePath).Start(ctx)
}

// Start loads both files once and reloads them on change until ctx is done.
// A file that fails to load keeps the previous generation in place.
func (w *Watcher) Start(ctx context.Context) error {
	if _, err := w.registry.LoadConfigFile(w.configPath); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if w.statePath != "" {
		if _, err := os.Stat(w.statePath); errors.Is(err, fs.ErrNotExist) {
			logger.Log.Infof("state file [%s] does not exist yet, all services are available", w.statePath)
		} else if err := w.registry.SetStatesFile(w.statePath); err != nil {
			return fmt.Errorf("failed to load states: %w", err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// directories are watched so that files replaced by rename are seen
	for _, dir := range w.dirs() {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch [%s]: %w", dir, err)
		}
		logger.Log.Debugf("watching [%s]", dir)
	}

	var (
		pending = map[string]bool{}
		timer   = time.NewTimer(w.debounce)
	)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			name := filepath.Clean(event.Name)
			if name != w.configPath && name != w.statePath {
				continue
			}

			logger.Log.Debugf("file event %s", event)
			pending[name] = true
			timer.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Log.Warnf("file watcher error: %v", err)

		case <-timer.C:
			w.reload(pending)
			pending = map[string]bool{}
		}
	}
}

func (w *Watcher) reload(pending map[string]bool) {
	// configuration first so the states land on the new generation
	if pending[w.configPath] {
		gen, err := w.registry.LoadConfigFile(w.configPath)
		if err != nil {
			logger.Log.Errorf("failed to reload configuration, keeping generation %d: %v", w.registry.Current().Version, err)
		} else {
			logger.Log.Infof("configuration reloaded as generation %d", gen.Version)
		}
	}

	if w.statePath != "" && pending[w.statePath] {
		if err := w.registry.SetStatesFile(w.statePath); err != nil {
			logger.Log.Errorf("failed to reload states: %v", err)
		} else {
			logger.Log.Info("states reloaded")
		}
	}
}

func (w *Watcher) dirs() []string {
	dirs := []string{filepath.Dir(w.configPath)}
	if w.statePath != "" && filepath.Dir(w.statePath) != dirs[0] {
		dirs = append(dirs, filepath.Dir(w.statePath))
	}

	return dirs
}

func cleanOptional(path string) string {
	if path == "" {
		return ""
	}

	return filepath.Clean(path)
}
