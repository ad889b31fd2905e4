package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"github.com/vertextoedge/linkguard/internal/domain"
	"github.com/vertextoedge/linkguard/internal/fs"
	"github.com/vertextoedge/linkguard/internal/port"
	"go.uber.org/zap"
)

// reloadDebounce coalesces the burst of events editors emit on save
const reloadDebounce = 200 * time.Millisecond

// Settings exposes the user-editable download settings. Every read goes
// to the live configuration, so edits apply to the next interception.
type Settings struct {
	mu                  sync.RWMutex
	v                   *viper.Viper
	defaultDownloadsDir string

	hooksMu sync.Mutex
	hooks   []func(*Settings)
}

// Ensure Settings implements port.SettingsSource
var _ port.SettingsSource = (*Settings)(nil)

func newSettings(v *viper.Viper, defaultDownloadsDir string) *Settings {
	if v == nil {
		v = viper.New()
		setDefaults(v)
	}
	return &Settings{v: v, defaultDownloadsDir: defaultDownloadsDir}
}

// DownloadConfig returns the current download settings
func (s *Settings) DownloadConfig() domain.DownloadConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.v.GetString("downloads.path")
	if path == "" {
		path = s.defaultDownloadsDir
	}

	return domain.DownloadConfig{
		DownloadsPath:               fs.ExpandHome(path),
		SilentMode:                  s.v.GetBool("downloads.silent"),
		PromptOnAutoDownloadFailure: s.v.GetBool("downloads.prompt_download"),
	}
}

// LogLevel returns the current logging.level
func (s *Settings) LogLevel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetString("logging.level")
}

// OnReload registers fn to run after every successful Watch reload
func (s *Settings) OnReload(fn func(*Settings)) {
	s.hooksMu.Lock()
	defer s.hooksMu.Unlock()
	s.hooks = append(s.hooks, fn)
}

func (s *Settings) runHooks() {
	s.hooksMu.Lock()
	hooks := make([]func(*Settings), len(s.hooks))
	copy(hooks, s.hooks)
	s.hooksMu.Unlock()

	for _, fn := range hooks {
		fn(s)
	}
}

// Set changes a single setting in memory
func (s *Settings) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(key, value)
}

// Reload re-reads the configuration file
func (s *Settings) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.v.ConfigFileUsed() == "" {
		return nil
	}
	if err := s.v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to reload config file: %w", err)
	}
	return nil
}

// Watch reloads the configuration file whenever it changes on disk and
// blocks until ctx is cancelled. It returns immediately when no file is
// in use.
func (s *Settings) Watch(ctx context.Context, logger *zap.Logger) error {
	s.mu.RLock()
	file := s.v.ConfigFileUsed()
	s.mu.RUnlock()
	if file == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory; editors often replace the file instead of writing it.
	file = filepath.Clean(file)
	if err := watcher.Add(filepath.Dir(file)); err != nil {
		return fmt.Errorf("failed to watch config dir: %w", err)
	}

	logger.Info("Watching config file", zap.String("path", file))

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != file {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(reloadDebounce)
			timerC = timer.C

		case <-timerC:
			timerC = nil
			if err := s.Reload(); err != nil {
				logger.Warn("Config reload failed, keeping previous settings", zap.Error(err))
				continue
			}
			cfg := s.DownloadConfig()
			logger.Info("Config reloaded",
				zap.String("downloads_path", cfg.DownloadsPath),
				zap.Bool("silent", cfg.SilentMode),
				zap.Bool("prompt_download", cfg.PromptOnAutoDownloadFailure))
			s.runHooks()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Config watcher error", zap.Error(err))
		}
	}
}
