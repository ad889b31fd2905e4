package maintenance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vertextoedge/linkguard/internal/fs"
	"github.com/vertextoedge/linkguard/internal/port"
	"go.uber.org/zap"
)

// Config contains maintenance service configuration
type Config struct {
	// CleanupInterval is how often to run cleanup tasks
	CleanupInterval time.Duration

	// HistoryMaxAge is the maximum age of resolved download records
	HistoryMaxAge time.Duration

	// PartialFileMaxAge is how long an untouched ".part" file is kept
	PartialFileMaxAge time.Duration
}

// DefaultConfig returns default maintenance configuration
func DefaultConfig() *Config {
	return &Config{
		CleanupInterval:   time.Hour,
		HistoryMaxAge:     30 * 24 * time.Hour,
		PartialFileMaxAge: 24 * time.Hour,
	}
}

// Service handles periodic maintenance tasks
type Service struct {
	config    *Config
	downloads port.DownloadRepository
	settings  port.SettingsSource
	logger    *zap.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a new maintenance Service
func New(cfg *Config, downloads port.DownloadRepository, settings port.SettingsSource, logger *zap.Logger) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = time.Hour
	}
	if cfg.HistoryMaxAge == 0 {
		cfg.HistoryMaxAge = 30 * 24 * time.Hour
	}
	if cfg.PartialFileMaxAge == 0 {
		cfg.PartialFileMaxAge = 24 * time.Hour
	}

	return &Service{
		config:    cfg,
		downloads: downloads,
		settings:  settings,
		logger:    logger,
	}
}

// Start starts the maintenance service
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("maintenance service already running")
	}
	s.running = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.logger.Info("maintenance service started",
		zap.Duration("cleanup_interval", s.config.CleanupInterval),
		zap.Duration("history_max_age", s.config.HistoryMaxAge))

	s.wg.Add(1)
	go s.maintenanceLoop(ctx)

	<-ctx.Done()
	s.wg.Wait()
	s.logger.Info("maintenance service stopped")
	return nil
}

// Stop stops the maintenance service
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.running = false
}

// RunOnce runs every cleanup task immediately
func (s *Service) RunOnce() {
	s.cleanupHistory()
	s.cleanupPartialFiles()
}

// maintenanceLoop handles periodic maintenance tasks
func (s *Service) maintenanceLoop(ctx context.Context) {
	defer s.wg.Done()

	cleanupTicker := time.NewTicker(s.config.CleanupInterval)
	defer cleanupTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-cleanupTicker.C:
			s.RunOnce()
		}
	}
}

// cleanupHistory removes old resolved download records
func (s *Service) cleanupHistory() {
	cleared, err := s.downloads.CleanupOldDownloads(s.config.HistoryMaxAge)
	if err != nil {
		s.logger.Error("failed to cleanup download history", zap.Error(err))
	} else if cleared > 0 {
		s.logger.Info("cleaned up old download history", zap.Int("count", cleared))
	}
}

// cleanupPartialFiles removes abandoned partial downloads from the
// currently configured downloads directory
func (s *Service) cleanupPartialFiles() {
	dir := s.settings.DownloadConfig().DownloadsPath
	if dir == "" || !fs.FileExists(dir) {
		return
	}

	mgr, err := fs.NewManager(dir)
	if err != nil {
		s.logger.Error("failed to open downloads dir", zap.String("dir", dir), zap.Error(err))
		return
	}

	fileCount, err := mgr.CleanPartials(s.config.PartialFileMaxAge)
	if err != nil {
		s.logger.Error("failed to cleanup partial files", zap.Error(err))
	} else if fileCount > 0 {
		s.logger.Info("cleaned up partial downloads",
			zap.String("dir", mgr.RootDir()),
			zap.Int("count", fileCount))
	}
}
