package event

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vertextoedge/linkguard/internal/domain"
	"github.com/vertextoedge/linkguard/internal/domain/repository"
	"go.uber.org/zap"
)

// LoggingHandler logs all events
type LoggingHandler struct {
	logger *zap.Logger
}

// NewLoggingHandler creates a new LoggingHandler
func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger}
}

// Handle logs the event
func (h *LoggingHandler) Handle(event DomainEvent) error {
	switch e := event.(type) {
	case NavigationClassified:
		h.logger.Debug("navigation classified",
			zap.String("view_id", e.ViewID),
			zap.Int64("domain_index", e.DomainIndex),
			zap.String("url", e.URL),
			zap.String("decision", e.Decision.String()),
		)
	case ExternalLinkOpened:
		h.logger.Info("link opened externally",
			zap.String("view_id", e.ViewID),
			zap.String("url", e.URL),
		)
	case DownloadRequested:
		h.logger.Info("download requested",
			zap.String("request_id", e.RequestID),
			zap.String("view_id", e.ViewID),
			zap.String("url", e.URL),
			zap.String("downloads_path", e.DownloadsPath),
		)
	case DownloadCompleted:
		h.logger.Info("download completed",
			zap.String("request_id", e.RequestID),
			zap.String("file_path", e.FilePath),
			zap.Duration("duration", e.Duration),
		)
	case DownloadFailed:
		h.logger.Warn("download failed",
			zap.String("request_id", e.RequestID),
			zap.String("url", e.URL),
			zap.Bool("prompted", e.Prompted),
			zap.Duration("duration", e.Duration),
		)
	default:
		h.logger.Debug("domain event",
			zap.String("event", event.EventName()),
			zap.Time("occurred_at", event.OccurredAt()),
		)
	}
	return nil
}

// HandledEvents returns the events this handler handles
func (h *LoggingHandler) HandledEvents() []string {
	return []string{"*"} // Handle all events
}

// MetricsHandler exports event counts to Prometheus
type MetricsHandler struct {
	navigations       *prometheus.CounterVec
	externalOpens     prometheus.Counter
	downloadsStarted  prometheus.Counter
	downloadsResolved *prometheus.CounterVec
	downloadDuration  *prometheus.HistogramVec
}

// NewMetricsHandler creates a new MetricsHandler registered on reg
func NewMetricsHandler(reg prometheus.Registerer) *MetricsHandler {
	factory := promauto.With(reg)
	return &MetricsHandler{
		navigations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkguard_navigations_total",
				Help: "Navigation attempts by decision",
			},
			[]string{"decision"},
		),
		externalOpens: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "linkguard_external_opens_total",
				Help: "URLs handed to the OS default browser",
			},
		),
		downloadsStarted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "linkguard_downloads_requested_total",
				Help: "Intercepted downloads sent to the download service",
			},
		),
		downloadsResolved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkguard_downloads_resolved_total",
				Help: "Download requests by terminal status",
			},
			[]string{"status"},
		),
		downloadDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "linkguard_download_duration_seconds",
				Help:    "Time from download request to terminal status",
				Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 300},
			},
			[]string{"status"},
		),
	}
}

// Handle updates metrics based on the event
func (h *MetricsHandler) Handle(event DomainEvent) error {
	switch e := event.(type) {
	case NavigationClassified:
		h.navigations.WithLabelValues(e.Decision.String()).Inc()
	case ExternalLinkOpened:
		h.externalOpens.Inc()
	case DownloadRequested:
		h.downloadsStarted.Inc()
	case DownloadCompleted:
		h.downloadsResolved.WithLabelValues(string(domain.DownloadStatusCompleted)).Inc()
		h.downloadDuration.WithLabelValues(string(domain.DownloadStatusCompleted)).Observe(e.Duration.Seconds())
	case DownloadFailed:
		h.downloadsResolved.WithLabelValues(string(domain.DownloadStatusFailed)).Inc()
		h.downloadDuration.WithLabelValues(string(domain.DownloadStatusFailed)).Observe(e.Duration.Seconds())
	}
	return nil
}

// HandledEvents returns the events this handler handles
func (h *MetricsHandler) HandledEvents() []string {
	return []string{
		NameNavigationClassified,
		NameExternalLinkOpened,
		NameDownloadRequested,
		NameDownloadCompleted,
		NameDownloadFailed,
	}
}

// HistoryHandler persists the download lifecycle
type HistoryHandler struct {
	downloads repository.DownloadRepository
	logger    *zap.Logger
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(downloads repository.DownloadRepository, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{downloads: downloads, logger: logger}
}

// Handle writes download events to the repository.
// Failures are logged and reported as skippable; they never affect the download.
func (h *HistoryHandler) Handle(event DomainEvent) error {
	var err error
	switch e := event.(type) {
	case DownloadRequested:
		err = h.downloads.CreateDownload(&domain.DownloadRecord{
			ID:            e.RequestID,
			ViewID:        e.ViewID,
			URL:           e.URL,
			DownloadsPath: e.DownloadsPath,
			Status:        domain.DownloadStatusRequested,
			RequestedAt:   e.Timestamp,
		})
	case DownloadCompleted:
		err = h.downloads.ResolveDownload(e.RequestID, domain.DownloadStatusCompleted, e.FilePath, e.FileName)
	case DownloadFailed:
		err = h.downloads.ResolveDownload(e.RequestID, domain.DownloadStatusFailed, "", "")
	default:
		return nil
	}

	if err != nil {
		h.logger.Warn("failed to record download history",
			zap.String("event", event.EventName()),
			zap.Error(err))
		return domain.NewSkippableError(err, fmt.Sprintf("record %s", event.EventName()))
	}
	return nil
}

// HandledEvents returns the events this handler handles
func (h *HistoryHandler) HandledEvents() []string {
	return []string{
		NameDownloadRequested,
		NameDownloadCompleted,
		NameDownloadFailed,
	}
}
