package orchestrator

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/vertextoedge/linkguard/internal/domain"
	"github.com/vertextoedge/linkguard/internal/domain/event"
	"github.com/vertextoedge/linkguard/internal/port"
	"go.uber.org/zap"
)

// Notification texts
const (
	completedTitle = "Download Complete"
	failedTitle    = "Download Failed"
	failedBody     = "Download failed"
)

// Orchestrator owns the lifecycle of intercepted downloads. It sends each
// request to the download service and routes the single terminal signal
// back to the request that asked for it.
type Orchestrator struct {
	downloads port.DownloadService
	notifier  port.Notifier
	cue       port.CuePlayer
	shell     port.Shell
	events    event.EventDispatcher
	logger    *zap.Logger
	newID     func() string

	mu      sync.Mutex
	pending map[string]*domain.DownloadRequest
}

// Ensure Orchestrator implements port.DownloadResponder
var _ port.DownloadResponder = (*Orchestrator)(nil)

// New creates a new Orchestrator
func New(
	downloads port.DownloadService,
	notifier port.Notifier,
	cue port.CuePlayer,
	shell port.Shell,
	events event.EventDispatcher,
	logger *zap.Logger,
) *Orchestrator {
	if events == nil {
		events = event.NewNullDispatcher()
	}
	return &Orchestrator{
		downloads: downloads,
		notifier:  notifier,
		cue:       cue,
		shell:     shell,
		events:    events,
		logger:    logger,
		newID:     uuid.NewString,
		pending:   make(map[string]*domain.DownloadRequest),
	}
}

// Intercept cancels the view's navigation and starts an out-of-band download
// of url. It returns once the request is sent; the outcome arrives later
// through Completed or Failed.
func (o *Orchestrator) Intercept(view port.View, url string, cfg domain.DownloadConfig) (*domain.DownloadRequest, error) {
	if view == nil {
		return nil, domain.ErrNilView
	}

	if err := view.CancelPendingNavigation(); err != nil {
		o.logger.Warn("failed to cancel navigation before download",
			zap.String("view_id", view.ID()),
			zap.Error(err))
	}

	req := domain.NewDownloadRequest(o.newID(), view.ID(), url, cfg.DownloadsPath)
	err := req.Register(
		func(filePath, fileName string) { o.onCompleted(req, cfg, filePath, fileName) },
		func() { o.onFailed(view, req, cfg) },
	)
	if err != nil {
		return nil, fmt.Errorf("register download request: %w", err)
	}

	o.mu.Lock()
	o.pending[req.ID] = req
	o.mu.Unlock()

	o.events.Dispatch(event.NewDownloadRequested(req))

	msg := port.DownloadMessage{
		ID:            req.ID,
		URL:           req.URL,
		DownloadsPath: req.DownloadsPath,
	}
	if err := o.downloads.Request(msg); err != nil {
		o.logger.Warn("download service rejected request",
			zap.String("request_id", req.ID),
			zap.Error(err))
		if ferr := o.Failed(req.ID); ferr != nil {
			o.logger.Error("failed to resolve rejected download",
				zap.String("request_id", req.ID),
				zap.Error(ferr))
		}
	}

	return req, nil
}

// Completed is the completion channel of the download service
func (o *Orchestrator) Completed(id, filePath, fileName string) error {
	req, err := o.take(id)
	if err != nil {
		return err
	}
	return req.Resolve(domain.CompletedOutcome(filePath, fileName))
}

// Failed is the failure channel of the download service
func (o *Orchestrator) Failed(id string) error {
	req, err := o.take(id)
	if err != nil {
		return err
	}
	return req.Resolve(domain.FailedOutcome())
}

// Pending returns the number of requests still waiting for a terminal signal
func (o *Orchestrator) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

// IsPending reports whether request id still has live response slots
func (o *Orchestrator) IsPending(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.pending[id]
	return ok
}

// take removes a request from the pending table so no later signal can reach it
func (o *Orchestrator) take(id string) (*domain.DownloadRequest, error) {
	o.mu.Lock()
	req, ok := o.pending[id]
	delete(o.pending, id)
	o.mu.Unlock()

	if !ok {
		o.logger.Debug("dropping download signal for unknown request", zap.String("request_id", id))
		return nil, fmt.Errorf("%w: %s", domain.ErrSkipStaleSignal, id)
	}
	return req, nil
}

func (o *Orchestrator) onCompleted(req *domain.DownloadRequest, cfg domain.DownloadConfig, filePath, fileName string) {
	note := port.Notification{
		Title:  completedTitle,
		Body:   fmt.Sprintf("Click to show %s in folder", fileName),
		Silent: true,
		OnClick: func() {
			if err := o.shell.RevealInFileBrowser(filePath); err != nil {
				o.logger.Warn("failed to reveal download",
					zap.String("file_path", filePath),
					zap.Error(err))
			}
		},
	}
	if err := o.notifier.Notify(note); err != nil {
		o.logger.Warn("failed to show download notification",
			zap.String("request_id", req.ID),
			zap.Error(err))
	}

	if !cfg.SilentMode {
		if err := o.cue.Play(); err != nil {
			o.logger.Debug("failed to play completion cue", zap.Error(err))
		}
	}

	o.events.Dispatch(event.NewDownloadCompleted(req, filePath, fileName))
}

func (o *Orchestrator) onFailed(view port.View, req *domain.DownloadRequest, cfg domain.DownloadConfig) {
	if cfg.PromptOnAutoDownloadFailure {
		note := port.Notification{
			Title: failedTitle,
			Body:  failedBody,
		}
		if err := o.notifier.Notify(note); err != nil {
			o.logger.Warn("failed to show failure notification",
				zap.String("request_id", req.ID),
				zap.Error(err))
		}
	} else if err := view.TriggerInteractiveDownload(req.URL); err != nil {
		o.logger.Warn("failed to start interactive download",
			zap.String("request_id", req.ID),
			zap.String("view_id", req.ViewID),
			zap.Error(err))
	}

	o.events.Dispatch(event.NewDownloadFailed(req, cfg.PromptOnAutoDownloadFailure))
}
