package event

import (
	"time"

	"github.com/vertextoedge/linkguard/internal/domain"
)

// Event names
const (
	NameNavigationClassified = "navigation.classified"
	NameExternalLinkOpened   = "link.opened_externally"
	NameDownloadRequested    = "download.requested"
	NameDownloadCompleted    = "download.completed"
	NameDownloadFailed       = "download.failed"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	// EventName returns the name of the event
	EventName() string
	// OccurredAt returns when the event occurred
	OccurredAt() time.Time
}

// BaseEvent provides common fields for all events
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NavigationClassified is raised once per navigation attempt
type NavigationClassified struct {
	BaseEvent
	ViewID      string
	DomainIndex int64
	URL         string
	Decision    domain.Decision
}

// EventName returns the event name
func (e NavigationClassified) EventName() string {
	return NameNavigationClassified
}

// NewNavigationClassified creates a new NavigationClassified event
func NewNavigationClassified(req domain.NavigationRequest, decision domain.Decision) NavigationClassified {
	return NavigationClassified{
		BaseEvent:   BaseEvent{Timestamp: time.Now()},
		ViewID:      req.ViewID,
		DomainIndex: req.DomainIndex,
		URL:         req.URL,
		Decision:    decision,
	}
}

// ExternalLinkOpened is raised when a URL is handed to the OS browser
type ExternalLinkOpened struct {
	BaseEvent
	ViewID string
	URL    string
}

// EventName returns the event name
func (e ExternalLinkOpened) EventName() string {
	return NameExternalLinkOpened
}

// NewExternalLinkOpened creates a new ExternalLinkOpened event
func NewExternalLinkOpened(viewID, url string) ExternalLinkOpened {
	return ExternalLinkOpened{
		BaseEvent: BaseEvent{Timestamp: time.Now()},
		ViewID:    viewID,
		URL:       url,
	}
}

// DownloadRequested is raised when an intercepted download is sent to the download service
type DownloadRequested struct {
	BaseEvent
	RequestID     string
	ViewID        string
	URL           string
	DownloadsPath string
}

// EventName returns the event name
func (e DownloadRequested) EventName() string {
	return NameDownloadRequested
}

// NewDownloadRequested creates a new DownloadRequested event
func NewDownloadRequested(req *domain.DownloadRequest) DownloadRequested {
	return DownloadRequested{
		BaseEvent:     BaseEvent{Timestamp: time.Now()},
		RequestID:     req.ID,
		ViewID:        req.ViewID,
		URL:           req.URL,
		DownloadsPath: req.DownloadsPath,
	}
}

// DownloadCompleted is raised when a download request resolves Completed
type DownloadCompleted struct {
	BaseEvent
	RequestID string
	ViewID    string
	URL       string
	FilePath  string
	FileName  string
	Duration  time.Duration
}

// EventName returns the event name
func (e DownloadCompleted) EventName() string {
	return NameDownloadCompleted
}

// NewDownloadCompleted creates a new DownloadCompleted event
func NewDownloadCompleted(req *domain.DownloadRequest, filePath, fileName string) DownloadCompleted {
	now := time.Now()
	return DownloadCompleted{
		BaseEvent: BaseEvent{Timestamp: now},
		RequestID: req.ID,
		ViewID:    req.ViewID,
		URL:       req.URL,
		FilePath:  filePath,
		FileName:  fileName,
		Duration:  now.Sub(req.RequestedAt),
	}
}

// DownloadFailed is raised when a download request resolves Failed
type DownloadFailed struct {
	BaseEvent
	RequestID string
	ViewID    string
	URL       string
	// Prompted is true when the user was notified instead of falling back
	// to the view's interactive download
	Prompted bool
	Duration time.Duration
}

// EventName returns the event name
func (e DownloadFailed) EventName() string {
	return NameDownloadFailed
}

// NewDownloadFailed creates a new DownloadFailed event
func NewDownloadFailed(req *domain.DownloadRequest, prompted bool) DownloadFailed {
	now := time.Now()
	return DownloadFailed{
		BaseEvent: BaseEvent{Timestamp: now},
		RequestID: req.ID,
		ViewID:    req.ViewID,
		URL:       req.URL,
		Prompted:  prompted,
		Duration:  now.Sub(req.RequestedAt),
	}
}
