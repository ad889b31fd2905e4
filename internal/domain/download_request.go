package domain

import (
	"sync"
	"time"
)

// Download status constants
const (
	DownloadStatusIdle      DownloadStatus = "idle"
	DownloadStatusRequested DownloadStatus = "requested"
	DownloadStatusCompleted DownloadStatus = "completed"
	DownloadStatusFailed    DownloadStatus = "failed"
)

// DownloadStatus is the lifecycle state of a DownloadRequest
type DownloadStatus string

// IsTerminal returns true for completed and failed
func (s DownloadStatus) IsTerminal() bool {
	return s == DownloadStatusCompleted || s == DownloadStatusFailed
}

// DownloadConfig holds the settings that shape one intercepted download.
// It is read at interception time and never mutated afterwards.
type DownloadConfig struct {
	DownloadsPath               string
	SilentMode                  bool
	PromptOnAutoDownloadFailure bool
}

// outcomeKind tags the DownloadOutcome variants
type outcomeKind int

const (
	outcomeCompleted outcomeKind = iota + 1
	outcomeFailed
)

// DownloadOutcome is the terminal result of a download request:
// either Completed{FilePath, FileName} or Failed{}.
type DownloadOutcome struct {
	kind     outcomeKind
	FilePath string
	FileName string
}

// CompletedOutcome builds the Completed variant
func CompletedOutcome(filePath, fileName string) DownloadOutcome {
	return DownloadOutcome{kind: outcomeCompleted, FilePath: filePath, FileName: fileName}
}

// FailedOutcome builds the Failed variant
func FailedOutcome() DownloadOutcome {
	return DownloadOutcome{kind: outcomeFailed}
}

// IsCompleted reports whether this is the Completed variant
func (o DownloadOutcome) IsCompleted() bool {
	return o.kind == outcomeCompleted
}

// IsFailed reports whether this is the Failed variant
func (o DownloadOutcome) IsFailed() bool {
	return o.kind == outcomeFailed
}

// CompletedHandler runs when the download service reports success
type CompletedHandler func(filePath, fileName string)

// FailedHandler runs when the download service reports failure
type FailedHandler func()

// DownloadRequest is one intercepted download. It owns two one-shot
// response slots; resolving either one clears both before its handler runs.
type DownloadRequest struct {
	ID            string
	ViewID        string
	URL           string
	DownloadsPath string
	RequestedAt   time.Time

	mu          sync.Mutex
	status      DownloadStatus
	onCompleted CompletedHandler
	onFailed    FailedHandler
}

// NewDownloadRequest creates an idle download request
func NewDownloadRequest(id, viewID, url, downloadsPath string) *DownloadRequest {
	return &DownloadRequest{
		ID:            id,
		ViewID:        viewID,
		URL:           url,
		DownloadsPath: downloadsPath,
		status:        DownloadStatusIdle,
	}
}

// Register arms the completed and failed slots and moves the request
// from idle to requested.
func (r *DownloadRequest) Register(onCompleted CompletedHandler, onFailed FailedHandler) error {
	if onCompleted == nil || onFailed == nil {
		return ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != DownloadStatusIdle {
		return ErrInvalidStateTransition
	}

	r.onCompleted = onCompleted
	r.onFailed = onFailed
	r.status = DownloadStatusRequested
	r.RequestedAt = time.Now()
	return nil
}

// Resolve consumes the outcome. Both slots are disarmed before the matching
// handler is invoked, so a later Resolve returns ErrAlreadyResolved.
func (r *DownloadRequest) Resolve(outcome DownloadOutcome) error {
	if !outcome.IsCompleted() && !outcome.IsFailed() {
		return ErrInvalidInput
	}

	r.mu.Lock()
	switch {
	case r.status.IsTerminal():
		r.mu.Unlock()
		return ErrAlreadyResolved
	case r.status != DownloadStatusRequested:
		r.mu.Unlock()
		return ErrInvalidStateTransition
	}

	onCompleted, onFailed := r.onCompleted, r.onFailed
	r.onCompleted = nil
	r.onFailed = nil
	if outcome.IsCompleted() {
		r.status = DownloadStatusCompleted
	} else {
		r.status = DownloadStatusFailed
	}
	r.mu.Unlock()

	if outcome.IsCompleted() {
		onCompleted(outcome.FilePath, outcome.FileName)
	} else {
		onFailed()
	}
	return nil
}

// Status returns the current lifecycle state
func (r *DownloadRequest) Status() DownloadStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// SlotsArmed reports which response slots are still registered
func (r *DownloadRequest) SlotsArmed() (completed, failed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.onCompleted != nil, r.onFailed != nil
}
