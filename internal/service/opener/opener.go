package opener

import (
	"github.com/vertextoedge/linkguard/internal/domain/event"
	"github.com/vertextoedge/linkguard/internal/port"
	"go.uber.org/zap"
)

// Opener hands untrusted URLs to the OS default browser
type Opener struct {
	shell  port.Shell
	events event.EventDispatcher
	logger *zap.Logger
}

// New creates a new Opener
func New(shell port.Shell, events event.EventDispatcher, logger *zap.Logger) *Opener {
	if events == nil {
		events = event.NewNullDispatcher()
	}
	return &Opener{
		shell:  shell,
		events: events,
		logger: logger,
	}
}

// Open cancels the pending navigation in view and opens url externally.
// Failures of either step are logged and otherwise ignored.
func (o *Opener) Open(view port.View, url string) {
	viewID := ""
	if view != nil {
		viewID = view.ID()
		if err := view.CancelPendingNavigation(); err != nil {
			o.logger.Warn("failed to cancel navigation",
				zap.String("view_id", viewID),
				zap.Error(err))
		}
	}

	if err := o.shell.OpenInDefaultBrowser(url); err != nil {
		o.logger.Warn("failed to open link externally",
			zap.String("url", url),
			zap.Error(err))
	}

	o.events.Dispatch(event.NewExternalLinkOpened(viewID, url))
}
