package port

// View is the control surface of one embedded content view.
// Implementations forward commands to the desktop shell; errors mean the
// command could not be delivered.
type View interface {
	// ID returns the view identifier
	ID() string

	// NavigateInPlace lets the view load url itself
	NavigateInPlace(url string) error

	// CancelPendingNavigation stops the navigation currently being decided
	CancelPendingNavigation() error

	// TriggerInteractiveDownload starts the view's own save-as flow for url
	TriggerInteractiveDownload(url string) error
}
