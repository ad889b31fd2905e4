package port

// Notification is a user-visible desktop notification
type Notification struct {
	Title string
	Body  string

	// Silent suppresses the OS notification sound
	Silent bool

	// OnClick is invoked when the user activates the notification.
	// It may be nil.
	OnClick func()
}

// Notifier shows desktop notifications
type Notifier interface {
	Notify(n Notification) error
}

// CuePlayer plays the audible download-complete cue
type CuePlayer interface {
	Play() error
}

// Shell exposes the OS shell actions the core needs
type Shell interface {
	// OpenInDefaultBrowser opens url with the system default handler
	OpenInDefaultBrowser(url string) error

	// RevealInFileBrowser shows path in the OS file browser
	RevealInFileBrowser(path string) error
}
