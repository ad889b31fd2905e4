// Package porttest provides in-memory implementations of the port
// interfaces for tests.
package porttest

import (
	"errors"
	"sync"

	"github.com/vertextoedge/linkguard/internal/domain"
	"github.com/vertextoedge/linkguard/internal/port"
)

// ErrInjected is returned by fakes configured to fail
var ErrInjected = errors.New("injected failure")

// View records the commands sent to it
type View struct {
	mu sync.Mutex

	ViewID               string
	Navigated            []string
	Cancelled            int
	InteractiveDownloads []string
	Err                  error
}

var _ port.View = (*View)(nil)

// NewView creates a fake view with the given id
func NewView(id string) *View {
	return &View{ViewID: id}
}

func (v *View) ID() string { return v.ViewID }

func (v *View) NavigateInPlace(url string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Navigated = append(v.Navigated, url)
	return v.Err
}

func (v *View) CancelPendingNavigation() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Cancelled++
	return v.Err
}

func (v *View) TriggerInteractiveDownload(url string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.InteractiveDownloads = append(v.InteractiveDownloads, url)
	return v.Err
}

// Snapshot returns copies of the recorded commands
func (v *View) Snapshot() (navigated []string, cancelled int, interactive []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.Navigated...), v.Cancelled, append([]string(nil), v.InteractiveDownloads...)
}

// Shell records opened and revealed paths
type Shell struct {
	mu sync.Mutex

	Opened   []string
	Revealed []string
	Err      error
}

var _ port.Shell = (*Shell)(nil)

func (s *Shell) OpenInDefaultBrowser(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Opened = append(s.Opened, url)
	return s.Err
}

func (s *Shell) RevealInFileBrowser(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Revealed = append(s.Revealed, path)
	return s.Err
}

// OpenedCount returns how many URLs were opened
func (s *Shell) OpenedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Opened)
}

// Notifier records notifications
type Notifier struct {
	mu sync.Mutex

	Sent []port.Notification
	Err  error
}

var _ port.Notifier = (*Notifier)(nil)

func (n *Notifier) Notify(note port.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Sent = append(n.Sent, note)
	return n.Err
}

// Last returns the most recent notification
func (n *Notifier) Last() (port.Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.Sent) == 0 {
		return port.Notification{}, false
	}
	return n.Sent[len(n.Sent)-1], true
}

// Count returns how many notifications were sent
func (n *Notifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Sent)
}

// CuePlayer counts plays
type CuePlayer struct {
	mu sync.Mutex

	Plays int
	Err   error
}

var _ port.CuePlayer = (*CuePlayer)(nil)

func (c *CuePlayer) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Plays++
	return c.Err
}

// PlayCount returns how many times the cue played
func (c *CuePlayer) PlayCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Plays
}

// DownloadService records download messages without transferring anything
type DownloadService struct {
	mu sync.Mutex

	Messages []port.DownloadMessage
	Err      error
}

var _ port.DownloadService = (*DownloadService)(nil)

func (d *DownloadService) Request(msg port.DownloadMessage) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	d.Messages = append(d.Messages, msg)
	return nil
}

// Requests returns a copy of the received messages
func (d *DownloadService) Requests() []port.DownloadMessage {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]port.DownloadMessage(nil), d.Messages...)
}

// Settings returns a fixed DownloadConfig
type Settings struct {
	mu     sync.Mutex
	Config domain.DownloadConfig
	Reads  int
}

var _ port.SettingsSource = (*Settings)(nil)

func (s *Settings) DownloadConfig() domain.DownloadConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reads++
	return s.Config
}

// Registry maps domain indexes to prefixes
type Registry map[int64]string

var _ port.DomainRegistry = Registry(nil)

func (r Registry) TrustedPrefix(index int64) (string, error) {
	prefix, ok := r[index]
	if !ok {
		return "", domain.ErrDomainNotFound
	}
	return prefix, nil
}
