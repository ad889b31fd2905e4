package desktop

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"strings"
	"time"

	"github.com/vertextoedge/linkguard/internal/port"
	"go.uber.org/zap"
)

// ErrUnsupportedScheme is returned when asked to open a URL that is not a web or mail link
var ErrUnsupportedScheme = errors.New("unsupported url scheme")

// clickWait bounds how long a clickable notification waits for the user
const clickWait = 10 * time.Minute

// command is a program invocation
type command struct {
	name string
	args []string
}

// Runner starts external programs
type Runner interface {
	// Start launches the program and returns without waiting for it
	Start(name string, args ...string) error
	// Output runs the program to completion and returns its stdout
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs programs with os/exec
type ExecRunner struct{}

// Start launches the program and reaps it in the background
func (ExecRunner) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}

// Output runs the program to completion
func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Desktop talks to the host desktop environment. It implements port.Shell,
// port.Notifier and port.CuePlayer.
type Desktop struct {
	runner   Runner
	cueSound string
	logger   *zap.Logger
}

// Ensure Desktop implements the desktop ports
var (
	_ port.Shell     = (*Desktop)(nil)
	_ port.Notifier  = (*Desktop)(nil)
	_ port.CuePlayer = (*Desktop)(nil)
)

// New creates a new Desktop. A nil runner uses ExecRunner; an empty
// cueSound plays the platform's default completion sound.
func New(runner Runner, cueSound string, logger *zap.Logger) *Desktop {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Desktop{
		runner:   runner,
		cueSound: cueSound,
		logger:   logger,
	}
}

// OpenInDefaultBrowser hands rawURL to the OS default handler
func (d *Desktop) OpenInDefaultBrowser(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "mailto":
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	c := openCommand(rawURL)
	if err := d.runner.Start(c.name, c.args...); err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	return nil
}

// RevealInFileBrowser shows filePath in the system file manager
func (d *Desktop) RevealInFileBrowser(filePath string) error {
	return d.firstSuccessful(revealCommands(filePath))
}

// Play plays the completion cue
func (d *Desktop) Play() error {
	return d.firstSuccessful(cueCommands(d.cueSound))
}

// Notify shows a desktop notification. When n.OnClick is set and the
// platform reports clicks, OnClick runs after the user activates it.
func (d *Desktop) Notify(n port.Notification) error {
	clickable := n.OnClick != nil && supportsClick
	c := notifyCommand(n, clickable)

	if !clickable {
		if err := d.runner.Start(c.name, c.args...); err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		return nil
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), clickWait)
		defer cancel()

		out, err := d.runner.Output(ctx, c.name, c.args...)
		if err != nil {
			d.logger.Debug("Notification closed without action",
				zap.String("title", n.Title),
				zap.Error(err))
			return
		}
		if clicked(out) {
			n.OnClick()
		}
	}()
	return nil
}

// firstSuccessful runs candidates in order until one exits cleanly
func (d *Desktop) firstSuccessful(candidates []command) error {
	var errs []error
	for _, c := range candidates {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		_, err := d.runner.Output(ctx, c.name, c.args...)
		cancel()
		if err == nil {
			return nil
		}
		d.logger.Debug("Desktop command failed",
			zap.String("command", c.name),
			zap.Error(err))
		errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
	}
	if len(errs) == 0 {
		return errors.New("no desktop command available")
	}
	return errors.Join(errs...)
}

// clicked reports whether notifier output names the default action
func clicked(out []byte) bool {
	return strings.TrimSpace(string(out)) == defaultAction
}
