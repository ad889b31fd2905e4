package opener

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vertextoedge/linkguard/internal/domain/event"
	"github.com/vertextoedge/linkguard/internal/port/porttest"
	"go.uber.org/zap"
)

type eventCounter struct{ n int }

func (c *eventCounter) Handle(event.DomainEvent) error { c.n++; return nil }
func (c *eventCounter) HandledEvents() []string      { return []string{event.NameExternalLinkOpened} }

func TestOpener_Open(t *testing.T) {
	shell := &porttest.Shell{}
	view := porttest.NewView("view-1")
	dispatcher := event.NewInMemoryDispatcher(false)
	counter := &eventCounter{}
	dispatcher.Subscribe(counter)

	o := New(shell, dispatcher, zap.NewNop())
	o.Open(view, "https://evil.example/phish")

	navigated, cancelled, interactive := view.Snapshot()
	assert.Equal(t, 1, cancelled)
	assert.Empty(t, navigated)
	assert.Empty(t, interactive)
	require.Len(t, shell.Opened, 1)
	assert.Equal(t, "https://evil.example/phish", shell.Opened[0])
	assert.Equal(t, 1, counter.n)
}

func TestOpener_FailuresAreNotSurfaced(t *testing.T) {
	shell := &porttest.Shell{Err: porttest.ErrInjected}
	view := porttest.NewView("view-1")
	view.Err = porttest.ErrInjected

	o := New(shell, nil, zap.NewNop())
	assert.NotPanics(t, func() { o.Open(view, "https://evil.example") })
	assert.Equal(t, 1, shell.OpenedCount())
}

func TestOpener_NilView(t *testing.T) {
	shell := &porttest.Shell{}
	o := New(shell, nil, zap.NewNop())
	o.Open(nil, "https://evil.example")
	assert.Equal(t, 1, shell.OpenedCount())
}
