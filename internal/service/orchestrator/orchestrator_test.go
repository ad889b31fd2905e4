package orchestrator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vertextoedge/linkguard/internal/domain"
	"github.com/vertextoedge/linkguard/internal/port/porttest"
	"go.uber.org/zap"
)

const reportURL = "https://chat.example.com/user_uploads/1/2/abc/report.pdf"

type fixture struct {
	orch      *Orchestrator
	downloads *porttest.DownloadService
	notifier  *porttest.Notifier
	cue       *porttest.CuePlayer
	shell     *porttest.Shell
	view      *porttest.View
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		downloads: &porttest.DownloadService{},
		notifier:  &porttest.Notifier{},
		cue:       &porttest.CuePlayer{},
		shell:     &porttest.Shell{},
		view:      porttest.NewView("view-1"),
	}
	f.orch = New(f.downloads, f.notifier, f.cue, f.shell, nil, zap.NewNop())

	n := 0
	f.orch.newID = func() string {
		n++
		return fmt.Sprintf("req-%d", n)
	}
	return f
}

func TestIntercept_SendsRequestAndCancelsNavigation(t *testing.T) {
	f := newFixture(t)
	cfg := domain.DownloadConfig{DownloadsPath: "/home/u/Downloads"}

	req, err := f.orch.Intercept(f.view, reportURL, cfg)
	require.NoError(t, err)

	msgs := f.downloads.Requests()
	require.Len(t, msgs, 1)
	assert.Equal(t, req.ID, msgs[0].ID)
	assert.Equal(t, reportURL, msgs[0].URL)
	assert.Equal(t, "/home/u/Downloads", msgs[0].DownloadsPath)

	navigated, cancelled, _ := f.view.Snapshot()
	assert.Equal(t, 1, cancelled)
	assert.Empty(t, navigated)

	assert.Equal(t, domain.DownloadStatusRequested, req.Status())
	assert.Equal(t, 1, f.orch.Pending())
}

func TestIntercept_NilView(t *testing.T) {
	f := newFixture(t)
	_, err := f.orch.Intercept(nil, reportURL, domain.DownloadConfig{})
	assert.ErrorIs(t, err, domain.ErrNilView)
	assert.Empty(t, f.downloads.Requests())
}

func TestCompleted_NotifiesAndDeregistersFailed(t *testing.T) {
	f := newFixture(t)
	req, err := f.orch.Intercept(f.view, reportURL, domain.DownloadConfig{DownloadsPath: "/dl"})
	require.NoError(t, err)

	require.NoError(t, f.orch.Completed(req.ID, "/dl/report.pdf", "report.pdf"))

	note, ok := f.notifier.Last()
	require.True(t, ok)
	assert.Equal(t, "Download Complete", note.Title)
	assert.Contains(t, note.Body, "report.pdf")
	assert.True(t, note.Silent)
	require.NotNil(t, note.OnClick)

	note.OnClick()
	assert.Equal(t, []string{"/dl/report.pdf"}, f.shell.Revealed)

	completedArmed, failedArmed := req.SlotsArmed()
	assert.False(t, completedArmed)
	assert.False(t, failedArmed)
	assert.False(t, f.orch.IsPending(req.ID))
	assert.Equal(t, 0, f.orch.Pending())

	err = f.orch.Failed(req.ID)
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
	_, _, interactive := f.view.Snapshot()
	assert.Empty(t, interactive)
	assert.Equal(t, 1, f.notifier.Count())
}

func TestFailed_DeregistersCompleted(t *testing.T) {
	f := newFixture(t)
	req, err := f.orch.Intercept(f.view, reportURL, domain.DownloadConfig{})
	require.NoError(t, err)

	require.NoError(t, f.orch.Failed(req.ID))

	completedArmed, failedArmed := req.SlotsArmed()
	assert.False(t, completedArmed)
	assert.False(t, failedArmed)
	assert.Equal(t, domain.DownloadStatusFailed, req.Status())

	err = f.orch.Completed(req.ID, "/dl/report.pdf", "report.pdf")
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
	assert.Equal(t, 0, f.notifier.Count())
	assert.Equal(t, 0, f.cue.PlayCount())
}

func TestCompleted_SilentMode(t *testing.T) {
	tests := []struct {
		name      string
		silent    bool
		wantPlays int
	}{
		{name: "silent mode suppresses cue", silent: true, wantPlays: 0},
		{name: "cue plays when not silent", silent: false, wantPlays: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req, err := f.orch.Intercept(f.view, reportURL, domain.DownloadConfig{SilentMode: tt.silent})
			require.NoError(t, err)
			require.NoError(t, f.orch.Completed(req.ID, "/dl/report.pdf", "report.pdf"))

			assert.Equal(t, tt.wantPlays, f.cue.PlayCount())
			note, ok := f.notifier.Last()
			require.True(t, ok)
			assert.True(t, note.Silent, "OS sound is always suppressed")
		})
	}
}

func TestFailed_PromptOrFallback(t *testing.T) {
	tests := []struct {
		name            string
		prompt          bool
		wantInteractive []string
		wantNotes       int
	}{
		{name: "prompt enabled notifies only", prompt: true, wantInteractive: nil, wantNotes: 1},
		{name: "prompt disabled falls back once", prompt: false, wantInteractive: []string{reportURL}, wantNotes: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req, err := f.orch.Intercept(f.view, reportURL, domain.DownloadConfig{PromptOnAutoDownloadFailure: tt.prompt})
			require.NoError(t, err)
			require.NoError(t, f.orch.Failed(req.ID))

			_, _, interactive := f.view.Snapshot()
			assert.Equal(t, tt.wantInteractive, interactive)
			assert.Equal(t, tt.wantNotes, f.notifier.Count())
			if tt.prompt {
				note, _ := f.notifier.Last()
				assert.Equal(t, "Download Failed", note.Title)
				assert.Nil(t, note.OnClick)
			}
		})
	}
}

func TestSignalsDoNotCrossRequests(t *testing.T) {
	f := newFixture(t)
	first, err := f.orch.Intercept(f.view, reportURL, domain.DownloadConfig{})
	require.NoError(t, err)
	second, err := f.orch.Intercept(f.view, "https://chat.example.com/user_uploads/9/notes.txt", domain.DownloadConfig{})
	require.NoError(t, err)
	require.Equal(t, 2, f.orch.Pending())

	require.NoError(t, f.orch.Completed(first.ID, "/dl/report.pdf", "report.pdf"))

	// A stale failure for the first request must not touch the second.
	assert.ErrorIs(t, f.orch.Failed(first.ID), domain.ErrRequestNotFound)
	assert.Equal(t, domain.DownloadStatusRequested, second.Status())
	completedArmed, failedArmed := second.SlotsArmed()
	assert.True(t, completedArmed)
	assert.True(t, failedArmed)

	require.NoError(t, f.orch.Failed(second.ID))
	_, _, interactive := f.view.Snapshot()
	assert.Equal(t, []string{"https://chat.example.com/user_uploads/9/notes.txt"}, interactive)
	assert.Equal(t, 1, f.notifier.Count())
	assert.Equal(t, 0, f.orch.Pending())
}

func TestIntercept_RejectedRequestResolvesFailed(t *testing.T) {
	f := newFixture(t)
	f.downloads.Err = porttest.ErrInjected

	req, err := f.orch.Intercept(f.view, reportURL, domain.DownloadConfig{})
	require.NoError(t, err)

	assert.Equal(t, domain.DownloadStatusFailed, req.Status())
	assert.Equal(t, 0, f.orch.Pending())
	_, _, interactive := f.view.Snapshot()
	assert.Equal(t, []string{reportURL}, interactive)
}

func TestSideEffectFailuresDoNotBreakResolution(t *testing.T) {
	f := newFixture(t)
	f.notifier.Err = porttest.ErrInjected
	f.cue.Err = porttest.ErrInjected

	req, err := f.orch.Intercept(f.view, reportURL, domain.DownloadConfig{})
	require.NoError(t, err)
	require.NoError(t, f.orch.Completed(req.ID, "/dl/report.pdf", "report.pdf"))
	assert.Equal(t, domain.DownloadStatusCompleted, req.Status())
}

func TestUnknownRequest(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.orch.Completed("nope", "/x", "x"), domain.ErrRequestNotFound)
	assert.ErrorIs(t, f.orch.Failed("nope"), domain.ErrRequestNotFound)
}

func TestStaleSignalIsSkippable(t *testing.T) {
	f := newFixture(t)
	req, err := f.orch.Intercept(f.view, reportURL, domain.DownloadConfig{})
	require.NoError(t, err)
	require.NoError(t, f.orch.Failed(req.ID))

	err = f.orch.Completed(req.ID, "/dl/report.pdf", "report.pdf")
	require.Error(t, err)
	assert.True(t, domain.IsSkippable(err))
	assert.ErrorIs(t, err, domain.ErrSkipStaleSignal)
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
	assert.Equal(t, domain.DownloadStatusFailed, req.Status())
}
