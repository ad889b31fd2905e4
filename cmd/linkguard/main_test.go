package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vertextoedge/linkguard/internal/config"
	"go.uber.org/zap"
)

func TestDatabasePath(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Path: "/var/lib/linkguard.db"}}
	got, err := databasePath(cfg)
	if err != nil {
		t.Fatalf("databasePath() error = %v", err)
	}
	if got != "/var/lib/linkguard.db" {
		t.Errorf("databasePath() = %q, want configured path", got)
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	got, err = databasePath(&config.Config{})
	if err != nil {
		t.Fatalf("databasePath() error = %v", err)
	}
	if filepath.Base(got) != "linkguard.db" || filepath.Base(filepath.Dir(got)) != "linkguard" {
		t.Errorf("databasePath() = %q, want .../linkguard/linkguard.db", got)
	}
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := newVersionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "linkguard ") {
		t.Errorf("version output = %q", out.String())
	}
}

func TestDomainAndClassifyCmds(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LINKGUARD_DATABASE_PATH", filepath.Join(dir, "lg.db"))

	var out bytes.Buffer
	domainCmd := newDomainCmd()
	domainCmd.SetOut(&out)
	domainCmd.SetArgs([]string{"add", "https://chat.example.com", "--alias", "work"})
	if err := domainCmd.Execute(); err != nil {
		t.Fatalf("domain add error = %v", err)
	}
	if !strings.Contains(out.String(), "added domain 1") {
		t.Fatalf("domain add output = %q", out.String())
	}

	out.Reset()
	classifyCmd := newClassifyCmd()
	classifyCmd.SetOut(&out)
	classifyCmd.SetArgs([]string{"1", "https://chat.example.com/user_uploads/1/ab/report.pdf"})
	if err := classifyCmd.Execute(); err != nil {
		t.Fatalf("classify error = %v", err)
	}
	if !strings.Contains(out.String(), "decision: download") {
		t.Errorf("classify output = %q", out.String())
	}
}

// stopRecorder records the order in which services are stopped
type stopRecorder struct {
	name  string
	order *[]string
	err   error
}

func (r *stopRecorder) Stop() { *r.order = append(*r.order, r.name) }

type ctxStopRecorder struct{ stopRecorder }

func (r *ctxStopRecorder) Stop(ctx context.Context) error {
	*r.order = append(*r.order, r.name)
	return r.err
}

func TestShutdown_StopsViewsBeforeDownloads(t *testing.T) {
	var order []string
	views := &ctxStopRecorder{stopRecorder{name: "views", order: &order, err: errors.New("timeout")}}
	downloads := &stopRecorder{name: "downloads", order: &order}
	maintenance := &stopRecorder{name: "maintenance", order: &order}

	shutdown(context.Background(), views, downloads, maintenance, zap.NewNop())

	want := []string{"views", "downloads", "maintenance"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("stop order = %v, want %v", order, want)
	}
}
