//go:build !windows
// +build !windows

package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDownloadsDir(t *testing.T) {
	home := t.TempDir()
	configHome := filepath.Join(home, ".config")
	if err := os.MkdirAll(configHome, 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_DOWNLOAD_DIR", "")

	got, err := DownloadsDir()
	if err != nil {
		t.Fatalf("DownloadsDir() error = %v", err)
	}
	if want := filepath.Join(home, "Downloads"); got != want {
		t.Errorf("DownloadsDir() fallback = %q, want %q", got, want)
	}

	userDirs := "# written by xdg-user-dirs-update\nXDG_DESKTOP_DIR=\"$HOME/Desktop\"\nXDG_DOWNLOAD_DIR=\"$HOME/Incoming\"\n"
	if err := os.WriteFile(filepath.Join(configHome, "user-dirs.dirs"), []byte(userDirs), 0644); err != nil {
		t.Fatal(err)
	}
	got, err = DownloadsDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, "Incoming"); got != want {
		t.Errorf("DownloadsDir() user-dirs = %q, want %q", got, want)
	}

	t.Setenv("XDG_DOWNLOAD_DIR", "/srv/dl")
	got, err = DownloadsDir()
	if err != nil {
		t.Fatal(err)
	}
	if got != "/srv/dl" {
		t.Errorf("DownloadsDir() env = %q, want /srv/dl", got)
	}
}
