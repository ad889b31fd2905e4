package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// partSuffix marks a download that is still being written
const partSuffix = ".part"

// Manager writes downloaded files into a single directory
type Manager struct {
	rootDir string
}

// NewManager creates a new filesystem manager
func NewManager(rootDir string) (*Manager, error) {
	if rootDir == "" {
		return nil, fmt.Errorf("downloads dir is empty")
	}

	// Ensure root directory exists
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create downloads dir: %w", err)
	}

	return &Manager{
		rootDir: rootDir,
	}, nil
}

// RootDir returns the downloads directory
func (m *Manager) RootDir() string {
	return m.rootDir
}

// DiskUsage represents disk usage statistics
type DiskUsage struct {
	Total   uint64  // Total disk space in bytes
	Used    uint64  // Used disk space in bytes
	Free    uint64  // Free disk space in bytes
	UsedPct float64 // Used percentage (0-100)
}

// GetDiskUsage returns disk usage for the downloads directory
// Platform-specific implementation in fs_unix.go and fs_windows.go

// WriteFile streams reader into the downloads directory under name.
// Content goes to a ".part" file first and is renamed to the first free
// name ("report.pdf", "report (1).pdf", ...) once complete.
func (m *Manager) WriteFile(name string, reader io.Reader) (string, int64, error) {
	name = SanitizeFileName(name)

	f, err := os.CreateTemp(m.rootDir, "."+name+".*"+partSuffix)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := f.Name()

	// Write content
	written, err := io.Copy(f, reader)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return "", 0, fmt.Errorf("failed to close file: %w", err)
	}

	finalPath, err := m.commit(tmpPath, name)
	if err != nil {
		os.Remove(tmpPath)
		return "", 0, err
	}

	return finalPath, written, nil
}

// Rename moves a completed download to a new base name inside the
// downloads directory, picking the first free variant of name.
func (m *Manager) Rename(filePath, name string) (string, error) {
	return m.commit(filePath, SanitizeFileName(name))
}

// commit moves tmpPath to the first free variant of name. The final name
// is claimed with O_EXCL before the rename, so writers in other Managers or
// processes sharing the directory never receive the same path.
func (m *Manager) commit(tmpPath, name string) (string, error) {
	for i := 0; ; i++ {
		candidate := m.candidate(name, i)
		if candidate == tmpPath {
			return candidate, nil
		}

		f, err := os.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to claim %s: %w", candidate, err)
		}
		f.Close()

		if err := os.Rename(tmpPath, candidate); err != nil {
			os.Remove(candidate)
			return "", fmt.Errorf("failed to rename temp file: %w", err)
		}
		return candidate, nil
	}
}

// UniquePath returns a path for name in the downloads directory that
// does not exist yet. The result is advisory; commit claims names atomically.
func (m *Manager) UniquePath(name string) string {
	for i := 0; ; i++ {
		candidate := m.candidate(name, i)
		if !FileExists(candidate) {
			return candidate
		}
	}
}

// candidate returns the i-th name variant: "report.pdf", "report (1).pdf", ...
func (m *Manager) candidate(name string, i int) string {
	if i == 0 {
		return filepath.Join(m.rootDir, name)
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return filepath.Join(m.rootDir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
}

// CleanPartials removes ".part" files from interrupted downloads that have
// not been written to for olderThan
func (m *Manager) CleanPartials(olderThan time.Duration) (int, error) {
	matches, err := filepath.Glob(filepath.Join(m.rootDir, ".*"+partSuffix))
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, p := range matches {
		info, err := os.Stat(p)
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(p); err == nil {
			removed++
		}
	}
	return removed, nil
}

// FileExists checks if a file exists
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// SanitizeFileName strips directory components and characters that are
// not allowed in file names on common platforms
func SanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base("/" + name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r < 0x20:
			return -1
		case strings.ContainsRune(`<>:"|?*`, r):
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, " .")
	if name == "" || name == "/" {
		return "download"
	}
	return name
}

// ExpandHome replaces a leading "~" with the user's home directory
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
