//go:build !windows
// +build !windows

package fs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// GetDiskUsage returns disk usage for the downloads directory
func (m *Manager) GetDiskUsage() (*DiskUsage, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(m.rootDir, &stat); err != nil {
		return nil, fmt.Errorf("failed to get disk stats: %w", err)
	}

	total := stat.Blocks * uint64(stat.Bsize)
	free := stat.Bavail * uint64(stat.Bsize)
	used := total - free

	usage := &DiskUsage{
		Total: total,
		Used:  used,
		Free:  free,
	}
	if total > 0 {
		usage.UsedPct = float64(used) / float64(total) * 100
	}
	return usage, nil
}

// DownloadsDir returns the user's downloads directory. On Linux it honors
// XDG_DOWNLOAD_DIR from the environment or user-dirs.dirs; elsewhere it
// falls back to ~/Downloads.
func DownloadsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home dir: %w", err)
	}

	if dir := os.Getenv("XDG_DOWNLOAD_DIR"); dir != "" {
		return expandXDG(dir, home), nil
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}
	if dir, ok := readUserDirs(filepath.Join(configHome, "user-dirs.dirs"), home); ok {
		return dir, nil
	}

	return filepath.Join(home, "Downloads"), nil
}

// readUserDirs reads XDG_DOWNLOAD_DIR from an xdg-user-dirs file
func readUserDirs(p, home string) (string, bool) {
	f, err := os.Open(p)
	if err != nil {
		return "", false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		value, ok := strings.CutPrefix(line, "XDG_DOWNLOAD_DIR=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"`)
		if value == "" {
			return "", false
		}
		return expandXDG(value, home), true
	}
	return "", false
}

func expandXDG(value, home string) string {
	if rest, ok := strings.CutPrefix(value, "$HOME"); ok {
		return filepath.Join(home, rest)
	}
	return ExpandHome(value)
}
