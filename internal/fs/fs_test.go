package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestWriteFile_PicksFreeName(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	want := []string{"report.pdf", "report (1).pdf", "report (2).pdf"}
	for i, name := range want {
		p, written, err := m.WriteFile("report.pdf", strings.NewReader("data"))
		if err != nil {
			t.Fatalf("WriteFile() #%d error = %v", i, err)
		}
		if written != 4 {
			t.Errorf("WriteFile() #%d written = %d, want 4", i, written)
		}
		if got := filepath.Base(p); got != name {
			t.Errorf("WriteFile() #%d name = %q, want %q", i, got, name)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), partSuffix) {
			t.Errorf("leftover partial file %q", e.Name())
		}
	}
}

func TestWriteFile_ConcurrentManagersGetDistinctPaths(t *testing.T) {
	dir := t.TempDir()
	const writers = 16

	var wg sync.WaitGroup
	paths := make([]string, writers)
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// One Manager per writer, as each download request builds its own
			m, err := NewManager(dir)
			if err != nil {
				errs[i] = err
				return
			}
			paths[i], _, errs[i] = m.WriteFile("report.pdf", strings.NewReader(fmt.Sprintf("writer %d", i)))
		}(i)
	}
	wg.Wait()

	seen := make(map[string]int)
	for i, p := range paths {
		if errs[i] != nil {
			t.Fatalf("WriteFile() #%d error = %v", i, errs[i])
		}
		if prev, ok := seen[p]; ok {
			t.Fatalf("writers %d and %d both got %q", prev, i, p)
		}
		seen[p] = i

		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatal(err)
		}
		if want := fmt.Sprintf("writer %d", i); string(data) != want {
			t.Errorf("%q content = %q, want %q", p, data, want)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != writers {
		t.Errorf("dir has %d entries, want %d", len(entries), writers)
	}
}

func TestWriteFile_SkipsExistingName(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("mine"), 0644); err != nil {
		t.Fatal(err)
	}
	m, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	p, _, err := m.WriteFile("notes.txt", strings.NewReader("new"))
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if filepath.Base(p) != "notes (1).txt" {
		t.Errorf("WriteFile() = %q, want notes (1).txt", p)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "notes.txt"))
	if string(data) != "mine" {
		t.Errorf("existing file overwritten: %q", data)
	}
}

func TestRename(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	p, _, err := m.WriteFile("download", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}
	renamed, err := m.Rename(p, "download.png")
	if err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if filepath.Base(renamed) != "download.png" {
		t.Errorf("Rename() = %q, want download.png", renamed)
	}
	if FileExists(p) {
		t.Errorf("old path %q still exists", p)
	}
}

func TestCleanPartials(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	old := time.Now().Add(-48 * time.Hour)
	for _, name := range []string{".a.pdf.123.part", ".b.zip.456.part", ".c.txt.789.part", "keep.txt"} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		if name != ".c.txt.789.part" {
			if err := os.Chtimes(p, old, old); err != nil {
				t.Fatal(err)
			}
		}
	}

	removed, err := m.CleanPartials(24 * time.Hour)
	if err != nil {
		t.Fatalf("CleanPartials() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("CleanPartials() removed = %d, want 2", removed)
	}
	if !FileExists(filepath.Join(dir, "keep.txt")) {
		t.Error("CleanPartials() removed a completed file")
	}
	if !FileExists(filepath.Join(dir, ".c.txt.789.part")) {
		t.Error("CleanPartials() removed an active partial file")
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "report.pdf", "report.pdf"},
		{"strips directories", "../../etc/passwd", "passwd"},
		{"strips windows directories", `..\..\evil.exe`, "evil.exe"},
		{"replaces reserved characters", `a<b>c:d"e|f?g*h.txt`, "a_b_c_d_e_f_g_h.txt"},
		{"drops control characters", "a\x00b\nc.txt", "abc.txt"},
		{"dot only", "..", "download"},
		{"empty", "", "download"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFileName(tt.in); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewManager_EmptyDir(t *testing.T) {
	if _, err := NewManager(""); err == nil {
		t.Error("NewManager(\"\") expected error")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	if got := ExpandHome("~/Downloads"); got != filepath.Join(home, "Downloads") {
		t.Errorf("ExpandHome() = %q", got)
	}
	if got := ExpandHome("/tmp/x"); got != "/tmp/x" {
		t.Errorf("ExpandHome() = %q, want unchanged", got)
	}
}
