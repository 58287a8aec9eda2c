package project

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/dgallion1/chapterd/internal/apperr"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestListHTMLFiles_SelectsAndSorts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "sub/b.HTM", "b")
	writeFile(t, root, "a.html", "a")
	writeFile(t, root, "sub/c.txt", "c")
	writeFile(t, root, "notes.html.bak", "old")
	if err := os.MkdirAll(filepath.Join(root, "dir.html"), 0o755); err != nil {
		t.Fatal(err)
	}

	chapters, err := ListHTMLFiles(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d: %+v", len(chapters), chapters)
	}

	want := []string{"a.html", filepath.Join("sub", "b.HTM")}
	for i, w := range want {
		if chapters[i].RelativePath != w {
			t.Errorf("chapter[%d]: expected relative path %q, got %q", i, w, chapters[i].RelativePath)
		}
		if !filepath.IsAbs(chapters[i].Path) {
			t.Errorf("chapter[%d]: expected absolute path, got %q", i, chapters[i].Path)
		}
	}
	if chapters[1].Filename != "b.HTM" {
		t.Errorf("expected filename %q, got %q", "b.HTM", chapters[1].Filename)
	}
}

func TestListHTMLFiles_ByteOrder(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{"b.html", "B.html", "a/z.html", "a.html", "ch10.html", "ch2.html"} {
		writeFile(t, root, rel, "")
	}
	chapters, err := ListHTMLFiles(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(chapters); i++ {
		if chapters[i-1].RelativePath >= chapters[i].RelativePath {
			t.Errorf("not sorted: %q before %q", chapters[i-1].RelativePath, chapters[i].RelativePath)
		}
	}
	if chapters[0].RelativePath != "B.html" {
		t.Errorf("expected uppercase to sort first, got %q", chapters[0].RelativePath)
	}
}

func TestListHTMLFiles_Empty(t *testing.T) {
	chapters, err := ListHTMLFiles(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chapters) != 0 {
		t.Errorf("expected no chapters, got %d", len(chapters))
	}
}

func TestListHTMLFiles_UnreadableDirectoryFails(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	root := t.TempDir()
	writeFile(t, root, "locked/x.html", "x")
	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	if _, err := ListHTMLFiles(root); err == nil {
		t.Error("expected error for unreadable subdirectory")
	}
}

func TestIsChapterFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a.html", true},
		{"a.HTM", true},
		{"a.Html", true},
		{"a.xhtml", false},
		{"a.html.bak", false},
		{"html", false},
		{"a.htm.tmp", false},
	}
	for _, tt := range tests {
		if got := IsChapterFile(tt.name); got != tt.want {
			t.Errorf("IsChapterFile(%q): expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestReadSharedStylesheet_NestedCandidate(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "styles/book.css", "body { margin: 0; }")
	if got := ReadSharedStylesheet(root); got != "body { margin: 0; }" {
		t.Errorf("expected nested stylesheet content, got %q", got)
	}
}

func TestReadSharedStylesheet_FirstMatchWins(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "css/book.css", "second")
	writeFile(t, root, "style.css", "first")
	if got := ReadSharedStylesheet(root); got != "first" {
		t.Errorf("expected %q, got %q", "first", got)
	}
}

func TestReadSharedStylesheet_None(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "other.css", "ignored")
	if got := ReadSharedStylesheet(root); got != "" {
		t.Errorf("expected empty stylesheet, got %q", got)
	}
	if got := ReadSharedStylesheet(filepath.Join(root, "missing")); got != "" {
		t.Errorf("expected empty stylesheet for missing root, got %q", got)
	}
}

func TestSiblingPaths(t *testing.T) {
	tests := []struct {
		path, tmp, bak string
	}{
		{"/p/ch1.html", "/p/ch1.html.tmp", "/p/ch1.html.bak"},
		{"/p/ch1.HTM", "/p/ch1.html.tmp", "/p/ch1.html.bak"},
		{"/p/notes.md", "/p/notes.md.tmp", "/p/notes.md.bak"},
		{"/p/notes.Markdown", "/p/notes.Markdown.tmp", "/p/notes.Markdown.bak"},
		{"/p/ch1.xhtml", "/p/ch1.html.tmp", "/p/ch1.html.bak"},
		{"/p/ch1.txt", "/p/ch1.html.tmp", "/p/ch1.html.bak"},
		{"/p/chapter", "/p/chapter.html.tmp", "/p/chapter.html.bak"},
		{"/p/.draft", "/p/.draft.html.tmp", "/p/.draft.html.bak"},
		{"/p/v1.2/ch", "/p/v1.2/ch.html.tmp", "/p/v1.2/ch.html.bak"},
	}
	for _, tt := range tests {
		if got := TempPath(tt.path); got != tt.tmp {
			t.Errorf("TempPath(%q): expected %q, got %q", tt.path, tt.tmp, got)
		}
		if got := BackupPath(tt.path); got != tt.bak {
			t.Errorf("BackupPath(%q): expected %q, got %q", tt.path, tt.bak, got)
		}
	}
}

func TestAtomicWrite_ReplacesContent(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "ch.html", "old")

	if err := AtomicWrite(path, "new"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := readFile(t, path); got != "new" {
		t.Errorf("expected %q, got %q", "new", got)
	}
	if _, err := os.Stat(TempPath(path)); !os.IsNotExist(err) {
		t.Error("expected temp file to be gone after rename")
	}
}

func TestAtomicWrite_CreatesNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.html")
	if err := AtomicWrite(path, "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := readFile(t, path); got != "hello" {
		t.Errorf("expected %q, got %q", "hello", got)
	}
}

func TestAtomicWrite_KeepsPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	path := writeFile(t, t.TempDir(), "ch.html", "old")
	if err := os.Chmod(path, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := AtomicWrite(path, "new"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}
}

func TestAtomicWrite_RenameFailureLeavesTarget(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ch.html", "original")

	rename = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: errors.New("simulated")}
	}
	t.Cleanup(func() { rename = os.Rename })

	err := AtomicWrite(path, "replacement")
	if err == nil {
		t.Fatal("expected rename error")
	}
	if kind := apperr.KindOf(err); kind != apperr.KindRename {
		t.Errorf("expected kind %q, got %q", apperr.KindRename, kind)
	}
	if got := readFile(t, path); got != "original" {
		t.Errorf("expected target untouched, got %q", got)
	}
	if _, err := os.Stat(TempPath(path)); !os.IsNotExist(err) {
		t.Error("expected temp file to be cleaned up")
	}
}

func TestAtomicWrite_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "ch.html")
	err := AtomicWrite(path, "x")
	if kind := apperr.KindOf(err); kind != apperr.KindFileWrite {
		t.Errorf("expected kind %q, got %q (%v)", apperr.KindFileWrite, kind, err)
	}
}

func TestCreateBackup(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ch.htm", "<p>v1</p>")
	backupPath, err := CreateBackup(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backupPath != BackupPath(path) {
		t.Errorf("expected backup path %q, got %q", BackupPath(path), backupPath)
	}
	if got := readFile(t, backupPath); got != "<p>v1</p>" {
		t.Errorf("expected backup content %q, got %q", "<p>v1</p>", got)
	}
}

func TestCreateBackup_MissingSource(t *testing.T) {
	if _, err := CreateBackup(filepath.Join(t.TempDir(), "gone.html")); err == nil {
		t.Error("expected error for missing source")
	}
}
