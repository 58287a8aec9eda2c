package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/chapterd/internal/apperr"
	"github.com/dgallion1/chapterd/internal/backup"
	"github.com/dgallion1/chapterd/internal/project"
)

type fakeOpener struct {
	opened []string
	err    error
}

func (f *fakeOpener) Open(path string) error {
	f.opened = append(f.opened, path)
	return f.err
}

type fakePicker struct {
	path string
	err  error
	exts []string
}

func (f *fakePicker) PickFile(ctx context.Context, extensions []string) (string, error) {
	f.exts = extensions
	return f.path, f.err
}

func (f *fakePicker) PickFolder(ctx context.Context) (string, error) {
	return f.path, f.err
}

func newTestService(t *testing.T, picker Picker) (*Service, *fakeOpener) {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	opener := &fakeOpener{}
	return NewService(backup.NewTracker(log), opener, picker, log), opener
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestListChapters_NotADirectory(t *testing.T) {
	svc, _ := newTestService(t, nil)
	file := filepath.Join(t.TempDir(), "a.html")
	writeFile(t, file, "x")

	for _, dir := range []string{file, filepath.Join(t.TempDir(), "missing")} {
		_, err := svc.ListChapters(dir)
		if kind := apperr.KindOf(err); kind != apperr.KindNotADirectory {
			t.Errorf("dir %q: expected kind %q, got %q", dir, apperr.KindNotADirectory, kind)
		}
	}
}

func TestListChapters(t *testing.T) {
	svc, _ := newTestService(t, nil)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.html"), "a")
	writeFile(t, filepath.Join(root, "sub", "b.HTM"), "b")
	writeFile(t, filepath.Join(root, "sub", "c.txt"), "c")

	chapters, err := svc.ListChapters(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chapters) != 2 || chapters[0].Filename != "a.html" || chapters[1].Filename != "b.HTM" {
		t.Errorf("unexpected chapters: %+v", chapters)
	}
}

func TestReadChapter_FullDocument(t *testing.T) {
	svc, _ := newTestService(t, nil)
	root := t.TempDir()
	path := filepath.Join(root, "text", "ch1.html")
	writeFile(t, path, "<!DOCTYPE html><html><head><title>One</title></head><body><p>Body</p></body></html>")
	writeFile(t, filepath.Join(root, "book.css"), "p { color: red; }")

	data, err := svc.ReadChapter(path, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Filename != "ch1.html" {
		t.Errorf("expected filename %q, got %q", "ch1.html", data.Filename)
	}
	if data.BodyHTML != "<p>Body</p>" {
		t.Errorf("expected body %q, got %q", "<p>Body</p>", data.BodyHTML)
	}
	if data.OriginalHead != "<title>One</title>" {
		t.Errorf("expected head %q, got %q", "<title>One</title>", data.OriginalHead)
	}
	if data.CSS != "p { color: red; }" {
		t.Errorf("expected project css, got %q", data.CSS)
	}
	if data.IsFragment {
		t.Error("expected full document")
	}
}

func TestReadChapter_Missing(t *testing.T) {
	svc, _ := newTestService(t, nil)
	_, err := svc.ReadChapter(filepath.Join(t.TempDir(), "gone.html"), "")
	if kind := apperr.KindOf(err); kind != apperr.KindFileRead {
		t.Errorf("expected kind %q, got %q", apperr.KindFileRead, kind)
	}
}

func TestWriteChapter_FullDocumentKeepsDoctypeAndBacksUp(t *testing.T) {
	svc, _ := newTestService(t, nil)
	path := filepath.Join(t.TempDir(), "ch1.html")
	original := "<!DOCTYPE html>\n<html>\n<head>\n<title>One</title>\n</head>\n<body>\n<p>Old</p>\n</body>\n</html>\n"
	writeFile(t, path, original)

	data, err := svc.ReadChapter(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.WriteChapter(path, "<p>New</p>", data.OriginalHead, data.IsFragment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := readFile(t, path)
	want := "<!DOCTYPE html>\n<html>\n<head>\n\n<title>One</title>\n</head>\n<body>\n<p>New</p>\n</body>\n</html>\n"
	if got != want {
		t.Errorf("expected\n%q\ngot\n%q", want, got)
	}
	if bak := readFile(t, project.BackupPath(path)); bak != original {
		t.Errorf("expected backup of original, got %q", bak)
	}

	// Second save must not overwrite the backup.
	if err := svc.WriteChapter(path, "<p>Newer</p>", data.OriginalHead, false); err != nil {
		t.Fatal(err)
	}
	if bak := readFile(t, project.BackupPath(path)); bak != original {
		t.Errorf("expected backup to stay at original, got %q", bak)
	}
}

func TestWriteChapter_Fragment(t *testing.T) {
	svc, _ := newTestService(t, nil)
	path := filepath.Join(t.TempDir(), "frag.html")
	writeFile(t, path, "<p>old</p>")

	if err := svc.WriteChapter(path, "<p>new</p>\n<h2>x</h2>", "", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := readFile(t, path); got != "<p>new</p>\n<h2>x</h2>" {
		t.Errorf("expected fragment written verbatim, got %q", got)
	}
}

func TestWriteChapter_NewFile(t *testing.T) {
	svc, _ := newTestService(t, nil)
	path := filepath.Join(t.TempDir(), "new.html")

	if err := svc.WriteChapter(path, "<p>fresh</p>", "<title>N</title>", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := readFile(t, path); !strings.HasPrefix(got, "<html>\n<head>\n<title>N</title>\n") {
		t.Errorf("unexpected content %q", got)
	}
	if _, err := os.Stat(project.BackupPath(path)); !os.IsNotExist(err) {
		t.Error("expected no backup for a new file")
	}
	if !svc.Tracker().Tracked(path) {
		t.Error("expected new file to be tracked")
	}
}

func TestExportChapter(t *testing.T) {
	svc, opener := newTestService(t, nil)
	path := filepath.Join(t.TempDir(), "ch.html")
	writeFile(t, path, "x")

	if err := svc.ExportChapter(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(opener.opened) != 1 || opener.opened[0] != path {
		t.Errorf("expected opener to receive %q, got %v", path, opener.opened)
	}

	opener.err = errors.New("no viewer")
	if kind := apperr.KindOf(svc.ExportChapter(path)); kind != apperr.KindExternalOpen {
		t.Errorf("expected kind %q, got %q", apperr.KindExternalOpen, kind)
	}

	if kind := apperr.KindOf(svc.ExportChapter(path + ".missing")); kind != apperr.KindFileRead {
		t.Errorf("expected kind %q for missing file, got %q", apperr.KindFileRead, kind)
	}
}

func TestExportDOCX(t *testing.T) {
	svc, _ := newTestService(t, nil)
	path := filepath.Join(t.TempDir(), "ch.html")
	writeFile(t, path, "<html><body><h1>Heading</h1><p>Text</p></body></html>")

	var buf bytes.Buffer
	if err := svc.ExportDOCX(path, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// DOCX files are zip archives.
	if !bytes.HasPrefix(buf.Bytes(), []byte("PK")) {
		t.Error("expected zip output")
	}
}

func TestOpenFile_NoPicker(t *testing.T) {
	svc, _ := newTestService(t, nil)
	if _, err := svc.OpenFile(context.Background()); !errors.Is(err, apperr.ErrNoSelection) {
		t.Errorf("expected ErrNoSelection, got %v", err)
	}
	if _, err := svc.OpenProject(context.Background()); !errors.Is(err, apperr.ErrNoSelection) {
		t.Errorf("expected ErrNoSelection, got %v", err)
	}
}

func TestOpenFile_Picker(t *testing.T) {
	picker := &fakePicker{path: "/books/ch1.html"}
	svc, _ := newTestService(t, picker)
	got, err := svc.OpenFile(context.Background())
	if err != nil || got != "/books/ch1.html" {
		t.Errorf("expected picked path, got %q (%v)", got, err)
	}
	if strings.Join(picker.exts, ",") != "html,htm" {
		t.Errorf("expected html filter, got %v", picker.exts)
	}
}

func TestOpenProject_ValidatesDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "x.html")
	writeFile(t, file, "x")
	svc, _ := newTestService(t, &fakePicker{path: file})

	_, err := svc.OpenProject(context.Background())
	if kind := apperr.KindOf(err); kind != apperr.KindNotADirectory {
		t.Errorf("expected kind %q, got %q", apperr.KindNotADirectory, kind)
	}
}

func TestOpenProject_Cancelled(t *testing.T) {
	svc, _ := newTestService(t, &fakePicker{err: apperr.ErrNoSelection})
	if _, err := svc.OpenProject(context.Background()); !errors.Is(err, apperr.ErrNoSelection) {
		t.Errorf("expected ErrNoSelection, got %v", err)
	}
}
