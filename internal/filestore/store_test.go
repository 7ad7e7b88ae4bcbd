package filestore

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
)

func TestLoadSaveMemFS(t *testing.T) {
	mem := NewMemFS()
	s := New(WithFileSystem(mem))

	if err := s.Save("/work/a.txt", "hello\n"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := s.Load("/work/a.txt")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got != "hello\n" {
		t.Errorf("expected %q, got %q", "hello\n", got)
	}
	if files := mem.Files(); len(files) != 1 || files[0] != "/work/a.txt" {
		t.Errorf("unexpected files %v", files)
	}
}

func TestLoadMissing(t *testing.T) {
	s := New(WithFileSystem(NewMemFS()))

	_, err := s.Load("/nope.txt")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestNoPath(t *testing.T) {
	s := New(WithFileSystem(NewMemFS()))

	if _, err := s.Load(""); !errors.Is(err, ErrNoPath) {
		t.Errorf("Load: expected ErrNoPath, got %v", err)
	}
	if err := s.Save("", "x"); !errors.Is(err, ErrNoPath) {
		t.Errorf("Save: expected ErrNoPath, got %v", err)
	}
}

func TestLoadCleansInput(t *testing.T) {
	mem := NewMemFS()
	mem.AddFile("bom.txt", "\xEF\xBB\xBFhi\n")
	mem.AddFile("bad.txt", "a\xffb\n")
	mem.AddFile("bin.dat", "MZ\x00\x01")
	s := New(WithFileSystem(mem))

	if got, _ := s.Load("bom.txt"); got != "hi\n" {
		t.Errorf("BOM should be dropped, got %q", got)
	}
	if got, _ := s.Load("bad.txt"); got != "a�b\n" {
		t.Errorf("invalid UTF-8 should be replaced, got %q", got)
	}
	if _, err := s.Load("bin.dat"); !errors.Is(err, ErrBinary) {
		t.Errorf("expected ErrBinary, got %v", err)
	}
}

func TestLoadIndentToTabs(t *testing.T) {
	mem := NewMemFS()
	mem.AddFile("code.txt", "func x() {\n    if y {\n        z    = 1\n    }\n}\n")

	plain, _ := New(WithFileSystem(mem)).Load("code.txt")
	if plain != "func x() {\n    if y {\n        z    = 1\n    }\n}\n" {
		t.Errorf("indentation should be untouched by default, got %q", plain)
	}

	tabbed, _ := New(WithFileSystem(mem), WithIndentToTabs(true, 4)).Load("code.txt")
	if tabbed != "func x() {\n\tif y {\n\t\tz    = 1\n\t}\n}\n" {
		t.Errorf("unexpected tabified text %q", tabbed)
	}
}

func TestTabify(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"", 4, ""},
		{"    a", 4, "\ta"},
		{"      a", 4, "\t  a"},
		{"  a", 2, "\ta"},
		{"\t    a\n", 4, "\t\ta\n"},
		{"a    b", 4, "a    b"},
		{"    ", 4, "\t"},
		{"    a", 0, "    a"},
	}

	for _, tt := range tests {
		got := Tabify(tt.in, tt.width)
		if got != tt.want {
			t.Errorf("Tabify(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
		if again := Tabify(got, tt.width); again != got {
			t.Errorf("Tabify is not idempotent on %q: %q", got, again)
		}
	}
}

func TestOSFS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	s := New()

	if err := s.Save(path, "on disk\n"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := s.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got != "on disk\n" {
		t.Errorf("expected %q, got %q", "on disk\n", got)
	}

	if err := s.Save(filepath.Join(t.TempDir(), "missing", "x.txt"), "x"); err == nil {
		t.Error("expected an error saving into a missing directory")
	}
}
