package state_test

import (
	"os"
	"path/filepath"
	"testing"

	"bellbird-files/app/debug"
	"bellbird-files/app/state"
)

func TestMain(m *testing.M) {
	debug.Disable()
	os.Exit(m.Run())
}

func TestAppendMovesDuplicatesToTheEnd(t *testing.T) {
	s := state.NewWithFile(filepath.Join(t.TempDir(), "state"))

	s.Append(state.NewEntry(state.Directory, "/a"))
	s.Append(state.NewEntry(state.Directory, "/b"))
	s.Append(state.NewEntry(state.File, "/b/file.txt"))
	s.Append(state.NewEntry(state.Directory, "/a"))
	s.Append(state.NewEntry(state.Directory, ""))

	dirs := s.Entries(state.Directory)
	if len(dirs) != 2 {
		t.Fatalf("expected 2 directories, got %d", len(dirs))
	}

	if dirs[0].Content() != "/b" || dirs[1].Content() != "/a" {
		t.Errorf("expected [/b /a], got [%s %s]", dirs[0].Content(), dirs[1].Content())
	}

	if files := s.Entries(state.File); len(files) != 1 {
		t.Errorf("expected 1 file, got %d", len(files))
	}
}

func TestPrevious(t *testing.T) {
	s := state.NewWithFile(filepath.Join(t.TempDir(), "state"))

	if _, ok := s.Previous(state.Directory, "/a"); ok {
		t.Fatalf("empty history should have no previous entry")
	}

	s.Append(state.NewEntry(state.Directory, "/a"))
	s.Append(state.NewEntry(state.Directory, "/b"))
	s.Append(state.NewEntry(state.File, "/b/file.txt"))

	prev, ok := s.Previous(state.Directory, "/b")
	if !ok || prev.Content() != "/a" {
		t.Errorf("expected /a, got %q", prev.Content())
	}

	// going back and forth toggles between the last two directories
	s.Append(state.NewEntry(state.Directory, "/a"))
	prev, _ = s.Previous(state.Directory, "/a")
	if prev.Content() != "/b" {
		t.Errorf("expected /b, got %q", prev.Content())
	}
}

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state")
	s := state.NewWithFile(path)

	s.Append(state.NewEntry(state.Directory, "/with|pipe"))
	s.Append(state.NewEntry(state.File, "/file.txt"))

	if err := s.Write(); err != nil {
		t.Fatal(err)
	}

	// append a broken line that must be skipped
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("garbage\n")
	f.Close()

	read := state.NewWithFile(path)
	if err := read.Read(); err != nil {
		t.Fatal(err)
	}

	dirs := read.Entries(state.Directory)
	if len(dirs) != 1 || dirs[0].Content() != "/with|pipe" {
		t.Errorf("unexpected directories %v", dirs)
	}

	files := read.Entries(state.File)
	if len(files) != 1 || files[0].Content() != "/file.txt" {
		t.Errorf("unexpected files %v", files)
	}
}
