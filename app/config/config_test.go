package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"bellbird-files/app"
	"bellbird-files/app/config"
	"bellbird-files/app/debug"
)

func TestMain(m *testing.M) {
	debug.Disable()
	os.Exit(m.Run())
}

func newConfig(t *testing.T) (*config.Config, string) {
	t.Helper()

	dir := t.TempDir()
	conf, err := config.NewWithDir(dir)
	if err != nil {
		t.Fatalf("failed to create config: %v", err)
	}

	// stop pending meta writes before the directory is removed
	t.Cleanup(func() { conf.Flush() })

	return conf, dir
}

func TestDefaults(t *testing.T) {
	conf, _ := newConfig(t)

	if conf.ShowHidden() {
		t.Errorf("hidden files should be off by default")
	}

	if !conf.ParentEntry() || !conf.IndentLines() || !conf.ConfirmDelete() {
		t.Errorf("expected ParentEntry, IndentLines and ConfirmDelete to default to true")
	}

	if got := conf.PageSize(); got != 10 {
		t.Errorf("expected page size 10, got %d", got)
	}

	if got := conf.UndoLimit(); got != 50 {
		t.Errorf("expected undo limit 50, got %d", got)
	}

	if _, err := conf.Value(config.General, config.StartDirectory); err == nil {
		t.Errorf("empty start directory should not resolve to a value")
	}
}

func TestUserValueOverridesDefault(t *testing.T) {
	conf, dir := newConfig(t)

	conf.SetValue(config.Browser, config.PageSize, "25")

	if got := conf.PageSize(); got != 25 {
		t.Errorf("expected page size 25, got %d", got)
	}

	// the value is persisted and picked up by a fresh config
	reloaded, err := config.NewWithDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	if got := reloaded.PageSize(); got != 25 {
		t.Errorf("expected persisted page size 25, got %d", got)
	}

	conf.SetValue(config.Browser, config.PageSize, "many")
	if got := conf.PageSize(); got != 10 {
		t.Errorf("expected fallback page size 10 for invalid value, got %d", got)
	}
}

func TestNerdFontsFlag(t *testing.T) {
	conf, _ := newConfig(t)

	if !conf.NerdFonts() {
		t.Fatalf("nerd fonts should be enabled by default")
	}

	app.CliArgs.NoNerdFonts = true
	t.Cleanup(func() { app.CliArgs.NoNerdFonts = false })

	conf.Reload()
	if conf.NerdFonts() {
		t.Errorf("--no-nerd-fonts should disable nerd fonts")
	}
}

func TestMetaValues(t *testing.T) {
	conf, dir := newConfig(t)

	if _, err := conf.MetaValue("", config.LastDirectory); err == nil {
		t.Errorf("expected an error for a missing meta value")
	}

	conf.SetMetaValue("", config.LastDirectory, dir)
	conf.SetMetaValue(filepath.Join(dir, "a"), config.Expanded, "true")

	if err := conf.Flush(); err != nil {
		t.Fatal(err)
	}

	reloaded, err := config.NewWithDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	last, err := reloaded.MetaValue("", config.LastDirectory)
	if err != nil || last != dir {
		t.Errorf("expected last directory %s, got %q (%v)", dir, last, err)
	}
}

func TestExpandedUnder(t *testing.T) {
	conf, dir := newConfig(t)
	root := filepath.Join(dir, "root")

	conf.SetMetaValue(filepath.Join(root, "b"), config.Expanded, "true")
	conf.SetMetaValue(filepath.Join(root, "a", "inner"), config.Expanded, "true")
	conf.SetMetaValue(filepath.Join(root, "a"), config.Expanded, "true")
	conf.SetMetaValue(filepath.Join(root, "c"), config.Expanded, "false")
	conf.SetMetaValue(filepath.Join(root, "c", "inner"), config.Expanded, "true")
	conf.SetMetaValue(filepath.Join(root, "d", "inner"), config.Expanded, "true")
	conf.SetMetaValue(root, config.Expanded, "true")
	conf.SetMetaValue(filepath.Join(dir, "other"), config.Expanded, "true")

	// c/inner is hidden by its collapsed parent and d/inner has no
	// expanded parent at all
	got := conf.ExpandedUnder(root)
	want := []string{
		filepath.Join(root, "a"),
		filepath.Join(root, "a", "inner"),
		filepath.Join(root, "b"),
	}

	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %s at %d, got %s", want[i], i, got[i])
		}
	}
}

func TestRenameMetaSection(t *testing.T) {
	conf, dir := newConfig(t)
	oldPath := filepath.Join(dir, "old")
	newPath := filepath.Join(dir, "new")

	conf.SetMetaValue(oldPath, config.Expanded, "true")
	conf.SetMetaValue(filepath.Join(oldPath, "sub"), config.Expanded, "true")

	if err := conf.RenameMetaSection(oldPath, newPath); err != nil {
		t.Fatal(err)
	}

	if v, err := conf.MetaValue(newPath, config.Expanded); err != nil || v != "true" {
		t.Errorf("expected renamed section to keep its values, got %q (%v)", v, err)
	}

	if v, err := conf.MetaValue(filepath.Join(newPath, "sub"), config.Expanded); err != nil || v != "true" {
		t.Errorf("expected sub section to move along, got %q (%v)", v, err)
	}

	if _, err := conf.MetaValue(oldPath, config.Expanded); err == nil {
		t.Errorf("old section should be gone")
	}
}

func TestCleanMetaFile(t *testing.T) {
	conf, dir := newConfig(t)

	existing := filepath.Join(dir, "existing")
	if err := os.Mkdir(existing, 0755); err != nil {
		t.Fatal(err)
	}

	conf.SetMetaValue(existing, config.Expanded, "true")
	conf.SetMetaValue(filepath.Join(dir, "gone"), config.Expanded, "true")
	conf.SetMetaValue("", config.LastDirectory, dir)

	conf.CleanMetaFile()

	if _, err := conf.MetaValue(filepath.Join(dir, "gone"), config.Expanded); err == nil {
		t.Errorf("section of a missing path should be removed")
	}

	if _, err := conf.MetaValue(existing, config.Expanded); err != nil {
		t.Errorf("section of an existing path should be kept: %v", err)
	}

	if _, err := conf.MetaValue("", config.LastDirectory); err != nil {
		t.Errorf("global values should be kept: %v", err)
	}
}

func TestStartDirectory(t *testing.T) {
	conf, dir := newConfig(t)

	conf.SetMetaValue("", config.LastDirectory, dir)
	if got := conf.StartDirectory(); got != dir {
		t.Errorf("expected last directory %s, got %s", dir, got)
	}

	configured := t.TempDir()
	conf.SetValue(config.General, config.StartDirectory, configured)
	if got := conf.StartDirectory(); got != configured {
		t.Errorf("expected configured directory %s, got %s", configured, got)
	}

	cli := t.TempDir()
	app.CliArgs.Dir = cli
	t.Cleanup(func() { app.CliArgs.Dir = "" })

	if got := conf.StartDirectory(); got != cli {
		t.Errorf("expected cli directory %s, got %s", cli, got)
	}

	// missing directories are skipped
	app.CliArgs.Dir = filepath.Join(cli, "missing")
	if got := conf.StartDirectory(); got != configured {
		t.Errorf("expected fallback to %s, got %s", configured, got)
	}
}
