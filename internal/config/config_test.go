package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/citewise/citewise/core/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	if !cfg.ColorEnabled() {
		t.Error("ColorEnabled() = false, want true by default")
	}
	if cfg.UI.Colors != nil {
		t.Errorf("UI.Colors = %v, want nil", cfg.UI.Colors)
	}
	if cfg.LTWA.Table != "" {
		t.Errorf("LTWA.Table = %q, want empty", cfg.LTWA.Table)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[ui]
color = false

[ui.colors]
text_success = "blue"
text_highlight = "fuchsia"

[ltwa]
table = "/opt/tables/ltwa.tsv"
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.ColorEnabled() {
		t.Error("ColorEnabled() = true, want false")
	}
	if got := cfg.UI.Colors["text_success"]; got != "blue" {
		t.Errorf("Colors[text_success] = %q, want %q", got, "blue")
	}
	if got := cfg.UI.Colors["text_highlight"]; got != "fuchsia" {
		t.Errorf("Colors[text_highlight] = %q, want %q", got, "fuchsia")
	}
	if cfg.LTWA.Table != "/opt/tables/ltwa.tsv" {
		t.Errorf("LTWA.Table = %q, want /opt/tables/ltwa.tsv", cfg.LTWA.Table)
	}
}

func TestLoadFilePartial(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[ui.colors]
text_error = "purple"
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if !cfg.ColorEnabled() {
		t.Error("ColorEnabled() = false, want true when unset")
	}
	if len(cfg.UI.Colors) != 1 || cfg.UI.Colors["text_error"] != "purple" {
		t.Errorf("UI.Colors = %v, want only text_error=purple", cfg.UI.Colors)
	}
}

func TestLoadFileExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, t.TempDir(), `
[ltwa]
table = "~/tables/ltwa.tsv"
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	want := filepath.Join(home, "tables", "ltwa.tsv")
	if cfg.LTWA.Table != want {
		t.Errorf("LTWA.Table = %q, want %q", cfg.LTWA.Table, want)
	}
}

func TestLoadFileMalformed(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[ui\ncolor = maybe")

	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("LoadFile() error = nil, want parse error")
	}
	var perr *errors.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *errors.ParseError", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		t.Fatal("LoadFile() error = nil, want IO error")
	}
	var ioErr *errors.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("error = %v, want *errors.IOError", err)
	}
}

func TestLoadSearchesXDGPath(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CONFIG_DIRS", filepath.Join(dir, "none"))
	xdg.Reload()

	appDir := filepath.Join(dir, appName)
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, appDir, `
[ui]
color = false
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ColorEnabled() {
		t.Error("ColorEnabled() = true, want false from config file")
	}
}

func TestLoadWithoutConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CONFIG_DIRS", filepath.Join(dir, "none"))
	xdg.Reload()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.ColorEnabled() {
		t.Error("ColorEnabled() = false, want default true")
	}
	if cfg.LTWA.Table != "" {
		t.Errorf("LTWA.Table = %q, want empty", cfg.LTWA.Table)
	}
}
