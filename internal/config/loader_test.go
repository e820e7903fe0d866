package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/npratt/flick/internal/swipe"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// isolate points the global config lookup at an empty directory and
// changes into a fresh working directory.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	return tmpDir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig(viper.New())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("defaults changed by loading (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_ProjectFile(t *testing.T) {
	isolate(t)

	writeFile(t, filepath.Join(ProjectConfigDir, ProjectConfigFile), `
deck:
  distance_threshold: 90
  enabled: [left, right, up]
  commit_duration: 300ms
feed:
  actions:
    left: reject
ui:
  start_screen: feed
`)

	cfg, err := LoadConfig(viper.New())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Deck.DistanceThreshold != 90 {
		t.Errorf("Deck.DistanceThreshold = %v, want 90", cfg.Deck.DistanceThreshold)
	}
	if cfg.Deck.CommitDuration != 300*time.Millisecond {
		t.Errorf("Deck.CommitDuration = %v, want 300ms", cfg.Deck.CommitDuration)
	}
	if diff := cmp.Diff([]string{"left", "right", "up"}, cfg.Deck.Enabled); diff != "" {
		t.Errorf("Deck.Enabled mismatch (-want +got):\n%s", diff)
	}
	if cfg.UI.StartScreen != ScreenFeed {
		t.Errorf("UI.StartScreen = %q, want feed", cfg.UI.StartScreen)
	}

	// Maps merge key by key with the defaults.
	feed, err := cfg.Host(ScreenFeed)
	if err != nil {
		t.Fatalf("Host(feed) failed: %v", err)
	}
	if feed.ActionFor(swipe.Left) != swipe.Reject {
		t.Errorf("feed left = %q, want reject", feed.ActionFor(swipe.Left))
	}
	if feed.ActionFor(swipe.Right) != swipe.ActionA {
		t.Errorf("feed right = %q, want action_a", feed.ActionFor(swipe.Right))
	}

	// Unset values keep defaults.
	if cfg.Deck.Spring.Tension != 170 {
		t.Errorf("Deck.Spring.Tension = %v, want 170", cfg.Deck.Spring.Tension)
	}
}

func TestLoadConfig_GlobalThenProject(t *testing.T) {
	isolate(t)

	writeFile(t, GlobalConfigPath(), `
pointer:
  cell_width: 10
  cell_height: 20
undo:
  capacity: 5
`)
	writeFile(t, filepath.Join(ProjectConfigDir, ProjectConfigFile), `
undo:
  capacity: 7
`)

	cfg, err := LoadConfig(viper.New())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Pointer.CellWidth != 10 || cfg.Pointer.CellHeight != 20 {
		t.Errorf("Pointer = %+v, want 10x20 from global", cfg.Pointer)
	}
	if cfg.Undo.Capacity != 7 {
		t.Errorf("Undo.Capacity = %d, want 7 (project beats global)", cfg.Undo.Capacity)
	}
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, `
edge:
  distance_fraction: 0.25
  velocity_threshold: 0.8
`)

	v := viper.New()
	v.Set("config", path)
	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Edge.DistanceFraction != 0.25 {
		t.Errorf("Edge.DistanceFraction = %v, want 0.25", cfg.Edge.DistanceFraction)
	}
	if cfg.Edge.VelocityThreshold != 0.8 {
		t.Errorf("Edge.VelocityThreshold = %v, want 0.8", cfg.Edge.VelocityThreshold)
	}
}

func TestLoadConfig_ExplicitFileMissing(t *testing.T) {
	isolate(t)

	v := viper.New()
	v.Set("config", "/nonexistent/flick.yaml")
	if _, err := LoadConfig(v); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestLoadConfig_Override(t *testing.T) {
	isolate(t)

	v := viper.New()
	v.Set("deck.velocity_threshold", 0.6)
	v.Set("ui.mouse", false)
	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Deck.VelocityThreshold != 0.6 {
		t.Errorf("Deck.VelocityThreshold = %v, want 0.6", cfg.Deck.VelocityThreshold)
	}
	if cfg.UI.Mouse {
		t.Error("UI.Mouse = true, want false")
	}
}

func TestLoadConfig_CommaSeparatedList(t *testing.T) {
	isolate(t)

	v := viper.New()
	v.Set("feed.enabled", "right")
	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if diff := cmp.Diff([]string{"right"}, cfg.Feed.Enabled); diff != "" {
		t.Errorf("Feed.Enabled mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_DurationParsing(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"milliseconds", "120ms", 120 * time.Millisecond},
		{"seconds", "1s", time.Second},
		{"mixed", "1s250ms", 1250 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			writeFile(t, filepath.Join(ProjectConfigDir, ProjectConfigFile),
				"feed:\n  commit_duration: "+tt.value+"\n")

			cfg, err := LoadConfig(viper.New())
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}
			if cfg.Feed.CommitDuration != tt.want {
				t.Errorf("Feed.CommitDuration = %v, want %v", cfg.Feed.CommitDuration, tt.want)
			}
		})
	}
}

func TestLoadConfig_InvalidRejected(t *testing.T) {
	isolate(t)
	writeFile(t, filepath.Join(ProjectConfigDir, ProjectConfigFile), `
deck:
  actions:
    left: maybe
`)

	_, err := LoadConfig(viper.New())
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "invalid config") {
		t.Errorf("error = %v, want invalid config", err)
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	isolate(t)
	writeFile(t, filepath.Join(ProjectConfigDir, ProjectConfigFile), "deck: [unclosed\n")

	if _, err := LoadConfig(viper.New()); err == nil {
		t.Error("expected parse error")
	}
}

func TestGlobalConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	want := filepath.Join(dir, "flick", "config.yaml")
	if got := GlobalConfigPath(); got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}
	if got := globalConfigPath(); got != "" {
		t.Errorf("globalConfigPath() = %q, want empty when file is absent", got)
	}
}

func TestProjectConfigPath(t *testing.T) {
	isolate(t)

	if got := projectConfigPath(); got != "" {
		t.Errorf("projectConfigPath() = %q, want empty", got)
	}
	writeFile(t, filepath.Join(ProjectConfigDir, ProjectConfigFile), "undo:\n  capacity: 3\n")
	if got := projectConfigPath(); got != filepath.Join(".flick", "config.yaml") {
		t.Errorf("projectConfigPath() = %q", got)
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	out, err := Marshal(Default())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(out), "commit_duration: 200ms") {
		t.Errorf("durations should render as strings:\n%s", out)
	}

	var back Config
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if diff := cmp.Diff(Default(), &back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
