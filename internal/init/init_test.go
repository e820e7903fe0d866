package initcmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npratt/flick/internal/catalog"
	"github.com/npratt/flick/internal/config"
	"github.com/npratt/flick/internal/replay"
)

func paths(files []File) []string {
	var out []string
	for _, f := range files {
		out = append(out, f.Path)
	}
	return out
}

func TestBuildFileList(t *testing.T) {
	t.Run("full install", func(t *testing.T) {
		files, err := BuildFileList("proj", false)
		if err != nil {
			t.Fatalf("BuildFileList: %v", err)
		}
		want := []string{"config.yaml", "items.yaml", "feed.yaml", "demo.yaml"}
		if diff := cmp.Diff(want, paths(files)); diff != "" {
			t.Errorf("paths mismatch (-want +got):\n%s", diff)
		}
		if !strings.Contains(files[0].Content, "items: proj/items.yaml") {
			t.Errorf("config should point at the copied deck:\n%s", files[0].Content)
		}
	})

	t.Run("minimal install", func(t *testing.T) {
		files, err := BuildFileList("proj", true)
		if err != nil {
			t.Fatalf("BuildFileList: %v", err)
		}
		if diff := cmp.Diff([]string{"config.yaml"}, paths(files)); diff != "" {
			t.Errorf("paths mismatch (-want +got):\n%s", diff)
		}
		if strings.Contains(files[0].Content, "proj/") {
			t.Errorf("minimal config should keep the built-in samples:\n%s", files[0].Content)
		}
	})
}

func TestBuildFileList_ContentsParse(t *testing.T) {
	files, err := BuildFileList(".flick", false)
	if err != nil {
		t.Fatalf("BuildFileList: %v", err)
	}
	byPath := make(map[string]string)
	for _, f := range files {
		byPath[f.Path] = f.Content
	}

	items, err := catalog.Parse([]byte(byPath["items.yaml"]))
	if err != nil {
		t.Fatalf("items.yaml: %v", err)
	}
	if diff := cmp.Diff(catalog.SampleDeck(), items); diff != "" {
		t.Errorf("deck mismatch (-want +got):\n%s", diff)
	}
	feed, err := catalog.Parse([]byte(byPath["feed.yaml"]))
	if err != nil {
		t.Fatalf("feed.yaml: %v", err)
	}
	if len(feed) != len(catalog.SampleFeed()) {
		t.Errorf("feed has %d rows, want %d", len(feed), len(catalog.SampleFeed()))
	}
	script, err := replay.Parse([]byte(byPath["demo.yaml"]))
	if err != nil {
		t.Fatalf("demo.yaml: %v", err)
	}
	if script.Screen != config.ScreenDeck {
		t.Errorf("demo screen = %q, want deck", script.Screen)
	}
}

func TestRun_DryRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".flick")
	var buf bytes.Buffer

	result, err := Run(Options{DryRun: true, Dir: dir, Writer: &buf})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "DRY RUN") {
		t.Error("expected DRY RUN banner")
	}
	if !strings.Contains(output, "Would create") {
		t.Error("expected 'Would create' in output")
	}
	if len(result.Created) != 4 {
		t.Errorf("expected 4 files to create, got %v", result.Created)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("dry run must not create the directory")
	}
}

func TestRun_Install(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".flick")
	var buf bytes.Buffer

	result, err := Run(Options{Dir: dir, Writer: &buf})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, f := range []string{"config.yaml", "items.yaml", "feed.yaml", "demo.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("expected %s to be created: %v", f, err)
		}
	}
	if len(result.Created) != 4 {
		t.Errorf("expected 4 created files, got %d", len(result.Created))
	}
	if !strings.Contains(buf.String(), "flick initialized") {
		t.Errorf("expected success message, got:\n%s", buf.String())
	}
}

func TestRun_SecondRunIsUpToDate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".flick")
	if _, err := Run(Options{Dir: dir, Writer: &bytes.Buffer{}}); err != nil {
		t.Fatalf("first run: %v", err)
	}

	var buf bytes.Buffer
	result, err := Run(Options{Dir: dir, Writer: &buf})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(result.Unchanged) != 4 || len(result.Created) != 0 {
		t.Errorf("result = %+v, want everything unchanged", result)
	}
	if !strings.Contains(buf.String(), "already up to date") {
		t.Errorf("expected up-to-date message, got:\n%s", buf.String())
	}
}

func TestRun_ChangesWithoutForce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".flick")
	if _, err := Run(Options{Dir: dir, Writer: &bytes.Buffer{}}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("undo:\n  capacity: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	result, err := Run(Options{Dir: dir, Writer: &buf})
	if !errors.Is(err, ErrChanged) {
		t.Fatalf("err = %v, want ErrChanged", err)
	}
	if diff := cmp.Diff([]string{"config.yaml"}, result.Skipped); diff != "" {
		t.Errorf("skipped mismatch (-want +got):\n%s", diff)
	}
	output := buf.String()
	if !strings.Contains(output, "--- existing") || !strings.Contains(output, "-  capacity: 3") {
		t.Errorf("expected a unified diff, got:\n%s", output)
	}

	data, _ := os.ReadFile(cfgPath)
	if string(data) != "undo:\n  capacity: 3\n" {
		t.Error("changed file must be left alone without --force")
	}
}

func TestRun_ForceOverwrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".flick")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "items.yaml"), []byte("- id: solo\n"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := Run(Options{Dir: dir, Force: true, Writer: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"items.yaml"}, result.Overwritten); diff != "" {
		t.Errorf("overwritten mismatch (-want +got):\n%s", diff)
	}
	items, err := catalog.Load(filepath.Join(dir, "items.yaml"))
	if err != nil {
		t.Fatalf("load items: %v", err)
	}
	if len(items) != len(catalog.SampleDeck()) {
		t.Errorf("items = %d, want the sample deck", len(items))
	}
}

func TestRun_Global(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	result, err := Run(Options{Global: true, Writer: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(home, "flick"); result.TargetDir != want {
		t.Errorf("TargetDir = %q, want %q", result.TargetDir, want)
	}
	if diff := cmp.Diff([]string{"config.yaml"}, result.Created); diff != "" {
		t.Errorf("global init writes only the config (-want +got):\n%s", diff)
	}
}
