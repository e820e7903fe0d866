// Package initcmd scaffolds a project directory for flick: a config file
// with every default spelled out, editable copies of the sample catalogs
// and a replay script to start from.
package initcmd

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	udiff "github.com/aymanbagabas/go-udiff"
	"github.com/npratt/flick/internal/catalog"
	"github.com/npratt/flick/internal/config"
)

//go:embed templates/*
var templateFS embed.FS

// ErrChanged is returned when existing files differ from what init would
// write and Force is not set.
var ErrChanged = errors.New("files have changes (use --force to overwrite)")

// Options configures the init command behavior.
type Options struct {
	DryRun  bool
	Force   bool
	Minimal bool      // Only write config.yaml
	Global  bool      // Write config.yaml to the user config directory
	Dir     string    // Project directory (defaults to .flick)
	Writer  io.Writer // Output writer (defaults to os.Stdout)
}

// File is one file init manages, relative to the target directory.
type File struct {
	Path    string
	Content string
}

// Result lists what happened to each file.
type Result struct {
	TargetDir   string
	Created     []string
	Overwritten []string
	Skipped     []string
	Unchanged   []string
}

// status compares a File against what is on disk.
type status struct {
	exists    bool
	unchanged bool
	diff      string
}

// BuildFileList renders the files for a target directory. Catalog paths
// in the generated config point into dir so the copies take effect.
func BuildFileList(dir string, minimal bool) ([]File, error) {
	cfg := config.Default()
	if !minimal {
		cfg.Paths.Items = filepath.Join(dir, "items.yaml")
		cfg.Paths.Feed = filepath.Join(dir, "feed.yaml")
	}
	cfgYAML, err := config.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("render config: %w", err)
	}
	files := []File{{Path: config.ProjectConfigFile, Content: string(cfgYAML)}}
	if minimal {
		return files, nil
	}

	items, err := catalog.Marshal(catalog.SampleDeck())
	if err != nil {
		return nil, fmt.Errorf("render deck: %w", err)
	}
	feed, err := catalog.Marshal(catalog.SampleFeed())
	if err != nil {
		return nil, fmt.Errorf("render feed: %w", err)
	}
	demo, err := templateFS.ReadFile("templates/demo.yaml")
	if err != nil {
		return nil, fmt.Errorf("read demo script: %w", err)
	}
	return append(files,
		File{Path: "items.yaml", Content: string(items)},
		File{Path: "feed.yaml", Content: string(feed)},
		File{Path: "demo.yaml", Content: string(demo)},
	), nil
}

// Run executes the init command with the given options.
func Run(opts Options) (*Result, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	targetDir, err := targetDir(opts)
	if err != nil {
		return nil, err
	}
	minimal := opts.Minimal || opts.Global
	files, err := BuildFileList(targetDir, minimal)
	if err != nil {
		return nil, err
	}

	statuses := make([]status, len(files))
	changed := false
	for i, f := range files {
		statuses[i] = check(filepath.Join(targetDir, f.Path), f.Content)
		if statuses[i].exists && !statuses[i].unchanged {
			changed = true
		}
	}

	result := &Result{TargetDir: targetDir}
	w := opts.Writer

	if opts.DryRun {
		_, _ = fmt.Fprintln(w, "DRY RUN - No changes will be made")
		_, _ = fmt.Fprintln(w)
		for i, f := range files {
			path := filepath.Join(targetDir, f.Path)
			switch s := statuses[i]; {
			case s.unchanged:
				_, _ = fmt.Fprintf(w, "Already up to date: %s\n", path)
				result.Unchanged = append(result.Unchanged, f.Path)
			case s.exists:
				_, _ = fmt.Fprintf(w, "Would overwrite (has changes): %s\n", path)
				_, _ = fmt.Fprintln(w, s.diff)
				result.Skipped = append(result.Skipped, f.Path)
			default:
				_, _ = fmt.Fprintf(w, "Would create: %s\n", path)
				result.Created = append(result.Created, f.Path)
			}
		}
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "Run without --dry-run to apply changes.")
		return result, nil
	}

	if changed && !opts.Force {
		_, _ = fmt.Fprintln(w, "The following files have changes:")
		_, _ = fmt.Fprintln(w)
		for i, f := range files {
			s := statuses[i]
			switch {
			case s.unchanged:
				result.Unchanged = append(result.Unchanged, f.Path)
			case s.exists:
				_, _ = fmt.Fprintf(w, "%s:\n%s\n", filepath.Join(targetDir, f.Path), s.diff)
				result.Skipped = append(result.Skipped, f.Path)
			}
		}
		_, _ = fmt.Fprintln(w, "Use --force to overwrite changed files.")
		return result, ErrChanged
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return result, fmt.Errorf("create directory %s: %w", targetDir, err)
	}
	for i, f := range files {
		path := filepath.Join(targetDir, f.Path)
		s := statuses[i]
		if s.unchanged {
			_, _ = fmt.Fprintf(w, "Already up to date: %s\n", path)
			result.Unchanged = append(result.Unchanged, f.Path)
			continue
		}
		if err := os.WriteFile(path, []byte(f.Content), 0644); err != nil {
			return result, fmt.Errorf("write %s: %w", path, err)
		}
		if s.exists {
			_, _ = fmt.Fprintf(w, "Overwritten: %s\n", path)
			result.Overwritten = append(result.Overwritten, f.Path)
		} else {
			_, _ = fmt.Fprintf(w, "Created: %s\n", path)
			result.Created = append(result.Created, f.Path)
		}
	}

	_, _ = fmt.Fprintln(w)
	if len(result.Created)+len(result.Overwritten) == 0 {
		_, _ = fmt.Fprintln(w, "flick configuration is already up to date.")
		return result, nil
	}
	_, _ = fmt.Fprintln(w, "flick initialized. Try 'flick run', or 'flick replay' with a script.")
	return result, nil
}

func targetDir(opts Options) (string, error) {
	if opts.Global {
		path := config.GlobalConfigPath()
		if path == "" {
			return "", errors.New("cannot locate user config directory")
		}
		return filepath.Dir(path), nil
	}
	if opts.Dir != "" {
		return opts.Dir, nil
	}
	return config.ProjectConfigDir, nil
}

func check(path, content string) status {
	existing, err := os.ReadFile(path)
	if err != nil {
		return status{}
	}
	if string(existing) == content {
		return status{exists: true, unchanged: true}
	}
	return status{
		exists: true,
		diff:   udiff.Unified("existing", "new", string(existing), content),
	}
}
