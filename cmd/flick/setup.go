package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/npratt/flick/internal/catalog"
	"github.com/npratt/flick/internal/config"
	"github.com/npratt/flick/internal/deck"
	"github.com/npratt/flick/internal/events"
)

// loadConfig loads the layered config and applies explicitly set flags.
func loadConfig(v *viper.Viper, flags *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.LoadConfig(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := applyOverrides(cfg, flags); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyOverrides copies flags the user set onto cfg. Flags left at their
// defaults never override file or env values.
func applyOverrides(cfg *config.Config, flags *pflag.FlagSet) error {
	str := func(name string, dst *string) error {
		if f := flags.Lookup(name); f == nil || !f.Changed {
			return nil
		}
		v, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}

	for name, dst := range map[string]*string{
		FlagEventLog: &cfg.Paths.EventLog,
		FlagLogDir:   &cfg.Paths.LogDir,
		FlagItems:    &cfg.Paths.Items,
		FlagFeed:     &cfg.Paths.Feed,
		FlagScreen:   &cfg.UI.StartScreen,
	} {
		if err := str(name, dst); err != nil {
			return err
		}
	}

	if f := flags.Lookup(FlagNoMouse); f != nil && f.Changed {
		off, err := flags.GetBool(FlagNoMouse)
		if err != nil {
			return err
		}
		cfg.UI.Mouse = !off
	}
	return nil
}

// loadCatalogs reads the deck and feed, falling back to the built-in
// samples for unset paths.
func loadCatalogs(cfg *config.Config) (deckItems, feedItems []deck.Item, err error) {
	deckItems, err = catalog.LoadOr(cfg.Paths.Items, catalog.SampleDeck)
	if err != nil {
		return nil, nil, fmt.Errorf("load deck: %w", err)
	}
	feedItems, err = catalog.LoadOr(cfg.Paths.Feed, catalog.SampleFeed)
	if err != nil {
		return nil, nil, fmt.Errorf("load feed: %w", err)
	}
	return deckItems, feedItems, nil
}

// printSummary writes the end-of-session tally.
func printSummary(w io.Writer, session string, t events.Tally) {
	_, _ = fmt.Fprintf(w, "Session %s: %d commits, %d undos, %d reverts, %d taps\n",
		session, t.Commits, t.Undos, t.Reverts, t.Taps)

	hosts := make([]string, 0, len(t.PerHost))
	for host := range t.PerHost {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)

	for _, host := range hosts {
		decisions := make([]string, 0, len(t.PerHost[host]))
		for d, n := range t.PerHost[host] {
			if n != 0 {
				decisions = append(decisions, fmt.Sprintf("%s=%d", d, n))
			}
		}
		if len(decisions) == 0 {
			continue
		}
		sort.Strings(decisions)
		line := fmt.Sprintf("  %s: %s", host, strings.Join(decisions, " "))
		if n := t.Exhausted[host]; n > 0 {
			line += " (exhausted)"
		}
		_, _ = fmt.Fprintln(w, line)
	}
}
