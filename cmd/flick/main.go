package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/npratt/flick/internal/config"
	"github.com/npratt/flick/internal/controller"
	"github.com/npratt/flick/internal/events"
	initcmd "github.com/npratt/flick/internal/init"
	"github.com/npratt/flick/internal/replay"
	"github.com/npratt/flick/internal/shutdown"
	"github.com/npratt/flick/internal/tui"
)

var version = "dev"

// shutdownGrace bounds how long replay and events get to stop after a signal.
const shutdownGrace = 5 * time.Second

func main() {
	logLevel := &slog.LevelVar{}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	viper.SetEnvPrefix("FLICK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "flick",
		Short: "Swipe through decks, feeds and edge drawers in the terminal",
		Long: `flick turns drags, flicks and key presses into decisions on a stack of
items: accept or reject a card, open or share a feed row, pull out a capture
drawer from the screen edge. Every decision can be taken back.

Run it interactively with 'flick run', or play a recorded gesture script
with 'flick replay'.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if viper.GetBool(FlagVerbose) {
				logLevel.Set(slog.LevelDebug)
				logger.Debug("verbose logging enabled")
			}
		},
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().Bool(FlagVerbose, false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().String(FlagConfig, "", "Config file path (default: .flick/config.yaml)")
	rootCmd.PersistentFlags().String(FlagEventLog, "", "Event log path")
	rootCmd.PersistentFlags().String(FlagLogDir, "", "Directory for the debug log")

	// Bind all flags to viper
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag(f.Name, f)
	})

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "flick %s\n", version)
		},
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Open the swipe screens",
		Long: `Open the deck, edge and feed screens in the terminal.

Drag with the mouse or use the arrow keys to decide on the top item, u to
undo, tab to switch screens and ? for the full key list. When stdin or
stdout is not a terminal, flick reads one command per line instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(viper.GetViper(), cmd.Flags())
			if err != nil {
				return err
			}
			deckItems, feedItems, err := loadCatalogs(cfg)
			if err != nil {
				return err
			}

			// The TUI owns the terminal: log to a rotating file instead.
			tuiLog, err := SetupTUILogger(cfg.Paths.LogDir, logLevel, cfg.LogRotation)
			if err != nil {
				return err
			}
			defer func() { _ = tuiLog.Close() }()
			sessionLog := tuiLog.Logger
			slog.SetDefault(sessionLog)

			sessionLog.Info("flick starting",
				"version", version,
				"screen", cfg.UI.StartScreen,
				"items", len(deckItems),
				"feed", len(feedItems),
				"event_log", cfg.Paths.EventLog,
			)

			router := events.NewRouter(events.DefaultBufferSize)
			router.SetLogger(sessionLog)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			var sinks []events.Sink
			stopSinks := func() {
				router.Close()
				for _, s := range sinks {
					if err := s.Stop(); err != nil {
						sessionLog.Warn("sink stop failed", "error", err)
					}
				}
			}

			if cfg.Paths.EventLog != "" {
				logSink := events.NewLogSink(cfg.Paths.EventLog, sessionLog)
				if err := logSink.Start(ctx, router.Subscribe()); err != nil {
					stopSinks()
					return fmt.Errorf("start event log: %w", err)
				}
				sinks = append(sinks, logSink)
			}

			tally := events.NewTallySink()
			if err := tally.Start(ctx, router.SubscribeBuffered(events.TallyBufferSize)); err != nil {
				stopSinks()
				return fmt.Errorf("start tally: %w", err)
			}
			sinks = append(sinks, tally)

			uiEvents := router.SubscribeBuffered(5000)

			ctrl, err := controller.New(cfg, deckItems, feedItems, router,
				controller.WithLogger(sessionLog),
				controller.WithSource(events.SourceTUI),
			)
			if err != nil {
				stopSinks()
				return err
			}
			ctrl.Start()

			app := tui.New(ctrl, cfg, uiEvents,
				tui.WithTally(tally),
				tui.WithLogger(sessionLog),
				tui.WithOnQuit(func() { sessionLog.Info("quit requested") }),
			)
			runErr := app.Run()

			ctrl.Stop("quit")
			stopSinks()
			printSummary(cmd.OutOrStdout(), ctrl.Session(), tally.Tally())

			return runErr
		},
	}

	runCmd.Flags().String(FlagItems, "", "Deck catalog file (default: built-in sample deck)")
	runCmd.Flags().String(FlagFeed, "", "Feed catalog file (default: built-in sample feed)")
	runCmd.Flags().String(FlagScreen, "", "Screen to open first (deck, edge or feed)")
	runCmd.Flags().Bool(FlagNoMouse, false, "Disable mouse tracking")

	replayCmd := &cobra.Command{
		Use:   "replay SCRIPT",
		Short: "Play a gesture script and print the resulting events",
		Long: `Play a YAML gesture script against fresh screens on a virtual clock.

Scripts list pointer presses, moves and releases, button triggers, undo and
screen switches with the time between them. Output is deterministic, so
scripts double as regression checks for thresholds in the config.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(viper.GetViper(), cmd.Flags())
			if err != nil {
				return err
			}
			script, err := replay.Load(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed(FlagScreen) {
				script.Screen = cfg.UI.StartScreen
			}
			deckItems, feedItems, err := loadCatalogs(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			jsonOut, _ := cmd.Flags().GetBool(FlagJSON)
			opts := []replay.Option{
				replay.WithOutput(out),
				replay.WithLogger(logger),
				replay.WithJSON(jsonOut),
			}
			// Scripted sessions stay out of the interactive event log
			// unless a log is named on the command line.
			if cmd.Flags().Changed(FlagEventLog) {
				opts = append(opts, replay.WithSink(events.NewLogSink(cfg.Paths.EventLog, logger)))
			}
			runner := replay.New(cfg, deckItems, feedItems, opts...)

			var res *replay.Result
			err = shutdown.Run(cmd.Context(), logger, shutdownGrace, func(ctx context.Context) error {
				var runErr error
				res, runErr = runner.Run(ctx, script)
				return runErr
			})
			if err != nil {
				return err
			}

			if !jsonOut && res != nil {
				_, _ = fmt.Fprintln(out)
				printSummary(out, res.Session, res.Tally)
				_, _ = fmt.Fprintf(out, "%d refused inputs, %s of virtual time\n", res.Refused, res.Elapsed)
			}
			return nil
		},
	}

	replayCmd.Flags().String(FlagItems, "", "Deck catalog file (default: built-in sample deck)")
	replayCmd.Flags().String(FlagFeed, "", "Feed catalog file (default: built-in sample feed)")
	replayCmd.Flags().String(FlagScreen, "", "Override the script's starting screen")
	replayCmd.Flags().Bool(FlagJSON, false, "Print events as JSON lines")

	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "View recent events",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(viper.GetViper(), cmd.Flags())
			if err != nil {
				return err
			}
			if cfg.Paths.EventLog == "" {
				return fmt.Errorf("no event log configured")
			}

			out := cmd.OutOrStdout()
			raw, _ := cmd.Flags().GetBool(FlagJSON)
			if follow, _ := cmd.Flags().GetBool(FlagFollow); follow {
				return shutdown.Run(cmd.Context(), logger, shutdownGrace, func(ctx context.Context) error {
					return tailFollow(ctx, out, cfg.Paths.EventLog, raw)
				})
			}
			count, _ := cmd.Flags().GetInt(FlagCount)
			return tailLast(out, cfg.Paths.EventLog, count, raw)
		},
	}

	eventsCmd.Flags().BoolP(FlagFollow, "f", false, "Follow event stream (like tail -f)")
	eventsCmd.Flags().IntP(FlagCount, "n", 20, "Number of recent events to show")
	eventsCmd.Flags().Bool(FlagJSON, false, "Print raw JSON lines")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(viper.GetViper(), cmd.Flags())
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a .flick directory with config, catalogs and a demo script",
		Long: `Write a starting point for a project:

  .flick/
    config.yaml   every setting at its default
    items.yaml    the sample deck, ready to edit (unless --minimal)
    feed.yaml     the sample feed (unless --minimal)
    demo.yaml     a replay script (unless --minimal)

Existing files that differ are shown as a diff and left alone unless
--force is given. --global writes only config.yaml to the user config
directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			opts := initcmd.Options{Writer: cmd.OutOrStdout()}
			opts.DryRun, _ = flags.GetBool(FlagDryRun)
			opts.Force, _ = flags.GetBool(FlagForce)
			opts.Minimal, _ = flags.GetBool(FlagMinimal)
			opts.Global, _ = flags.GetBool(FlagGlobal)
			opts.Dir, _ = flags.GetString(FlagDir)

			_, err := initcmd.Run(opts)
			return err
		},
	}

	initCmd.Flags().Bool(FlagDryRun, false, "Show what would be changed without making changes")
	initCmd.Flags().Bool(FlagForce, false, "Overwrite files that differ")
	initCmd.Flags().Bool(FlagMinimal, false, "Write only config.yaml")
	initCmd.Flags().Bool(FlagGlobal, false, "Write config.yaml to the user config directory")
	initCmd.Flags().String(FlagDir, config.ProjectConfigDir, "Target directory")

	// Register all commands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(initCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
