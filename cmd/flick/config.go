package main

// Flag names for Viper binding
const (
	// Global flags
	FlagVerbose  = "verbose"
	FlagConfig   = "config"
	FlagEventLog = "events-log"
	FlagLogDir   = "log-dir"

	// Catalog flags (run, replay)
	FlagItems = "items"
	FlagFeed  = "feed"

	// Run command flags
	FlagScreen  = "screen"
	FlagNoMouse = "no-mouse"

	// Events command flags
	FlagFollow = "follow"
	FlagCount  = "count"

	// Output format flags
	FlagJSON = "json"

	// Init command flags
	FlagDryRun  = "dry-run"
	FlagForce   = "force"
	FlagMinimal = "minimal"
	FlagGlobal  = "global"
	FlagDir     = "dir"
)
