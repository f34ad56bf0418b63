package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nathoo/choicecore/cli"
	"github.com/nathoo/choicecore/config"
	"github.com/nathoo/choicecore/engine"
	"github.com/nathoo/choicecore/engine/state"
	"github.com/nathoo/choicecore/loader"
	"github.com/nathoo/choicecore/logging"
	"github.com/nathoo/choicecore/metrics"
	"github.com/nathoo/choicecore/session"
	"github.com/nathoo/choicecore/tui"
)

var rootCmd = &cobra.Command{
	Use:   "choicecore [game_directory]",
	Short: "Play and fork discover choice chains",
	Long: `Choicecore loads cards, pools and discover chains from a game directory
(Lua and YAML files) and runs them in a line CLI or a terminal UI.
Settings come from CHOICECORE_* environment variables; flags override them.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPlay,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("log-level", "", "Log level: debug, info, warn, error (default from CHOICECORE_LOG_LEVEL)")
	f.String("log-encoding", "", "Log encoding: console or json")

	p := rootCmd.Flags()
	p.Bool("plain", false, "Use the line CLI instead of the terminal UI")
	p.String("script", "", "Replay commands from a file (implies --plain)")
	p.Bool("trace", false, "Print engine events after each command")
	p.Int64("seed", 0, "RNG seed (default from CHOICECORE_SEED)")
	p.Bool("random-seed", false, "Pick a fresh seed instead of a fixed one")
	p.Int("draw", 0, "Candidates per choice when a step does not set one")
}

// setup resolves config and logger from the environment and flags.
func setup(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, err
	}
	flags := cmd.Flags()
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := flags.GetString("log-encoding"); v != "" {
		cfg.LogEncoding = v
	}
	if flags.Lookup("seed") != nil && flags.Changed("seed") {
		cfg.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Lookup("random-seed") != nil {
		if random, _ := flags.GetBool("random-seed"); random {
			if cfg.Seed, err = config.NewSeed(); err != nil {
				return cfg, nil, err
			}
		}
	}
	if flags.Lookup("draw") != nil && flags.Changed("draw") {
		cfg.DrawSize, _ = flags.GetInt("draw")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}

	log, err := logging.New(logging.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}

// gameDir picks the directory argument, falling back to CHOICECORE_GAME_DIR.
func gameDir(cfg config.Config, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.GameDir != "" {
		return cfg.GameDir, nil
	}
	return "", fmt.Errorf("no game directory: pass one or set %sGAME_DIR", config.Prefix)
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	dir, err := gameDir(cfg, args)
	if err != nil {
		return err
	}
	defs, err := loader.Load(dir, loader.WithLogger(log))
	if err != nil {
		return fmt.Errorf("loading game: %w", err)
	}

	eng := engine.New(defs,
		engine.WithSeed(cfg.Seed),
		engine.WithDrawSize(cfg.DrawSize),
		engine.WithLogger(log),
		engine.WithMetrics(metrics.New()),
	)
	log.Info("session started", zap.String("sim", eng.ID), zap.Int64("seed", cfg.Seed))

	s := session.New(eng)
	s.Trace, _ = cmd.Flags().GetBool("trace")
	plain, _ := cmd.Flags().GetBool("plain")
	script, _ := cmd.Flags().GetString("script")

	// Script mode: open file, force plain, echo commands.
	if script != "" {
		f, err := os.Open(script)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		printBanner(defs)
		c := cli.New(s, defs)
		c.In = f
		c.EchoInput = true
		c.Run()
		return nil
	}

	if plain || !isTerminal() {
		printBanner(defs)
		cli.New(s, defs).Run()
		return nil
	}
	return tui.Run(s, defs)
}

func printBanner(defs *state.Defs) {
	g := defs.Game
	fmt.Printf("%s v%s by %s\n\n", g.Title, g.Version, g.Author)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
