package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/nathoo/choicecore/loader"
)

var validateCmd = &cobra.Command{
	Use:   "validate [game_directory]",
	Short: "Load a game directory and report definition errors",
	Long:  `Runs the Lua and YAML definitions, checks every card, pool and discover reference, and prints a summary.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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
			var ve *loader.ValidationError
			if errors.As(err, &ve) {
				for _, e := range ve.Errors {
					cmd.PrintErrln("error:", e)
				}
				return fmt.Errorf("%d error(s) in %s", len(ve.Errors), dir)
			}
			return err
		}

		cmd.Printf("%s: %d cards, %d pools, %d discovers\n",
			defs.Game.Title, len(defs.Cards), len(defs.Pools), len(defs.Discovers))
		ids := make([]string, 0, len(defs.Discovers))
		for id := range defs.Discovers {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			d := defs.Discovers[id]
			cmd.Printf("  %s (%s): %d step(s)\n", id, d.Source, len(d.Steps))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
