package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/scarab/internal/config"
	"github.com/vovakirdan/scarab/internal/physics"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the engine and level configs",
	Long: `Load the engine and level configs, build the level and report any
problems: invalid values, unknown actor kinds, bad cell boxes or actors that
start inside solid cells.

Examples:
  scarab validate
  scarab validate --config ./engine.yaml --level ./arena.yaml`,
	Args: cobra.NoArgs,
	Run:  runValidate,
}

func runValidate(_ *cobra.Command, _ []string) {
	engine, level, err := loadConfigs()
	exitOnError("loading config", err)

	f, actors, err := config.BuildLevel(level)
	exitOnError("building level", err)

	resolver := physics.NewResolver()
	var problems int
	for i, a := range actors {
		if err := resolver.CheckOverlap(a.Box(), f); err != nil {
			var overlap *physics.DegenerateOverlapError
			if errors.As(err, &overlap) {
				fmt.Fprintf(os.Stderr, "actor %d (%s) at %v starts inside solid cell %d %v\n",
					i, a.Kind(), a.Box(), overlap.Cell, overlap.CellBox)
			} else {
				fmt.Fprintf(os.Stderr, "actor %d (%s): %v\n", i, a.Kind(), err)
			}
			problems++
		}
	}
	if problems > 0 {
		fmt.Fprintf(os.Stderr, "%d problem(s) found\n", problems)
		os.Exit(1)
	}

	name := level.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Printf("Level %s: %d cells, %d actors\n", name, f.Len(), len(actors))
	fmt.Printf("Loop: %d ups, %d fps. Save slot: %s\n", engine.Loop.UPS, engine.Loop.FPS, engine.Save.Path)
	fmt.Println("OK")
}
