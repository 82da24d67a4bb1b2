package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/scarab/internal/storage"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show the contents of a save file",
	Long: `Print the header and a summary of a save file without loading it
into a running game.

Examples:
  scarab inspect ~/.scarab/saves/default.sav`,
	Args: cobra.ExactArgs(1),
	Run:  runInspect,
}

func runInspect(_ *cobra.Command, args []string) {
	info, err := storage.Inspect(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Save: %s\n", info.Path)
	fmt.Println()
	fmt.Printf("  Schema version  %d\n", info.SchemaVersion)
	fmt.Printf("  Tick            %d\n", info.Tick)
	fmt.Printf("  Next actor id   %d\n", info.NextID)
	fmt.Printf("  Cells           %d\n", info.Cells)
	fmt.Printf("  Actors          %d\n", info.Actors)
	if !info.SavedAt.IsZero() {
		fmt.Printf("  Saved at        %s\n", info.SavedAt.Local().Format("2006-01-02 15:04:05"))
	}

	if len(info.Kinds) == 0 {
		return
	}
	kinds := make([]string, 0, len(info.Kinds))
	for k := range info.Kinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	fmt.Println()
	fmt.Println("  Actors by kind:")
	for _, k := range kinds {
		fmt.Printf("    %-12s %d\n", k, info.Kinds[k])
	}
}
