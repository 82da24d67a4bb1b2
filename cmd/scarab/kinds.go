package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/scarab/internal/registry"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List registered actor kinds",
	Long: `Shows the actor kinds that levels and save files can refer to.`,
	Args:  cobra.NoArgs,
	Run:   runKinds,
}

func runKinds(_ *cobra.Command, _ []string) {
	kinds := registry.List()

	if len(kinds) == 0 {
		fmt.Println("No actor kinds registered.")
		return
	}

	fmt.Println("Actor kinds:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Kind" header
	for _, k := range kinds {
		maxNameLen = max(maxNameLen, len(k.Name))
	}

	fmt.Printf("  %-*s  %s\n", maxNameLen, "Kind", "Description")
	fmt.Printf("  %-*s  %s\n", maxNameLen, "----", "-----------")

	for _, k := range kinds {
		fmt.Printf("  %-*s  %s\n", maxNameLen, k.Name, k.Description)
	}
}
