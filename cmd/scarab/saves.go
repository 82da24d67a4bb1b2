package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/scarab/internal/config"
	"github.com/vovakirdan/scarab/internal/platform/tui"
	"github.com/vovakirdan/scarab/internal/storage"
)

var flagBrowse bool

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "List save slots",
	Long: `List the save slots in the saves directory.

With --browse, opens an interactive picker and plays the chosen slot.

Examples:
  scarab saves
  scarab saves --browse`,
	Args: cobra.NoArgs,
	Run:  runSaves,
}

func init() {
	savesCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Pick a slot interactively and play it")
}

func runSaves(_ *cobra.Command, _ []string) {
	engine, level, err := loadConfigs()
	exitOnError("loading config", err)

	dir, err := config.ExpandPath(engine.Save.Dir)
	exitOnError("resolving saves directory", err)

	if flagBrowse {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		path, browseErr := tui.BrowseSlots(dir, width, height)
		exitOnError("browsing saves", browseErr)
		if path == "" {
			return
		}
		exitOnError("playing", playSession(engine, level, path, false))
		return
	}

	slots, err := storage.ListSlots(dir)
	exitOnError("listing saves", err)

	if len(slots) == 0 {
		fmt.Printf("No save slots in %s.\n", dir)
		return
	}

	fmt.Printf("Save slots in %s:\n", dir)
	fmt.Println()

	maxNameLen := 4 // "Slot" header
	for _, s := range slots {
		maxNameLen = max(maxNameLen, len(s.Name))
	}

	fmt.Printf("  %-*s  %-8s  %-6s  %s\n", maxNameLen, "Slot", "Tick", "Actors", "Saved")
	fmt.Printf("  %-*s  %-8s  %-6s  %s\n", maxNameLen, "----", "----", "------", "-----")

	for _, s := range slots {
		if s.Err != nil {
			fmt.Printf("  %-*s  unreadable: %v\n", maxNameLen, s.Name, s.Err)
			continue
		}
		saved := "-"
		if !s.SavedAt.IsZero() {
			saved = s.SavedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Printf("  %-*s  %-8d  %-6d  %s\n", maxNameLen, s.Name, s.Tick, s.Actors, saved)
	}

	fmt.Println()
	fmt.Println("Run 'scarab play --save <file>' or 'scarab saves --browse' to resume a slot.")
}
