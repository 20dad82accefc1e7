package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/carmerge/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all variants",
	Long:  `Shows every registered variant with its fleet.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	variants := registry.List()

	if len(variants) == 0 {
		fmt.Println("No variants available.")
		return
	}

	fmt.Println("Available variants:")
	fmt.Println()

	// Calculate column widths
	maxIDLen, maxTitleLen := 2, 5 // "ID", "Title" headers
	for _, v := range variants {
		maxIDLen = max(maxIDLen, len(v.ID))
		maxTitleLen = max(maxTitleLen, len(v.Title))
	}

	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "ID", maxTitleLen, "Title", "Fleet")
	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "--", maxTitleLen, "-----", "-----")

	for _, info := range variants {
		v, err := registry.Create(info.ID)
		if err != nil {
			continue
		}
		fleet := make([]string, 0, len(v.Fleet))
		for _, f := range v.Fleet {
			fleet = append(fleet, fmt.Sprintf("%d %s", f.Count, f.Type))
		}
		fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, info.ID, maxTitleLen, info.Title, strings.Join(fleet, " + "))
	}

	fmt.Println()
	fmt.Println("Run 'carmerge play <id>' to play a variant.")
}
