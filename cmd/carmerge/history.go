package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/carmerge/internal/platform/tui"
	"github.com/vovakirdan/carmerge/internal/registry"
	"github.com/vovakirdan/carmerge/internal/storage"
)

var (
	flagHistoryLimit int
	flagRecent       bool
	flagClear        bool
	flagInteractive  bool
)

var historyCmd = &cobra.Command{
	Use:   "history [variant]",
	Short: "Show best rounds",
	Long: `Display the best rounds of a variant (fewest moves, then fastest),
or a summary of every variant when none is given.

Examples:
  carmerge history
  carmerge history classic
  carmerge history rush --recent
  carmerge history classic --clear
  carmerge history -i`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 10, "Number of rounds to show")
	historyCmd.Flags().BoolVar(&flagRecent, "recent", false, "Show the most recent rounds instead of the best")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the recorded rounds of the variant")
	historyCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse the history in the terminal UI")
}

func runHistory(cmd *cobra.Command, args []string) {
	variant := ""
	if len(args) == 1 {
		variant = args[0]
		if !registry.Exists(variant) {
			fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", variant)
			fmt.Fprintln(os.Stderr, "Run 'carmerge list' to see available variants.")
			os.Exit(1)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening round history: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagInteractive:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		err = tui.RunHistory(store, variant, width, height)

	case flagClear:
		if variant == "" {
			fmt.Fprintln(os.Stderr, "Error: --clear needs a variant")
			os.Exit(1)
		}
		if err = store.ClearRounds(variant); err == nil {
			fmt.Printf("Cleared the history of %s.\n", variant)
		}

	case variant == "" && !flagRecent:
		err = printSummary(store)

	default:
		err = printRounds(store, variant)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printRounds(store *storage.Store, variant string) error {
	var (
		rounds []storage.RoundResult
		err    error
		title  string
	)
	if flagRecent {
		rounds, err = store.RecentRounds(variant, flagHistoryLimit)
		title = "Recent rounds"
	} else {
		rounds, err = store.BestRounds(variant, flagHistoryLimit)
		title = "Best rounds"
	}
	if err != nil {
		return err
	}

	if variant != "" {
		v, _ := registry.Create(variant)
		title += " - " + v.Title
	}
	fmt.Println(title)
	fmt.Println()

	if len(rounds) == 0 {
		fmt.Println("No rounds recorded yet.")
		if variant != "" {
			fmt.Println()
			fmt.Printf("Play 'carmerge play %s' to set the first record!\n", variant)
		}
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-5s  %-8s  %-10s  %s\n", "Rank", "Variant", "Moves", "Time", "Player", "When")
	fmt.Printf("  %-4s  %-8s  %-5s  %-8s  %-10s  %s\n", "----", "-------", "-----", "----", "------", "----")
	for i, r := range rounds {
		player := r.Player
		if player == "" {
			player = "local"
		}
		fmt.Printf("  %-4d  %-8s  %-5d  %-8s  %-10s  %s\n",
			i+1, r.Variant, r.Moves, r.Duration.Round(100*time.Millisecond), player, humanize.Time(r.CreatedAt))
	}
	return nil
}

func printSummary(store *storage.Store) error {
	stats, err := store.GetAllVariantStats()
	if err != nil {
		return err
	}

	fmt.Println("Round history")
	fmt.Println()
	if len(stats) == 0 {
		fmt.Println("No rounds recorded yet.")
		return nil
	}

	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-8s  %-6s  %-10s  %-9s  %-10s  %s\n", "Variant", "Rounds", "Best moves", "Avg moves", "Play time", "Last played")
	fmt.Printf("  %-8s  %-6s  %-10s  %-9s  %-10s  %s\n", "-------", "------", "----------", "---------", "---------", "-----------")
	for _, id := range ids {
		s := stats[id]
		fmt.Printf("  %-8s  %-6s  %-10d  %-9.1f  %-10s  %s\n",
			id, humanize.Comma(int64(s.Rounds)), s.BestMoves, s.AvgMoves,
			s.TotalTime.Round(time.Second), humanize.Time(s.LastPlayed))
	}
	return nil
}
