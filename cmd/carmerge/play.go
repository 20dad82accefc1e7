package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/carmerge/internal/core"
	"github.com/vovakirdan/carmerge/internal/platform/tui"
	"github.com/vovakirdan/carmerge/internal/registry"
)

var flagWatch string

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play a variant",
	Long: `Start a round of the given variant, or pick one from a menu.

Controls:
  Mouse drag  - Pick up a car and drop it on a matching one
  Esc         - Drop the car you are holding at its guide
  R           - New round (after the escort arrives)
  B           - Back to the variant picker
  ?           - More keys
  Q/Ctrl+C    - Quit

Examples:
  carmerge play
  carmerge play classic
  carmerge play rush --seed 42
  carmerge play --watch :8080     # live JSON feed on ws://localhost:8080/ws`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagWatch, "watch", "", "Serve a websocket snapshot feed on this address")
}

func runPlay(cmd *cobra.Command, args []string) {
	variant := ""
	if len(args) == 1 {
		variant = args[0]
		if !registry.Exists(variant) {
			fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", variant)
			fmt.Fprintln(os.Stderr, "Run 'carmerge list' to see available variants.")
			os.Exit(1)
		}
	}

	logger, closeLog, err := newLogger(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	env, err := loadEnv(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	store := openStore(&env)

	ctx, cancel := context.WithCancel(cmd.Context())
	startWatch(ctx, &env, flagWatch)

	runErr := tui.Run(env, cfg, variant)

	cancel()
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running round: %v\n", runErr)
		os.Exit(1)
	}
}
