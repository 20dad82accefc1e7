package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/carmerge/internal/platform/tui"
	"github.com/vovakirdan/carmerge/internal/registry"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagVariant     string
	flagServeWatch  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the carmerge SSH server",
	Long: `Start an SSH server that lets users connect and play with their mouse.

Each SSH connection gets its own session with a variant picker.
Rounds are recorded per-server (all users share the same history).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.carmerge/host_key

Examples:
  carmerge serve                           # Listen on :23234
  carmerge serve --ssh :2222               # Listen on port 2222
  carmerge serve --variant rush            # Skip the picker
  carmerge serve --watch :8080             # Also serve the snapshot feed

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagVariant, "variant", "", "Variant every session plays (default: picker)")
	serveCmd.Flags().StringVar(&flagServeWatch, "watch", "", "Serve a websocket snapshot feed on this address")
}

func runServe(cmd *cobra.Command, _ []string) {
	if flagVariant != "" && !registry.Exists(flagVariant) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", flagVariant)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	env, err := loadEnv(logger.WithPrefix("carmerge-ssh"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store := openStore(&env)
	if store != nil {
		defer store.Close()
	}

	// Setup signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	startWatch(ctx, &env, flagServeWatch)

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.Variant = flagVariant
	cfg.TickRate = flagFPS

	server, err := tui.NewSSHServer(cfg, env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting carmerge SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
