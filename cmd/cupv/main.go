package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/petergi/cup-validator-cli/internal/cli"
	"github.com/petergi/cup-validator-cli/internal/tui"
)

func main() {
	// Any argument selects the command line; none starts the TUI.
	if len(os.Args) > 1 {
		if err := cli.Execute(); err != nil {
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := tui.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
