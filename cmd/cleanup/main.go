// Package main provides a standalone cleanup utility for clusters created by
// ocs-chaos runs.
//
// It deletes every cluster recorded in the run directory's cluster store,
// exactly like "ocs-chaos cleanup", and is meant for CI jobs that only need
// to tear down. Settings are read from the environment.
//
// Usage:
//
//	OCM_REFRESH_TOKEN=... cleanup
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ocs-chaos/ocs-chaos/cmd/ocs-chaos/handlers"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "Usage: cleanup")
		fmt.Fprintln(flag.CommandLine.Output(), "Deletes every cluster recorded in $OCS_CHAOS_DATA_DIR/clusters.db.")
	}
	flag.Parse()
	if flag.NArg() > 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := handlers.Cleanup(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Cleanup failed: %v\n", err)
		stop()
		os.Exit(1)
	}
}
