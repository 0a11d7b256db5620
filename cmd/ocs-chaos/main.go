// Package main is the entry point for the ocs-chaos CLI.
//
// ocs-chaos provisions a pair of managed OpenShift clusters wired together
// as a storage provider and a storage consumer, so that fault injection
// tooling can run against them. All settings come from the environment
// (optionally from a .env file in the working directory).
//
// Commands: chaos, consumer-addon, cleanup, version.
//
// For detailed usage information, run:
//
//	ocs-chaos --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ocs-chaos/ocs-chaos/cmd/ocs-chaos/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
