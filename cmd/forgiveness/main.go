// Package main is the entry point for the forgiveness CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"forgiveness/internal/backend"
	"forgiveness/internal/cli"
	"forgiveness/internal/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, backend.New)
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}
