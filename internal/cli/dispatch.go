// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"forgiveness/internal/commands"
	"forgiveness/internal/config"
	"forgiveness/internal/exitcode"
	"forgiveness/internal/logging"
	"forgiveness/internal/service"
)

// DefaultCommand runs when no command name is given.
const DefaultCommand = "run"

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No command name (nothing, or flags only) -> default command
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return d.dispatch(ctx, DefaultCommand, args, out, errOut)
	}
	return d.dispatch(ctx, args[0], args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	var configDir, listTitle, backend string
	var quiet, debug, dryRun, skipMalformed bool
	fs.StringVar(&configDir, "config", "", "")
	fs.StringVar(&listTitle, "list", "", "")
	fs.StringVar(&backend, "backend", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")
	fs.BoolVar(&dryRun, "dry-run", false, "")
	fs.BoolVar(&skipMalformed, "skip-malformed", false, "")
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		errStr := err.Error()
		switch {
		case strings.HasPrefix(errStr, "flag needs an argument:"):
			fmt.Fprintf(errOut, "error: %s\n", errStr)
		case strings.HasPrefix(errStr, "flag provided but not defined:"):
			fmt.Fprintf(errOut, "error: unknown flag: %s\n", strings.TrimPrefix(errStr, "flag provided but not defined: "))
		default:
			fmt.Fprintf(errOut, "error: %s\n", errStr)
		}
		return exitcode.UserError
	}

	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}

	// Explicit flags override file and environment settings
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "list":
			cfg.ListTitle = listTitle
		case "backend":
			cfg.Backend = strings.ToLower(backend)
		case "quiet":
			cfg.Quiet = quiet
		case "debug":
			cfg.Debug = debug
		case "dry-run":
			cfg.DryRun = dryRun
		case "skip-malformed":
			cfg.SkipMalformed = skipMalformed
		}
	})

	logger := logging.New(out, logging.Options{Debug: cfg.Debug, Quiet: cfg.Quiet}).
		With("run", uuid.NewString()[:8])

	env := &commands.Env{
		Config: cfg,
		Log:    logger,
		Out:    out,
		ErrOut: errOut,
	}

	if cmd.NeedsService() {
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(errOut, "error: config error: %s\n", strings.ReplaceAll(err.Error(), "\n", "; "))
			return exitcode.ConfigError
		}
		if d.factory == nil {
			fmt.Fprintln(errOut, "error: no backend available")
			return exitcode.ConfigError
		}
		env.Service, err = d.factory(ctx, cfg, logger)
		if err != nil {
			fmt.Fprintf(errOut, "error: backend setup: %v\n", err)
			return exitcode.ConfigError
		}
	}

	return cmd.Run(ctx, env, positionalArgs)
}
