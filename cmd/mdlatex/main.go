package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Sentinel errors for command dispatch.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrUnknownCommand = errors.New("unknown command")
)

// commands lists the subcommands. serve is the default.
var commands = map[string]bool{
	"serve":   true,
	"export":  true,
	"print":   true,
	"doctor":  true,
	"version": true,
	"help":    true,
}

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain runs the command line and returns the process exit code.
func runMain(args []string, env *Environment) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := run(ctx, args[1:], env); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// run dispatches to a subcommand. Without a command, or when the first
// argument is a flag, the editor is served.
func run(ctx context.Context, args []string, env *Environment) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		if len(args) > 0 && (args[0] == "-h" || args[0] == "--help") {
			printUsage(env.Stdout)
			return nil
		}
		if len(args) > 0 && args[0] == "--version" {
			printVersion(env)
			return nil
		}
		return runServe(ctx, args, env)
	}

	if !isCommand(args[0]) {
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %q", ErrUnknownCommand, args[0])
	}

	rest := args[1:]
	switch args[0] {
	case "serve":
		return runServe(ctx, rest, env)
	case "export":
		return runExport(ctx, rest, env)
	case "print":
		return runPrint(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version":
		printVersion(env)
		return nil
	default:
		return runHelp(rest, env)
	}
}

// isCommand reports whether arg names a subcommand.
func isCommand(arg string) bool {
	return commands[arg]
}

func printVersion(env *Environment) {
	fmt.Fprintf(env.Stdout, "go-mdlatex %s\n", Version)
}

// configureRuntime sets GOMAXPROCS from the container CPU quota. Messages go
// to the debug log, so they only show with --verbose.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func configureRuntime(logger *slog.Logger) {
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))
}
