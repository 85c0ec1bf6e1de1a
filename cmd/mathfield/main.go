// Package main is the entry point for the mathfield terminal editor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/mathfield/internal/app"
	"github.com/dshills/mathfield/internal/logging"
	"github.com/dshills/mathfield/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// cliOptions are the flags beyond app.Options.
type cliOptions struct {
	app    app.Options
	script string
	code   string
	dump   bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()
	if opts.script != "" || opts.code != "" {
		return runHeadless(opts, os.Stdout, os.Stderr)
	}
	return runInteractive(opts)
}

func runInteractive(opts cliOptions) int {
	application, err := app.New(opts.app)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(term); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil && !errors.Is(err, app.ErrQuit) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(application.Field().Text())
	return 0
}

// runHeadless runs a script against a field without a terminal and prints
// the resulting text, or the tree structure with -dump.
func runHeadless(opts cliOptions, stdout, stderr io.Writer) int {
	level := opts.app.LogLevel
	if level == "" {
		level = "warn"
	}
	opts.app.Logger = logging.New(logging.Config{
		Level:  logging.ParseLogLevel(level),
		Output: stderr,
		Prefix: "mathfield",
	})
	opts.app.ScriptOutput = stdout

	application, err := app.New(opts.app)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	ctx := context.Background()
	scripts := application.Scripts()
	if opts.script != "" {
		err = scripts.RunFile(ctx, opts.script)
	} else {
		err = scripts.Run(ctx, "-e", opts.code)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	field := application.Field()
	if opts.dump {
		fmt.Fprintln(stdout, field.Tree().Dump(field.Tree().Root()))
	} else {
		fmt.Fprintln(stdout, field.Text())
	}
	return 0
}

func parseFlags() cliOptions {
	var opts cliOptions
	var showVersion bool

	flag.StringVar(&opts.app.ConfigPath, "config", "", "Path to configuration file (.toml or .yaml)")
	flag.StringVar(&opts.app.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.BoolVar(&opts.app.Watch, "watch", false, "Reload the configuration file when it changes")
	flag.StringVar(&opts.app.Text, "text", "", "Initial content in linear syntax")
	flag.StringVar(&opts.app.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.script, "script", "", "Run a Lua script headless and print the result")
	flag.StringVar(&opts.code, "e", "", "Run Lua code headless and print the result")
	flag.BoolVar(&opts.dump, "dump", false, "Print the tree structure instead of the text (headless)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "mathfield - structural math expression editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: mathfield [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  mathfield                              Edit an empty field\n")
		fmt.Fprintf(os.Stderr, "  mathfield -text '{1}/{2}'              Start from a fraction\n")
		fmt.Fprintf(os.Stderr, "  mathfield -e 'field.insert(\"2/3\")'     Script a field and print it\n")
		fmt.Fprintf(os.Stderr, "\nKeys: arrows move, shift+arrows select, ctrl+z/y undo/redo,\n")
		fmt.Fprintf(os.Stderr, "ctrl+c/x/v clipboard, ctrl+l text mode, F2 macro, ctrl+q quit\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("mathfield %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.app.LogLevel {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.app.LogLevel)
		os.Exit(2)
	}
	if opts.script != "" && opts.code != "" {
		fmt.Fprintln(os.Stderr, "Error: -script and -e are mutually exclusive")
		os.Exit(2)
	}
	return opts
}
