// Package cmd wires up the CLI flags of the three c4net programs and
// dispatches to the core modes.
package cmd

import (
	"context"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"c4net/config"
	"c4net/internal/core"
	"c4net/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X c4net/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// program describes one command line for usage output.
type program struct {
	name     string
	synopsis string // arguments after "[options]"
	about    string
	examples string
}

// common holds the flags every program accepts.
type common struct {
	showVersion bool
	showHelp    bool
	dryRun      bool
}

func newFlagSet(p program, cfg *config.Config, c *common) *flag.FlagSet {
	fs := flag.NewFlagSet(p.name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	// ── output ───────────────────────────────────────────────────
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")
	fs.BoolVar(&c.dryRun, "dry-run", false, "Validate arguments and exit")
	fs.BoolVar(&c.showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&c.showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(p, fs) }
	return fs
}

// parse runs fs over args and handles --help and --version.  It
// reports whether the caller should go on.
func parse(p program, fs *flag.FlagSet, c *common, args []string) (bool, error) {
	if err := fs.Parse(args); err != nil {
		return false, err
	}
	if c.showHelp {
		printUsage(p, fs)
		return false, nil
	}
	if c.showVersion {
		fmt.Printf("%s %s\n", p.name, version)
		return false, nil
	}
	return true, nil
}

// badArgs prints the one-line synopsis and returns err.
func badArgs(p program, err error) error {
	fmt.Fprintf(os.Stderr, "usage: %s [options] %s\n", p.name, p.synopsis)
	return err
}

// run validates cfg, builds its mode and runs it until ctx ends.
func run(ctx context.Context, cfg *config.Config, c *common) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if c.dryRun {
		return nil
	}

	logger := util.NewLogger(cfg.Verbose)
	mode, err := core.Build(cfg, logger)
	if err != nil {
		return err
	}
	return mode.Run(ctx)
}

// parseEndpoint fills Host and Port from two positional arguments.
func parseEndpoint(cfg *config.Config, host, port string) error {
	cfg.Host = host
	p, err := config.ParsePort(port)
	if err != nil {
		return fmt.Errorf("port: %w", err)
	}
	cfg.Port = p
	return nil
}

func printUsage(p program, fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `%s – %s v%s

Usage:
  %s [options] %s

Options:
`, p.name, p.about, version, p.name, p.synopsis)
	fs.PrintDefaults()
	if p.examples != "" {
		fmt.Fprintf(os.Stderr, "\nExamples:\n%s", p.examples)
	}
}
