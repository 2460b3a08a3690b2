package cmd

import (
	"context"
	"fmt"

	"c4net/config"
)

var snifferProgram = program{
	name:     "c4sniff",
	synopsis: "<listen-port> <server-host> <server-port>",
	about:    "Connect Four protocol sniffer",
	examples: `  c4sniff 5000 localhost 4000                 Point clients at :5000 to watch their frames
`,
}

// ExecuteSniffer parses args and runs the logging relay.
func ExecuteSniffer(ctx context.Context, args []string) error {
	cfg := &config.Config{Role: config.RoleSniffer}
	var c common
	fs := newFlagSet(snifferProgram, cfg, &c)

	if ok, err := parse(snifferProgram, fs, &c, args); !ok {
		return err
	}

	rest := fs.Args()
	if len(rest) != 3 {
		return badArgs(snifferProgram, fmt.Errorf("expected <listen-port> <server-host> <server-port>, got %d argument(s)", len(rest)))
	}
	lp, err := config.ParsePort(rest[0])
	if err != nil {
		return badArgs(snifferProgram, fmt.Errorf("listen port: %w", err))
	}
	cfg.ListenPort = lp
	if err := parseEndpoint(cfg, rest[1], rest[2]); err != nil {
		return badArgs(snifferProgram, err)
	}

	// The sniffer logs frames at normal verbosity.
	if cfg.Verbose == 0 {
		cfg.Verbose = 1
	}
	return run(ctx, cfg, &c)
}
