package cmd

import (
	"context"
	"fmt"

	"c4net/config"
)

var serverProgram = program{
	name:     "c4server",
	synopsis: "<host> <port>",
	about:    "Connect Four game server",
	examples: `  c4server 0.0.0.0 4000                       Serve on every interface
  c4server -v --stats localhost 4000          Log joins and print stats on exit
`,
}

// ExecuteServer parses args and runs the game server.
func ExecuteServer(ctx context.Context, args []string) error {
	cfg := &config.Config{Role: config.RoleServer}
	var c common
	fs := newFlagSet(serverProgram, cfg, &c)

	// ── server ───────────────────────────────────────────────────
	fs.DurationVar(&cfg.WriteTimeout, "write-timeout", config.DefaultWriteTimeout, "Deadline for one outbound frame (0 = none)")
	fs.BoolVar(&cfg.Stats, "stats", false, "Print a metrics snapshot at shutdown")

	if ok, err := parse(serverProgram, fs, &c, args); !ok {
		return err
	}

	rest := fs.Args()
	if len(rest) != 2 {
		return badArgs(serverProgram, fmt.Errorf("expected <host> <port>, got %d argument(s)", len(rest)))
	}
	if err := parseEndpoint(cfg, rest[0], rest[1]); err != nil {
		return badArgs(serverProgram, err)
	}
	return run(ctx, cfg, &c)
}
