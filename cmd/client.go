package cmd

import (
	"context"
	"fmt"
	"time"

	"c4net/config"
)

var clientProgram = program{
	name:     "c4client",
	synopsis: "<host> <port> <playerName>",
	about:    "Connect Four console client",
	examples: `  c4client localhost 4000 ann                 Join a game
  c4client --retries 5 game.lan 4000 bob      Wait for a server that is still starting
  c4client -T admin@bastion 10.0.0.5 4000 ann Play through an SSH gateway
`,
}

// ExecuteClient parses args and runs the console client.
func ExecuteClient(ctx context.Context, args []string) error {
	cfg := &config.Config{Role: config.RoleClient}
	var c common
	fs := newFlagSet(clientProgram, cfg, &c)

	// ── connection ───────────────────────────────────────────────
	var timeoutSec int
	fs.IntVarP(&timeoutSec, "timeout", "w", int(config.DefaultDialTimeout/time.Second), "Connect timeout in seconds (0 = none)")
	fs.IntVar(&cfg.Retries, "retries", config.DefaultRetries, "Extra connection attempts at startup")

	// ── SSH tunnel ───────────────────────────────────────────────
	fs.StringVarP(&cfg.TunnelSpec, "tunnel", "T", "", "Reach the server via SSH gateway [user@]host[:port]")
	fs.StringVar(&cfg.SSHKeyPath, "ssh-key", "", "SSH private key file")
	fs.BoolVar(&cfg.SSHPassword, "ssh-password", false, "Prompt for SSH password")
	fs.BoolVar(&cfg.UseSSHAgent, "ssh-agent", false, "Use SSH agent")
	fs.BoolVar(&cfg.StrictHostKey, "strict-hostkey", false, "Verify SSH host keys")
	fs.StringVar(&cfg.KnownHostsPath, "known-hosts", "", "Custom known_hosts path")

	if ok, err := parse(clientProgram, fs, &c, args); !ok {
		return err
	}

	if timeoutSec > 0 {
		cfg.Timeout = time.Duration(timeoutSec) * time.Second
	}

	rest := fs.Args()
	if len(rest) != 3 {
		return badArgs(clientProgram, fmt.Errorf("expected <host> <port> <playerName>, got %d argument(s)", len(rest)))
	}
	if err := parseEndpoint(cfg, rest[0], rest[1]); err != nil {
		return badArgs(clientProgram, err)
	}
	cfg.PlayerName = rest[2]

	if err := cfg.ApplyTunnelSpec(); err != nil {
		return err
	}
	return run(ctx, cfg, &c)
}
