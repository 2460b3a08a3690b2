package core

import (
	"fmt"

	"c4net/config"
	"c4net/internal/metrics"
	"c4net/internal/transport"
	"c4net/util"
)

// Build constructs the Mode for cfg.Role.  cfg should already have
// passed Validate.
func Build(cfg *config.Config, logger *util.Logger) (Mode, error) {
	switch cfg.Role {
	case config.RoleServer:
		return buildServer(cfg, logger), nil
	case config.RoleClient:
		return buildClient(cfg, logger), nil
	case config.RoleSniffer:
		return buildSniffer(cfg, logger), nil
	default:
		return nil, fmt.Errorf("no mode for role %v", cfg.Role)
	}
}

// ── mode builders ────────────────────────────────────────────────────

func buildServer(cfg *config.Config, logger *util.Logger) Mode {
	return &ServerMode{
		Address:      cfg.Address(),
		WriteTimeout: cfg.WriteTimeout,
		Stats:        metrics.New(),
		ShowStats:    cfg.Stats,
		Logger:       logger,
	}
}

func buildClient(cfg *config.Config, logger *util.Logger) Mode {
	return &ClientMode{
		Dialer:     buildDialer(cfg, logger),
		Address:    cfg.Address(),
		PlayerName: cfg.PlayerName,
		Retries:    cfg.Retries,
		Logger:     logger,
	}
}

func buildSniffer(cfg *config.Config, logger *util.Logger) Mode {
	return &SnifferMode{
		Address:  cfg.ListenAddress(),
		Upstream: cfg.Address(),
		Dialer:   &transport.TCPDialer{Timeout: config.DefaultDialTimeout},
		Stats:    metrics.New(),
		Logger:   logger,
	}
}

// ── shared helpers ───────────────────────────────────────────────────

// buildDialer creates the client's transport.Dialer: through the SSH
// gateway when a tunnel is configured, plain TCP otherwise.
func buildDialer(cfg *config.Config, logger *util.Logger) transport.Dialer {
	if cfg.TunnelEnabled {
		return transport.NewSSHDialer(&transport.SSHConfig{
			User:          cfg.TunnelUser,
			Host:          cfg.TunnelHost,
			Port:          cfg.TunnelPort,
			KeyPath:       cfg.SSHKeyPath,
			PromptPass:    cfg.SSHPassword,
			UseAgent:      cfg.UseSSHAgent,
			StrictHostKey: cfg.StrictHostKey,
			KnownHosts:    cfg.KnownHostsPath,
			ConnTimeout:   config.DefaultConnTimeout,
		}, logger)
	}
	return &transport.TCPDialer{Timeout: cfg.Timeout}
}
