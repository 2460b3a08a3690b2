// Package config defines the runtime configuration for the c4net
// programs and the helpers that parse their arguments.
package config

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
	"unicode/utf8"

	c4err "c4net/internal/errors"
	"c4net/internal/protocol"
	"c4net/util"
)

// Role selects which program a Config belongs to.
type Role int

const (
	RoleServer Role = iota
	RoleClient
	RoleSniffer
)

func (r Role) String() string {
	switch r {
	case RoleServer:
		return "server"
	case RoleClient:
		return "client"
	case RoleSniffer:
		return "sniffer"
	default:
		return "unknown"
	}
}

// Config holds every tuneable for one c4net process.
type Config struct {
	Role Role

	// ── Endpoint ─────────────────────────────────────────────────────
	// Server: bind address.  Client and sniffer: the game server.
	Host string
	Port int

	// ── Server ───────────────────────────────────────────────────────
	WriteTimeout time.Duration // per-frame write deadline, 0 = none
	Stats        bool          // log a metrics snapshot at shutdown

	// ── Client ───────────────────────────────────────────────────────
	PlayerName string
	Timeout    time.Duration // dial timeout, 0 = none
	Retries    int           // extra dial attempts at startup

	// ── Sniffer ──────────────────────────────────────────────────────
	ListenPort int

	// ── SSH tunnel (client) ──────────────────────────────────────────
	TunnelSpec     string // raw user@host[:port] from -T
	TunnelEnabled  bool
	TunnelUser     string
	TunnelHost     string
	TunnelPort     int
	SSHKeyPath     string
	SSHPassword    bool // true → prompt interactively
	UseSSHAgent    bool
	StrictHostKey  bool
	KnownHostsPath string

	// ── Output ───────────────────────────────────────────────────────
	Verbose int
}

// Address is the endpoint as "host:port".
func (c *Config) Address() string { return util.FormatAddr(c.Host, c.Port) }

// ListenAddress is where the sniffer accepts clients.
func (c *Config) ListenAddress() string { return util.FormatAddr("", c.ListenPort) }

// ── Argument parsers ─────────────────────────────────────────────────

// ParsePort accepts a decimal port in 1-65535.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range 1-65535", port)
	}
	return port, nil
}

// tunnelRe matches [user@]host[:port].
var tunnelRe = regexp.MustCompile(`^(?:([^@]+)@)?([^:@]+)(?::(\d+))?$`)

// ParseTunnelSpec extracts user, host, and port from a string such as
// "admin@bastion.example.com:2222".  Port defaults to 22.
func ParseTunnelSpec(spec string) (user, host string, port int, err error) {
	m := tunnelRe.FindStringSubmatch(spec)
	if m == nil {
		return "", "", 0, fmt.Errorf("invalid tunnel spec %q; expected [user@]host[:port]", spec)
	}
	user = m[1]
	host = m[2]
	port = DefaultSSHPort
	if m[3] != "" {
		port, err = ParsePort(m[3])
		if err != nil {
			return "", "", 0, fmt.Errorf("invalid tunnel port: %w", err)
		}
	}
	return user, host, port, nil
}

// ApplyTunnelSpec parses TunnelSpec into the tunnel fields.
func (c *Config) ApplyTunnelSpec() error {
	if c.TunnelSpec == "" {
		return nil
	}
	user, host, port, err := ParseTunnelSpec(c.TunnelSpec)
	if err != nil {
		return &c4err.ConfigError{
			Field:   "tunnel",
			Value:   c.TunnelSpec,
			Message: err.Error(),
			Hint:    "use -T user@gateway[:port]",
		}
	}
	c.TunnelEnabled = true
	c.TunnelUser, c.TunnelHost, c.TunnelPort = user, host, port
	return nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is complete for its Role.
// Errors are *errors.ConfigError with a hint where one helps.
func (c *Config) Validate() error {
	if c.Host == "" {
		return &c4err.ConfigError{Field: "host", Message: "required"}
	}
	if c.Port < 1 || c.Port > 65535 {
		return &c4err.ConfigError{
			Field:   "port",
			Value:   c.Port,
			Message: "out of range 1-65535",
			Hint:    "use a port between 1 and 65535",
		}
	}
	if c.TunnelEnabled && c.Role != RoleClient {
		return &c4err.ConfigError{
			Field:   "tunnel",
			Value:   c.TunnelSpec,
			Message: fmt.Sprintf("not supported by the %s", c.Role),
			Hint:    "only c4client can reach the server through an SSH gateway",
		}
	}

	switch c.Role {
	case RoleServer:
		if c.WriteTimeout < 0 {
			return &c4err.ConfigError{Field: "write-timeout", Value: c.WriteTimeout, Message: "must not be negative"}
		}
	case RoleClient:
		if err := c.validateClient(); err != nil {
			return err
		}
	case RoleSniffer:
		if c.ListenPort < 1 || c.ListenPort > 65535 {
			return &c4err.ConfigError{
				Field:   "listen-port",
				Value:   c.ListenPort,
				Message: "out of range 1-65535",
				Hint:    "the first argument is the local port clients connect to",
			}
		}
	default:
		return &c4err.ConfigError{Field: "role", Value: int(c.Role), Message: "unknown"}
	}
	return nil
}

func (c *Config) validateClient() error {
	switch {
	case c.PlayerName == "":
		return &c4err.ConfigError{
			Field:   "playerName",
			Message: "required",
			Hint:    "pass the name to show your opponent as the third argument",
		}
	case len(c.PlayerName) > protocol.MaxNameLen:
		return &c4err.ConfigError{
			Field:   "playerName",
			Value:   len(c.PlayerName),
			Message: fmt.Sprintf("longer than %d bytes", protocol.MaxNameLen),
		}
	case !utf8.ValidString(c.PlayerName):
		return &c4err.ConfigError{Field: "playerName", Message: "not valid UTF-8"}
	case c.Retries < 0:
		return &c4err.ConfigError{Field: "retries", Value: c.Retries, Message: "must not be negative"}
	case c.Timeout < 0:
		return &c4err.ConfigError{Field: "timeout", Value: c.Timeout, Message: "must not be negative"}
	}

	if c.TunnelEnabled {
		if c.TunnelHost == "" {
			return &c4err.ConfigError{Field: "tunnel", Value: c.TunnelSpec, Message: "gateway host is required"}
		}
		if c.TunnelUser == "" {
			return &c4err.ConfigError{
				Field:   "tunnel",
				Value:   c.TunnelSpec,
				Message: "SSH user is required",
				Hint:    "use -T user@" + c.TunnelHost,
			}
		}
	}
	return nil
}
