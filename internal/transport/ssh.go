package transport

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	c4err "c4net/internal/errors"
	"c4net/util"
)

// SSHConfig holds everything needed to reach the game server through
// an SSH gateway.
type SSHConfig struct {
	User          string
	Host          string
	Port          int
	KeyPath       string
	PromptPass    bool
	UseAgent      bool
	StrictHostKey bool
	KnownHosts    string
	ConnTimeout   time.Duration

	// Prompt reads secrets (password, key passphrase).  Nil means the
	// controlling terminal.
	Prompt PromptFunc
}

// SSHDialer forwards game connections through an SSH gateway with
// direct-tcpip channels.  The gateway connection is made lazily on the
// first Dial and re-made if it drops.
type SSHDialer struct {
	config *SSHConfig
	logger *util.Logger

	mu     sync.Mutex
	client *ssh.Client
	alive  bool
}

// NewSSHDialer creates a dialer for cfg.  Nothing is dialled yet.
func NewSSHDialer(cfg *SSHConfig, logger *util.Logger) *SSHDialer {
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	if cfg.ConnTimeout == 0 {
		cfg.ConnTimeout = 30 * time.Second
	}
	if cfg.Prompt == nil {
		cfg.Prompt = TerminalPrompt
	}
	return &SSHDialer{config: cfg, logger: logger.With("ssh")}
}

// Dial opens a connection to address on the far side of the gateway.
func (d *SSHDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	client, err := d.connect(ctx)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("forwarding %s %s", network, address)
	conn, err := client.Dial(network, address)
	if err != nil {
		return nil, c4err.WrapSSH("channel", d.config.Host, d.config.Port,
			fmt.Errorf("dial %s: %w", address, err))
	}
	return conn, nil
}

// Close shuts down the gateway connection.
func (d *SSHDialer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.alive = false
	if d.client != nil {
		err := d.client.Close()
		d.client = nil
		return err
	}
	return nil
}

// Alive reports whether the gateway connection is up.
func (d *SSHDialer) Alive() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.alive
}

func (d *SSHDialer) connect(ctx context.Context) (*ssh.Client, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.alive && d.client != nil {
		return d.client, nil
	}

	cfg := d.config
	authMethods, err := BuildAuthMethods(cfg)
	if err != nil {
		return nil, c4err.WrapSSH("auth", cfg.Host, cfg.Port, err)
	}

	hkCallback, err := hostKeyCallback(cfg)
	if err != nil {
		return nil, c4err.WrapSSH("hostkey", cfg.Host, cfg.Port, err)
	}
	var mismatch error
	verify := func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		if err := hkCallback(hostname, remote, key); err != nil {
			mismatch = err
			return err
		}
		return nil
	}

	sshCfg := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            authMethods,
		HostKeyCallback: verify,
		Timeout:         cfg.ConnTimeout,
	}

	addr := util.FormatAddr(cfg.Host, cfg.Port)
	d.logger.Verbose("connecting to gateway %s as %s", addr, cfg.User)

	dialer := net.Dialer{Timeout: cfg.ConnTimeout}
	tcpConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, c4err.Wrap("dial", addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(tcpConn, addr, sshCfg)
	if err != nil {
		tcpConn.Close()
		switch {
		case mismatch != nil:
			err = fmt.Errorf("%w: %v", c4err.ErrHostKeyMismatch, mismatch)
			return nil, c4err.WrapSSH("hostkey", cfg.Host, cfg.Port, err)
		case strings.Contains(err.Error(), "unable to authenticate"):
			err = fmt.Errorf("%w: %v", c4err.ErrAuthFailed, err)
			return nil, c4err.WrapSSH("auth", cfg.Host, cfg.Port, err)
		}
		return nil, c4err.WrapSSH("handshake", cfg.Host, cfg.Port, err)
	}

	d.client = ssh.NewClient(sshConn, chans, reqs)
	d.alive = true
	d.logger.Verbose("gateway connected")

	go d.monitor(d.client)
	return d.client, nil
}

// monitor blocks until the gateway connection closes and marks it dead
// so the next Dial reconnects.
func (d *SSHDialer) monitor(client *ssh.Client) {
	err := client.Wait()

	d.mu.Lock()
	if d.client == client {
		d.alive = false
	}
	d.mu.Unlock()

	if err != nil {
		d.logger.Debug("gateway closed: %v", err)
	} else {
		d.logger.Debug("gateway closed")
	}
}
