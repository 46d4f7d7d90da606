// SPDX-License-Identifier: MPL-2.0

package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
	"golang.org/x/term"

	"pfrunner/internal/issue"
	"pfrunner/pkg/types"
)

const defaultSSHPort = 22

// SSHConnection is a Connection backed by one SSH client; each Run opens a
// fresh session so commands never share shell state.
type SSHConnection struct {
	host   string
	client *ssh.Client
}

// DialSSH connects to `[user@]host[:port]`, filling gaps from opts. Auth
// tries the SSH agent first, then the configured identity file, then the
// conventional key files under ~/.ssh.
func DialSSH(ctx context.Context, hostSpec string, opts DialOptions) (*SSHConnection, error) {
	user, host, port, err := parseHostSpec(hostSpec, opts)
	if err != nil {
		return nil, err
	}

	cfg := &ssh.ClientConfig{
		User:            user,
		Auth:            authMethods(opts.IdentityFile),
		HostKeyCallback: hostKeyCallback(),
		Timeout:         15 * time.Second,
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	dialer := net.Dialer{Timeout: cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &issue.EnvironmentError{
			Message:     fmt.Sprintf("cannot reach %s: %v", addr, err),
			Host:        hostSpec,
			Suggestions: []string{"Check that the host is up and the address and port are correct"},
			Cause:       err,
		}
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		conn.Close()
		return nil, &issue.EnvironmentError{
			Message:     fmt.Sprintf("SSH handshake with %s failed: %v", addr, err),
			Host:        hostSpec,
			Suggestions: []string{"Check the user name and that a loaded key or identity file is accepted"},
			Cause:       err,
		}
	}
	return &SSHConnection{host: hostSpec, client: ssh.NewClient(sshConn, chans, reqs)}, nil
}

// Host implements Connection.
func (c *SSHConnection) Host() string { return c.host }

// Close implements Connection.
func (c *SSHConnection) Close() error { return c.client.Close() }

// Run implements Connection. Allocates a remote pseudo-terminal when the
// local stdin is one, so interactive commands (sudo password prompts
// included) keep working.
func (c *SSHConnection) Run(ctx context.Context, command string) (types.ExitCode, error) {
	session, err := c.client.NewSession()
	if err != nil {
		return 1, fmt.Errorf("open SSH session: %w", err)
	}
	defer session.Close()

	session.Stdout = os.Stdout
	session.Stderr = os.Stderr
	session.Stdin = os.Stdin

	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		w, h, sizeErr := term.GetSize(fd)
		if sizeErr != nil {
			w, h = 80, 24
		}
		modes := ssh.TerminalModes{ssh.ECHO: 1}
		if err := session.RequestPty(envTerm(), h, w, modes); err != nil {
			log.Debug("remote pty request failed", "host", c.host, "err", err)
		}
	}

	done := make(chan error, 1)
	go func() { done <- session.Run(command) }()

	select {
	case <-ctx.Done():
		session.Signal(ssh.SIGTERM)
		return 1, ctx.Err()
	case err := <-done:
		if err == nil {
			return 0, nil
		}
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return types.ExitCode(exitErr.ExitStatus()), nil
		}
		return 1, err
	}
}

func envTerm() string {
	if t := os.Getenv("TERM"); t != "" {
		return t
	}
	return "xterm-256color"
}

// parseHostSpec splits `[user@]host[:port]`, falling back to opts, then to
// the current user and port 22. IPv6 addresses use the bracketed form
// `[addr]:port`; an unbracketed host with more than one colon is taken as a
// bare IPv6 address with no port.
func parseHostSpec(spec string, opts DialOptions) (user, host string, port int, err error) {
	user = opts.User
	host = spec
	if at := strings.LastIndex(host, "@"); at >= 0 {
		user = host[:at]
		host = host[at+1:]
	}
	port = opts.Port
	if port == 0 {
		port = defaultSSHPort
	}

	badPort := func() (string, string, int, error) {
		return "", "", 0, &issue.EnvironmentError{
			Message:     fmt.Sprintf("invalid port in host %q", spec),
			Host:        spec,
			Suggestions: []string{"Use the form [user@]host[:port] with a numeric port"},
		}
	}
	switch {
	case strings.HasPrefix(host, "["):
		end := strings.Index(host, "]")
		if end < 0 {
			return "", "", 0, &issue.EnvironmentError{
				Message:     fmt.Sprintf("unclosed bracket in host %q", spec),
				Host:        spec,
				Suggestions: []string{"Bracket IPv6 addresses as [addr] or [addr]:port"},
			}
		}
		rest := host[end+1:]
		host = host[1:end]
		if rest != "" {
			if !strings.HasPrefix(rest, ":") {
				return badPort()
			}
			p, convErr := strconv.Atoi(rest[1:])
			if convErr != nil || p <= 0 || p > 65535 {
				return badPort()
			}
			port = p
		}
	case strings.Count(host, ":") == 1:
		colon := strings.Index(host, ":")
		p, convErr := strconv.Atoi(host[colon+1:])
		if convErr != nil || p <= 0 || p > 65535 {
			return badPort()
		}
		port = p
		host = host[:colon]
	}
	if host == "" {
		return "", "", 0, &issue.EnvironmentError{
			Message:     fmt.Sprintf("empty host in %q", spec),
			Host:        spec,
			Suggestions: []string{"Use the form [user@]host[:port]"},
		}
	}
	if user == "" {
		user = os.Getenv("USER")
	}
	return user, host, port, nil
}

// authMethods assembles SSH auth in preference order: agent, explicit
// identity file, conventional key files.
func authMethods(identityFile string) []ssh.AuthMethod {
	var methods []ssh.AuthMethod

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		} else {
			log.Debug("ssh agent unavailable", "err", err)
		}
	}

	candidates := []string{}
	if identityFile != "" {
		candidates = append(candidates, expandHome(identityFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".ssh", "id_ed25519"),
			filepath.Join(home, ".ssh", "id_rsa"),
		)
	}
	var signers []ssh.Signer
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		signer, err := ssh.ParsePrivateKey(data)
		if err != nil {
			log.Debug("skipping unreadable identity file", "path", path, "err", err)
			continue
		}
		signers = append(signers, signer)
	}
	if len(signers) > 0 {
		methods = append(methods, ssh.PublicKeys(signers...))
	}
	return methods
}

// hostKeyCallback verifies against ~/.ssh/known_hosts when present. Without
// one, verification is skipped with a warning rather than refusing to run.
func hostKeyCallback() ssh.HostKeyCallback {
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".ssh", "known_hosts")
		if _, statErr := os.Stat(path); statErr == nil {
			if cb, khErr := knownhosts.New(path); khErr == nil {
				return cb
			}
		}
	}
	log.Warn("no usable known_hosts file, skipping host key verification")
	return ssh.InsecureIgnoreHostKey()
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
