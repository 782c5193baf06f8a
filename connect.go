package netbench

//
// Connectivity precondition
//

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/crypto/ssh"
)

// SSHTarget describes how to reach the host under test using SSH.
type SSHTarget struct {
	// Addr is the MANDATORY endpoint (e.g., 10.0.0.1:22).
	Addr string

	// User is the MANDATORY user name.
	User string

	// KeyPath is the MANDATORY path of the private key.
	KeyPath string

	// Timeout is the OPTIONAL timeout for establishing the
	// connection. When zero, we use a ten seconds timeout.
	Timeout time.Duration
}

// CheckConnectivity establishes and closes an SSH connection with the
// target host. We accept any host key, because this check only tells us
// whether the host is reachable. The returned error wraps [ErrConnectivity].
func CheckConnectivity(ctx context.Context, target *SSHTarget, logger Logger) error {
	err := checkConnectivity(ctx, target)
	if err != nil {
		logger.Errorf("netbench: failed to connect to %s: %s", target.Addr, err.Error())
		return fmt.Errorf("%w: %w", ErrConnectivity, err)
	}
	logger.Infof("netbench: successfully connected to %s", target.Addr)
	return nil
}

// checkConnectivity is the workhorse of CheckConnectivity.
func checkConnectivity(ctx context.Context, target *SSHTarget) error {
	key, err := os.ReadFile(target.KeyPath)
	if err != nil {
		return err
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return err
	}

	timeout := target.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", target.Addr)
	if err != nil {
		return err
	}
	if deadline, okay := ctx.Deadline(); okay {
		_ = conn.SetDeadline(deadline)
	}

	config := &ssh.ClientConfig{
		User:            target.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, target.Addr, config)
	if err != nil {
		conn.Close()
		return err
	}
	client := ssh.NewClient(sshConn, chans, reqs)
	return client.Close()
}
