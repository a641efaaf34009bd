// Package topology derives the per-job network parameter set the trainer
// needs to open its own communication channels.
//
// The topology is computed once per training job from the stable enumeration
// of participating worker addresses, then reused by every task of that job.
// It is a value object: identical content for every worker except the local
// listen port.
package topology

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/arloliu/distboost/types"
)

// maxPort is the highest valid TCP port.
const maxPort = 65535

// Build assigns each participating worker a unique listen port and returns
// the network parameter set for the local worker.
//
// Port assignment is deterministic: the i-th address in workerAddrs gets
// basePort+i, so ports are injective across workers by construction. The
// joined machines string is built from the same enumeration, so every worker
// of a job derives an identical topology string; only the local listen port
// differs per worker.
//
// Worker addresses may carry a scheme ("tcp://host:port"); only the host is
// used for the machines string.
//
// Parameters:
//   - workerAddrs: Stable enumeration of all participating worker addresses
//   - localAddr: This worker's address; must be present in workerAddrs
//   - basePort: First listen port to assign
//   - timeout: Rendezvous timeout in minutes, enforced by the trainer
//
// Returns:
//   - types.NetworkParams: The local worker's network parameter set
//   - error: types.ErrLocalAddressMissing when localAddr is not in
//     workerAddrs (a placement bug, always fatal), or types.ErrInvalidBasePort
//     when the port range would leave the valid port space
func Build(workerAddrs []string, localAddr string, basePort, timeout int) (types.NetworkParams, error) {
	if basePort <= 0 || basePort+len(workerAddrs)-1 > maxPort {
		return types.NetworkParams{}, fmt.Errorf("%w: %d with %d workers",
			types.ErrInvalidBasePort, basePort, len(workerAddrs))
	}

	machines := make([]string, 0, len(workerAddrs))
	localPort := -1
	for i, addr := range workerAddrs {
		host, err := parseHost(addr)
		if err != nil {
			return types.NetworkParams{}, fmt.Errorf("invalid worker address %q: %w", addr, err)
		}

		port := basePort + i
		machines = append(machines, fmt.Sprintf("%s:%d", host, port))
		if addr == localAddr {
			localPort = port
		}
	}

	if localPort < 0 {
		return types.NetworkParams{}, fmt.Errorf("%w: %q not in %v",
			types.ErrLocalAddressMissing, localAddr, workerAddrs)
	}

	return types.NetworkParams{
		Machines:        strings.Join(machines, ","),
		LocalListenPort: localPort,
		TimeOut:         timeout,
		NumMachines:     len(workerAddrs),
	}, nil
}

// parseHost extracts the host from a worker address with or without a
// scheme prefix.
func parseHost(addr string) (string, error) {
	if addr == "" {
		return "", fmt.Errorf("empty address")
	}
	if strings.Contains(addr, "://") {
		u, err := url.Parse(addr)
		if err != nil {
			return "", err
		}
		if u.Hostname() == "" {
			return "", fmt.Errorf("no host in address")
		}

		return u.Hostname(), nil
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		// Bare hostname without a port.
		return addr, nil //nolint:nilerr // addr is the host itself
	}

	return host, nil
}
