package port

import (
	"fmt"
	"net"
	"strconv"
)

// DefaultSearchSpan is how many ports after the requested one are tried.
const DefaultSearchSpan = 20

// Scanner checks whether TCP ports are available on the host machine.
//
// It asks the operating system directly with net.Listen rather than parsing
// /proc/net/* or relying on external commands like `lsof` or `ss`, which
// may require elevated permissions.
type Scanner struct {
	// Host is the interface to probe. Empty means all interfaces.
	Host string
}

// NewScanner creates a Scanner that probes host.
func NewScanner(host string) *Scanner {
	return &Scanner{Host: host}
}

// IsPortAvailable reports whether port can be bound on the scanner's host.
// The probe listener is closed immediately.
func (s *Scanner) IsPortAvailable(port int) bool {
	if port < 1 || port > 65535 {
		return false
	}
	listener, err := net.Listen("tcp", net.JoinHostPort(s.Host, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = listener.Close()
	return true
}

// FindAvailablePort returns the first free port in [startPort, endPort].
// The search is sequential, so the same free port is chosen consistently.
func (s *Scanner) FindAvailablePort(startPort, endPort int) (int, error) {
	for port := startPort; port <= endPort; port++ {
		if s.IsPortAvailable(port) {
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available tcp port found in range %d-%d", startPort, endPort)
}

// ResolveListenAddr returns addr unchanged when its port is free, otherwise
// addr with the first free port among the next span ports. Port 0 is
// returned as-is (the OS picks).
func ResolveListenAddr(addr string, span int) (string, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 0 || port > 65535 {
		return "", fmt.Errorf("invalid port in listen address %q", addr)
	}
	if port == 0 {
		return addr, nil
	}

	end := port + span
	if end > 65535 {
		end = 65535
	}
	free, err := NewScanner(host).FindAvailablePort(port, end)
	if err != nil {
		return "", err
	}
	return net.JoinHostPort(host, strconv.Itoa(free)), nil
}
