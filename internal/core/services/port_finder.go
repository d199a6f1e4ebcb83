package services

import (
	"fmt"
	"net"
	"strconv"
)

// DefaultMCPPortRange is scanned when the MCP HTTP server is started without a port.
var DefaultMCPPortRange = [2]int{8760, 8799}

// FindAvailablePort returns the first port in [startPort, endPort] that can
// be bound on the loopback interface.
func FindAvailablePort(startPort, endPort int) (int, error) {
	for port := startPort; port <= endPort; port++ {
		l, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
		if err != nil {
			continue
		}
		_ = l.Close()
		return port, nil
	}
	return 0, fmt.Errorf("no available port in range %d-%d", startPort, endPort)
}
