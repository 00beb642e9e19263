package netutil

import (
	"fmt"
	"net"
	"strconv"
)

// FreePort asks the kernel for an unused TCP port on address.
func FreePort(address string) (int, error) {
	ln, err := net.Listen("tcp", net.JoinHostPort(address, "0"))
	if err != nil {
		return 0, fmt.Errorf("probe free port on %s: %w", address, err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	if err := ln.Close(); err != nil {
		return 0, err
	}
	return port, nil
}

// IsAddrAvailable returns true when an address can be listened on.
func IsAddrAvailable(addr string) (bool, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return false, nil
	}
	if closeErr := ln.Close(); closeErr != nil {
		return false, closeErr
	}
	return true, nil
}

// HostPort joins an address and numeric port.
func HostPort(address string, port int) string {
	return net.JoinHostPort(address, strconv.Itoa(port))
}
