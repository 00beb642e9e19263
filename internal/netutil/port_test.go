package netutil

import (
	"net"
	"testing"
)

func TestFreePort(t *testing.T) {
	port, err := FreePort("127.0.0.1")
	if err != nil {
		t.Fatalf("FreePort() error = %v", err)
	}
	if port <= 0 || port > 65535 {
		t.Fatalf("FreePort() = %d; want a valid port", port)
	}

	// The returned port must be immediately bindable.
	ln, err := net.Listen("tcp", HostPort("127.0.0.1", port))
	if err != nil {
		t.Fatalf("listen on FreePort() result: %v", err)
	}
	ln.Close()
}

func TestIsAddrAvailable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	taken := ln.Addr().String()
	ok, err := IsAddrAvailable(taken)
	if err != nil {
		t.Fatalf("IsAddrAvailable(%s) error = %v", taken, err)
	}
	if ok {
		t.Fatalf("IsAddrAvailable(%s) = true; want false for bound address", taken)
	}

	ok, err = IsAddrAvailable("127.0.0.1:0")
	if err != nil {
		t.Fatalf("IsAddrAvailable(ephemeral) error = %v", err)
	}
	if !ok {
		t.Fatalf("IsAddrAvailable(ephemeral) = false; want true")
	}
}

func TestHostPort(t *testing.T) {
	if got := HostPort("127.0.0.1", 9220); got != "127.0.0.1:9220" {
		t.Fatalf("HostPort() = %q; want %q", got, "127.0.0.1:9220")
	}
}
