package browser

import (
	"net"
	"strings"
	"testing"
)

func TestBuildArgs(t *testing.T) {
	base := Config{
		CDPAddress:  "127.0.0.1",
		CDPPort:     9222,
		UserDataDir: "/tmp/profile",
		Profile:     "Default",
		WindowSize:  "1920,1080",
	}

	t.Run("includes_debugging_and_profile_flags", func(t *testing.T) {
		args := buildArgs(base)
		joined := strings.Join(args, " ")
		for _, want := range []string{
			"--remote-debugging-port=9222",
			"--remote-debugging-address=127.0.0.1",
			"--user-data-dir=/tmp/profile",
			"--profile-directory=Default",
			"--window-size=1920,1080",
		} {
			if !strings.Contains(joined, want) {
				t.Fatalf("args missing %q: %v", want, args)
			}
		}
	})

	t.Run("headless_flag_follows_config", func(t *testing.T) {
		cfg := base
		cfg.Headless = true
		joined := strings.Join(buildArgs(cfg), " ")
		if !strings.Contains(joined, "--headless=new") {
			t.Fatalf("headless config missing --headless=new: %v", joined)
		}

		joined = strings.Join(buildArgs(base), " ")
		if strings.Contains(joined, "--headless") {
			t.Fatalf("headful config carries headless flag: %v", joined)
		}
	})

	t.Run("opens_blank_page_last", func(t *testing.T) {
		args := buildArgs(base)
		if args[len(args)-1] != "about:blank" {
			t.Fatalf("last arg = %q; want about:blank", args[len(args)-1])
		}
	})
}

func TestIsPortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	if !isPortInUse("127.0.0.1", port) {
		t.Fatalf("isPortInUse() = false for a bound port")
	}

	ln.Close()
	if isPortInUse("127.0.0.1", port) {
		t.Fatalf("isPortInUse() = true after the listener closed")
	}
}

func TestDefaultUserDataDir(t *testing.T) {
	dir, err := DefaultUserDataDir()
	if err != nil {
		t.Fatalf("DefaultUserDataDir() error = %v", err)
	}
	if dir == "" {
		t.Fatalf("DefaultUserDataDir() = empty path")
	}
}
