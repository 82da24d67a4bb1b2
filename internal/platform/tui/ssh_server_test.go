package tui

import (
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestSSHServerPortInUse(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen() failed: %v", err)
	}
	defer taken.Close()

	cfg := DefaultSSHServerConfig()
	cfg.Address = taken.Addr().String()
	cfg.HostKeyPath = filepath.Join(t.TempDir(), "host_key")
	cfg.Logger = log.New(io.Discard)

	srv, err := NewSSHServer(cfg)
	if err != nil {
		t.Fatalf("NewSSHServer() failed: %v", err)
	}

	result := make(chan error, 1)
	go func() {
		result <- srv.serve(make(chan os.Signal))
	}()

	select {
	case err := <-result:
		if err == nil {
			t.Error("serve() = nil, expected the listen error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve() blocked although the address is in use")
	}
}

func TestSSHServerSlotFor(t *testing.T) {
	cfg := DefaultSSHServerConfig()
	cfg.Engine.Save.Dir = t.TempDir()
	cfg.HostKeyPath = filepath.Join(t.TempDir(), "host_key")
	cfg.Logger = log.New(io.Discard)

	srv, err := NewSSHServer(cfg)
	if err != nil {
		t.Fatalf("NewSSHServer() failed: %v", err)
	}
	expected := filepath.Join(cfg.Engine.Save.Dir, "alice.sav")
	if got := srv.SlotFor("alice"); got != expected {
		t.Errorf("SlotFor() = %q, expected %q", got, expected)
	}
}
