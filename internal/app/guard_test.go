package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
)

func TestGuardStartsExactlyOnce(t *testing.T) {
	g := NewGuard(0, "/ws/call", http.NotFoundHandler())
	defer g.Shutdown(context.Background())

	started, err := g.Ensure()
	if err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	if !started {
		t.Fatal("first ensure should start the listener")
	}
	addr := g.Addr()
	if addr == nil {
		t.Fatal("no address after start")
	}

	started, err = g.Ensure()
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if started {
		t.Fatal("second ensure must not start again")
	}
	if g.Addr().String() != addr.String() {
		t.Fatalf("listener changed between ensures: %v vs %v", addr, g.Addr())
	}
	if !g.Running() {
		t.Fatal("guard should report running")
	}
}

func TestGuardPortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	g := NewGuard(port, "/ws/call", http.NotFoundHandler())
	started, err := g.Ensure()
	if err == nil {
		g.Shutdown(context.Background())
		t.Fatal("expected bind failure on occupied port")
	}
	if started || g.Running() {
		t.Fatal("guard must not report running after a failed bind")
	}
}

func TestGuardServesConfiguredPath(t *testing.T) {
	g := NewGuard(0, "/ws/call", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer g.Shutdown(context.Background())

	if _, err := g.Ensure(); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/ws/call", g.Addr().(*net.TCPAddr).Port))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusTeapot {
		t.Fatalf("handler not mounted on signaling path, status %d", resp.StatusCode)
	}
}
