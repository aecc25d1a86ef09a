package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Victor-Maverick/Virtual-Market-app-sub002/internal/app"
	"github.com/Victor-Maverick/Virtual-Market-app-sub002/internal/config"
	"github.com/Victor-Maverick/Virtual-Market-app-sub002/internal/core"
)

type fakeConn struct{}

func (fakeConn) TrySend(core.Frame) error { return nil }
func (fakeConn) Close()                   {}

func testRouterSetup(t *testing.T) (*httptest.Server, *app.Registry, *app.Guard) {
	t.Helper()
	cfg := &config.Config{Mode: "release", Secret: "test"}
	reg := app.NewRegistry()
	guard := app.NewGuard(0, "/ws/call", http.NotFoundHandler())
	t.Cleanup(func() { guard.Shutdown(context.Background()) })

	r := SetupRouter(cfg, reg, guard)
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts, reg, guard
}

func getJSON(t *testing.T, url string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return resp.StatusCode, body
}

func TestBootstrapIdempotent(t *testing.T) {
	ts, _, guard := testRouterSetup(t)

	code, body := getJSON(t, ts.URL+"/api/server")
	if code != http.StatusOK || body["success"] != true {
		t.Fatalf("first bootstrap: %d %v", code, body)
	}
	addr := guard.Addr()
	if addr == nil {
		t.Fatal("signaling listener not started by bootstrap")
	}

	code, body = getJSON(t, ts.URL+"/api/server")
	if code != http.StatusOK || body["success"] != true {
		t.Fatalf("second bootstrap: %d %v", code, body)
	}
	if guard.Addr().String() != addr.String() {
		t.Fatal("second bootstrap rebound the listener")
	}
}

func TestPresenceEndpoints(t *testing.T) {
	ts, reg, _ := testRouterSetup(t)

	reg.Bind("vendor@market.com", "conn-1", fakeConn{})

	code, body := getJSON(t, ts.URL+"/api/presence/vendor@market.com")
	if code != http.StatusOK || body["online"] != true {
		t.Fatalf("expected vendor online: %d %v", code, body)
	}

	_, body = getJSON(t, ts.URL+"/api/presence/ghost@market.com")
	if body["online"] != false {
		t.Fatalf("expected ghost offline: %v", body)
	}

	_, body = getJSON(t, ts.URL+"/api/presence")
	if body["count"] != float64(1) {
		t.Fatalf("expected one online identity: %v", body)
	}

	_, body = getJSON(t, ts.URL+"/api/stats")
	if body["registered"] != float64(1) {
		t.Fatalf("unexpected stats: %v", body)
	}
}
