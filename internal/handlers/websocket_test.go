package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"greenhouse_dashboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// --- parseInterval unit tests ---

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil)

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", 2 * time.Second},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=40s", 2 * time.Second},
		{"interval_ms_too_large", "/ws?interval_ms=40000", 2 * time.Second},
		{"interval_invalid_string", "/ws?interval=bogus", 2 * time.Second},
		{"interval_ms_invalid", "/ws?interval_ms=NaN", 2 * time.Second},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"both_present_invalid_interval_ms_used", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.u, nil)
			c, _ := gin.CreateTestContext(w)
			c.Request = req
			got := h.parseInterval(c)
			if got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

// --- websocket integration tests ---

func newWsServer(t *testing.T, gh *mockGreenhouse) (*httptest.Server, *websocket.Conn) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(&service.Service{Greenhouse: gh}, nil)
	r.GET("/ws", h.wsConnect)

	srv := httptest.NewServer(r)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	q := u.Query()
	q.Set("interval_ms", "20") // fast ticks for the test
	u.RawQuery = q.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial error: %v", err)
	}
	return srv, conn
}

func TestWebSocket_LatestStream_InitialAndPeriodic(t *testing.T) {
	gh := &mockGreenhouse{latest: map[string]any{"value": float64(215), "when": "2026-08-29T10:00:00Z"}}
	srv, conn := newWsServer(t, gh)
	defer srv.Close()
	defer conn.Close()

	type envelope struct {
		Type  string          `json:"type"`
		Stat  string          `json:"stat"`
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}

	// Initial send is one envelope per streamed series, temperature first.
	wantStats := []string{"temperature", "humidity"}
	for _, want := range wantStats {
		_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("read %s: %v", want, err)
		}
		if env.Type != "latest" || env.Stat != want || len(env.Data) == 0 {
			t.Fatalf("bad envelope for %s: %+v", want, env)
		}
		var payload map[string]any
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			t.Fatalf("unmarshal payload: %v", err)
		}
		if payload["value"] != float64(215) {
			t.Fatalf("payload not passed through: %v", payload)
		}
	}

	// A subsequent tick repeats the pair.
	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read tick: %v", err)
	}
	if env.Type != "latest" || env.Stat != "temperature" {
		t.Fatalf("expected periodic temperature envelope, got %+v", env)
	}
}

func TestWebSocket_UpstreamError_SendsErrorEnvelope(t *testing.T) {
	gh := &mockGreenhouse{latestErr: errors.New("boom")}
	srv, conn := newWsServer(t, gh)
	defer srv.Close()
	defer conn.Close()

	// Upstream failures must not tear down the stream; the client sees an
	// error envelope instead.
	type envelope struct {
		Type  string `json:"type"`
		Stat  string `json:"stat"`
		Error string `json:"error"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	if env.Type != "error" || env.Error == "" {
		t.Fatalf("expected error envelope, got %+v", env)
	}

	// The connection stays usable: the next tick still arrives.
	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	env = envelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("stream closed after upstream error: %v", err)
	}
}
