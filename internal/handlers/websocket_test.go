package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"water_telemetry/internal/models"
	"water_telemetry/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func TestParseFeedInterval(t *testing.T) {
	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", time.Second},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=20s", time.Second},
		{"interval_too_small", "/ws?interval=1ms", time.Second},
		{"interval_ms_too_large", "/ws?interval_ms=20000", time.Second},
		{"interval_invalid_string", "/ws?interval=bogus", time.Second},
		{"interval_ms_invalid", "/ws?interval_ms=NaN", time.Second},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"invalid_interval_falls_back_to_ms", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, tc.u, nil)
			if got := parseFeedInterval(c); got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

type wsTestEnvelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func dialFeed(t *testing.T, s *service.Service) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil)
	r.GET("/ws", h.wsConnect)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	q := u.Query()
	q.Set("interval_ms", "100")
	u.RawQuery = q.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestWebSocket_StateFeed_InitialAndPeriodic(t *testing.T) {
	mon := &mockMonitoring{state: models.PipelineState{
		ID:             1,
		SensorID:       "sensor-01",
		LastWaterLevel: 8123,
		SensorCount:    4,
		CurrentCount:   4,
	}}
	conn := dialFeed(t, &service.Service{Monitoring: mon})

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var env wsTestEnvelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if env.Type != "pipeline_state" || len(env.Data) == 0 {
		t.Fatalf("bad envelope: %+v", env)
	}
	var st models.PipelineState
	if err := json.Unmarshal(env.Data, &st); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if st.SensorID != "sensor-01" || st.LastWaterLevel != 8123 || st.SensorCount != 4 {
		t.Fatalf("unexpected state: %+v", st)
	}

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	env = wsTestEnvelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read second: %v", err)
	}
	if env.Type != "pipeline_state" {
		t.Fatalf("expected pipeline_state, got %+v", env)
	}
}

func TestWebSocket_StateErrorIsReportedInFrame(t *testing.T) {
	mon := &mockMonitoring{err: errors.New("database is locked")}
	conn := dialFeed(t, &service.Service{Monitoring: mon})

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var env wsTestEnvelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	if env.Error == "" || len(env.Data) != 0 {
		t.Fatalf("expected error frame, got %+v", env)
	}
}
