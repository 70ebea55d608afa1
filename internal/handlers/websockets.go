package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = (pongWait * 9) / 10
	maxMsgSize  = 1 << 12
	minInterval = 100 * time.Millisecond
	maxInterval = 10 * time.Second

	defaultFeedInterval = time.Second
	wsTypeState         = "pipeline_state"
)

// wsEnvelope is the frame written to feed subscribers.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	// dashboards are served from other origins; the route is token-protected
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Pipeline state feed
// @Description  Upgrades to WebSocket and pushes the pipeline state every interval (?interval=2s or ?interval_ms=2000, 100ms..10s).
// @Tags         pipeline
// @Param        interval     query  string  false  "Go duration"
// @Param        interval_ms  query  int     false  "Milliseconds"
// @Router       /ws [get]
// @Security     BearerAuth
func (h *Handler) wsConnect(c *gin.Context) {
	interval := parseFeedInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.drainReads(conn, done)

	ctx := c.Request.Context()
	feed := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		feed.Stop()
		ping.Stop()
	}()

	if err := h.pushState(ctx, conn); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-feed.C:
			if err := h.pushState(ctx, conn); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// parseFeedInterval reads ?interval= (duration) first, then ?interval_ms=.
// Out-of-range or malformed values fall back to the default.
func parseFeedInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && inFeedRange(d) {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && inFeedRange(time.Duration(v)*time.Millisecond) {
			return time.Duration(v) * time.Millisecond
		}
	}
	return defaultFeedInterval
}

func inFeedRange(d time.Duration) bool {
	return d >= minInterval && d <= maxInterval
}

// drainReads handles control frames and closes done when the peer goes away.
func (h *Handler) drainReads(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Debugw("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// pushState writes the current snapshot. A lookup failure is reported to the
// client as an error frame and does not close the feed.
func (h *Handler) pushState(ctx context.Context, conn *websocket.Conn) error {
	env := wsEnvelope{Type: wsTypeState}
	st, err := h.services.Monitoring.GetState(ctx)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_get_state_failed", "err", err)
		}
		env.Error = errGetState
	} else {
		env.Data = st
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}
