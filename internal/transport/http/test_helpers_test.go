package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/ephillips408/udemy-chat-app/internal/config"
	"github.com/ephillips408/udemy-chat-app/internal/core"
	"github.com/ephillips408/udemy-chat-app/internal/proto"
)

func newNopLogger() *zerolog.Logger {
	nop := zerolog.Nop()
	return &nop
}

func startTestServer(t *testing.T) *httptest.Server {
	return startTestServerLimited(t, 0)
}

func startTestServerLimited(t *testing.T, msgLimit int) *httptest.Server {
	t.Helper()

	logger := newNopLogger()
	hub := core.NewHub(logger)

	server := NewServer(hub, config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
		MessageRateLimit:  msgLimit,
	}, logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts
}

// outboundFrame mirrors proto.Outbound with raw data for test-side decoding.
type outboundFrame struct {
	Type  string          `json:"type"`
	Event string          `json:"event,omitempty"`
	Seq   int64           `json:"seq,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error *proto.Error    `json:"error,omitempty"`
}

// wsClient wraps one websocket connection for tests. Acks and events
// interleave in no guaranteed order, so frames that don't match the current
// expectation are buffered, not dropped.
type wsClient struct {
	t    *testing.T
	ctx  context.Context
	conn *websocket.Conn
	buf  []outboundFrame
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *wsClient {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })

	return &wsClient{t: t, ctx: ctx, conn: conn}
}

func (c *wsClient) send(typ string, seq int64, data any) {
	c.t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		c.t.Fatalf("marshal %s payload: %v", typ, err)
	}
	if err := wsjson.Write(c.ctx, c.conn, proto.Inbound{Type: typ, Seq: seq, Data: payload}); err != nil {
		c.t.Fatalf("write %s frame: %v", typ, err)
	}
}

// next returns the first frame matching pred, reading more frames as needed.
func (c *wsClient) next(pred func(outboundFrame) bool) outboundFrame {
	c.t.Helper()

	for i, f := range c.buf {
		if pred(f) {
			c.buf = append(c.buf[:i], c.buf[i+1:]...)
			return f
		}
	}
	for {
		var f outboundFrame
		if err := wsjson.Read(c.ctx, c.conn, &f); err != nil {
			c.t.Fatalf("read frame: %v", err)
		}
		if pred(f) {
			return f
		}
		c.buf = append(c.buf, f)
	}
}

func (c *wsClient) ack(seq int64) outboundFrame {
	c.t.Helper()
	return c.next(func(f outboundFrame) bool {
		return f.Type == proto.OutboundTypeAck && f.Seq == seq
	})
}

func (c *wsClient) event(name string) outboundFrame {
	c.t.Helper()
	return c.next(func(f outboundFrame) bool {
		return f.Type == proto.OutboundTypeEvent && f.Event == name
	})
}

func (c *wsClient) join(seq int64, username, room string) outboundFrame {
	c.t.Helper()
	c.send(proto.InboundTypeJoin, seq, proto.JoinData{Username: username, Room: room})
	return c.ack(seq)
}

// expectNone fails if a frame matching pred arrives within wait. The timed-out
// read closes the underlying connection, so call this last on a connection.
func (c *wsClient) expectNone(pred func(outboundFrame) bool, wait time.Duration) {
	c.t.Helper()

	for _, f := range c.buf {
		if pred(f) {
			c.t.Fatalf("unexpected frame: %+v", f)
		}
	}

	ctx, cancel := context.WithTimeout(c.ctx, wait)
	defer cancel()
	for {
		var f outboundFrame
		if err := wsjson.Read(ctx, c.conn, &f); err != nil {
			return // silence until the deadline
		}
		if pred(f) {
			c.t.Fatalf("unexpected frame: %+v", f)
		}
		c.buf = append(c.buf, f)
	}
}
