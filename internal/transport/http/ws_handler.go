package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ephillips408/udemy-chat-app/internal/core"
	"github.com/ephillips408/udemy-chat-app/internal/proto"
)

// WSHandler upgrades HTTP connections and bridges them to core.Client.
type WSHandler struct {
	hub      *core.Hub
	msgLimit int
	log      *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler. msgLimit caps inbound frames
// per connection per minute; zero disables the cap.
func NewWSHandler(hub *core.Hub, msgLimit int, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{hub: hub, msgLimit: msgLimit, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	client := core.NewClient(uuid.NewString())
	h.hub.RegisterClient(client)
	defer h.hub.Disconnect(client)

	h.log.Debug().Str("client_id", client.ID).Msg("new websocket connection")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The connection allows one concurrent writer, so acks from the read
	// loop are funneled through the write loop instead of written in place.
	acks := make(chan proto.Outbound, 4)

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client, acks)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client, acks)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client, acks chan<- proto.Outbound) error {
	limiter := newRateLimiter(h.msgLimit)
	defer limiter.stop()

	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		if !limiter.allow() {
			if err := queueAck(ctx, acks, errorAck(inbound.Seq, "rate_limited", "too many messages")); err != nil {
				return err
			}
			continue
		}

		if err := queueAck(ctx, acks, h.dispatch(client, inbound)); err != nil {
			return err
		}
	}
}

// queueAck hands an ack to the write loop without risking a hang when the
// connection is already shutting down.
func queueAck(ctx context.Context, acks chan<- proto.Outbound, ack proto.Outbound) error {
	select {
	case acks <- ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// dispatch maps one inbound frame onto a hub operation and produces the ack.
func (h *WSHandler) dispatch(client *core.Client, inbound proto.Inbound) proto.Outbound {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var data proto.JoinData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return errorAck(inbound.Seq, "bad_frame", "malformed join payload")
		}
		return ackFrame(inbound.Seq, h.hub.Join(client, data.Username, data.Room))
	case proto.InboundTypeSendMessage:
		var data proto.SendMessageData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return errorAck(inbound.Seq, "bad_frame", "malformed message payload")
		}
		return ackFrame(inbound.Seq, h.hub.SendText(client, data.Text))
	case proto.InboundTypeSendLocation:
		var data proto.SendLocationData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return errorAck(inbound.Seq, "bad_frame", "malformed location payload")
		}
		return ackFrame(inbound.Seq, h.hub.SendLocation(client, data.Lat, data.Long))
	default:
		return errorAck(inbound.Seq, "invalid_message", "unknown message type")
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client, acks <-chan proto.Outbound) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("client_id", client.ID).Msg("write ws event")
				return err
			}
		case frame := <-acks:
			if err := wsjson.Write(ctx, conn, frame); err != nil {
				h.log.Error().Err(err).Str("client_id", client.ID).Msg("write ws ack")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
