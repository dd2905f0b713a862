package http

import (
	"errors"
	"strconv"

	"github.com/ephillips408/udemy-chat-app/internal/core"
	"github.com/ephillips408/udemy-chat-app/internal/proto"
)

// ackFrame builds the acknowledgement for an inbound frame. The client's seq
// is echoed back so it can match the ack to its request.
func ackFrame(seq int64, err error) proto.Outbound {
	out := proto.Outbound{Type: proto.OutboundTypeAck, Seq: seq}
	if err == nil {
		return out
	}

	var coreErr *core.CoreError
	if errors.As(err, &coreErr) {
		out.Error = &proto.Error{Code: coreErr.Code, Msg: coreErr.Message}
		return out
	}
	out.Error = &proto.Error{Code: "internal", Msg: err.Error()}
	return out
}

func errorAck(seq int64, code, msg string) proto.Outbound {
	return proto.Outbound{
		Type:  proto.OutboundTypeAck,
		Seq:   seq,
		Error: &proto.Error{Code: code, Msg: msg},
	}
}

// outboundFromEvent converts a core event into its wire frame.
func outboundFromEvent(ev *core.Event) proto.Outbound {
	switch ev.Kind {
	case core.EventMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameMessage,
			Data: proto.EventMessage{
				Username:  ev.Message.From,
				Text:      ev.Message.Text,
				CreatedAt: ev.Message.CreatedAt.UnixMilli(),
			},
		}
	case core.EventLocationMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameLocationMessage,
			Data: proto.EventLocationMessage{
				Username:  ev.Message.From,
				MapsURL:   mapsURL(ev.Message.Latitude, ev.Message.Longitude),
				CreatedAt: ev.Message.CreatedAt.UnixMilli(),
			},
		}
	case core.EventRoomData:
		users := make([]proto.RoomUser, 0, len(ev.Occupants))
		for _, occ := range ev.Occupants {
			users = append(users, proto.RoomUser{Username: occ.Username})
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameRoomData,
			Data: proto.EventRoomData{
				Room:  ev.Room,
				Users: users,
			},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

// mapsURL composes the Google Maps link shown in place of raw coordinates.
func mapsURL(latitude, longitude float64) string {
	return "https://google.com/maps?q=" +
		strconv.FormatFloat(latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(longitude, 'f', -1, 64)
}
