package proto

import "encoding/json"

// Inbound is the envelope for frames coming from the client. Seq is chosen by
// the client and echoed back in the matching ack frame.
type Inbound struct {
	Type string          `json:"type"`
	Seq  int64           `json:"seq,omitempty"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoin         = "join"
	InboundTypeSendMessage  = "sendMessage"
	InboundTypeSendLocation = "sendLocation"

	OutboundTypeEvent = "event"
	OutboundTypeAck   = "ack"
)

// Outbound event names as seen by the client.
const (
	EventNameMessage         = "message"
	EventNameLocationMessage = "locationMessage"
	EventNameRoomData        = "roomData"
)

// JoinData requests a username in a room.
type JoinData struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

// SendMessageData is a chat message from the client.
type SendMessageData struct {
	Text string `json:"text"`
}

// SendLocationData carries device coordinates from the client.
type SendLocationData struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

// Outbound is the envelope for frames sent to the client. Ack frames carry
// Seq and, on failure, Error; event frames carry Event and Data. Seq is
// always serialized so a client that picked seq 0 can still match its ack.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Seq   int64  `json:"seq"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventMessage is a text message as delivered to clients. CreatedAt is Unix
// milliseconds.
type EventMessage struct {
	Username  string `json:"username"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}

// EventLocationMessage is a shared location as delivered to clients. The raw
// coordinates never reach other clients, only the composed maps link.
type EventLocationMessage struct {
	Username  string `json:"username"`
	MapsURL   string `json:"mapsUrl"`
	CreatedAt int64  `json:"createdAt"`
}

// RoomUser is one roster entry.
type RoomUser struct {
	Username string `json:"username"`
}

// EventRoomData is the occupant roster of a room.
type EventRoomData struct {
	Room  string     `json:"room"`
	Users []RoomUser `json:"users"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
