package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventMessage carries a text message to a client.
	EventMessage EventKind = iota
	// EventLocationMessage carries a shared location to a client.
	EventLocationMessage
	// EventRoomData carries the current occupant roster of a room.
	EventRoomData
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind      EventKind
	Message   Message
	Room      string
	Occupants []Occupant // populated for EventRoomData
}
