package core

// eventBuffer sizes the per-client outbound queue. A client that falls this
// far behind starts losing events (delivery is best-effort).
const eventBuffer = 16

// Client is one live connection as seen by the core layer. The transport
// drains Events and writes them to the wire.
type Client struct {
	ID     string
	Events chan *Event
}

// NewClient constructs a client with an initialized event channel.
func NewClient(id string) *Client {
	return &Client{
		ID:     id,
		Events: make(chan *Event, eventBuffer),
	}
}
