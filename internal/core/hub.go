package core

import (
	"sync"

	"github.com/rs/zerolog"
)

// systemSender names the server itself in welcome/joined/left messages.
const systemSender = "Admin"

// Hub coordinates live connections: it maps inbound client actions onto the
// registry and fans resulting events out to the affected room. Join, SendText
// and SendLocation return synchronously; the transport turns the result into
// whatever acknowledgement its protocol carries.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client
	registry *Registry
	log      *zerolog.Logger
}

// NewHub creates a hub with an empty registry.
func NewHub(logger *zerolog.Logger) *Hub {
	return &Hub{
		clients:  make(map[string]*Client),
		registry: NewRegistry(),
		log:      logger,
	}
}

// RegisterClient makes a freshly accepted connection known to the hub.
// The client stays unjoined until a successful Join.
func (h *Hub) RegisterClient(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
}

// Join places the connection in a room under the requested name. On failure
// the connection keeps its unjoined state and nothing is broadcast. On
// success the joiner gets a welcome message, the rest of the room gets a
// joined notice, and everyone in the room (joiner included) gets the roster.
func (h *Hub) Join(c *Client, username, room string) error {
	occ, err := h.registry.AddOccupant(c.ID, username, room)
	if err != nil {
		h.log.Debug().Err(err).Str("client_id", c.ID).Msg("join rejected")
		return err
	}

	h.send(c, &Event{Kind: EventMessage, Message: NewTextMessage(systemSender, "Welcome!")})
	h.broadcast(occ.Room, &Event{
		Kind:    EventMessage,
		Message: NewTextMessage(systemSender, occ.Username+" has joined!"),
	}, c.ID)
	h.broadcastRoster(occ.Room)

	h.log.Info().Str("client_id", c.ID).Str("username", occ.Username).Str("room", occ.Room).Msg("client joined")
	return nil
}

// SendText broadcasts a text message to the sender's room, sender included.
// The stored (normalized) username is used, not whatever casing the client
// typed at join.
func (h *Hub) SendText(c *Client, text string) error {
	occ, ok := h.registry.GetOccupant(c.ID)
	if !ok {
		// A well-behaved transport never sends before joining; don't let a
		// misbehaving one take anything down.
		h.log.Warn().Str("client_id", c.ID).Msg("text from unjoined connection dropped")
		return nil
	}

	h.broadcast(occ.Room, &Event{
		Kind:    EventMessage,
		Message: NewTextMessage(occ.Username, text),
	}, "")
	return nil
}

// SendLocation broadcasts a shared location to the sender's room, sender
// included.
func (h *Hub) SendLocation(c *Client, latitude, longitude float64) error {
	occ, ok := h.registry.GetOccupant(c.ID)
	if !ok {
		h.log.Warn().Str("client_id", c.ID).Msg("location from unjoined connection dropped")
		return nil
	}

	h.broadcast(occ.Room, &Event{
		Kind:    EventLocationMessage,
		Message: NewLocationMessage(occ.Username, latitude, longitude),
	}, "")
	return nil
}

// Disconnect removes the connection. If it had joined a room the remaining
// occupants get a left notice and a fresh roster; a connection that closed
// before joining produces no broadcast at all.
func (h *Hub) Disconnect(c *Client) {
	h.mu.Lock()
	delete(h.clients, c.ID)
	h.mu.Unlock()

	occ, ok := h.registry.RemoveOccupant(c.ID)
	if !ok {
		return
	}

	h.broadcast(occ.Room, &Event{
		Kind:    EventMessage,
		Message: NewTextMessage(systemSender, occ.Username+" has left."),
	}, "")
	h.broadcastRoster(occ.Room)

	h.log.Info().Str("client_id", c.ID).Str("username", occ.Username).Str("room", occ.Room).Msg("client left")
}

// broadcast delivers an event to every connection in the room, skipping
// excludeID when non-empty. The occupant snapshot is taken after the
// triggering registry mutation committed, so it never reflects stale state.
func (h *Hub) broadcast(room string, ev *Event, excludeID string) {
	occupants := h.registry.ListOccupants(room)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, occ := range occupants {
		if occ.ConnID == excludeID {
			continue
		}
		if c, ok := h.clients[occ.ConnID]; ok {
			h.send(c, ev)
		}
	}
}

func (h *Hub) broadcastRoster(room string) {
	h.broadcast(room, &Event{
		Kind:      EventRoomData,
		Room:      room,
		Occupants: h.registry.ListOccupants(room),
	}, "")
}

// send never blocks; a client whose buffer is full loses the event.
func (h *Hub) send(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		h.log.Debug().Str("client_id", c.ID).Msg("dropping event for slow consumer")
	}
}
