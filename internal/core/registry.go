package core

import (
	"strings"
	"sync"
)

// Occupant is one joined connection: who it is and which room it sits in.
// Username and Room are stored normalized (trimmed, lowercased).
type Occupant struct {
	ConnID   string
	Username string
	Room     string
}

// Registry owns all occupant state. Every mutation and room-scoped read goes
// through its lock, which is the serialization boundary that keeps the
// (room, username) uniqueness invariant.
type Registry struct {
	mu        sync.RWMutex
	occupants map[string]Occupant            // connection id -> occupant
	rooms     map[string]map[string]struct{} // normalized room -> connection ids
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		occupants: make(map[string]Occupant),
		rooms:     make(map[string]map[string]struct{}),
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// AddOccupant validates and stores a new occupant for the connection.
// Returns a CoreError with code validation_error when either value is empty
// after normalization, name_in_use when the username is already taken in the
// room, or already_joined when the connection holds an occupant record. A
// connection gets one join for its lifetime; overwriting in place would
// leave the old room's index pointing at a record that moved.
func (r *Registry) AddOccupant(connID, rawName, rawRoom string) (Occupant, error) {
	username := normalize(rawName)
	room := normalize(rawRoom)

	if username == "" || room == "" {
		return Occupant{}, validationError("username and room are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.occupants[connID]; ok {
		return Occupant{}, alreadyJoinedError("already joined")
	}

	for id := range r.rooms[room] {
		if r.occupants[id].Username == username {
			return Occupant{}, nameInUseError("username is in use")
		}
	}

	occ := Occupant{ConnID: connID, Username: username, Room: room}
	r.occupants[connID] = occ
	if _, ok := r.rooms[room]; !ok {
		r.rooms[room] = make(map[string]struct{})
	}
	r.rooms[room][connID] = struct{}{}

	return occ, nil
}

// RemoveOccupant deletes and returns the occupant for the connection.
// A connection that never joined yields (zero, false); removing twice is a
// no-op.
func (r *Registry) RemoveOccupant(connID string) (Occupant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	occ, ok := r.occupants[connID]
	if !ok {
		return Occupant{}, false
	}
	delete(r.occupants, connID)

	if members, ok := r.rooms[occ.Room]; ok {
		delete(members, connID)
		// Empty rooms are dropped entirely so the map doesn't grow forever.
		if len(members) == 0 {
			delete(r.rooms, occ.Room)
		}
	}

	return occ, true
}

// GetOccupant looks up the occupant for a connection without mutating.
func (r *Registry) GetOccupant(connID string) (Occupant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	occ, ok := r.occupants[connID]
	return occ, ok
}

// ListOccupants returns all occupants of the room, in no particular order.
func (r *Registry) ListOccupants(rawRoom string) []Occupant {
	room := normalize(rawRoom)

	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.rooms[room]
	if !ok {
		return nil
	}
	out := make([]Occupant, 0, len(members))
	for id := range members {
		out = append(out, r.occupants[id])
	}
	return out
}
