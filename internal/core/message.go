package core

import "time"

// PayloadKind tags the variant carried by a Message.
type PayloadKind int

const (
	// PayloadText is a plain chat message.
	PayloadText PayloadKind = iota
	// PayloadLocation is a shared geographic position.
	PayloadLocation
)

// Message is the domain model for one broadcastable message. It is built,
// fanned out, and discarded; nothing stores it.
type Message struct {
	Kind      PayloadKind
	From      string
	Text      string
	Latitude  float64
	Longitude float64
	CreatedAt time.Time
}

// now is swapped out in tests to pin timestamps.
var now = time.Now

// NewTextMessage stamps a text message with the current time.
func NewTextMessage(from, text string) Message {
	return Message{
		Kind:      PayloadText,
		From:      from,
		Text:      text,
		CreatedAt: now(),
	}
}

// NewLocationMessage stamps a location message with the current time.
// Coordinates are passed through as-is; the device API on the other side of
// the transport is trusted to supply sane values.
func NewLocationMessage(from string, latitude, longitude float64) Message {
	return Message{
		Kind:      PayloadLocation,
		From:      from,
		Latitude:  latitude,
		Longitude: longitude,
		CreatedAt: now(),
	}
}
