package domain

import "time"

// EventType categorizes an event for display and defaults.
type EventType string

const (
	EventTypeWedding   EventType = "wedding"
	EventTypeParty     EventType = "party"
	EventTypeCorporate EventType = "corporate"
	EventTypeOther     EventType = "other"
)

// EventSettings holds per-event behavior toggles.
type EventSettings struct {
	// RSVPDeadline is the last moment guests may change their RSVP.
	// Zero means no deadline.
	RSVPDeadline time.Time `json:"rsvp_deadline,omitzero"`
	// AllowPlusOnes lets guests raise their attendee count above the
	// imported value.
	AllowPlusOnes bool `json:"allow_plus_ones"`
}

// Event represents a hosted occasion that guests are invited to.
// The first entry in OwnerIDs is the creator; any owner may manage
// the event and its guest list.
type Event struct {
	Syncable
	OwnerIDs    []string      `json:"owner_ids"`
	Title       string        `json:"title"`
	Type        EventType     `json:"type"`
	Date        time.Time     `json:"date,omitzero"`
	Venue       string        `json:"venue,omitempty"`
	Description string        `json:"description,omitempty"`
	Settings    EventSettings `json:"settings"`
}

// IsOwner returns true if the given user may manage this event.
func (e *Event) IsOwner(userID string) bool {
	for _, id := range e.OwnerIDs {
		if id == userID {
			return true
		}
	}
	return false
}
