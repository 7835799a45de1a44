// Package sse implements Server-Sent Events for live event dashboards:
// hosts watching the door see check-ins and import progress as they
// happen instead of polling.
package sse

import (
	"time"

	"github.com/hagigaapp/hagiga-server/internal/domain"
)

// EventType represents the type of SSE event.
type EventType string

const (
	// EventParticipantAdded fires when guests are added to the list.
	EventParticipantAdded EventType = "participant.added"
	// EventParticipantUpdated fires on guest edits, including RSVP changes.
	EventParticipantUpdated EventType = "participant.updated"
	// EventParticipantCheckedIn fires when a guest arrives.
	EventParticipantCheckedIn EventType = "participant.checked_in"
	// EventParticipantRemoved fires when a guest is removed.
	EventParticipantRemoved EventType = "participant.removed"

	// EventImportFinished fires when an import job reaches a terminal
	// state, with its final counters.
	EventImportFinished EventType = "import.finished"

	// EventHeartbeat is a connection keepalive.
	EventHeartbeat EventType = "heartbeat"
)

// Event is one message on an event's activity stream. EventID scopes
// delivery: clients only receive events for the event they watch.
type Event struct {
	Type      EventType `json:"type"`
	EventID   string    `json:"event_id,omitempty"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ParticipantEventData is the payload for participant events.
type ParticipantEventData struct {
	Participant *domain.Participant `json:"participant"`
}

// ParticipantRemovedData is the payload for removal events, where the
// full record is already gone.
type ParticipantRemovedData struct {
	ParticipantID string `json:"participant_id"`
}

// ImportEventData is the payload for import lifecycle events.
type ImportEventData struct {
	Job *domain.ImportJob `json:"job"`
}

// NewParticipantEvent creates a participant lifecycle event.
func NewParticipantEvent(eventType EventType, p *domain.Participant) Event {
	return Event{
		Type:      eventType,
		EventID:   p.EventID,
		Data:      ParticipantEventData{Participant: p},
		Timestamp: time.Now(),
	}
}

// NewParticipantRemovedEvent creates a participant.removed event.
func NewParticipantRemovedEvent(eventID, participantID string) Event {
	return Event{
		Type:      EventParticipantRemoved,
		EventID:   eventID,
		Data:      ParticipantRemovedData{ParticipantID: participantID},
		Timestamp: time.Now(),
	}
}

// NewImportFinishedEvent creates an import.finished event.
func NewImportFinishedEvent(job *domain.ImportJob) Event {
	return Event{
		Type:      EventImportFinished,
		EventID:   job.EventID,
		Data:      ImportEventData{Job: job},
		Timestamp: time.Now(),
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type:      EventHeartbeat,
		Timestamp: time.Now(),
	}
}
