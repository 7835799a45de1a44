package sse

import (
	"github.com/hagigaapp/hagiga-server/internal/domain"
)

// Broadcaster adapts the manager to the activity hooks the services
// expose. Each method is fire-and-forget: Emit never blocks.
type Broadcaster struct {
	manager *Manager
}

// NewBroadcaster creates a broadcaster over the given manager.
func NewBroadcaster(manager *Manager) *Broadcaster {
	return &Broadcaster{manager: manager}
}

func (b *Broadcaster) ParticipantAdded(p *domain.Participant) {
	b.manager.Emit(NewParticipantEvent(EventParticipantAdded, p))
}

func (b *Broadcaster) ParticipantUpdated(p *domain.Participant) {
	b.manager.Emit(NewParticipantEvent(EventParticipantUpdated, p))
}

func (b *Broadcaster) ParticipantCheckedIn(p *domain.Participant) {
	b.manager.Emit(NewParticipantEvent(EventParticipantCheckedIn, p))
}

func (b *Broadcaster) ParticipantRemoved(eventID, participantID string) {
	b.manager.Emit(NewParticipantRemovedEvent(eventID, participantID))
}

func (b *Broadcaster) ImportFinished(job *domain.ImportJob) {
	b.manager.Emit(NewImportFinishedEvent(job))
}
