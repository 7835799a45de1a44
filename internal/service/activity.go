package service

import (
	"github.com/hagigaapp/hagiga-server/internal/domain"
)

// ActivityBroadcaster receives guest-list activity for live dashboards.
// Implementations must not block; services call these inline on the
// request path.
type ActivityBroadcaster interface {
	ParticipantAdded(p *domain.Participant)
	ParticipantUpdated(p *domain.Participant)
	ParticipantCheckedIn(p *domain.Participant)
	ParticipantRemoved(eventID, participantID string)
	ImportFinished(job *domain.ImportJob)
}
