// Package search provides full-text guest search using Bleve. Hosts of
// large events need to find a guest at the door faster than scrolling a
// paginated list, so participants are indexed by name and phone with
// fuzzy matching for misspelled names.
package search

import (
	"github.com/hagigaapp/hagiga-server/internal/domain"
	"github.com/hagigaapp/hagiga-server/internal/normalize"
)

// GuestDocument is the document structure for the Bleve index. One
// document per participant, scoped to its event via the event_id field.
type GuestDocument struct {
	ID       string   `json:"id"`
	EventID  string   `json:"event_id"`
	Name     string   `json:"name"`
	LastName string   `json:"last_name,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Status   string   `json:"status"`

	// Unix millis, for sorting by recency.
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but the
// mapping uses lowercase names, so we convert explicitly.
func (d *GuestDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"event_id":   d.EventID,
		"name":       d.Name,
		"status":     d.Status,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}

	if d.LastName != "" {
		m["last_name"] = d.LastName
	}
	if d.Phone != "" {
		m["phone"] = d.Phone
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}

	return m
}

// ParticipantToDocument converts a participant to its index document.
// The phone is indexed in normalized form so "052-123-4567" matches a
// search for "0521234567".
func ParticipantToDocument(p *domain.Participant) *GuestDocument {
	return &GuestDocument{
		ID:        p.ID,
		EventID:   p.EventID,
		Name:      p.Name,
		LastName:  p.LastName,
		Phone:     normalize.Phone(p.Phone),
		Tags:      p.Tags,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt.UnixMilli(),
		UpdatedAt: p.UpdatedAt.UnixMilli(),
	}
}
