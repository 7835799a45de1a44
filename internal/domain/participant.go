package domain

// ParticipantStatus tracks a guest's RSVP and attendance state.
type ParticipantStatus string

const (
	ParticipantStatusInvited   ParticipantStatus = "invited"
	ParticipantStatusConfirmed ParticipantStatus = "confirmed"
	ParticipantStatusDeclined  ParticipantStatus = "declined"
	ParticipantStatusCheckedIn ParticipantStatus = "checked_in"
)

// ValidParticipantStatus reports whether s is a known status value.
func ValidParticipantStatus(s ParticipantStatus) bool {
	switch s {
	case ParticipantStatusInvited, ParticipantStatusConfirmed,
		ParticipantStatusDeclined, ParticipantStatusCheckedIn:
		return true
	}
	return false
}

// ImportMeta records where an imported participant came from, so a guest
// can be traced back to the upload and row that produced them.
type ImportMeta struct {
	JobID    string `json:"job_id"`
	RowIndex int    `json:"row_index"` // 1-based position in the source
}

// Participant is a guest on one event's list. Phone is stored in
// normalized form and is unique within the event.
type Participant struct {
	Syncable
	EventID      string            `json:"event_id"`
	Name         string            `json:"name"`
	LastName     string            `json:"last_name,omitempty"`
	Phone        string            `json:"phone"`
	NumAttendees int               `json:"num_attendees"`
	Tags         []string          `json:"tags,omitempty"`
	Status       ParticipantStatus `json:"status"`
	TableID      string            `json:"table_id,omitempty"`
	SeatIndex    int               `json:"seat_index,omitempty"`
	AvatarColor  string            `json:"avatar_color,omitempty"` // Derived from the name, see internal/color
	ImportMeta   *ImportMeta       `json:"import_meta,omitempty"`
}

// IsSeated returns true if the participant has been assigned a seat.
func (p *Participant) IsSeated() bool {
	return p.TableID != ""
}

// DisplayName joins the name parts for UI labels and avatar hashing.
func (p *Participant) DisplayName() string {
	if p.LastName == "" {
		return p.Name
	}
	return p.Name + " " + p.LastName
}

// GuestRow is a normalized guest record extracted from one row of an
// uploaded list, before validation and persistence. Extra holds columns
// that did not map to a known field, preserved for error reporting.
type GuestRow struct {
	Name         string            `json:"name"`
	LastName     string            `json:"last_name,omitempty"`
	Phone        string            `json:"phone"`
	NumAttendees int               `json:"num_attendees"`
	Extra        map[string]string `json:"extra,omitempty"`
}
