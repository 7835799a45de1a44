package domain

// Table is a seating table on an event's floor plan. Occupancy is
// derived from participants whose TableID points here; the table itself
// only stores layout.
type Table struct {
	Syncable
	EventID  string  `json:"event_id"`
	Name     string  `json:"name"`
	Capacity int     `json:"capacity"`
	PosX     float64 `json:"pos_x"`
	PosY     float64 `json:"pos_y"`
}

// HasSeat reports whether seatIndex addresses a seat at this table.
// Seats are numbered from 0 to Capacity-1.
func (t *Table) HasSeat(seatIndex int) bool {
	return seatIndex >= 0 && seatIndex < t.Capacity
}
