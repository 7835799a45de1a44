package store

import (
	"fmt"
	"io"
)

// Backup streams a full snapshot of the database to w. Returns the
// version timestamp of the snapshot.
func (s *Store) Backup(w io.Writer) (uint64, error) {
	since, err := s.db.Backup(w, 0)
	if err != nil {
		return 0, fmt.Errorf("backup database: %w", err)
	}
	return since, nil
}

// Restore replaces the database contents with a snapshot previously
// written by Backup. Callers must ensure no other writers are active.
func (s *Store) Restore(r io.Reader) error {
	if err := s.db.DropAll(); err != nil {
		return fmt.Errorf("clear database: %w", err)
	}
	if err := s.db.Load(r, 256); err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	return nil
}

// EntityCounts summarizes how many of each entity the database holds.
type EntityCounts struct {
	Users        int `json:"users"`
	Events       int `json:"events"`
	Participants int `json:"participants"`
	ImportJobs   int `json:"import_jobs"`
	Media        int `json:"media"`
	Invitations  int `json:"invitations"`
	Tables       int `json:"tables"`
}

// Counts scans the database and tallies entities by type. Soft-deleted
// records are included; they are still part of a snapshot.
func (s *Store) Counts() (EntityCounts, error) {
	var counts EntityCounts

	for _, c := range []struct {
		prefix string
		dest   *int
	}{
		{userPrefix, &counts.Users},
		{eventPrefix, &counts.Events},
		{participantPrefix, &counts.Participants},
		{importPrefix, &counts.ImportJobs},
		{mediaPrefix, &counts.Media},
		{invitationPrefix, &counts.Invitations},
		{tablePrefix, &counts.Tables},
	} {
		n, err := s.countPrefix([]byte(c.prefix))
		if err != nil {
			return EntityCounts{}, err
		}
		*c.dest = n
	}

	return counts, nil
}
