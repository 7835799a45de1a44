package backup

import (
	"time"

	"github.com/hagigaapp/hagiga-server/internal/store"
)

// FormatVersion is the backup format version. Increment major on breaking changes.
const FormatVersion = "1.0"

// Names of the entries inside a backup archive.
const (
	manifestEntry = "manifest.json"
	snapshotEntry = "store.snapshot"
)

// Manifest describes backup contents and metadata.
type Manifest struct {
	Format    string    `json:"format"`
	CreatedAt time.Time `json:"created_at"`

	// Server identity
	ServerVersion string `json:"server_version"`

	// Content summary
	Counts store.EntityCounts `json:"counts"`

	// SnapshotChecksum is the SHA-256 of the raw snapshot entry,
	// verified before any restore touches the database.
	SnapshotChecksum string `json:"snapshot_checksum"`
}
