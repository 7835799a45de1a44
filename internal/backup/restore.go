package backup

import (
	"archive/zip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json/v2"
	"fmt"
	"io"
	"strings"
)

// Restore replaces the database contents with a backup archive. The
// snapshot checksum is verified against the manifest before anything is
// written, so a corrupted archive never destroys live data.
func (s *Service) Restore(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.Path(id)
	manifest, err := s.readManifest(path)
	if err != nil {
		return err
	}

	if major(manifest.Format) != major(FormatVersion) {
		return fmt.Errorf("%w: archive format %s", ErrVersionMismatch, manifest.Format)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("open backup: %w", err)
	}
	defer zr.Close()

	snapshot, err := openEntry(&zr.Reader, snapshotEntry)
	if err != nil {
		return err
	}

	// First pass: verify integrity without touching the database.
	hasher := sha256.New()
	if _, err := io.Copy(hasher, snapshot); err != nil {
		snapshot.Close()
		return fmt.Errorf("read snapshot: %w", err)
	}
	snapshot.Close()

	if hex.EncodeToString(hasher.Sum(nil)) != manifest.SnapshotChecksum {
		return ErrCorruptedBackup
	}

	// Second pass: load for real.
	snapshot, err = openEntry(&zr.Reader, snapshotEntry)
	if err != nil {
		return err
	}
	defer snapshot.Close()

	s.logger.Info("restoring backup", "id", id, "created_at", manifest.CreatedAt)

	if err := s.store.Restore(snapshot); err != nil {
		return err
	}

	s.logger.Info("restore complete", "id", id)
	return nil
}

// readManifest extracts and validates the manifest from an archive.
func (s *Service) readManifest(path string) (*Manifest, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open backup: %w", err)
	}
	defer zr.Close()

	rc, err := openEntry(&zr.Reader, manifestEntry)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	if manifest.Format == "" || manifest.SnapshotChecksum == "" {
		return nil, ErrInvalidManifest
	}

	return &manifest, nil
}

func openEntry(zr *zip.Reader, name string) (io.ReadCloser, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("open %s: %w", name, err)
			}
			return rc, nil
		}
	}
	return nil, fmt.Errorf("%w: missing %s", ErrInvalidManifest, name)
}

// major extracts the major component of a format version string.
func major(version string) string {
	if i := strings.IndexByte(version, '.'); i >= 0 {
		return version[:i]
	}
	return version
}
