package backup

import (
	"archive/zip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hagigaapp/hagiga-server/internal/store"
)

// backupExt is the file extension for backup archives.
const backupExt = ".hagiga.zip"

// Service manages backup creation, listing, and restoration.
type Service struct {
	store     *store.Store
	backupDir string
	version   string
	logger    *slog.Logger
}

// NewService creates a backup Service. version is the server version
// recorded in manifests.
func NewService(s *store.Store, backupDir, version string, logger *slog.Logger) *Service {
	return &Service{
		store:     s,
		backupDir: backupDir,
		version:   version,
		logger:    logger,
	}
}

// Info describes one backup archive on disk.
type Info struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Result reports a completed backup.
type Result struct {
	Info
	Counts   store.EntityCounts `json:"counts"`
	Checksum string             `json:"checksum"`
	Duration time.Duration      `json:"duration"`
}

// Create writes a new backup archive and returns its details.
func (s *Service) Create(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	start := time.Now()
	id := "backup-" + start.Format("2006-01-02-150405")
	outputPath := filepath.Join(s.backupDir, id+backupExt)

	s.logger.Info("creating backup", "output", outputPath)

	counts, err := s.store.Counts()
	if err != nil {
		return nil, fmt.Errorf("count entities: %w", err)
	}

	if err := s.writeArchive(outputPath, counts); err != nil {
		// A half-written archive is worse than none.
		_ = os.Remove(outputPath)
		return nil, err
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return nil, fmt.Errorf("stat backup: %w", err)
	}

	manifest, err := s.readManifest(outputPath)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Info: Info{
			ID:        id,
			Path:      outputPath,
			Size:      info.Size(),
			CreatedAt: start,
		},
		Counts:   counts,
		Checksum: manifest.SnapshotChecksum,
		Duration: time.Since(start),
	}

	s.logger.Info("backup complete",
		"path", result.Path,
		"size", result.Size,
		"duration", result.Duration,
		"checksum", result.Checksum)

	return result, nil
}

// writeArchive streams the database snapshot into a zip alongside its
// manifest.
func (s *Service) writeArchive(outputPath string, counts store.EntityCounts) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create backup file: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	// Snapshot first: its checksum goes into the manifest.
	snapshotWriter, err := zw.Create(snapshotEntry)
	if err != nil {
		return fmt.Errorf("create snapshot entry: %w", err)
	}

	hasher := sha256.New()
	if _, err := s.store.Backup(io.MultiWriter(snapshotWriter, hasher)); err != nil {
		return err
	}

	manifest := Manifest{
		Format:           FormatVersion,
		CreatedAt:        time.Now(),
		ServerVersion:    s.version,
		Counts:           counts,
		SnapshotChecksum: hex.EncodeToString(hasher.Sum(nil)),
	}

	manifestWriter, err := zw.Create(manifestEntry)
	if err != nil {
		return fmt.Errorf("create manifest entry: %w", err)
	}
	manifestData, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if _, err := manifestWriter.Write(manifestData); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return f.Close()
}

// List returns all available backups, newest first.
func (s *Service) List(_ context.Context) ([]Info, error) {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var backups []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), backupExt) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		backups = append(backups, Info{
			ID:        strings.TrimSuffix(entry.Name(), backupExt),
			Path:      filepath.Join(s.backupDir, entry.Name()),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})

	return backups, nil
}

// Get returns a backup by ID.
func (s *Service) Get(_ context.Context, id string) (*Info, error) {
	path := s.Path(id)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBackupNotFound
		}
		return nil, err
	}

	return &Info{
		ID:        id,
		Path:      path,
		Size:      info.Size(),
		CreatedAt: info.ModTime(),
	}, nil
}

// Delete removes a backup archive.
func (s *Service) Delete(_ context.Context, id string) error {
	path := s.Path(id)

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return ErrBackupNotFound
		}
		return err
	}

	return os.Remove(path)
}

// Path returns the file path for a backup ID.
func (s *Service) Path(id string) string {
	return filepath.Join(s.backupDir, id+backupExt)
}
