// Command backup manages database backups from the command line.
//
// Usage:
//
//	go run ./cmd/backup create
//	go run ./cmd/backup list
//	go run ./cmd/backup restore backup-2026-08-30-120000
//	go run ./cmd/backup delete backup-2026-08-30-120000
//
// The data path defaults to ~/Hagiga/data and can be overridden with
// DATA_PATH. Run against a stopped server: restore rewrites the
// database in place.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hagigaapp/hagiga-server/internal/backup"
	"github.com/hagigaapp/hagiga-server/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Hagiga/data")
	}

	s, err := store.New(filepath.Join(dataPath, "db"), nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	svc := backup.NewService(s, filepath.Join(dataPath, "backups"), "dev", logger)
	ctx := context.Background()

	switch os.Args[1] {
	case "create":
		result, err := svc.Create(ctx)
		if err != nil {
			log.Fatalf("Backup failed: %v", err)
		}
		fmt.Printf("Created %s (%d bytes)\n", result.ID, result.Size)
		fmt.Printf("  events: %d, guests: %d, users: %d\n",
			result.Counts.Events, result.Counts.Participants, result.Counts.Users)

	case "list":
		backups, err := svc.List(ctx)
		if err != nil {
			log.Fatalf("List failed: %v", err)
		}
		if len(backups) == 0 {
			fmt.Println("No backups found.")
			return
		}
		for _, b := range backups {
			fmt.Printf("%s  %10d bytes  %s\n", b.ID, b.Size, b.CreatedAt.Format("2006-01-02 15:04:05"))
		}

	case "restore":
		id := requireID()
		if err := svc.Restore(ctx, id); err != nil {
			log.Fatalf("Restore failed: %v", err)
		}
		fmt.Printf("Restored %s\n", id)

	case "delete":
		id := requireID()
		if err := svc.Delete(ctx, id); err != nil {
			log.Fatalf("Delete failed: %v", err)
		}
		fmt.Printf("Deleted %s\n", id)

	default:
		usage()
	}
}

func requireID() string {
	if len(os.Args) < 3 {
		usage()
	}
	return os.Args[2]
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: backup <create|list|restore ID|delete ID>")
	os.Exit(2)
}
