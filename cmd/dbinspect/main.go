// Command dbinspect prints a summary of a Hagiga database: events,
// their guest counts, and RSVP breakdowns. Opens the store read-only so
// it is safe to run against a live server's data.
//
// Usage:
//
//	DB_PATH=~/Hagiga/data/db go run ./cmd/dbinspect
package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/hagigaapp/hagiga-server/internal/domain"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/Hagiga/data/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	events := loadEvents(db)
	guestsByEvent, statusByEvent := loadParticipants(db)

	totalGuests := 0
	for _, event := range events {
		guests := guestsByEvent[event.ID]
		totalGuests += guests

		fmt.Printf("Event: %s\n", event.Title)
		fmt.Printf("  ID: %s\n", event.ID)
		fmt.Printf("  Type: %s\n", event.Type)
		if !event.Date.IsZero() {
			fmt.Printf("  Date: %s\n", event.Date.Format("2006-01-02"))
		}
		fmt.Printf("  Guests: %d\n", guests)
		for status, count := range statusByEvent[event.ID] {
			fmt.Printf("    %s: %d\n", status, count)
		}
		fmt.Println()
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Total events: %d\n", len(events))
	fmt.Printf("Total guests: %d\n", totalGuests)
	if len(events) > 0 {
		fmt.Printf("Average guests per event: %.1f\n", float64(totalGuests)/float64(len(events)))
	}
}

func loadEvents(db *badger.DB) []*domain.Event {
	var events []*domain.Event

	err := db.View(func(txn *badger.Txn) error {
		prefix := []byte("event:")
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var event domain.Event
				if err := json.Unmarshal(val, &event); err != nil {
					return err
				}
				if !event.IsDeleted() {
					events = append(events, &event)
				}
				return nil
			})
			if err != nil {
				log.Printf("Error reading event %s: %v", it.Item().Key(), err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Error iterating events: %v", err)
	}

	return events
}

func loadParticipants(db *badger.DB) (map[string]int, map[string]map[string]int) {
	guests := make(map[string]int)
	statuses := make(map[string]map[string]int)

	err := db.View(func(txn *badger.Txn) error {
		prefix := []byte("participant:")
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			err := it.Item().Value(func(val []byte) error {
				var p domain.Participant
				if err := json.Unmarshal(val, &p); err != nil {
					return err
				}
				if p.IsDeleted() {
					return nil
				}
				guests[p.EventID]++
				if statuses[p.EventID] == nil {
					statuses[p.EventID] = make(map[string]int)
				}
				statuses[p.EventID][string(p.Status)]++
				return nil
			})
			if err != nil {
				log.Printf("Error reading participant %s: %v", key, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Error iterating participants: %v", err)
	}

	return guests, statuses
}
