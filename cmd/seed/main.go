// Package main provides a tool to seed the database with test event data.
//
// Creates a host account, a couple of events, and guest lists with a
// realistic RSVP spread for exercising dashboards and search locally.
//
// Usage:
//
//	DB_PATH=~/Hagiga/data/db go run ./cmd/seed
//	DB_PATH=~/Hagiga/data/db go run ./cmd/seed --guests 200
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/hagigaapp/hagiga-server/internal/auth"
	"github.com/hagigaapp/hagiga-server/internal/color"
	"github.com/hagigaapp/hagiga-server/internal/domain"
	"github.com/hagigaapp/hagiga-server/internal/id"
	"github.com/hagigaapp/hagiga-server/internal/store"
)

var guestCount = flag.Int("guests", 80, "Guests to create per event")

var firstNames = []string{
	"Dana", "Noa", "Yonatan", "Omer", "Tamar", "Itai", "Michal", "Eyal",
	"Shira", "Daniel", "Rotem", "Amit", "Yael", "Lior", "Maya", "Gal",
}

var lastNames = []string{
	"Levi", "Cohen", "Mizrahi", "Peretz", "Biton", "Avraham", "Friedman",
	"Azulay", "Katz", "Shapiro", "Ben-David", "Malka",
}

var tags = []string{"family", "friends", "work", "army", "neighbors"}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/Hagiga/data/db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	host := ensureHost(ctx, s)
	fmt.Printf("Host: %s (%s)\n", host.Email, host.ID)

	events := []*domain.Event{
		newEvent(host.ID, "Dana & Itai's Wedding", domain.EventTypeWedding, 60),
		newEvent(host.ID, "Maya's 30th", domain.EventTypeParty, 21),
	}

	for _, event := range events {
		if err := s.CreateEvent(ctx, event); err != nil {
			log.Fatalf("Failed to create event: %v", err)
		}
		fmt.Printf("\nEvent: %s (%s)\n", event.Title, event.ID)

		tableIDs := seedTables(ctx, s, rng, event.ID)
		seedGuests(ctx, s, rng, event.ID, tableIDs)
	}

	fmt.Println("\nDone.")
}

func ensureHost(ctx context.Context, s *store.Store) *domain.User {
	const email = "host@example.com"

	if existing, err := s.GetUserByEmail(ctx, email); err == nil {
		return existing
	}

	hash, err := auth.HashPassword("password123")
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &domain.User{
		Syncable:     domain.Syncable{ID: id.MustGenerate("usr")},
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleHost,
		FirstName:    "Seed",
		LastName:     "Host",
	}
	user.InitTimestamps()

	if err := s.CreateUser(ctx, user); err != nil {
		log.Fatalf("Failed to create host: %v", err)
	}
	fmt.Println("Created host user (password: password123)")
	return user
}

func newEvent(ownerID, title string, eventType domain.EventType, daysAhead int) *domain.Event {
	event := &domain.Event{
		Syncable: domain.Syncable{ID: id.MustGenerate("evt")},
		OwnerIDs: []string{ownerID},
		Title:    title,
		Type:     eventType,
		Date:     time.Now().AddDate(0, 0, daysAhead),
		Venue:    "Gan HaPecan, Rishon LeZion",
	}
	event.InitTimestamps()
	return event
}

func seedTables(ctx context.Context, s *store.Store, rng *rand.Rand, eventID string) []string {
	numTables := 6 + rng.Intn(5)
	ids := make([]string, 0, numTables)

	for n := 1; n <= numTables; n++ {
		table := &domain.Table{
			Syncable: domain.Syncable{ID: id.MustGenerate("tbl")},
			EventID:  eventID,
			Name:     fmt.Sprintf("Table %d", n),
			Capacity: 10 + 2*rng.Intn(3),
			PosX:     float64(n%4) * 120,
			PosY:     float64(n/4) * 120,
		}
		table.InitTimestamps()

		if err := s.CreateTable(ctx, table); err != nil {
			log.Fatalf("Failed to create table: %v", err)
		}
		ids = append(ids, table.ID)
	}

	fmt.Printf("  Created %d tables\n", numTables)
	return ids
}

func seedGuests(ctx context.Context, s *store.Store, rng *rand.Rand, eventID string, tableIDs []string) {
	created := 0

	for i := 0; i < *guestCount; i++ {
		p := &domain.Participant{
			Syncable:     domain.Syncable{ID: id.MustGenerate("prt")},
			EventID:      eventID,
			Name:         firstNames[rng.Intn(len(firstNames))],
			LastName:     lastNames[rng.Intn(len(lastNames))],
			Phone:        fmt.Sprintf("05%d%07d", 2+rng.Intn(7), rng.Intn(10000000)),
			NumAttendees: 1 + rng.Intn(3),
			Status:       randomStatus(rng),
		}
		p.AvatarColor = color.ForName(p.DisplayName())
		if rng.Float32() < 0.7 {
			p.Tags = []string{tags[rng.Intn(len(tags))]}
		}
		// Seat about half the confirmed guests.
		if p.Status == domain.ParticipantStatusConfirmed && rng.Float32() < 0.5 {
			p.TableID = tableIDs[rng.Intn(len(tableIDs))]
			p.SeatIndex = rng.Intn(10)
		}
		p.InitTimestamps()

		if err := s.CreateParticipant(ctx, p); err != nil {
			// Duplicate phone within the event; skip and move on.
			continue
		}
		created++
	}

	fmt.Printf("  Created %d guests\n", created)
}

func randomStatus(rng *rand.Rand) domain.ParticipantStatus {
	r := rng.Float32()
	switch {
	case r < 0.45:
		return domain.ParticipantStatusConfirmed
	case r < 0.75:
		return domain.ParticipantStatusInvited
	case r < 0.9:
		return domain.ParticipantStatusDeclined
	default:
		return domain.ParticipantStatusCheckedIn
	}
}
