package csvimport

import (
	"strconv"
	"strings"

	"github.com/hagigaapp/hagiga-server/internal/domain"
	"github.com/hagigaapp/hagiga-server/internal/normalize"
)

// Column synonyms accepted for each guest field, in lookup order.
// Guest lists come from many sources (contact exports, hand-made
// spreadsheets, older versions of our own template), so the importer
// meets them where they are.
var (
	nameKeys      = []string{"name", "full_name"}
	firstNameKeys = []string{"first_name", "first"}
	lastNameKeys  = []string{"lastname", "last_name", "surname"}
	countKeys     = []string{"num_of_participants", "num_participants", "num"}
	phoneKeys     = []string{"phone_number", "phone"}
)

// knownKeys is the union of all recognized column names; everything
// else on a row is preserved as an extra column.
var knownKeys = func() map[string]bool {
	m := make(map[string]bool)
	for _, keys := range [][]string{nameKeys, firstNameKeys, lastNameKeys, countKeys, phoneKeys} {
		for _, k := range keys {
			m[k] = true
		}
	}
	return m
}()

// resolveName prefers a direct name column; without one it joins the
// first-name and last-name columns, dropping whichever is empty.
func resolveName(row Row) string {
	if direct := normalize.Name(row.Get(nameKeys...)); direct != "" {
		return direct
	}
	first := normalize.Name(row.Get(firstNameKeys...))
	last := normalize.Name(row.Get(lastNameKeys...))
	if first == "" {
		return last
	}
	if last == "" {
		return first
	}
	return first + " " + last
}

// Normalize maps a raw row onto a guest record. The attendee count
// defaults to 1 when the column is absent, blank, or unparseable; a
// guest who shows up on the list is assumed to bring at least
// themselves. Unrecognized columns are carried in Extra so they survive
// into error reports.
func Normalize(row Row) domain.GuestRow {
	g := domain.GuestRow{
		Name:         resolveName(row),
		LastName:     normalize.Name(row.Get(lastNameKeys...)),
		Phone:        strings.TrimSpace(row.Get(phoneKeys...)),
		NumAttendees: 1,
	}

	if raw := strings.TrimSpace(row.Get(countKeys...)); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			g.NumAttendees = n
		}
	}

	for k, v := range row {
		if knownKeys[k] || v == "" {
			continue
		}
		if g.Extra == nil {
			g.Extra = make(map[string]string)
		}
		g.Extra[k] = v
	}

	return g
}
