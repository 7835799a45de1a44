package csvimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_NameSynonyms(t *testing.T) {
	for _, key := range []string{"name", "full_name", "first_name", "first"} {
		t.Run(key, func(t *testing.T) {
			g := Normalize(Row{key: "Dana", "phone": "0521234567"})
			assert.Equal(t, "Dana", g.Name)
		})
	}
}

func TestNormalize_NameConcatenation(t *testing.T) {
	// Without a direct name column, first and last are joined.
	g := Normalize(RowFromMap(map[string]string{
		"First Name":          "Alice",
		"LASTNAME":            "Smith",
		"Phone_Number":        "555",
		"num_of_participants": "3",
	}))
	assert.Equal(t, "Alice Smith", g.Name)
	assert.Equal(t, "Smith", g.LastName)
	assert.Equal(t, "555", g.Phone)
	assert.Equal(t, 3, g.NumAttendees)

	// A direct name column wins over the concatenation.
	g = Normalize(Row{"name": "Dana Levi", "first_name": "Alice", "surname": "Smith"})
	assert.Equal(t, "Dana Levi", g.Name)

	// Empty parts are dropped, not joined with a stray space.
	g = Normalize(Row{"surname": "Smith", "phone": "0521234567"})
	assert.Equal(t, "Smith", g.Name)
}

func TestNormalize_LastNameSynonyms(t *testing.T) {
	for _, key := range []string{"lastname", "last_name", "surname"} {
		t.Run(key, func(t *testing.T) {
			g := Normalize(Row{"name": "Dana", key: "Levi"})
			assert.Equal(t, "Levi", g.LastName)
		})
	}
}

func TestNormalize_PhoneSynonyms(t *testing.T) {
	g := Normalize(Row{"name": "Dana", "phone_number": "052-111-1111"})
	assert.Equal(t, "052-111-1111", g.Phone)

	g = Normalize(Row{"name": "Dana", "phone": " 0521234567 "})
	assert.Equal(t, "0521234567", g.Phone)

	// phone_number wins over phone
	g = Normalize(Row{"phone_number": "0521111111", "phone": "0522222222"})
	assert.Equal(t, "0521111111", g.Phone)
}

func TestNormalize_AttendeeCount(t *testing.T) {
	tests := []struct {
		name string
		row  Row
		want int
	}{
		{"absent defaults to 1", Row{"name": "Dana"}, 1},
		{"blank defaults to 1", Row{"name": "Dana", "num": ""}, 1},
		{"unparseable defaults to 1", Row{"name": "Dana", "num": "a few"}, 1},
		{"zero defaults to 1", Row{"name": "Dana", "num": "0"}, 1},
		{"negative defaults to 1", Row{"name": "Dana", "num": "-2"}, 1},
		{"num", Row{"name": "Dana", "num": "3"}, 3},
		{"num_participants", Row{"name": "Dana", "num_participants": "2"}, 2},
		{"num_of_participants", Row{"name": "Dana", "num_of_participants": "4"}, 4},
		{"padded value", Row{"name": "Dana", "num": " 2 "}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.row).NumAttendees)
		})
	}
}

func TestNormalize_CollapsesNameWhitespace(t *testing.T) {
	g := Normalize(Row{"name": "  Dana   Levi "})
	assert.Equal(t, "Dana Levi", g.Name)
}

func TestNormalize_PreservesExtraColumns(t *testing.T) {
	g := Normalize(Row{
		"name":    "Dana",
		"phone":   "0521234567",
		"table":   "12",
		"dietary": "vegan",
		"notes":   "",
	})
	assert.Equal(t, map[string]string{"table": "12", "dietary": "vegan"}, g.Extra)
}

func TestNormalize_NoExtras(t *testing.T) {
	g := Normalize(Row{"name": "Dana", "phone": "0521234567"})
	assert.Nil(t, g.Extra)
}
