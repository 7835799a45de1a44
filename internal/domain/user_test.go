package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_FullName(t *testing.T) {
	tests := []struct {
		name     string
		first    string
		last     string
		expected string
	}{
		{"both names", "Noa", "Levi", "Noa Levi"},
		{"first only", "Noa", "", "Noa"},
		{"last only", "", "Levi", "Levi"},
		{"neither", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{FirstName: tt.first, LastName: tt.last}
			assert.Equal(t, tt.expected, u.FullName())
		})
	}
}

func TestUser_Name_Fallbacks(t *testing.T) {
	u := &User{Phone: "0521234567"}
	assert.Equal(t, "0521234567", u.Name())

	u.Email = "host@example.com"
	assert.Equal(t, "host@example.com", u.Name())

	u.FirstName = "Noa"
	assert.Equal(t, "Noa", u.Name())
}

func TestUser_HasPassword(t *testing.T) {
	u := &User{Phone: "0521234567"}
	assert.False(t, u.HasPassword())

	u.PasswordHash = "$argon2id$..."
	assert.True(t, u.HasPassword())
}

func TestEvent_IsOwner(t *testing.T) {
	e := &Event{OwnerIDs: []string{"usr-1", "usr-2"}}
	assert.True(t, e.IsOwner("usr-1"))
	assert.True(t, e.IsOwner("usr-2"))
	assert.False(t, e.IsOwner("usr-3"))
}

func TestTable_HasSeat(t *testing.T) {
	tbl := &Table{Capacity: 8}
	assert.True(t, tbl.HasSeat(0))
	assert.True(t, tbl.HasSeat(7))
	assert.False(t, tbl.HasSeat(8))
	assert.False(t, tbl.HasSeat(-1))
}
