package csvimport

import (
	"testing"

	"github.com/hagigaapp/hagiga-server/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestValidate_Lenient(t *testing.T) {
	tests := []struct {
		name    string
		guest   domain.GuestRow
		wantErr error
	}{
		{"valid", domain.GuestRow{Name: "Dana", Phone: "0521234567"}, nil},
		{"any non-empty phone passes", domain.GuestRow{Name: "Dana", Phone: "whatsapp only"}, nil},
		{"missing name", domain.GuestRow{Phone: "0521234567"}, ErrMissingName},
		{"missing phone", domain.GuestRow{Name: "Dana"}, ErrMissingPhone},
		{"missing both reports name first", domain.GuestRow{}, ErrMissingName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.guest, PhonePolicyLenient)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Strict(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		wantErr error
	}{
		{"mobile", "0521234567", nil},
		{"landline", "039876543", nil},
		{"formatted", "052-123-4567", nil},
		{"country code folds to national", "+972 52 123 4567", nil},
		{"no leading zero", "521234567", ErrInvalidPhone},
		{"too short", "05212345", ErrInvalidPhone},
		{"too long", "052123456789", ErrInvalidPhone},
		{"letters", "whatsapp only", ErrInvalidPhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(domain.GuestRow{Name: "Dana", Phone: tt.phone}, PhonePolicyStrict)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidPhonePolicy(t *testing.T) {
	assert.True(t, ValidPhonePolicy(PhonePolicyLenient))
	assert.True(t, ValidPhonePolicy(PhonePolicyStrict))
	assert.False(t, ValidPhonePolicy("loose"))
	assert.False(t, ValidPhonePolicy(""))
}
