package csvimport

import (
	"errors"
	"regexp"

	"github.com/hagigaapp/hagiga-server/internal/domain"
	"github.com/hagigaapp/hagiga-server/internal/normalize"
)

// PhonePolicy controls how strictly phone numbers are checked. Bulk
// imports default to lenient so a host's messy spreadsheet still loads;
// manual entry uses strict because the person typing can fix it on the
// spot.
type PhonePolicy string

const (
	// PhonePolicyLenient accepts any non-empty phone value.
	PhonePolicyLenient PhonePolicy = "lenient"
	// PhonePolicyStrict requires a national-format number: leading
	// zero, 9 or 10 digits total, after formatting is stripped.
	PhonePolicyStrict PhonePolicy = "strict"
)

// ValidPhonePolicy reports whether p is a known policy value.
func ValidPhonePolicy(p PhonePolicy) bool {
	return p == PhonePolicyLenient || p == PhonePolicyStrict
}

var strictPhonePattern = regexp.MustCompile(`^0\d{8,9}$`)

// Row-level validation failures. These strings end up verbatim in
// error logs and reports shown to hosts, so keep them plain.
var (
	ErrMissingName  = errors.New("missing name")
	ErrMissingPhone = errors.New("missing phone number")
	ErrInvalidPhone = errors.New("invalid phone number")
)

// Validate checks a normalized guest record against the given phone
// policy. The returned error message is suitable for direct inclusion
// in a row-error report.
func Validate(g domain.GuestRow, policy PhonePolicy) error {
	if g.Name == "" {
		return ErrMissingName
	}
	if g.Phone == "" {
		return ErrMissingPhone
	}
	if policy == PhonePolicyStrict && !strictPhonePattern.MatchString(normalize.Phone(g.Phone)) {
		return ErrInvalidPhone
	}
	return nil
}
