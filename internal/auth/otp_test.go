package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPStore_IssueAndVerify(t *testing.T) {
	store := NewOTPStore(time.Minute)

	code, err := store.Issue("0521234567")
	require.NoError(t, err)
	assert.Len(t, code, otpDigits)

	// Formatting differences normalize to the same key
	assert.True(t, store.Verify("+972 52-123-4567", code))

	// Codes are single-use
	assert.False(t, store.Verify("0521234567", code))
}

func TestOTPStore_WrongCode(t *testing.T) {
	store := NewOTPStore(time.Minute)

	code, err := store.Issue("0521234567")
	require.NoError(t, err)

	assert.False(t, store.Verify("0521234567", "000000"))

	// Wrong length must fail too, not just wrong digits
	assert.False(t, store.Verify("0521234567", code+"0"))
	assert.False(t, store.Verify("0521234567", ""))

	// Still valid after wrong guesses
	assert.True(t, store.Verify("0521234567", code))
}

func TestOTPStore_MaxAttempts(t *testing.T) {
	store := NewOTPStore(time.Minute)

	code, err := store.Issue("0521234567")
	require.NoError(t, err)

	for range otpMaxAttempts {
		assert.False(t, store.Verify("0521234567", "000000"))
	}

	// Entry burned; even the right code fails now
	assert.False(t, store.Verify("0521234567", code))
}

func TestOTPStore_Expiry(t *testing.T) {
	store := NewOTPStore(time.Millisecond)

	code, err := store.Issue("0521234567")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	assert.False(t, store.Verify("0521234567", code))
}

func TestOTPStore_ReissueReplaces(t *testing.T) {
	store := NewOTPStore(time.Minute)

	first, err := store.Issue("0521234567")
	require.NoError(t, err)
	second, err := store.Issue("0521234567")
	require.NoError(t, err)

	if first != second {
		assert.False(t, store.Verify("0521234567", first))
	}
	assert.True(t, store.Verify("0521234567", second))
}
