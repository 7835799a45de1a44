package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/hagigaapp/hagiga-server/internal/normalize"
)

const (
	otpDigits      = 6
	otpMaxAttempts = 5
)

// OTPStore keeps pending one-time codes in memory, keyed by normalized
// phone number. Codes are single-use, expire after the configured TTL,
// and are invalidated after too many wrong guesses. In-memory is fine
// here: a lost code just means requesting a new one.
type OTPStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	data map[string]*otpEntry
}

type otpEntry struct {
	code      string
	expiresAt time.Time
	attempts  int
}

// NewOTPStore creates an OTP store with the given code lifetime.
func NewOTPStore(ttl time.Duration) *OTPStore {
	return &OTPStore{
		ttl:  ttl,
		data: make(map[string]*otpEntry),
	}
}

// Issue generates a fresh code for the phone number, replacing any
// pending one.
func (s *OTPStore) Issue(phone string) (string, error) {
	code, err := randomCode()
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}

	key := normalize.Phone(phone)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()
	s.data[key] = &otpEntry{
		code:      code,
		expiresAt: time.Now().Add(s.ttl),
	}

	return code, nil
}

// Verify checks a code for the phone number. A correct code is consumed;
// a wrong one burns an attempt, and the entry is dropped once attempts
// run out.
func (s *OTPStore) Verify(phone, code string) bool {
	key := normalize.Phone(phone)

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.data[key]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.data, key)
		return false
	}

	if subtle.ConstantTimeCompare([]byte(entry.code), []byte(code)) != 1 {
		entry.attempts++
		if entry.attempts >= otpMaxAttempts {
			delete(s.data, key)
		}
		return false
	}

	delete(s.data, key)
	return true
}

// pruneLocked drops expired entries. Caller must hold the lock.
func (s *OTPStore) pruneLocked() {
	now := time.Now()
	for key, entry := range s.data {
		if now.After(entry.expiresAt) {
			delete(s.data, key)
		}
	}
}

// randomCode returns a zero-padded 6-digit code from crypto/rand.
func randomCode() (string, error) {
	maxCode := big.NewInt(1)
	for range otpDigits {
		maxCode.Mul(maxCode, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, maxCode)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", otpDigits, n), nil
}
