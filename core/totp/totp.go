package totp

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// Period is the time-step duration. Codes rotate on Period boundaries.
	Period = 30 * time.Second

	// Digits is the fixed width of generated codes.
	Digits = 6

	// DefaultWindow is the clock-skew tolerance used by Validate, in time steps.
	// A window of 1 accepts codes from the previous and next step (±30s).
	DefaultWindow = 1
)

// Generate returns the current code for the given base32-encoded secret.
func Generate(secret string) (string, error) {
	return GenerateAt(secret, time.Now())
}

// GenerateAt returns the code for the given secret at an arbitrary time.
// The result is deterministic: any two calls with the same secret and the
// same time step produce the same code.
func GenerateAt(secret string, t time.Time) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}
	return hotp(key, uint64(t.Unix()/int64(Period.Seconds()))), nil
}

// Validate checks a code against the current time with the default skew window.
// A mismatched code is a normal false result, not an error.
func Validate(secret, code string) (bool, error) {
	return ValidateAt(secret, code, time.Now(), DefaultWindow)
}

// ValidateAt checks a code at an arbitrary time, accepting any code generated
// within ±window time steps. The comparison is constant-time and has no side
// effects: a code that validates once keeps validating until the window slides
// past its step. Single-use semantics are the caller's responsibility.
func ValidateAt(secret, code string, t time.Time, window int) (bool, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return false, err
	}
	if len(code) != Digits {
		return false, nil
	}
	if window < 0 {
		window = 0
	}

	step := t.Unix() / int64(Period.Seconds())
	for offset := -int64(window); offset <= int64(window); offset++ {
		candidate := hotp(key, uint64(step+offset))
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(code)) == 1 {
			return true, nil
		}
	}
	return false, nil
}

// hotp computes the RFC 4226 HMAC-based code for a single counter value.
func hotp(key []byte, counter uint64) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], counter)

	mac := hmac.New(sha1.New, key)
	mac.Write(buf[:])
	sum := mac.Sum(nil)

	// Dynamic truncation per RFC 4226 §5.3.
	offset := sum[len(sum)-1] & 0x0F
	bin := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7FFFFFFF

	return fmt.Sprintf("%0*d", Digits, bin%1_000_000)
}

func decodeSecret(secret string) ([]byte, error) {
	if secret == "" {
		return nil, ErrInvalidSecret
	}
	key, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(
		strings.ToUpper(strings.TrimSpace(secret)),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidSecret, err)
	}
	return key, nil
}
