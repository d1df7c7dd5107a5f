// Package totp implements RFC 6238 time-based one-time codes with a fixed
// 30-second step and 6-digit output.
//
// The package is a pure credential engine: Generate and Validate are
// deterministic functions of (secret, time) with no stored state, which keeps
// concurrent use coordination-free. Validate tolerates bounded clock skew via
// a step window but deliberately does not enforce single use: a valid code
// stays valid for every check inside its window. Replay prevention is layered
// above it by core/attendance.
//
// Generate a secret and codes:
//
//	secret, err := totp.GenerateSecretKey()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	code, err := totp.Generate(secret)
//
//	ok, err := totp.Validate(secret, userInput)
//
// For deterministic tests, pin the clock:
//
//	code, err := totp.GenerateAt(secret, time.Unix(1609459200, 0))
//	ok, err := totp.ValidateAt(secret, code, time.Unix(1609459229, 0), 1)
//
// Secrets are unpadded base32 strings. An empty or undecodable secret fails
// with ErrInvalidSecret; a mismatched code is a normal false result, never an
// error.
package totp
