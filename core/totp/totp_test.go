package totp_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rollcall/core/totp"
)

// rfcSecret is the ASCII seed "12345678901234567890" from RFC 6238 Appendix B,
// base32-encoded.
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func TestGenerateAt(t *testing.T) {
	t.Parallel()

	t.Run("matches RFC 6238 reference vectors", func(t *testing.T) {
		t.Parallel()

		// SHA-1 vectors truncated to 6 digits.
		vectors := map[int64]string{
			59:         "287082",
			1111111109: "081804",
			1111111111: "050471",
			1234567890: "005924",
			2000000000: "279037",
		}

		for unix, want := range vectors {
			code, err := totp.GenerateAt(rfcSecret, time.Unix(unix, 0))
			require.NoError(t, err)
			assert.Equal(t, want, code, "t=%d", unix)
		}
	})

	t.Run("is deterministic within a step", func(t *testing.T) {
		t.Parallel()

		at := time.Unix(1699999980, 0)
		first, err := totp.GenerateAt(rfcSecret, at)
		require.NoError(t, err)
		second, err := totp.GenerateAt(rfcSecret, at.Add(29*time.Second))
		require.NoError(t, err)

		// 1700000000 is a step boundary, so +29s stays inside the same step.
		assert.Equal(t, first, second)
	})

	t.Run("rotates across step boundaries", func(t *testing.T) {
		t.Parallel()

		at := time.Unix(1699999980, 0)
		first, err := totp.GenerateAt(rfcSecret, at)
		require.NoError(t, err)
		next, err := totp.GenerateAt(rfcSecret, at.Add(totp.Period))
		require.NoError(t, err)

		assert.NotEqual(t, first, next)
	})

	t.Run("rejects empty secret", func(t *testing.T) {
		t.Parallel()

		_, err := totp.GenerateAt("", time.Now())
		assert.ErrorIs(t, err, totp.ErrInvalidSecret)
	})

	t.Run("rejects malformed secret", func(t *testing.T) {
		t.Parallel()

		_, err := totp.GenerateAt("not!base32!!", time.Now())
		assert.ErrorIs(t, err, totp.ErrInvalidSecret)
	})
}

func TestValidateAt(t *testing.T) {
	t.Parallel()

	t.Run("accepts code within skew window", func(t *testing.T) {
		t.Parallel()

		issued := time.Unix(1699999980, 0)
		code, err := totp.GenerateAt(rfcSecret, issued)
		require.NoError(t, err)

		ok, err := totp.ValidateAt(rfcSecret, code, issued.Add(29*time.Second), 1)
		require.NoError(t, err)
		assert.True(t, ok)

		// One step behind the verifier's clock is still inside window=1.
		ok, err = totp.ValidateAt(rfcSecret, code, issued.Add(59*time.Second), 1)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rejects code outside skew window", func(t *testing.T) {
		t.Parallel()

		issued := time.Unix(1699999980, 0)
		code, err := totp.GenerateAt(rfcSecret, issued)
		require.NoError(t, err)

		ok, err := totp.ValidateAt(rfcSecret, code, issued.Add(61*time.Second), 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("mismatch is false not error", func(t *testing.T) {
		t.Parallel()

		ok, err := totp.ValidateAt(rfcSecret, "000001", time.Unix(59, 0), 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("rejects wrong-width code", func(t *testing.T) {
		t.Parallel()

		ok, err := totp.ValidateAt(rfcSecret, "28708", time.Unix(59, 0), 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("window zero only accepts current step", func(t *testing.T) {
		t.Parallel()

		issued := time.Unix(1699999980, 0)
		code, err := totp.GenerateAt(rfcSecret, issued)
		require.NoError(t, err)

		ok, err := totp.ValidateAt(rfcSecret, code, issued.Add(totp.Period), 0)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("propagates secret errors", func(t *testing.T) {
		t.Parallel()

		_, err := totp.ValidateAt("", "287082", time.Now(), 1)
		assert.ErrorIs(t, err, totp.ErrInvalidSecret)
	})

	t.Run("repeated validation keeps succeeding inside window", func(t *testing.T) {
		t.Parallel()

		issued := time.Unix(1699999980, 0)
		code, err := totp.GenerateAt(rfcSecret, issued)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			ok, err := totp.ValidateAt(rfcSecret, code, issued, 1)
			require.NoError(t, err)
			assert.True(t, ok)
		}
	})
}

func TestGenerateSecretKey(t *testing.T) {
	t.Parallel()

	t.Run("produces usable unique secrets", func(t *testing.T) {
		t.Parallel()

		first, err := totp.GenerateSecretKey()
		require.NoError(t, err)
		second, err := totp.GenerateSecretKey()
		require.NoError(t, err)

		assert.NotEqual(t, first, second)

		_, err = totp.Generate(first)
		assert.NoError(t, err)
	})
}

func TestURI(t *testing.T) {
	t.Parallel()

	t.Run("builds otpauth URI with issuer", func(t *testing.T) {
		t.Parallel()

		uri, err := totp.URI(totp.URIParams{
			Secret:      rfcSecret,
			AccountName: "teacher@example.com",
			Issuer:      "rollcall",
		})
		require.NoError(t, err)

		assert.Contains(t, uri, "otpauth://totp/rollcall:teacher%40example.com")
		assert.Contains(t, uri, "secret="+rfcSecret)
		assert.Contains(t, uri, "issuer=rollcall")
		assert.Contains(t, uri, "period=30")
	})

	t.Run("requires account name", func(t *testing.T) {
		t.Parallel()

		_, err := totp.URI(totp.URIParams{Secret: rfcSecret})
		assert.ErrorIs(t, err, totp.ErrMissingAccountName)
	})

	t.Run("rejects invalid secret", func(t *testing.T) {
		t.Parallel()

		_, err := totp.URI(totp.URIParams{Secret: "", AccountName: "a"})
		assert.ErrorIs(t, err, totp.ErrInvalidSecret)
	})
}
