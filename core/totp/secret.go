package totp

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"net/url"
)

// secretSize is the raw secret length in bytes (160 bits, the RFC 4226 recommendation).
const secretSize = 20

// GenerateSecretKey creates a new random shared secret encoded as unpadded base32,
// the encoding authenticator apps expect.
func GenerateSecretKey() (string, error) {
	b := make([]byte, secretSize)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrSecretGeneration, err)
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(b), nil
}

// URIParams describes a secret for provisioning into an authenticator app.
type URIParams struct {
	Secret      string
	AccountName string
	Issuer      string
}

// URI builds an otpauth:// provisioning URI for the given secret.
// The URI embeds the secret in plain text; treat it as sensitive output.
func URI(params URIParams) (string, error) {
	if _, err := decodeSecret(params.Secret); err != nil {
		return "", err
	}
	if params.AccountName == "" {
		return "", ErrMissingAccountName
	}

	label := url.PathEscape(params.AccountName)
	q := url.Values{}
	q.Set("secret", params.Secret)
	q.Set("period", fmt.Sprintf("%d", int(Period.Seconds())))
	q.Set("digits", fmt.Sprintf("%d", Digits))
	if params.Issuer != "" {
		label = url.PathEscape(params.Issuer) + ":" + label
		q.Set("issuer", params.Issuer)
	}

	return "otpauth://totp/" + label + "?" + q.Encode(), nil
}
