package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// keySize is the AES-256 key length in bytes.
const keySize = 32

// GenerateKey returns a cryptographically secure 32-byte key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

// deriveKey derives a per-presenter encryption key from the vault key and the
// presenter identity via HKDF-SHA256. Compromise of one presenter's derived
// key does not expose another's ciphertexts.
func deriveKey(vaultKey []byte, presenterID string) ([]byte, error) {
	if len(vaultKey) != keySize {
		return nil, ErrInvalidKey
	}

	derived := make([]byte, keySize)
	r := hkdf.New(sha256.New, vaultKey, []byte(presenterID), []byte("rollcall/presenter-secret"))
	if _, err := io.ReadFull(r, derived); err != nil {
		return nil, errors.Join(ErrEncryption, err)
	}
	return derived, nil
}

// seal encrypts plaintext with AES-256-GCM under the derived key and returns
// base64(nonce || ciphertext).
func seal(key []byte, plaintext string) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", errors.Join(ErrEncryption, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", errors.Join(ErrEncryption, err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", errors.Join(ErrEncryption, err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawStdEncoding.EncodeToString(sealed), nil
}

// open decrypts a value produced by seal.
func open(key []byte, encoded string) (string, error) {
	sealed, err := base64.RawStdEncoding.DecodeString(encoded)
	if err != nil {
		return "", errors.Join(ErrDecryption, err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", errors.Join(ErrDecryption, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", errors.Join(ErrDecryption, err)
	}

	if len(sealed) < gcm.NonceSize() {
		return "", ErrDecryption
	}
	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", errors.Join(ErrDecryption, err)
	}
	return string(plaintext), nil
}
