// Package cookievault encrypts and decrypts the session cookie lists the
// companion browser extension injects for a tool.
//
// The scheme is AES-256-GCM keyed by the SHA-256 of a configured passphrase.
// A fresh random 12-byte nonce is prepended to each ciphertext and the whole
// blob is base64 encoded, so a single string can be stored in a DB column.
//
// Decrypt never returns an error to the caller: a wrong key, a corrupted
// blob, and a non-JSON payload all yield an empty cookie list. One global
// key decrypts every tool's stored cookies; there is no versioning and no
// per-tool key derivation.
package cookievault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"

	"github.com/rs/zerolog/log"
)

// fallbackPassphrase is used when no passphrase is configured, so a fresh
// install works out of the box. Deployments should always set their own.
const fallbackPassphrase = "growtools-cookie-vault"

// ErrEncrypt is returned when sealing a cookie list fails.
var ErrEncrypt = errors.New("cookievault: encryption failed")

// Cookie represents one browser session cookie as stored for a tool and
// injected by the extension.
type Cookie struct {
	Name           string  `json:"name"`
	Value          string  `json:"value"`
	Domain         string  `json:"domain"`
	Path           string  `json:"path,omitempty"`
	Secure         bool    `json:"secure,omitempty"`
	HTTPOnly       bool    `json:"httpOnly,omitempty"`
	SameSite       string  `json:"sameSite,omitempty"`
	ExpirationDate float64 `json:"expirationDate,omitempty"`
}

// Vault seals and opens cookie lists with a single passphrase-derived key.
// It is stateless and safe to use from multiple goroutines.
type Vault struct {
	key [32]byte
}

// New returns a Vault keyed by the given passphrase. An empty passphrase
// falls back to the built-in default.
func New(passphrase string) *Vault {
	if passphrase == "" {
		passphrase = fallbackPassphrase
	}

	return &Vault{key: sha256.Sum256([]byte(passphrase))}
}

// Encrypt serializes the ordered cookie list to JSON, seals it with
// AES-256-GCM and returns the base64 encoded blob (nonce || ciphertext).
func (v *Vault) Encrypt(cookies []Cookie) (string, error) {
	plaintext, err := json.Marshal(cookies)
	if err != nil {
		return "", errors.Join(ErrEncrypt, err)
	}

	block, err := aes.NewCipher(v.key[:])
	if err != nil {
		return "", errors.Join(ErrEncrypt, err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", errors.Join(ErrEncrypt, err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.Join(ErrEncrypt, err)
	}

	sealed := gcm.Seal(nonce, nonce, plaintext, nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a blob produced by Encrypt and returns the cookie list.
// Any failure (wrong key, truncated or corrupted blob, non-JSON payload)
// is logged and yields an empty list.
func (v *Vault) Decrypt(blob string) []Cookie {
	sealed, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		log.Debug().Err(err).Msg("cookievault: blob is not valid base64")
		return []Cookie{}
	}

	block, err := aes.NewCipher(v.key[:])
	if err != nil {
		log.Debug().Err(err).Msg("cookievault: cipher init failed")
		return []Cookie{}
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		log.Debug().Err(err).Msg("cookievault: gcm init failed")
		return []Cookie{}
	}

	if len(sealed) < gcm.NonceSize() {
		log.Debug().Msg("cookievault: blob too short")
		return []Cookie{}
	}

	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		log.Debug().Err(err).Msg("cookievault: decryption failed")
		return []Cookie{}
	}

	var cookies []Cookie
	if err := json.Unmarshal(plaintext, &cookies); err != nil {
		log.Debug().Err(err).Msg("cookievault: payload is not a cookie list")
		return []Cookie{}
	}

	if cookies == nil {
		cookies = []Cookie{}
	}

	return cookies
}
