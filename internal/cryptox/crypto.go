// Package cryptox implements the symmetric cipher used to protect every
// persisted slot payload, plus the key providers that feed it.
package cryptox

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/localauth/internal/common"
)

const nonceSize = 12

var (
	// ErrDecrypt is returned when a ciphertext was not produced by Encrypt
	// with the same key, or has been tampered with.
	ErrDecrypt = errors.New("cryptox: cannot decrypt payload")

	// ErrKeySize is returned for keys that are not 16, 24 or 32 bytes long.
	ErrKeySize = errors.New("cryptox: invalid key size")
)

// MakeVerifier returns a SHA-256 fingerprint of a key. It is safe to log or
// persist and lets callers tell keys apart without exposing them.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// Codec encrypts and decrypts opaque string payloads with AES-GCM.
//
// The ciphertext format is base64(nonce || sealed). A fresh 12-byte nonce is
// generated for every Encrypt call, so encrypting the same plaintext twice
// yields different ciphertexts; both decrypt to the original string.
type Codec struct {
	keys KeyProvider
}

// NewCodec returns a Codec that asks keys for the AES key on every call.
func NewCodec(keys KeyProvider) *Codec {
	return &Codec{keys: keys}
}

func (c *Codec) aead(ctx context.Context) (cipher.AEAD, error) {
	key, err := c.keys.Key(ctx)
	if err != nil {
		return nil, fmt.Errorf("key retrieval error: %w", err)
	}

	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, ErrKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Encrypt seals plaintext and returns it base64-encoded.
func (c *Codec) Encrypt(ctx context.Context, plaintext string) (string, error) {
	aesgcm, err := c.aead(ctx)
	if err != nil {
		return "", err
	}

	nonce := common.GenerateRandByteArray(nonceSize)
	sealed := aesgcm.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Any malformed, foreign or tampered input yields
// ErrDecrypt; key retrieval problems are returned as they are.
func (c *Codec) Decrypt(ctx context.Context, ciphertext string) (string, error) {
	aesgcm, err := c.aead(ctx)
	if err != nil {
		return "", err
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	if len(raw) < nonceSize+aesgcm.Overhead() {
		return "", ErrDecrypt
	}

	plaintext, err := aesgcm.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plaintext), nil
}

// SealJSON serializes v to JSON and encrypts the result.
func SealJSON(ctx context.Context, c *Codec, v any) (string, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("serialization error: %w", err)
	}
	return c.Encrypt(ctx, string(plaintext))
}

// OpenJSON decrypts blob and returns the raw JSON for the caller's strict decoder.
func OpenJSON(ctx context.Context, c *Codec, blob string) ([]byte, error) {
	plaintext, err := c.Decrypt(ctx, blob)
	if err != nil {
		return nil, err
	}
	return []byte(plaintext), nil
}
