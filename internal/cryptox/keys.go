package cryptox

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/argon2"
)

// KeyProvider supplies the symmetric key used by Codec. Keeping retrieval
// behind this interface lets a deployment swap the compiled-in key for a
// derived or keystore-held one without touching repositories.
type KeyProvider interface {
	Key(ctx context.Context) ([]byte, error)
}

// StaticKey is a fixed key, typically compiled into the binary.
type StaticKey []byte

// ParseStaticKey decodes a hex-encoded AES key.
func ParseStaticKey(s string) (StaticKey, error) {
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex key: %w", err)
	}
	switch len(key) {
	case 16, 24, 32:
		return StaticKey(key), nil
	default:
		return nil, ErrKeySize
	}
}

// Key returns a copy of the key.
func (k StaticKey) Key(context.Context) ([]byte, error) {
	return append([]byte(nil), k...), nil
}

// DeriveMasterKey stretches a password into a 32-byte key with argon2id.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

var ErrEmptyPassphrase = errors.New("cryptox: empty passphrase")

// PassphraseKey derives its key from a passphrase on first use and caches it.
type PassphraseKey struct {
	passphrase []byte
	salt       []byte

	once sync.Once
	key  []byte
	err  error
}

// NewPassphraseKey copies passphrase and salt; the caller may wipe its own buffers.
func NewPassphraseKey(passphrase, salt []byte) *PassphraseKey {
	return &PassphraseKey{
		passphrase: append([]byte(nil), passphrase...),
		salt:       append([]byte(nil), salt...),
	}
}

func (p *PassphraseKey) Key(ctx context.Context) ([]byte, error) {
	p.once.Do(func() {
		if len(p.passphrase) == 0 {
			p.err = ErrEmptyPassphrase
			return
		}
		p.key = DeriveMasterKey(p.passphrase, p.salt)
		for i := range p.passphrase {
			p.passphrase[i] = 0
		}
	})
	if p.err != nil {
		return nil, p.err
	}
	return append([]byte(nil), p.key...), nil
}
