package slots

import (
	"context"
	"errors"

	"github.com/zalando/go-keyring"
)

// Keyring is the subset of an OS keychain used by KeyringStore.
type Keyring interface {
	Set(service, user, password string) error
	Get(service, user string) (string, error)
	Delete(service, user string) error
}

type osKeyring struct{}

func (osKeyring) Set(service, user, password string) error { return keyring.Set(service, user, password) }
func (osKeyring) Get(service, user string) (string, error) { return keyring.Get(service, user) }
func (osKeyring) Delete(service, user string) error { return keyring.Delete(service, user) }

// KeyringStore stores each slot as a generic password in the OS keychain
// (macOS Keychain, Windows Credential Manager, Secret Service on Linux).
type KeyringStore struct {
	kr        Keyring
	namespace string
}

// NewKeyringStore uses the OS keychain.
func NewKeyringStore(namespace string) *KeyringStore {
	return NewKeyringStoreWith(osKeyring{}, namespace)
}

func NewKeyringStoreWith(kr Keyring, namespace string) *KeyringStore {
	return &KeyringStore{kr: kr, namespace: namespace}
}

func (k *KeyringStore) Write(ctx context.Context, slot SlotID, blob string) error {
	if err := slot.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return unavailable("write", slot, err)
	}
	id := slot.Identifier(k.namespace)
	if err := k.kr.Set(id.Service, id.Account, blob); err != nil {
		return unavailable("write", slot, err)
	}
	return nil
}

func (k *KeyringStore) Read(ctx context.Context, slot SlotID) (string, bool, error) {
	if err := slot.Validate(); err != nil {
		return "", false, err
	}
	if err := ctx.Err(); err != nil {
		return "", false, unavailable("read", slot, err)
	}
	id := slot.Identifier(k.namespace)
	blob, err := k.kr.Get(id.Service, id.Account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable("read", slot, err)
	}
	return blob, true, nil
}

func (k *KeyringStore) Clear(ctx context.Context, slot SlotID) error {
	if err := slot.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return unavailable("clear", slot, err)
	}
	id := slot.Identifier(k.namespace)
	err := k.kr.Delete(id.Service, id.Account)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return unavailable("clear", slot, err)
	}
	return nil
}
