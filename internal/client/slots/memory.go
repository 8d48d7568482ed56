package slots

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu   sync.Mutex
	data map[SlotID]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[SlotID]string)}
}

func (m *MemoryStore) Write(ctx context.Context, slot SlotID, blob string) error {
	if err := slot.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return unavailable("write", slot, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[slot] = blob
	return nil
}

func (m *MemoryStore) Read(ctx context.Context, slot SlotID) (string, bool, error) {
	if err := slot.Validate(); err != nil {
		return "", false, err
	}
	if err := ctx.Err(); err != nil {
		return "", false, unavailable("read", slot, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	blob, ok := m.data[slot]
	return blob, ok, nil
}

func (m *MemoryStore) Clear(ctx context.Context, slot SlotID) error {
	if err := slot.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return unavailable("clear", slot, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, slot)
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, slot SlotID, fn UpdateFunc) error {
	if err := slot.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return unavailable("update", slot, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.data[slot]
	next, err := fn(current, ok)
	if err != nil {
		return err
	}
	m.data[slot] = next
	return nil
}
