package devserver

import (
	"context"
	"sync"

	"github.com/idilsaglam/grocery/internal/model"
)

// Memory keeps items in a slice. Everything is lost on exit.
type Memory struct {
	mu    sync.Mutex
	items []model.Item
}

func NewMemory(seed ...model.Item) *Memory {
	return &Memory{items: append([]model.Item{}, seed...)}
}

func (m *Memory) List(context.Context) ([]model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Item{}, m.items...), nil
}

func (m *Memory) Create(_ context.Context, it model.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if indexOf(m.items, it.ID) >= 0 {
		return ErrConflict
	}
	m.items = append(m.items, it)
	return nil
}

func (m *Memory) SetChecked(_ context.Context, id int, checked bool) (model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := indexOf(m.items, id)
	if i < 0 {
		return model.Item{}, ErrNotFound
	}
	m.items[i].Checked = checked
	return m.items[i], nil
}

func (m *Memory) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := indexOf(m.items, id)
	if i < 0 {
		return ErrNotFound
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	return nil
}

func (m *Memory) Close() error { return nil }

func indexOf(items []model.Item, id int) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
