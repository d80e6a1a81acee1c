package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/idilsaglam/grocery/internal/model"
)

// JSON-backed storage in the json-server layout: {"items": [...]}.
// Single file, human-readable. Every call re-reads the file, so hand edits
// show up without a restart.

type dbFile struct {
	Items []model.Item `json:"items"`
}

// JSONFile stores items in one JSON document on disk.
type JSONFile struct {
	mu   sync.Mutex
	path string
}

func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

func (f *JSONFile) load() ([]model.Item, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Item{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var db dbFile
	if err := json.Unmarshal(b, &db); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if db.Items == nil {
		db.Items = []model.Item{}
	}
	return db.Items, nil
}

func (f *JSONFile) save(items []model.Item) error {
	b, err := json.MarshalIndent(dbFile{Items: items}, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.WriteFile(f.path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func (f *JSONFile) List(context.Context) ([]model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

func (f *JSONFile) Create(_ context.Context, it model.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, err := f.load()
	if err != nil {
		return err
	}
	if indexOf(items, it.ID) >= 0 {
		return ErrConflict
	}
	return f.save(append(items, it))
}

func (f *JSONFile) SetChecked(_ context.Context, id int, checked bool) (model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, err := f.load()
	if err != nil {
		return model.Item{}, err
	}
	i := indexOf(items, id)
	if i < 0 {
		return model.Item{}, ErrNotFound
	}
	items[i].Checked = checked
	if err := f.save(items); err != nil {
		return model.Item{}, err
	}
	return items[i], nil
}

func (f *JSONFile) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, err := f.load()
	if err != nil {
		return err
	}
	i := indexOf(items, id)
	if i < 0 {
		return ErrNotFound
	}
	return f.save(append(items[:i], items[i+1:]...))
}

func (f *JSONFile) Close() error { return nil }
