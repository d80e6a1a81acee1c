package devserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/idilsaglam/grocery/internal/model"
)

// SQLite keeps items in a single table; seq preserves insertion order.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s := &SQLite{db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS items (
		seq     INTEGER PRIMARY KEY AUTOINCREMENT,
		id      INTEGER NOT NULL UNIQUE,
		checked INTEGER NOT NULL DEFAULT 0,
		label   TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("create items table: %w", err)
	}
	return nil
}

func (s *SQLite) List(ctx context.Context) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, checked, label FROM items ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()
	items := []model.Item{}
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Checked, &it.Label); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *SQLite) Create(ctx context.Context, it model.Item) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO items (id, checked, label) VALUES (?, ?, ?)`, it.ID, it.Checked, it.Label)
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) && sqlErr.Code == sqlite3.ErrConstraint {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (s *SQLite) SetChecked(ctx context.Context, id int, checked bool) (model.Item, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE items SET checked = ? WHERE id = ?`, checked, id)
	if err != nil {
		return model.Item{}, fmt.Errorf("update item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Item{}, ErrNotFound
	}
	var it model.Item
	err = s.db.QueryRowContext(ctx, `SELECT id, checked, label FROM items WHERE id = ?`, id).Scan(&it.ID, &it.Checked, &it.Label)
	if err != nil {
		return model.Item{}, fmt.Errorf("read item: %w", err)
	}
	return it, nil
}

func (s *SQLite) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }
