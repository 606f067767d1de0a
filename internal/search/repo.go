package search

import (
	"fmt"
	"time"

	"github.com/starford/raido/internal/document"
	"github.com/starford/raido/internal/section"
)

// SectionRow represents a row in the sections table.
type SectionRow struct {
	Path      string
	Title     string
	Type      string
	UpdatedAt time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Reindex replaces the whole index with the given section tree. It must
// run while content is still attached, i.e. after link resolution and
// before the writer detaches it.
func (db *DB) Reindex(sections []*section.Section) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("search: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM sections`); err != nil {
		return fmt.Errorf("search: clear sections: %w", err)
	}
	ftsClear(tx)

	stmt, err := tx.Prepare(`
		INSERT INTO sections (path, title, type, body, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("search: prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	var walk func(s *section.Section, prefix string) error
	walk = func(s *section.Section, prefix string) error {
		path := section.JoinPath(prefix, s.ID)
		title := document.Stringify(s.Title)
		body := document.PlainText(s.Content)
		if _, err := stmt.Exec(path, title, s.Type, body, now); err != nil {
			return fmt.Errorf("search: insert section %s: %w", path, err)
		}
		if err := ftsUpsert(tx, path, title, body); err != nil {
			return err
		}
		for _, child := range s.Children {
			if err := walk(child, path); err != nil {
				return err
			}
		}
		return nil
	}
	for _, s := range sections {
		if err := walk(s, ""); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListSections returns every indexed section in path order.
func (db *DB) ListSections() ([]SectionRow, error) {
	rows, err := db.conn.Query(`SELECT path, title, type, updated_at FROM sections ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("search: list sections: %w", err)
	}
	defer rows.Close()

	var out []SectionRow
	for rows.Next() {
		var r SectionRow
		if err := rows.Scan(&r.Path, &r.Title, &r.Type, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetSection returns one indexed section row, or nil when absent.
func (db *DB) GetSection(path string) (*SectionRow, error) {
	var r SectionRow
	err := db.conn.QueryRow(
		`SELECT path, title, type, updated_at FROM sections WHERE path = ?`, path,
	).Scan(&r.Path, &r.Title, &r.Type, &r.UpdatedAt)
	if err != nil {
		return nil, nil //nolint:nilerr // absent row is not an error
	}
	return &r, nil
}
