// Package backend is a reference implementation of the QKart catalog
// service, used for local development and end-to-end tests of the client.
package backend

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/abelbrown/qkart/internal/catalog"
)

// Store keeps products in SQLite. NOT an interface - concrete type.
// Safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (or creates) the database at dbPath. ":memory:" gives a
// private in-memory catalog.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		connStr = "file::memory:"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// In-memory databases are per connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		cost REAL NOT NULL CHECK (cost >= 0),
		rating REAL NOT NULL CHECK (rating >= 0 AND rating <= 5),
		image TEXT,
		search_key TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_products_position ON products(position);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// SaveItems inserts items in order, returning how many were new.
// Items whose ID already exists are ignored.
func (s *Store) SaveItems(items []catalog.Item) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(items) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var next int64
	if err := tx.QueryRow(`SELECT COALESCE(MAX(position), 0) FROM products`).Scan(&next); err != nil {
		return 0, fmt.Errorf("read position: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO products (id, position, name, category, cost, rating, image, search_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, it := range items {
		next++
		res, err := stmt.Exec(it.ID, next, it.Name, it.Category, it.Cost, it.Rating, it.ImageURL, searchKey(it))
		if err != nil {
			return 0, fmt.Errorf("insert %s: %w", it.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// All returns every product in insertion order.
func (s *Store) All() ([]catalog.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, category, cost, rating, COALESCE(image, '')
		FROM products ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	return scanItems(rows)
}

// Search returns products whose name or category contains text, ignoring
// case and Unicode compatibility differences. Empty text matches everything.
func (s *Store) Search(text string) ([]catalog.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pattern := "%" + escapeLike(fold(strings.TrimSpace(text))) + "%"
	rows, err := s.db.Query(`
		SELECT id, name, category, cost, rating, COALESCE(image, '')
		FROM products
		WHERE search_key LIKE ? ESCAPE '\'
		ORDER BY position
	`, pattern)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return scanItems(rows)
}

// Count returns the number of stored products.
func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func scanItems(rows *sql.Rows) ([]catalog.Item, error) {
	defer rows.Close()

	items := []catalog.Item{}
	for rows.Next() {
		var it catalog.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Category, &it.Cost, &it.Rating, &it.ImageURL); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return items, nil
}

var folder = cases.Fold()

// fold normalizes text for matching: NFKC, then Unicode case folding.
func fold(s string) string {
	return folder.String(norm.NFKC.String(s))
}

// searchKey is the text a product is matched against. The unit separator
// keeps a query from matching across the name/category boundary. (Not NUL:
// SQLite string functions stop at the first NUL.)
func searchKey(it catalog.Item) string {
	return fold(it.Name) + "\x1f" + fold(it.Category)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
