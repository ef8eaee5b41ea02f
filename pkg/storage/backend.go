package storage

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	_ "modernc.org/sqlite"

	"platebench/pkg/common"
)

// Backend is a persistent record source for the dataset store.
type Backend interface {
	BatchWrite(records []common.Record) error
	LoadAll() ([]common.Record, error)
	Count() (int, error)
	Truncate() error
	Close() error
}

// SQLiteBackend keeps each record as a JSON payload row, plus the plate in
// its own column so the file stays queryable from the sqlite3 shell.
type SQLiteBackend struct {
	db       *sql.DB
	keyField string
	mu       sync.Mutex
}

func NewSQLiteBackend(path, keyField string) (*SQLiteBackend, error) {
	if keyField == "" {
		keyField = common.DefaultKeyField
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	query := `
	CREATE TABLE IF NOT EXISTS vehicles (
		seq     INTEGER PRIMARY KEY,
		plate   TEXT NOT NULL,
		payload BLOB NOT NULL
	);`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, fmt.Errorf("init table: %w", err)
	}

	_, err = db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
	`)
	if err != nil {
		slog.Warn("failed to set sqlite pragma", "path", path, "error", err)
	}

	return &SQLiteBackend{db: db, keyField: keyField}, nil
}

// BatchWrite appends records in one transaction, keeping their order.
func (s *SQLiteBackend) BatchWrite(records []common.Record) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT INTO vehicles (plate, payload) VALUES (?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i, rec := range records {
		plate, err := common.KeyOf(rec, s.keyField)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("record %d: %w", i, err)
		}
		payload, err := json.Marshal(rec)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("record %d: %w", i, err)
		}
		if _, err := stmt.Exec(plate, payload); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// LoadAll returns every stored record in insertion order.
func (s *SQLiteBackend) LoadAll() ([]common.Record, error) {
	rows, err := s.db.Query("SELECT seq, payload FROM vehicles ORDER BY seq ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []common.Record{}
	for rows.Next() {
		var seq int64
		var payload []byte
		if err := rows.Scan(&seq, &payload); err != nil {
			return nil, err
		}
		rec, err := decode(payload)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", seq, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteBackend) Count() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM vehicles").Scan(&n)
	return n, err
}

func (s *SQLiteBackend) Truncate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM vehicles")
	return err
}

func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}

// decode 保留整数字段为 int64, 其余数字为 float64
func decode(payload []byte) (common.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var rec common.Record
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	for k, v := range rec {
		n, ok := v.(json.Number)
		if !ok {
			continue
		}
		if i, err := n.Int64(); err == nil {
			rec[k] = i
		} else if f, err := n.Float64(); err == nil {
			rec[k] = f
		}
	}
	return rec, nil
}
