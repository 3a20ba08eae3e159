package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RecordKind names a record collection in the store.
type RecordKind string

const (
	KindBooks      RecordKind = "books"
	KindMembers    RecordKind = "members"
	KindBorrowings RecordKind = "borrowings"
)

// ErrNoRecord is returned by Get and Delete when no record with the given
// kind and id exists. The engine translates it into a domain NotFound.
var ErrNoRecord = errors.New("no such record")

// Store is durable keyed storage for domain records, backed by SQLite.
// Records are stored as JSON documents keyed by (kind, id); an insertion
// sequence number gives List its stable ordering. Operations on a single key
// are atomic with respect to each other; the store offers no cross-key
// transaction primitive, so cross-key atomicity is the Engine's job.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the SQLite database at dbPath and applies
// schema migrations.
func OpenStore(dbPath string) (*Store, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create db dir")
		}
	}

	// Enable busy_timeout and foreign keys.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	// SQLite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent callers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	// WAL improves read concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return errors.Wrap(err, "enable WAL")
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS records (
            seq  INTEGER PRIMARY KEY AUTOINCREMENT,
            kind TEXT NOT NULL,
            id   INTEGER NOT NULL,
            data BLOB NOT NULL,
            UNIQUE(kind, id)
        );`,
		`CREATE TABLE IF NOT EXISTS sequences (
            name TEXT PRIMARY KEY,
            next INTEGER NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS uniques (
            field    TEXT NOT NULL,
            value    TEXT NOT NULL,
            owner_id INTEGER NOT NULL,
            PRIMARY KEY(field, value)
        );`,
		`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt, schemaVersion); err != nil {
			return errors.Wrap(err, "apply migration")
		}
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Record operations
// ---------------------------------------------------------------------------

// Put inserts or overwrites the record with the given kind and id. The
// caller guarantees id uniqueness within the kind. Overwriting keeps the
// record's original insertion position.
func (s *Store) Put(kind RecordKind, id int64, rec any) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encode record")
	}
	_, err = s.db.Exec(`INSERT INTO records(kind, id, data) VALUES(?,?,?)
        ON CONFLICT(kind, id) DO UPDATE SET data=excluded.data`, string(kind), id, data)
	return errors.Wrap(err, "put record")
}

// Delete removes the record with the given kind and id. Returns ErrNoRecord
// if it does not exist. Removal is hard, not a tombstone.
func (s *Store) Delete(kind RecordKind, id int64) error {
	res, err := s.db.Exec(`DELETE FROM records WHERE kind=? AND id=?`, string(kind), id)
	if err != nil {
		return errors.Wrap(err, "delete record")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete record")
	}
	if n == 0 {
		return ErrNoRecord
	}
	return nil
}

// NextID atomically assigns the next id for a kind, starting at 1.
func (s *Store) NextID(kind RecordKind) (int64, error) {
	var id int64
	err := s.db.QueryRow(`INSERT INTO sequences(name, next) VALUES(?, 1)
        ON CONFLICT(name) DO UPDATE SET next = next + 1
        RETURNING next`, string(kind)).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "next id")
	}
	return id, nil
}

func (s *Store) getRaw(kind RecordKind, id int64) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM records WHERE kind=? AND id=?`, string(kind), id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, errors.Wrap(err, "get record")
	}
	return data, nil
}

func (s *Store) listRaw(kind RecordKind) ([][]byte, error) {
	rows, err := s.db.Query(`SELECT data FROM records WHERE kind=? ORDER BY seq`, string(kind))
	if err != nil {
		return nil, errors.Wrap(err, "list records")
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Wrap(err, "list records")
		}
		out = append(out, data)
	}
	return out, rows.Err()
}

// GetRecord fetches and decodes one record. Returns ErrNoRecord on a miss.
func GetRecord[T any](s *Store, kind RecordKind, id int64) (*T, error) {
	data, err := s.getRaw(kind, id)
	if err != nil {
		return nil, err
	}
	var rec T
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(err, "decode record")
	}
	return &rec, nil
}

// ListRecords fetches and decodes all records of a kind in insertion order.
func ListRecords[T any](s *Store, kind RecordKind) ([]T, error) {
	raws, err := s.listRaw(kind)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raws))
	for _, data := range raws {
		var rec T
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, errors.Wrap(err, "decode record")
		}
		out = append(out, rec)
	}
	return out, nil
}
