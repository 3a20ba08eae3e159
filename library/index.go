package library

import (
	"database/sql"

	"github.com/pkg/errors"
)

// Index fields with uniqueness reservations.
const (
	FieldISBN  = "isbn"
	FieldEmail = "email"
)

// ErrValueTaken is returned by Reserve when another owner already holds the
// (field, value) pair. The engine translates it into AlreadyExists.
var ErrValueTaken = errors.New("value already reserved")

// Index maintains uniqueness reservations for record fields (isbn, email).
// A reservation is an atomic claim on a (field, value) pair preventing two
// live records from sharing it. Blank values are never reserved, so optional
// fields may repeat as blank.
type Index struct {
	db *sql.DB
}

// NewIndex returns the uniqueness index backed by the store's database.
func NewIndex(s *Store) *Index {
	return &Index{db: s.db}
}

// Reserve claims (field, value) for owner id. Reserving a pair already held
// by the same owner succeeds without effect; a pair held by a different
// owner yields ErrValueTaken. Blank values are rejected by callers, not
// here; reserving one would defeat the optional-field semantics.
func (ix *Index) Reserve(field, value string, id int64) error {
	res, err := ix.db.Exec(`INSERT INTO uniques(field, value, owner_id) VALUES(?,?,?)
        ON CONFLICT(field, value) DO NOTHING`, field, value, id)
	if err != nil {
		return errors.Wrap(err, "reserve value")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "reserve value")
	}
	if n > 0 {
		return nil
	}
	owner, ok, err := ix.Lookup(field, value)
	if err != nil {
		return err
	}
	if ok && owner == id {
		return nil
	}
	return ErrValueTaken
}

// Release drops the reservation for (field, value). Releasing an unclaimed
// pair is a no-op.
func (ix *Index) Release(field, value string) error {
	_, err := ix.db.Exec(`DELETE FROM uniques WHERE field=? AND value=?`, field, value)
	return errors.Wrap(err, "release value")
}

// Lookup reports the owner id of (field, value), if reserved.
func (ix *Index) Lookup(field, value string) (int64, bool, error) {
	var owner int64
	err := ix.db.QueryRow(`SELECT owner_id FROM uniques WHERE field=? AND value=?`, field, value).Scan(&owner)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Wrap(err, "lookup value")
	}
	return owner, true, nil
}
