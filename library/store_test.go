package library

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStorePutGetRoundTrip(t *testing.T) {
	s := tempStore(t)

	in := Book{ID: 1, Title: "T", Author: "A", ISBN: "123"}
	require.NoError(t, s.Put(KindBooks, in.ID, &in))

	out, err := GetRecord[Book](s, KindBooks, 1)
	require.NoError(t, err)
	assert.Equal(t, in, *out)
}

func TestStoreGetMiss(t *testing.T) {
	s := tempStore(t)

	_, err := GetRecord[Book](s, KindBooks, 1)
	assert.ErrorIs(t, err, ErrNoRecord)
}

func TestStoreKindsAreIsolated(t *testing.T) {
	s := tempStore(t)

	require.NoError(t, s.Put(KindBooks, 1, &Book{ID: 1, Title: "T"}))
	require.NoError(t, s.Put(KindMembers, 1, &Member{ID: 1, Name: "Ann"}))

	book, err := GetRecord[Book](s, KindBooks, 1)
	require.NoError(t, err)
	assert.Equal(t, "T", book.Title)

	member, err := GetRecord[Member](s, KindMembers, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ann", member.Name)

	require.NoError(t, s.Delete(KindBooks, 1))
	_, err = GetRecord[Member](s, KindMembers, 1)
	require.NoError(t, err)
}

func TestStoreDelete(t *testing.T) {
	s := tempStore(t)

	assert.ErrorIs(t, s.Delete(KindBooks, 1), ErrNoRecord)

	require.NoError(t, s.Put(KindBooks, 1, &Book{ID: 1, Title: "T"}))
	require.NoError(t, s.Delete(KindBooks, 1))

	_, err := GetRecord[Book](s, KindBooks, 1)
	assert.ErrorIs(t, err, ErrNoRecord)
}

func TestStoreListInsertionOrder(t *testing.T) {
	s := tempStore(t)

	// Insert out of id order; List must follow insertion order, and an
	// overwrite must not move a record to the back.
	require.NoError(t, s.Put(KindBooks, 3, &Book{ID: 3, Title: "third"}))
	require.NoError(t, s.Put(KindBooks, 1, &Book{ID: 1, Title: "first"}))
	require.NoError(t, s.Put(KindBooks, 2, &Book{ID: 2, Title: "second"}))
	require.NoError(t, s.Put(KindBooks, 3, &Book{ID: 3, Title: "third-v2"}))

	books, err := ListRecords[Book](s, KindBooks)
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{books[0].ID, books[1].ID, books[2].ID})
	assert.Equal(t, "third-v2", books[0].Title)
}

func TestStoreListEmpty(t *testing.T) {
	s := tempStore(t)

	books, err := ListRecords[Book](s, KindBooks)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestStoreNextID(t *testing.T) {
	s := tempStore(t)

	for want := int64(1); want <= 3; want++ {
		id, err := s.NextID(KindBooks)
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}

	// Sequences are independent per kind.
	id, err := s.NextID(KindMembers)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := OpenStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(KindBooks, 1, &Book{ID: 1, Title: "T", ISBN: "123"}))
	_, err = s.NextID(KindBooks)
	require.NoError(t, err)
	require.NoError(t, NewIndex(s).Reserve(FieldISBN, "123", 1))
	require.NoError(t, s.Close())

	s, err = OpenStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	book, err := GetRecord[Book](s, KindBooks, 1)
	require.NoError(t, err)
	assert.Equal(t, "T", book.Title)

	// The id sequence continues rather than restarting.
	id, err := s.NextID(KindBooks)
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	// Reservations survive too.
	owner, ok, err := NewIndex(s).Lookup(FieldISBN, "123")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1), owner)
}
