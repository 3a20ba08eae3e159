package library

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(newTestEngine(t), nil)
}

func TestServiceRoundTrip(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.CreateBook(CreateBookRequest{Book: BookParams{Title: "Go", ISBN: "123"}})
	require.NoError(t, err)
	require.NotNil(t, created.Book)

	member, err := svc.CreateMember(CreateMemberRequest{Member: MemberParams{Name: "Ann"}})
	require.NoError(t, err)

	borrowed, err := svc.BorrowBook(BorrowBookRequest{BookID: created.Book.ID, MemberID: member.Member.ID})
	require.NoError(t, err)
	assert.Equal(t, StatusBorrowed, borrowed.Borrowing.Status)

	avail, err := svc.IsAvailable(IsAvailableRequest{BookID: created.Book.ID})
	require.NoError(t, err)
	assert.False(t, avail.Available)

	returned, err := svc.ReturnBook(ReturnBookRequest{BorrowingID: borrowed.Borrowing.ID})
	require.NoError(t, err)
	assert.Equal(t, StatusReturned, returned.Borrowing.Status)

	history, err := svc.ListBorrowedByMember(ListBorrowedByMemberRequest{MemberID: member.Member.ID})
	require.NoError(t, err)
	assert.Len(t, history.Borrowings, 1)

	books, err := svc.ListBooks()
	require.NoError(t, err)
	assert.Len(t, books.Books, 1)

	got, err := svc.GetMember(GetMemberRequest{ID: member.Member.ID})
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Member.Name)
}

// The façade passes engine errors through untouched; the gateway above it
// does the status mapping.
func TestServicePassesErrorsUnchanged(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetBook(GetBookRequest{ID: 42})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	_, err = svc.CreateBook(CreateBookRequest{Book: BookParams{Title: ""}})
	assert.True(t, IsInvalidArgument(err))

	err = svc.DeleteMember(DeleteMemberRequest{ID: 42})
	assert.True(t, IsNotFound(err))
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{notFoundf("op", "x"), http.StatusNotFound},
		{invalidArgf("op", "x"), http.StatusBadRequest},
		{alreadyExistsf("op", "x"), http.StatusConflict},
		{preconditionf("op", "x"), http.StatusConflict},
		{internalErr("op", "x", assert.AnError), http.StatusInternalServerError},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, HTTPStatus(tc.err))
	}
}
