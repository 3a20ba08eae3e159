package library

import "time"

// BorrowStatus is the lifecycle state of a Borrowing. A borrowing moves from
// BORROWED to RETURNED exactly once and never back.
type BorrowStatus string

const (
	StatusBorrowed BorrowStatus = "BORROWED"
	StatusReturned BorrowStatus = "RETURNED"
)

// Book is a catalog record. Availability is not stored; it is derived from
// the borrowings referencing the book (see Engine.IsAvailable).
type Book struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Author        string     `json:"author,omitempty"`
	ISBN          string     `json:"isbn,omitempty"`
	Publisher     string     `json:"publisher,omitempty"`
	PublishedDate *time.Time `json:"published_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Member is a registered library member.
type Member struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Borrowing links one Book to one Member for one lending period.
type Borrowing struct {
	ID         int64        `json:"id"`
	BookID     int64        `json:"book_id"`
	MemberID   int64        `json:"member_id"`
	Status     BorrowStatus `json:"status"`
	BorrowedAt time.Time    `json:"borrowed_at"`
	DueAt      *time.Time   `json:"due_at,omitempty"`
	ReturnedAt *time.Time   `json:"returned_at,omitempty"`
}

// BookParams carries the caller-supplied fields for creating or updating a
// book. Updates replace every mutable field, matching the full-record update
// the remote surface performs.
type BookParams struct {
	Title         string
	Author        string
	ISBN          string
	Publisher     string
	PublishedDate *time.Time
}

// MemberParams carries the caller-supplied fields for creating or updating a
// member.
type MemberParams struct {
	Name    string
	Email   string
	Phone   string
	Address string
}
