package library

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// Engine is the sole authority for lending invariants and state transitions.
// Every mutating operation runs under a single process-wide critical section
// so that its check-then-act sequence (uniqueness reservation + record
// write, borrow check + borrowing creation, delete precondition + removal)
// observes no interleaving mutation. Read-only operations go straight to the
// store.
//
// Each operation returns either its result or a typed *Error; no raw errors
// escape. A failed operation leaves no partial state behind: reservations
// taken before a failing write are released before returning.
type Engine struct {
	mu    sync.Mutex
	store *Store
	index *Index
	now   func() time.Time
	log   Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger receiving engine state transitions.
func WithLogger(l Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine over the given store. The store exclusively
// owns all records; callers mutate them only through the engine.
func NewEngine(store *Store, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		index: NewIndex(store),
		now:   time.Now,
		log:   NopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ---------------------------------------------------------------------------
// Books
// ---------------------------------------------------------------------------

// CreateBook validates the params, assigns an id, reserves the isbn when
// present, and stores the new book.
func (e *Engine) CreateBook(p BookParams) (*Book, error) {
	const op = "CreateBook"
	p, err := validateBookParams(op, p)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	id, err := e.store.NextID(KindBooks)
	if err != nil {
		return nil, internalErr(op, "assign book id", err)
	}
	if p.ISBN != "" {
		if err := e.reserve(op, FieldISBN, p.ISBN, id, "isbn"); err != nil {
			return nil, err
		}
	}

	now := e.now()
	book := &Book{
		ID:            id,
		Title:         p.Title,
		Author:        p.Author,
		ISBN:          p.ISBN,
		Publisher:     p.Publisher,
		PublishedDate: p.PublishedDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := e.store.Put(KindBooks, id, book); err != nil {
		e.release(FieldISBN, p.ISBN)
		return nil, internalErr(op, "store book", err)
	}

	e.log.Info("book_created", "book_id", id, "title", p.Title)
	return book, nil
}

// UpdateBook replaces the book's mutable fields. On an isbn change the old
// reservation is swapped for the new one; if the new isbn is taken the book
// is left untouched.
func (e *Engine) UpdateBook(id int64, p BookParams) (*Book, error) {
	const op = "UpdateBook"
	p, err := validateBookParams(op, p)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cur, err := e.getBook(op, id)
	if err != nil {
		return nil, err
	}

	isbnChanged := p.ISBN != cur.ISBN
	if isbnChanged && p.ISBN != "" {
		if err := e.reserve(op, FieldISBN, p.ISBN, id, "isbn"); err != nil {
			return nil, err
		}
	}

	updated := *cur
	updated.Title = p.Title
	updated.Author = p.Author
	updated.ISBN = p.ISBN
	updated.Publisher = p.Publisher
	updated.PublishedDate = p.PublishedDate
	updated.UpdatedAt = e.now()

	if err := e.store.Put(KindBooks, id, &updated); err != nil {
		if isbnChanged {
			e.release(FieldISBN, p.ISBN)
		}
		return nil, internalErr(op, "store book", err)
	}
	if isbnChanged {
		e.release(FieldISBN, cur.ISBN)
	}

	e.log.Info("book_updated", "book_id", id)
	return &updated, nil
}

// DeleteBook removes a book and releases its isbn reservation. It refuses
// while any borrowing on the book is still BORROWED.
func (e *Engine) DeleteBook(id int64) error {
	const op = "DeleteBook"

	e.mu.Lock()
	defer e.mu.Unlock()

	cur, err := e.getBook(op, id)
	if err != nil {
		return err
	}
	active, err := e.activeBorrowingForBook(op, id)
	if err != nil {
		return err
	}
	if active != nil {
		return preconditionf(op, "book %d is currently borrowed", id)
	}

	if err := e.store.Delete(KindBooks, id); err != nil {
		return internalErr(op, "delete book", err)
	}
	e.release(FieldISBN, cur.ISBN)

	e.log.Info("book_deleted", "book_id", id)
	return nil
}

// GetBook fetches one book.
func (e *Engine) GetBook(id int64) (*Book, error) {
	return e.getBook("GetBook", id)
}

// ListBooks returns all books in insertion order.
func (e *Engine) ListBooks() ([]Book, error) {
	books, err := ListRecords[Book](e.store, KindBooks)
	if err != nil {
		return nil, internalErr("ListBooks", "list books", err)
	}
	return books, nil
}

// IsAvailable reports whether the book can currently be borrowed. A book is
// available iff no borrowing referencing it has status BORROWED; this is the
// same check BorrowBook enforces, so engine and presentation never disagree.
func (e *Engine) IsAvailable(bookID int64) (bool, error) {
	const op = "IsAvailable"
	if _, err := e.getBook(op, bookID); err != nil {
		return false, err
	}
	active, err := e.activeBorrowingForBook(op, bookID)
	if err != nil {
		return false, err
	}
	return active == nil, nil
}

// ---------------------------------------------------------------------------
// Members
// ---------------------------------------------------------------------------

// CreateMember validates the params, assigns an id, reserves the email when
// present, and stores the new member.
func (e *Engine) CreateMember(p MemberParams) (*Member, error) {
	const op = "CreateMember"
	p, err := validateMemberParams(op, p)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	id, err := e.store.NextID(KindMembers)
	if err != nil {
		return nil, internalErr(op, "assign member id", err)
	}
	if p.Email != "" {
		if err := e.reserve(op, FieldEmail, p.Email, id, "email"); err != nil {
			return nil, err
		}
	}

	now := e.now()
	member := &Member{
		ID:        id,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		Address:   p.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.store.Put(KindMembers, id, member); err != nil {
		e.release(FieldEmail, p.Email)
		return nil, internalErr(op, "store member", err)
	}

	e.log.Info("member_created", "member_id", id, "name", p.Name)
	return member, nil
}

// UpdateMember replaces the member's mutable fields, swapping the email
// reservation on change.
func (e *Engine) UpdateMember(id int64, p MemberParams) (*Member, error) {
	const op = "UpdateMember"
	p, err := validateMemberParams(op, p)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cur, err := e.getMember(op, id)
	if err != nil {
		return nil, err
	}

	emailChanged := p.Email != cur.Email
	if emailChanged && p.Email != "" {
		if err := e.reserve(op, FieldEmail, p.Email, id, "email"); err != nil {
			return nil, err
		}
	}

	updated := *cur
	updated.Name = p.Name
	updated.Email = p.Email
	updated.Phone = p.Phone
	updated.Address = p.Address
	updated.UpdatedAt = e.now()

	if err := e.store.Put(KindMembers, id, &updated); err != nil {
		if emailChanged {
			e.release(FieldEmail, p.Email)
		}
		return nil, internalErr(op, "store member", err)
	}
	if emailChanged {
		e.release(FieldEmail, cur.Email)
	}

	e.log.Info("member_updated", "member_id", id)
	return &updated, nil
}

// DeleteMember removes a member and releases their email reservation. It
// refuses while the member still has a BORROWED borrowing.
func (e *Engine) DeleteMember(id int64) error {
	const op = "DeleteMember"

	e.mu.Lock()
	defer e.mu.Unlock()

	cur, err := e.getMember(op, id)
	if err != nil {
		return err
	}
	active, err := e.activeBorrowingForMember(op, id)
	if err != nil {
		return err
	}
	if active != nil {
		return preconditionf(op, "member %d has borrowed books", id)
	}

	if err := e.store.Delete(KindMembers, id); err != nil {
		return internalErr(op, "delete member", err)
	}
	e.release(FieldEmail, cur.Email)

	e.log.Info("member_deleted", "member_id", id)
	return nil
}

// GetMember fetches one member.
func (e *Engine) GetMember(id int64) (*Member, error) {
	return e.getMember("GetMember", id)
}

// ListMembers returns all members in insertion order.
func (e *Engine) ListMembers() ([]Member, error) {
	members, err := ListRecords[Member](e.store, KindMembers)
	if err != nil {
		return nil, internalErr("ListMembers", "list members", err)
	}
	return members, nil
}

// ---------------------------------------------------------------------------
// Circulation
// ---------------------------------------------------------------------------

// BorrowBook creates a BORROWED borrowing for the book and member. Both must
// exist, and the book must not already have an active borrowing. dueAt is
// optional.
func (e *Engine) BorrowBook(bookID, memberID int64, dueAt *time.Time) (*Borrowing, error) {
	const op = "BorrowBook"

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.getBook(op, bookID); err != nil {
		return nil, err
	}
	if _, err := e.getMember(op, memberID); err != nil {
		return nil, err
	}
	active, err := e.activeBorrowingForBook(op, bookID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, preconditionf(op, "book %d already borrowed", bookID)
	}

	id, err := e.store.NextID(KindBorrowings)
	if err != nil {
		return nil, internalErr(op, "assign borrowing id", err)
	}
	borrowing := &Borrowing{
		ID:         id,
		BookID:     bookID,
		MemberID:   memberID,
		Status:     StatusBorrowed,
		BorrowedAt: e.now(),
		DueAt:      dueAt,
	}
	if err := e.store.Put(KindBorrowings, id, borrowing); err != nil {
		return nil, internalErr(op, "store borrowing", err)
	}

	e.log.Info("book_borrowed", "book_id", bookID, "member_id", memberID, "borrowing_id", id)
	return borrowing, nil
}

// ReturnBook marks a borrowing as RETURNED. Returning a borrowing that is
// already RETURNED fails and leaves returned_at untouched.
func (e *Engine) ReturnBook(borrowingID int64) (*Borrowing, error) {
	const op = "ReturnBook"

	e.mu.Lock()
	defer e.mu.Unlock()

	cur, err := e.getBorrowing(op, borrowingID)
	if err != nil {
		return nil, err
	}
	if cur.Status != StatusBorrowed {
		return nil, preconditionf(op, "borrowing %d already returned", borrowingID)
	}

	now := e.now()
	cur.Status = StatusReturned
	cur.ReturnedAt = &now
	if err := e.store.Put(KindBorrowings, borrowingID, cur); err != nil {
		return nil, internalErr(op, "store borrowing", err)
	}

	e.log.Info("book_returned", "borrowing_id", borrowingID)
	return cur, nil
}

// ListBorrowedByMember returns all of the member's borrowings, historical
// and active, ordered by borrowed_at ascending. An unknown member yields an
// empty slice, not an error, matching the gateway's observed behavior.
func (e *Engine) ListBorrowedByMember(memberID int64) ([]Borrowing, error) {
	all, err := ListRecords[Borrowing](e.store, KindBorrowings)
	if err != nil {
		return nil, internalErr("ListBorrowedByMember", "list borrowings", err)
	}
	out := make([]Borrowing, 0)
	for _, b := range all {
		if b.MemberID == memberID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BorrowedAt.Equal(out[j].BorrowedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].BorrowedAt.Before(out[j].BorrowedAt)
	})
	return out, nil
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

func (e *Engine) getBook(op string, id int64) (*Book, error) {
	b, err := GetRecord[Book](e.store, KindBooks, id)
	if errors.Is(err, ErrNoRecord) {
		return nil, notFoundf(op, "book %d not found", id)
	}
	if err != nil {
		return nil, internalErr(op, "load book", err)
	}
	return b, nil
}

func (e *Engine) getMember(op string, id int64) (*Member, error) {
	m, err := GetRecord[Member](e.store, KindMembers, id)
	if errors.Is(err, ErrNoRecord) {
		return nil, notFoundf(op, "member %d not found", id)
	}
	if err != nil {
		return nil, internalErr(op, "load member", err)
	}
	return m, nil
}

func (e *Engine) getBorrowing(op string, id int64) (*Borrowing, error) {
	b, err := GetRecord[Borrowing](e.store, KindBorrowings, id)
	if errors.Is(err, ErrNoRecord) {
		return nil, notFoundf(op, "borrowing %d not found", id)
	}
	if err != nil {
		return nil, internalErr(op, "load borrowing", err)
	}
	return b, nil
}

// activeBorrowingForBook finds the single BORROWED borrowing for a book, if
// any. At most one exists after every successful operation.
func (e *Engine) activeBorrowingForBook(op string, bookID int64) (*Borrowing, error) {
	all, err := ListRecords[Borrowing](e.store, KindBorrowings)
	if err != nil {
		return nil, internalErr(op, "list borrowings", err)
	}
	for i := range all {
		if all[i].BookID == bookID && all[i].Status == StatusBorrowed {
			return &all[i], nil
		}
	}
	return nil, nil
}

func (e *Engine) activeBorrowingForMember(op string, memberID int64) (*Borrowing, error) {
	all, err := ListRecords[Borrowing](e.store, KindBorrowings)
	if err != nil {
		return nil, internalErr(op, "list borrowings", err)
	}
	for i := range all {
		if all[i].MemberID == memberID && all[i].Status == StatusBorrowed {
			return &all[i], nil
		}
	}
	return nil, nil
}

// reserve claims a uniqueness value for id, translating a conflict into the
// domain's AlreadyExists.
func (e *Engine) reserve(op, field, value string, id int64, label string) error {
	err := e.index.Reserve(field, value, id)
	if errors.Is(err, ErrValueTaken) {
		return alreadyExistsf(op, "%s %q already exists", label, value)
	}
	if err != nil {
		return internalErr(op, "reserve "+label, err)
	}
	return nil
}

// release drops a reservation during rollback or removal. A release failure
// cannot be compensated at this point, so it is logged instead of surfaced.
func (e *Engine) release(field, value string) {
	if value == "" {
		return
	}
	if err := e.index.Release(field, value); err != nil {
		e.log.Warn("release_failed", "field", field, "error", err.Error())
	}
}
