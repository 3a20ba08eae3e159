package library

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Service is the remote-procedure surface of the lending core. It mirrors
// the operations the gateway calls, delegating 1:1 to the Engine and
// returning the engine's typed errors unchanged; the transport above it owns
// serialization and status codes. No business logic lives here.
type Service struct {
	engine *Engine
	log    Logger
}

// NewService wraps an engine in the remote-call surface.
func NewService(engine *Engine, log Logger) *Service {
	if log == nil {
		log = NopLogger{}
	}
	return &Service{engine: engine, log: log}
}

type CreateBookRequest struct {
	Book BookParams
}

type CreateBookResponse struct {
	Book *Book
}

type UpdateBookRequest struct {
	ID   int64
	Book BookParams
}

type UpdateBookResponse struct {
	Book *Book
}

type DeleteBookRequest struct {
	ID int64
}

type GetBookRequest struct {
	ID int64
}

type GetBookResponse struct {
	Book *Book
}

type ListBooksResponse struct {
	Books []Book
}

type CreateMemberRequest struct {
	Member MemberParams
}

type CreateMemberResponse struct {
	Member *Member
}

type UpdateMemberRequest struct {
	ID     int64
	Member MemberParams
}

type UpdateMemberResponse struct {
	Member *Member
}

type DeleteMemberRequest struct {
	ID int64
}

type GetMemberRequest struct {
	ID int64
}

type GetMemberResponse struct {
	Member *Member
}

type ListMembersResponse struct {
	Members []Member
}

type BorrowBookRequest struct {
	BookID   int64
	MemberID int64
	DueAt    *time.Time
}

type BorrowBookResponse struct {
	Borrowing *Borrowing
}

type ReturnBookRequest struct {
	BorrowingID int64
}

type ReturnBookResponse struct {
	Borrowing *Borrowing
}

type ListBorrowedByMemberRequest struct {
	MemberID int64
}

type ListBorrowedByMemberResponse struct {
	Borrowings []Borrowing
}

type IsAvailableRequest struct {
	BookID int64
}

type IsAvailableResponse struct {
	Available bool
}

func (s *Service) CreateBook(req CreateBookRequest) (*CreateBookResponse, error) {
	done := s.begin("CreateBook")
	book, err := s.engine.CreateBook(req.Book)
	if done(err); err != nil {
		return nil, err
	}
	return &CreateBookResponse{Book: book}, nil
}

func (s *Service) UpdateBook(req UpdateBookRequest) (*UpdateBookResponse, error) {
	done := s.begin("UpdateBook")
	book, err := s.engine.UpdateBook(req.ID, req.Book)
	if done(err); err != nil {
		return nil, err
	}
	return &UpdateBookResponse{Book: book}, nil
}

func (s *Service) DeleteBook(req DeleteBookRequest) error {
	done := s.begin("DeleteBook")
	err := s.engine.DeleteBook(req.ID)
	done(err)
	return err
}

func (s *Service) GetBook(req GetBookRequest) (*GetBookResponse, error) {
	done := s.begin("GetBook")
	book, err := s.engine.GetBook(req.ID)
	if done(err); err != nil {
		return nil, err
	}
	return &GetBookResponse{Book: book}, nil
}

func (s *Service) ListBooks() (*ListBooksResponse, error) {
	done := s.begin("ListBooks")
	books, err := s.engine.ListBooks()
	if done(err); err != nil {
		return nil, err
	}
	return &ListBooksResponse{Books: books}, nil
}

func (s *Service) CreateMember(req CreateMemberRequest) (*CreateMemberResponse, error) {
	done := s.begin("CreateMember")
	member, err := s.engine.CreateMember(req.Member)
	if done(err); err != nil {
		return nil, err
	}
	return &CreateMemberResponse{Member: member}, nil
}

func (s *Service) UpdateMember(req UpdateMemberRequest) (*UpdateMemberResponse, error) {
	done := s.begin("UpdateMember")
	member, err := s.engine.UpdateMember(req.ID, req.Member)
	if done(err); err != nil {
		return nil, err
	}
	return &UpdateMemberResponse{Member: member}, nil
}

func (s *Service) DeleteMember(req DeleteMemberRequest) error {
	done := s.begin("DeleteMember")
	err := s.engine.DeleteMember(req.ID)
	done(err)
	return err
}

func (s *Service) GetMember(req GetMemberRequest) (*GetMemberResponse, error) {
	done := s.begin("GetMember")
	member, err := s.engine.GetMember(req.ID)
	if done(err); err != nil {
		return nil, err
	}
	return &GetMemberResponse{Member: member}, nil
}

func (s *Service) ListMembers() (*ListMembersResponse, error) {
	done := s.begin("ListMembers")
	members, err := s.engine.ListMembers()
	if done(err); err != nil {
		return nil, err
	}
	return &ListMembersResponse{Members: members}, nil
}

func (s *Service) BorrowBook(req BorrowBookRequest) (*BorrowBookResponse, error) {
	done := s.begin("BorrowBook")
	borrowing, err := s.engine.BorrowBook(req.BookID, req.MemberID, req.DueAt)
	if done(err); err != nil {
		return nil, err
	}
	return &BorrowBookResponse{Borrowing: borrowing}, nil
}

func (s *Service) ReturnBook(req ReturnBookRequest) (*ReturnBookResponse, error) {
	done := s.begin("ReturnBook")
	borrowing, err := s.engine.ReturnBook(req.BorrowingID)
	if done(err); err != nil {
		return nil, err
	}
	return &ReturnBookResponse{Borrowing: borrowing}, nil
}

func (s *Service) ListBorrowedByMember(req ListBorrowedByMemberRequest) (*ListBorrowedByMemberResponse, error) {
	done := s.begin("ListBorrowedByMember")
	borrowings, err := s.engine.ListBorrowedByMember(req.MemberID)
	if done(err); err != nil {
		return nil, err
	}
	return &ListBorrowedByMemberResponse{Borrowings: borrowings}, nil
}

func (s *Service) IsAvailable(req IsAvailableRequest) (*IsAvailableResponse, error) {
	done := s.begin("IsAvailable")
	avail, err := s.engine.IsAvailable(req.BookID)
	if done(err); err != nil {
		return nil, err
	}
	return &IsAvailableResponse{Available: avail}, nil
}

// begin logs the start of a call under a fresh request id and returns the
// completion callback.
func (s *Service) begin(method string) func(error) {
	rid := uuid.NewString()
	s.log.Debug("rpc_begin", "method", method, "request_id", rid)
	return func(err error) {
		if err != nil {
			s.log.Info("rpc_failed", "method", method, "request_id", rid, "kind", string(KindOf(err)), "error", err.Error())
			return
		}
		s.log.Debug("rpc_ok", "method", method, "request_id", rid)
	}
}

// HTTPStatus is the documented mapping from error kinds to HTTP status codes
// for the external gateway. The façade itself never branches on it.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch KindOf(err) {
	case NotFound:
		return http.StatusNotFound
	case InvalidArgument:
		return http.StatusBadRequest
	case AlreadyExists, FailedPrecondition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
