package service

import (
	"context"
	"errors"
	"time"

	"libraryhub/internal/api/models"
	"libraryhub/internal/api/repository"

	"gorm.io/gorm"
)

var (
	ErrOutOfStock     = errors.New("no copies of this book are available")
	ErrNotMember      = errors.New("borrower must hold the MEMBER role")
	ErrRecordNotFound = errors.New("borrow record not found")
)

// BorrowRequest carries the client-settable fields of a new borrow.
// BorrowDate and DueDate default to today and today + loan period.
type BorrowRequest struct {
	BookID     int64
	MemberID   string
	BorrowDate *time.Time
	DueDate    *time.Time
}

// BorrowService owns the borrow record lifecycle:
//
//	borrow  -> BORROWED   (copy count -1, atomic with record creation)
//	BORROWED -> RETURNED  (copy count +1, terminal)
//	BORROWED -> OVERDUE   (only past due date)
//	OVERDUE  -> RETURNED  (copy count +1)
//
// Transition calls on records in any other state are silent no-ops that
// return the unchanged record, which makes MarkReturned and MarkOverdue
// idempotent for callers.
type BorrowService interface {
	Borrow(ctx context.Context, req BorrowRequest) (*models.BorrowRecord, error)
	GetByID(ctx context.Context, id int64) (*models.BorrowRecord, error)
	List(ctx context.Context) ([]models.BorrowRecord, error)
	ListByMember(ctx context.Context, memberID string) ([]models.BorrowRecord, error)
	MarkReturned(ctx context.Context, id int64) (*models.BorrowRecord, error)
	MarkOverdue(ctx context.Context, id int64) (*models.BorrowRecord, error)
	ListOverdue(ctx context.Context) ([]models.BorrowRecord, error)
}

// BookGetter is the slice of the book repository the ledger needs.
type BookGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Book, error)
}

type borrowService struct {
	repo       repository.BorrowRepository
	bookRepo   BookGetter
	userRepo   repository.UserRepository
	loanPeriod time.Duration
	now        func() time.Time
}

func NewBorrowService(
	repo repository.BorrowRepository,
	bookRepo BookGetter,
	userRepo repository.UserRepository,
	loanPeriodDays int,
) BorrowService {
	return &borrowService{
		repo:       repo,
		bookRepo:   bookRepo,
		userRepo:   userRepo,
		loanPeriod: time.Duration(loanPeriodDays) * 24 * time.Hour,
		now:        time.Now,
	}
}

// Borrow creates a BORROWED record for a member. The availability check and
// decrement happen inside the repository transaction, so concurrent borrows
// of the last copy cannot drive available_copies negative.
func (s *borrowService) Borrow(ctx context.Context, req BorrowRequest) (*models.BorrowRecord, error) {
	member, err := s.userRepo.FindByID(req.MemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !member.IsMember() {
		return nil, ErrNotMember
	}

	if _, err := s.bookRepo.GetByID(ctx, req.BookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	borrowDate := s.now()
	if req.BorrowDate != nil {
		borrowDate = *req.BorrowDate
	}
	dueDate := borrowDate.Add(s.loanPeriod)
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	rec := &models.BorrowRecord{
		BookID:     req.BookID,
		MemberID:   req.MemberID,
		BorrowDate: borrowDate,
		DueDate:    dueDate,
		Status:     models.StatusBorrowed,
	}

	if err := s.repo.CreateBorrow(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrNoAvailableCopies) {
			return nil, ErrOutOfStock
		}
		return nil, err
	}
	return rec, nil
}

func (s *borrowService) GetByID(ctx context.Context, id int64) (*models.BorrowRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *borrowService) List(ctx context.Context) ([]models.BorrowRecord, error) {
	return s.repo.List(ctx)
}

func (s *borrowService) ListByMember(ctx context.Context, memberID string) ([]models.BorrowRecord, error) {
	return s.repo.ListByMember(ctx, memberID)
}

// MarkReturned moves a BORROWED or OVERDUE record to RETURNED, stamps the
// return date and gives the copy back. Calling it on a record in any other
// state returns the record unchanged; a repeated call cannot double-increment
// the copy count because the repository guards the transition by status.
func (s *borrowService) MarkReturned(ctx context.Context, id int64) (*models.BorrowRecord, error) {
	rec, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if rec.Status != models.StatusBorrowed && rec.Status != models.StatusOverdue {
		return rec, nil
	}

	if err := s.repo.MarkReturned(ctx, id, s.now()); err != nil {
		if errors.Is(err, repository.ErrNoTransition) {
			// lost a race against another return, treat it as the no-op case
			return s.GetByID(ctx, id)
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// MarkOverdue flips a BORROWED record past its due date to OVERDUE.
// Not yet due or already moved on: unchanged record, no error. There is no
// background sweep, every record needs its own call.
func (s *borrowService) MarkOverdue(ctx context.Context, id int64) (*models.BorrowRecord, error) {
	rec, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if rec.Status != models.StatusBorrowed || !s.now().After(rec.DueDate) {
		return rec, nil
	}

	if err := s.repo.MarkOverdue(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoTransition) {
			return s.GetByID(ctx, id)
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// ListOverdue is a derived read over status, it does not flip expired
// BORROWED records.
func (s *borrowService) ListOverdue(ctx context.Context) ([]models.BorrowRecord, error) {
	return s.repo.ListByStatus(ctx, models.StatusOverdue)
}
