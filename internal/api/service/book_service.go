package service

import (
	"context"
	"errors"

	"libraryhub/internal/api/models"
	"libraryhub/internal/api/repository"

	"gorm.io/gorm"
)

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrISBNInUse         = errors.New("isbn already in use")
	ErrCopiesExceedTotal = errors.New("available copies cannot exceed total copies")
	ErrNegativeCopyCount = errors.New("copy counts must be non-negative")
)

type BookService interface {
	GetAll(ctx context.Context, filter repository.BookFilter, page, pageSize int) ([]models.Book, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, b *models.Book) error
	Update(ctx context.Context, id int64, b *models.Book) error
	Delete(ctx context.Context, id int64) error
}

type bookService struct {
	repo *repository.BookRepo
}

func NewBookService(repo *repository.BookRepo) BookService {
	return &bookService{repo: repo}
}

func (s *bookService) GetAll(ctx context.Context, filter repository.BookFilter, page, pageSize int) ([]models.Book, int64, error) {
	return s.repo.GetAll(ctx, filter, page, pageSize)
}

func (s *bookService) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return b, nil
}

// validateCopies enforces 0 <= available_copies <= total_copies before any
// write reaches the store. This is the only place clients set the counts
// directly; afterwards only the borrow ledger moves available_copies.
func validateCopies(b *models.Book) error {
	if b.TotalCopies < 0 || b.AvailableCopies < 0 {
		return ErrNegativeCopyCount
	}
	if b.AvailableCopies > b.TotalCopies {
		return ErrCopiesExceedTotal
	}
	return nil
}

func (s *bookService) Create(ctx context.Context, b *models.Book) error {
	if err := validateCopies(b); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, b); err != nil {
		if repository.IsUniqueViolation(err) {
			return ErrISBNInUse
		}
		return err
	}
	return nil
}

func (s *bookService) Update(ctx context.Context, id int64, b *models.Book) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := validateCopies(b); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, b); err != nil {
		if repository.IsUniqueViolation(err) {
			return ErrISBNInUse
		}
		return err
	}
	return nil
}

// Delete removes the book and cascades its borrow records. Administrative
// operation, no soft delete.
func (s *bookService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}
	return nil
}
