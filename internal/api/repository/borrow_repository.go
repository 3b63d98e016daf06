package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"libraryhub/internal/api/models"

	"gorm.io/gorm"
)

var (
	// ErrNoAvailableCopies is returned by CreateBorrow when the conditional
	// decrement matches no row, i.e. available_copies was already 0.
	ErrNoAvailableCopies = errors.New("no available copies")

	// ErrNoTransition is returned when a guarded status update matches no
	// row, i.e. another request already moved the record out of the
	// expected state.
	ErrNoTransition = errors.New("record not in expected state")
)

// BorrowRepository persists borrow records. The copy-count mutation and the
// paired record mutation always run in a single transaction so the book
// invariant (0 <= available <= total) holds at every observable point.
type BorrowRepository interface {
	GetByID(ctx context.Context, id int64) (*models.BorrowRecord, error)
	List(ctx context.Context) ([]models.BorrowRecord, error)
	ListByMember(ctx context.Context, memberID string) ([]models.BorrowRecord, error)
	ListByStatus(ctx context.Context, status string) ([]models.BorrowRecord, error)
	CreateBorrow(ctx context.Context, rec *models.BorrowRecord) error
	MarkReturned(ctx context.Context, id int64, returnDate time.Time) error
	MarkOverdue(ctx context.Context, id int64) error
}

type borrowRepository struct {
	db *gorm.DB
}

func NewBorrowRepository(db *gorm.DB) BorrowRepository {
	return &borrowRepository{db: db}
}

func (r *borrowRepository) GetByID(ctx context.Context, id int64) (*models.BorrowRecord, error) {
	var rec models.BorrowRecord
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("Member").
		First(&rec, id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *borrowRepository) List(ctx context.Context) ([]models.BorrowRecord, error) {
	var list []models.BorrowRecord
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Order("borrow_date desc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list borrow records: %w", err)
	}
	return list, nil
}

func (r *borrowRepository) ListByMember(ctx context.Context, memberID string) ([]models.BorrowRecord, error) {
	var list []models.BorrowRecord
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("member_id = ?", memberID).
		Order("borrow_date desc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list borrow records by member: %w", err)
	}
	return list, nil
}

func (r *borrowRepository) ListByStatus(ctx context.Context, status string) ([]models.BorrowRecord, error) {
	var list []models.BorrowRecord
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("status = ?", status).
		Order("due_date asc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list borrow records by status: %w", err)
	}
	return list, nil
}

// CreateBorrow decrements the book's available copies and creates the record
// in one transaction. The decrement is conditional on available_copies > 0,
// which serializes concurrent borrows of the last copy: exactly one of them
// matches the row, the rest get ErrNoAvailableCopies.
func (r *borrowRepository) CreateBorrow(ctx context.Context, rec *models.BorrowRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Book{}).
			Where("id = ? AND available_copies > 0", rec.BookID).
			UpdateColumn("available_copies", gorm.Expr("available_copies - 1"))
		if result.Error != nil {
			return fmt.Errorf("decrement available copies: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNoAvailableCopies
		}
		if err := tx.Create(rec).Error; err != nil {
			return fmt.Errorf("create borrow record: %w", err)
		}
		return nil
	})
}

// MarkReturned moves a BORROWED or OVERDUE record to RETURNED and gives the
// copy back to the book, atomically. The status guard in the WHERE clause
// makes the transition race-safe: a second concurrent return matches no row
// and the copy count is incremented at most once.
func (r *borrowRepository) MarkReturned(ctx context.Context, id int64, returnDate time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec models.BorrowRecord
		if err := tx.First(&rec, id).Error; err != nil {
			return err
		}

		result := tx.Model(&models.BorrowRecord{}).
			Where("id = ? AND status IN ?", id, []string{models.StatusBorrowed, models.StatusOverdue}).
			Updates(map[string]interface{}{
				"status":      models.StatusReturned,
				"return_date": returnDate,
			})
		if result.Error != nil {
			return fmt.Errorf("mark returned: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNoTransition
		}

		// available_copies < total_copies guard keeps the invariant even if
		// the book row was edited administratively in between
		if err := tx.Model(&models.Book{}).
			Where("id = ? AND available_copies < total_copies", rec.BookID).
			UpdateColumn("available_copies", gorm.Expr("available_copies + 1")).Error; err != nil {
			return fmt.Errorf("increment available copies: %w", err)
		}
		return nil
	})
}

// MarkOverdue flips a BORROWED record to OVERDUE. No copy count changes.
func (r *borrowRepository) MarkOverdue(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Model(&models.BorrowRecord{}).
		Where("id = ? AND status = ?", id, models.StatusBorrowed).
		Update("status", models.StatusOverdue)
	if result.Error != nil {
		return fmt.Errorf("mark overdue: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNoTransition
	}
	return nil
}
