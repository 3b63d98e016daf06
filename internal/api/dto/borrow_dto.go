package dto

import (
	"time"

	"libraryhub/internal/api/models"
)

// CreateBorrowDTO used for POST /borrow-records. Members may only borrow for
// themselves; member_id is optional for them and defaults to the caller.
// Dates are optional, the ledger fills in today / today + loan period.
type CreateBorrowDTO struct {
	BookID     int64      `json:"book_id" binding:"required"`
	MemberID   string     `json:"member_id,omitempty"`
	BorrowDate *time.Time `json:"borrow_date,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
}

// BorrowRecordResponse DTO for responses
type BorrowRecordResponse struct {
	ID         int64      `json:"id"`
	BookID     int64      `json:"book_id"`
	BookTitle  *string    `json:"book_title,omitempty"`
	MemberID   string     `json:"member_id"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Status     string     `json:"status"`
}

// BorrowRecordListResponse wraps a record listing.
type BorrowRecordListResponse struct {
	Items []BorrowRecordResponse `json:"items"`
	Total int                    `json:"total"`
}

func FromBorrowRecordModel(rec models.BorrowRecord) BorrowRecordResponse {
	resp := BorrowRecordResponse{
		ID:         rec.ID,
		BookID:     rec.BookID,
		MemberID:   rec.MemberID,
		BorrowDate: rec.BorrowDate,
		DueDate:    rec.DueDate,
		ReturnDate: rec.ReturnDate,
		Status:     rec.Status,
	}
	if rec.Book != nil {
		resp.BookTitle = &rec.Book.Title
	}
	return resp
}

func FromBorrowRecordModels(recs []models.BorrowRecord) BorrowRecordListResponse {
	items := make([]BorrowRecordResponse, 0, len(recs))
	for _, rec := range recs {
		items = append(items, FromBorrowRecordModel(rec))
	}
	return BorrowRecordListResponse{Items: items, Total: len(items)}
}
