package models

import "time"

// BorrowRecord status values. BORROWED is the initial state, RETURNED is
// terminal, OVERDUE can still move to RETURNED.
const (
	StatusBorrowed = "BORROWED"
	StatusReturned = "RETURNED"
	StatusOverdue  = "OVERDUE"
)

// BorrowRecord links a borrowed book to the member who borrowed it.
// Status and ReturnDate are owned by the borrow ledger; clients only choose
// book, member and (optionally) the dates at creation.
type BorrowRecord struct {
	ID         int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	BookID     int64      `json:"book_id" gorm:"not null;index"`
	MemberID   string     `json:"member_id" gorm:"type:uuid;not null;index"`
	BorrowDate time.Time  `json:"borrow_date" gorm:"not null"`
	DueDate    time.Time  `json:"due_date" gorm:"not null"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Status     string     `json:"status" gorm:"default:'BORROWED';not null;size:10;index"`

	// Associations
	Book   *Book `json:"book,omitempty" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;"`
	Member *User `json:"member,omitempty" gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE;"`
}

func (BorrowRecord) TableName() string {
	return "borrow_records"
}
