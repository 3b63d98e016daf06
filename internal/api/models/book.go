package models

import "time"

// Book represents one title in the catalog. AvailableCopies only moves
// through the borrow ledger (borrow -1, return +1); create/update validate
// 0 <= available_copies <= total_copies before persisting.
type Book struct {
	ID              int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title           string    `json:"title" gorm:"not null;size:200"`
	Author          string    `json:"author" gorm:"not null;size:100"`
	GenreID         *int64    `json:"genre_id,omitempty" gorm:"index"`
	ISBN            string    `json:"isbn" gorm:"uniqueIndex;not null;size:20"`
	TotalCopies     int       `json:"total_copies" gorm:"not null;check:total_copies >= 0"`
	AvailableCopies int       `json:"available_copies" gorm:"not null;check:available_copies >= 0 AND available_copies <= total_copies"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Genre *Genre `json:"genre,omitempty" gorm:"foreignKey:GenreID;constraint:OnDelete:CASCADE;"`
}

func (Book) TableName() string {
	return "books"
}

// IsAvailable reports whether at least one copy can be borrowed.
func (b *Book) IsAvailable() bool {
	return b.AvailableCopies > 0
}
