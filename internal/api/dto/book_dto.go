package dto

import (
	"time"

	"libraryhub/internal/api/models"
)

// CreateBookDTO used for POST /books
type CreateBookDTO struct {
	Title           string `json:"title" binding:"required,max=200"`
	Author          string `json:"author" binding:"required,max=100"`
	GenreID         *int64 `json:"genre_id,omitempty"`
	ISBN            string `json:"isbn" binding:"required,max=20"`
	TotalCopies     int    `json:"total_copies" binding:"min=0"`
	AvailableCopies int    `json:"available_copies" binding:"min=0"`
}

// UpdateBookDTO used for PUT /books/:id (partial updates allowed)
type UpdateBookDTO struct {
	Title           *string `json:"title,omitempty"`
	Author          *string `json:"author,omitempty"`
	GenreID         *int64  `json:"genre_id,omitempty"`
	ISBN            *string `json:"isbn,omitempty"`
	TotalCopies     *int    `json:"total_copies,omitempty"`
	AvailableCopies *int    `json:"available_copies,omitempty"`
}

// BookResponse DTO for responses
type BookResponse struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	GenreID         *int64    `json:"genre_id,omitempty"`
	GenreName       *string   `json:"genre_name,omitempty"`
	ISBN            string    `json:"isbn"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BookListResponse wraps a paginated book listing.
type BookListResponse struct {
	Data       []BookResponse `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// Converters
func (d CreateBookDTO) ToModel() models.Book {
	return models.Book{
		Title:           d.Title,
		Author:          d.Author,
		GenreID:         d.GenreID,
		ISBN:            d.ISBN,
		TotalCopies:     d.TotalCopies,
		AvailableCopies: d.AvailableCopies,
	}
}

func (d UpdateBookDTO) ApplyTo(b *models.Book) {
	if d.Title != nil {
		b.Title = *d.Title
	}
	if d.Author != nil {
		b.Author = *d.Author
	}
	if d.GenreID != nil {
		b.GenreID = d.GenreID
	}
	if d.ISBN != nil {
		b.ISBN = *d.ISBN
	}
	if d.TotalCopies != nil {
		b.TotalCopies = *d.TotalCopies
	}
	if d.AvailableCopies != nil {
		b.AvailableCopies = *d.AvailableCopies
	}
}

func FromBookModel(b models.Book) BookResponse {
	resp := BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		GenreID:         b.GenreID,
		ISBN:            b.ISBN,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if b.Genre != nil {
		resp.GenreName = &b.Genre.Name
	}
	return resp
}
