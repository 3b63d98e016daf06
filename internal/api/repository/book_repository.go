package repository

import (
	"context"
	"fmt"
	"strings"

	"libraryhub/internal/api/models"

	"gorm.io/gorm"
)

// BookFilter narrows down List results. Zero values mean "no filter".
type BookFilter struct {
	Query   string // substring match on title/author
	GenreID *int64
}

type BookRepo struct {
	db *gorm.DB
}

func NewBookRepo(db *gorm.DB) *BookRepo {
	return &BookRepo{db: db}
}

func (r *BookRepo) GetAll(ctx context.Context, filter BookFilter, page, pageSize int) ([]models.Book, int64, error) {
	db := r.db.WithContext(ctx).Model(&models.Book{})

	// tokenized case-insensitive search on title and author, every token
	// must appear in at least one of the fields
	for _, t := range strings.Fields(filter.Query) {
		p := "%" + t + "%"
		db = db.Where("(title ILIKE ? OR author ILIKE ?)", p, p)
	}
	if filter.GenreID != nil {
		db = db.Where("genre_id = ?", *filter.GenreID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	offset := (page - 1) * pageSize
	var list []models.Book
	if err := db.
		Preload("Genre").
		Order("created_at desc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	return list, total, nil
}

func (r *BookRepo) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).Preload("Genre").First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookRepo) Create(ctx context.Context, b *models.Book) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

func (r *BookRepo) Update(ctx context.Context, id int64, b *models.Book) error {
	b.ID = id
	if err := r.db.WithContext(ctx).Save(b).Error; err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

// Delete removes the book; dependent borrow records are cascade-deleted by
// the FK constraint.
func (r *BookRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Book{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
