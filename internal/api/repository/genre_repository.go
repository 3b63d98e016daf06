package repository

import (
	"context"
	"fmt"

	"libraryhub/internal/api/models"

	"gorm.io/gorm"
)

type GenreRepo struct {
	db *gorm.DB
}

func NewGenreRepo(db *gorm.DB) *GenreRepo {
	return &GenreRepo{db: db}
}

func (r *GenreRepo) GetAll(ctx context.Context) ([]models.Genre, error) {
	var list []models.Genre
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get genres: %w", err)
	}
	return list, nil
}

func (r *GenreRepo) GetByID(ctx context.Context, id int64) (*models.Genre, error) {
	var g models.Genre
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GenreRepo) Create(ctx context.Context, g *models.Genre) error {
	if err := r.db.WithContext(ctx).Create(g).Error; err != nil {
		return fmt.Errorf("create genre: %w", err)
	}
	return nil
}

func (r *GenreRepo) Update(ctx context.Context, id int64, g *models.Genre) error {
	g.ID = id
	if err := r.db.WithContext(ctx).Save(g).Error; err != nil {
		return fmt.Errorf("update genre: %w", err)
	}
	return nil
}

// Delete removes the genre; its books (and their borrow records) go with it
// through the ON DELETE CASCADE constraints.
func (r *GenreRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Genre{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete genre: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetBooksByGenre returns books filed under the given genre.
func (r *GenreRepo) GetBooksByGenre(ctx context.Context, genreID int64) ([]models.Book, error) {
	var list []models.Book
	if err := r.db.WithContext(ctx).
		Where("genre_id = ?", genreID).
		Order("created_at desc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get books by genre: %w", err)
	}
	return list, nil
}
