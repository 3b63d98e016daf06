package service

import (
	"context"
	"errors"

	"libraryhub/internal/api/models"
	"libraryhub/internal/api/repository"

	"gorm.io/gorm"
)

var (
	ErrGenreNotFound  = errors.New("genre not found")
	ErrGenreNameInUse = errors.New("genre name already in use")
)

type GenreService interface {
	GetAll(ctx context.Context) ([]models.Genre, error)
	GetByID(ctx context.Context, id int64) (*models.Genre, error)
	Create(ctx context.Context, g *models.Genre) error
	Update(ctx context.Context, id int64, g *models.Genre) error
	Delete(ctx context.Context, id int64) error
	GetBooksByGenre(ctx context.Context, genreID int64) ([]models.Book, error)
}

type genreService struct {
	repo *repository.GenreRepo
}

func NewGenreService(repo *repository.GenreRepo) GenreService {
	return &genreService{repo: repo}
}

func (s *genreService) GetAll(ctx context.Context) ([]models.Genre, error) {
	return s.repo.GetAll(ctx)
}

func (s *genreService) GetByID(ctx context.Context, id int64) (*models.Genre, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGenreNotFound
		}
		return nil, err
	}
	return g, nil
}

func (s *genreService) Create(ctx context.Context, g *models.Genre) error {
	if err := s.repo.Create(ctx, g); err != nil {
		if repository.IsUniqueViolation(err) {
			return ErrGenreNameInUse
		}
		return err
	}
	return nil
}

func (s *genreService) Update(ctx context.Context, id int64, g *models.Genre) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, g); err != nil {
		if repository.IsUniqueViolation(err) {
			return ErrGenreNameInUse
		}
		return err
	}
	return nil
}

// Delete removes the genre and, through the cascade constraints, its books
// and their borrow records. Administrative operation, no soft delete.
func (s *genreService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGenreNotFound
		}
		return err
	}
	return nil
}

func (s *genreService) GetBooksByGenre(ctx context.Context, genreID int64) ([]models.Book, error) {
	if _, err := s.GetByID(ctx, genreID); err != nil {
		return nil, err
	}
	return s.repo.GetBooksByGenre(ctx, genreID)
}
