package main

import (
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"

	"libraryhub/database"
	"libraryhub/internal/api/models"
	"libraryhub/internal/config"

	"gorm.io/gorm"
)

// Structures matching the seed JSON file
type seedData struct {
	Genres []seedGenre `json:"genres"`
	Books  []seedBook  `json:"books"`
}

type seedGenre struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type seedBook struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre,omitempty"`
	ISBN        string `json:"isbn"`
	TotalCopies int    `json:"total_copies"`
}

// Loads a JSON catalog of genres and books into the database, for demos and
// local fixtures. Existing genres (by name) and books (by ISBN) are skipped.
func main() {
	log.Println("Starting catalog seed...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer database.Close(db)

	jsonFile := "seed_catalog.json"
	if len(os.Args) > 1 {
		jsonFile = os.Args[1]
	}

	log.Printf("Reading data from %s...", jsonFile)
	data, err := readSeedFile(jsonFile)
	if err != nil {
		log.Fatalf("failed to read seed file: %v", err)
	}
	log.Printf("Loaded %d genres and %d books from JSON", len(data.Genres), len(data.Books))

	genreIDs, genreCount, err := importGenres(db, data.Genres)
	if err != nil {
		log.Fatalf("failed to import genres: %v", err)
	}
	bookCount, err := importBooks(db, data.Books, genreIDs)
	if err != nil {
		log.Fatalf("failed to import books: %v", err)
	}

	log.Printf("Done: %d new genres, %d new books", genreCount, bookCount)
}

func readSeedFile(path string) (*seedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data seedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &data, nil
}

// importGenres creates missing genres and returns a name-to-id map covering
// both new and pre-existing ones.
func importGenres(db *gorm.DB, genres []seedGenre) (map[string]int64, int, error) {
	ids := make(map[string]int64, len(genres))
	created := 0
	for _, g := range genres {
		var existing models.Genre
		err := db.Where("name = ?", g.Name).First(&existing).Error
		if err == nil {
			ids[g.Name] = existing.ID
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return nil, created, err
		}

		genre := models.Genre{Name: g.Name, Description: g.Description}
		if err := db.Create(&genre).Error; err != nil {
			return nil, created, fmt.Errorf("create genre %q: %w", g.Name, err)
		}
		ids[g.Name] = genre.ID
		created++
	}
	return ids, created, nil
}

func importBooks(db *gorm.DB, books []seedBook, genreIDs map[string]int64) (int, error) {
	created := 0
	for _, b := range books {
		var count int64
		if err := db.Model(&models.Book{}).Where("isbn = ?", b.ISBN).Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}

		book := models.Book{
			Title:           b.Title,
			Author:          b.Author,
			ISBN:            b.ISBN,
			TotalCopies:     b.TotalCopies,
			AvailableCopies: b.TotalCopies, // fresh stock, nothing borrowed yet
		}
		if id, ok := genreIDs[b.Genre]; ok {
			book.GenreID = &id
		}
		if err := db.Create(&book).Error; err != nil {
			return created, fmt.Errorf("create book %q: %w", b.Title, err)
		}
		created++
	}
	return created, nil
}
