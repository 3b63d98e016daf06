package dto

import "libraryhub/internal/api/models"

// CreateGenreDTO used for POST /genres
type CreateGenreDTO struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description,omitempty"`
}

// UpdateGenreDTO used for PUT /genres/:id (partial updates allowed)
type UpdateGenreDTO struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (d CreateGenreDTO) ToModel() models.Genre {
	return models.Genre{
		Name:        d.Name,
		Description: d.Description,
	}
}

func (d UpdateGenreDTO) ApplyTo(g *models.Genre) {
	if d.Name != nil {
		g.Name = *d.Name
	}
	if d.Description != nil {
		g.Description = d.Description
	}
}
