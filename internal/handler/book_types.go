package handler

import (
	"time"

	"github.com/hramlk99k/library-api/internal/model"
)

type CreateBookRequest struct {
	Title           string     `json:"title" binding:"required,notblank" example:"Dune"`
	Author          string     `json:"author" binding:"required,notblank" example:"Frank Herbert"`
	PublicationYear model.Year `json:"publicationYear" swaggertype:"integer" example:"1965"`
}

func (r CreateBookRequest) toModel() model.Book {
	book := model.Book{
		Title:           r.Title,
		Author:          r.Author,
		PublicationYear: r.PublicationYear.Int(),
	}
	book.Normalize()
	return book
}

type UpdateBookRequest struct {
	Title           model.Text `json:"title" swaggertype:"string" example:"Dune Messiah"`
	Author          model.Text `json:"author" swaggertype:"string" example:"Frank Herbert"`
	PublicationYear model.Year `json:"publicationYear" swaggertype:"integer" example:"1969"`
}

func (r UpdateBookRequest) toPatch() model.BookPatch {
	return model.BookPatch{
		Title:           r.Title.Patch(),
		Author:          r.Author.Patch(),
		PublicationYear: r.PublicationYear,
	}
}

type Book struct {
	ID              string    `json:"id" example:"3f0e7c1a-6f5e-4a39-9a53-5c2b8f1f5b0e"`
	Title           string    `json:"title" example:"Dune"`
	Author          string    `json:"author" example:"Frank Herbert"`
	PublicationYear *int      `json:"publicationYear" example:"1965"`
	CreatedAt       time.Time `json:"createdAt" example:"2025-11-24T10:00:00Z"`
	UpdatedAt       time.Time `json:"updatedAt" example:"2025-11-24T10:00:00Z"`
}

type MessageResponse struct {
	Message string `json:"message" example:"book deleted"`
}

func toBookResponse(b model.Book) Book {
	return Book{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		PublicationYear: b.PublicationYear,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func toListBooksResponse(books []model.Book) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		out = append(out, toBookResponse(b))
	}
	return out
}
