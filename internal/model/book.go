package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Book struct {
	ID              string    `gorm:"type:uuid;primaryKey"`
	Title           string    `gorm:"not null;check:chk_books_title,title <> ''"`
	Author          string    `gorm:"not null;check:chk_books_author,author <> ''"`
	PublicationYear *int      `gorm:"check:chk_books_publication_year,publication_year >= 1000"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null;index"`
}

func (b *Book) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return
}

// Normalize strips surrounding whitespace from the text fields.
func (b *Book) Normalize() {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
}

// BookPatch carries the fields of a partial update. Nil pointers and an
// unset Year leave the stored value untouched.
type BookPatch struct {
	Title           *string
	Author          *string
	PublicationYear Year
}

func (p BookPatch) Empty() bool {
	return p.Title == nil && p.Author == nil && !p.PublicationYear.Set
}

// Apply merges the supplied fields into b and normalizes the result.
func (p BookPatch) Apply(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.PublicationYear.Set {
		b.PublicationYear = p.PublicationYear.Int()
	}
	b.Normalize()
}

// NextUpdateTime returns the timestamp to store for a write that follows prev.
// Stores keep microseconds, so the result is truncated and always after prev.
func NextUpdateTime(prev, now time.Time) time.Time {
	next := now.UTC().Truncate(time.Microsecond)
	if !next.After(prev) {
		next = prev.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	}
	return next
}
