package repository

import (
	"context"
	"errors"

	"github.com/hramlk99k/library-api/internal/model"
)

var (
	// ErrNotFound means the identifier does not resolve to a stored book.
	ErrNotFound = errors.New("book not found")
	// ErrConstraint means the store itself rejected a write because of a
	// schema rule.
	ErrConstraint = errors.New("rejected by store constraint")
)

// BookRepository is the persistence contract for books. Every method touches
// a single record atomically; ids are opaque strings minted by the store.
type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	List(ctx context.Context) ([]model.Book, error)
	FindByID(ctx context.Context, id string) (*model.Book, error)
	Update(ctx context.Context, book *model.Book) (*model.Book, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
