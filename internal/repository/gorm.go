package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hramlk99k/library-api/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

type GormBookRepository struct {
	db *gorm.DB
}

func NewGormBookRepository(db *gorm.DB) *GormBookRepository {
	return &GormBookRepository{db: db}
}

func (r *GormBookRepository) Create(ctx context.Context, book *model.Book) error {
	stamp := model.NextUpdateTime(time.Time{}, time.Now())
	book.CreatedAt = stamp
	book.UpdatedAt = stamp

	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return classifyGormError(err)
	}
	return nil
}

func (r *GormBookRepository) List(ctx context.Context) ([]model.Book, error) {
	var books []model.Book
	if err := r.db.WithContext(ctx).
		Order(r.titleOrder()).
		Order("created_at").
		Find(&books).Error; err != nil {

		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// titleOrder sorts by byte value. Postgres would otherwise use the database
// collation, which is case insensitive under most locales.
func (r *GormBookRepository) titleOrder() string {
	if r.db.Dialector.Name() == "postgres" {
		return `title COLLATE "C"`
	}
	return "title"
}

func (r *GormBookRepository) FindByID(ctx context.Context, id string) (*model.Book, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	var book model.Book
	if err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find book %s: %w", id, err)
	}
	return &book, nil
}

func (r *GormBookRepository) Update(ctx context.Context, book *model.Book) (*model.Book, error) {
	if _, err := uuid.Parse(book.ID); err != nil {
		return nil, ErrNotFound
	}

	stamp := model.NextUpdateTime(book.UpdatedAt, time.Now())

	result := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Where("id = ?", book.ID).
		Updates(map[string]any{
			"title":            book.Title,
			"author":           book.Author,
			"publication_year": book.PublicationYear,
			"updated_at":       stamp,
		})
	if result.Error != nil {
		return nil, classifyGormError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	updated := *book
	updated.UpdatedAt = stamp
	return &updated, nil
}

func (r *GormBookRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}

	result := r.db.WithContext(ctx).Delete(&model.Book{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete book %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormBookRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// classifyGormError turns CHECK and NOT NULL violations into ErrConstraint.
func classifyGormError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23514", "23502":
			detail := pgErr.ConstraintName
			if detail == "" {
				detail = pgErr.Message
			}
			return fmt.Errorf("%w: %s", ErrConstraint, detail)
		}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %s", ErrConstraint, liteErr.Error())
	}

	return fmt.Errorf("write book: %w", err)
}
