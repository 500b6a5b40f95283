package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hramlk99k/library-api/internal/model"
	"github.com/hramlk99k/library-api/internal/repository"
	"gorm.io/gorm"
)

type fakeBookRepo struct {
	CreateFn   func(ctx context.Context, b *model.Book) error
	ListFn     func(ctx context.Context) ([]model.Book, error)
	FindByIDFn func(ctx context.Context, id string) (*model.Book, error)
	UpdateFn   func(ctx context.Context, b *model.Book) (*model.Book, error)
	DeleteFn   func(ctx context.Context, id string) error
	PingFn     func(ctx context.Context) error
}

func (f *fakeBookRepo) Create(ctx context.Context, b *model.Book) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, b)
	}
	return nil
}

func (f *fakeBookRepo) List(ctx context.Context) ([]model.Book, error) {
	if f.ListFn != nil {
		return f.ListFn(ctx)
	}
	return nil, nil
}

func (f *fakeBookRepo) FindByID(ctx context.Context, id string) (*model.Book, error) {
	if f.FindByIDFn != nil {
		return f.FindByIDFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (f *fakeBookRepo) Update(ctx context.Context, b *model.Book) (*model.Book, error) {
	if f.UpdateFn != nil {
		return f.UpdateFn(ctx, b)
	}
	return b, nil
}

func (f *fakeBookRepo) Delete(ctx context.Context, id string) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	return nil
}

func (f *fakeBookRepo) Ping(ctx context.Context) error {
	if f.PingFn != nil {
		return f.PingFn(ctx)
	}
	return nil
}

func setupBookRouterWithRepo(bookRepo repository.BookRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	h := NewBookHandler(bookRepo)
	h.RegisterRoutes(r.Group("/api"))

	return r
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	return setupBookRouterWithRepo(repository.NewGormBookRepository(db))
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to unmarshal response %q: %v", w.Body.String(), err)
	}
	return v
}
