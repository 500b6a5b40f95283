package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hramlk99k/library-api/internal/model"
	"github.com/hramlk99k/library-api/internal/repository"
	"github.com/hramlk99k/library-api/internal/validation"
)

type BookHandler struct {
	repo repository.BookRepository
}

func NewBookHandler(repo repository.BookRepository) *BookHandler {
	return &BookHandler{repo: repo}
}

func (h *BookHandler) RegisterRoutes(r *gin.RouterGroup) {
	books := r.Group("/books")
	{
		books.GET("", h.ListBooks)
		books.POST("", h.CreateBook)
		books.PATCH("/:id", h.UpdateBook)
		books.DELETE("/:id", h.DeleteBook)
	}
}

// CreateBook godoc
// @Summary      Create a book
// @Description  Create a new book with title, author and optional publication year
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        payload  body      CreateBookRequest          true  "Book to create"
// @Success      201      {object}  Book
// @Failure      400      {object}  validation.ErrorResponse   "Validation error"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	book := req.toModel()
	if !validateBook(c, book) {
		return
	}

	if err := h.repo.Create(c.Request.Context(), &book); err != nil {
		if errors.Is(err, repository.ErrConstraint) {
			writeError(c, http.StatusBadRequest,
				"BOOK_REJECTED",
				err.Error(),
			)
			return
		}

		writeFault(c, http.StatusInternalServerError,
			"BOOK_CREATE_FAILED",
			"failed to create book",
			err,
		)
		return
	}

	c.JSON(http.StatusCreated, toBookResponse(book))
}

// ListBooks godoc
// @Summary      List books
// @Description  Get all books sorted by title
// @Tags         books
// @Produce      json
// @Success      200  {array}   Book
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	books, err := h.repo.List(c.Request.Context())
	if err != nil {
		writeFault(c, http.StatusInternalServerError,
			"BOOK_LIST_FAILED",
			"failed to fetch books",
			err,
		)
		return
	}

	c.JSON(http.StatusOK, toListBooksResponse(books))
}

// UpdateBook godoc
// @Summary      Update a book
// @Description  Partially update a book; omitted fields keep their values
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Book ID"
// @Param        payload  body      UpdateBookRequest   true  "Fields to update"
// @Success      200      {object}  Book
// @Failure      400      {object}  validation.ErrorResponse   "Invalid payload"
// @Failure      404      {object}  validation.ErrorResponse   "Book not found"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/{id} [patch]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	ctx := c.Request.Context()

	book, err := h.repo.FindByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(c, http.StatusNotFound,
				"BOOK_NOT_FOUND",
				"book not found",
			)
			return
		}

		writeFault(c, http.StatusInternalServerError,
			"BOOK_FETCH_FAILED",
			"failed to fetch book",
			err,
		)
		return
	}

	var req UpdateBookRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	req.toPatch().Apply(book)
	if !validateBook(c, *book) {
		return
	}

	updated, err := h.repo.Update(ctx, book)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(c, http.StatusNotFound,
				"BOOK_NOT_FOUND",
				"book not found",
			)
		case errors.Is(err, repository.ErrConstraint):
			writeError(c, http.StatusBadRequest,
				"BOOK_REJECTED",
				err.Error(),
			)
		default:
			writeFault(c, http.StatusInternalServerError,
				"BOOK_UPDATE_FAILED",
				"failed to update book",
				err,
			)
		}
		return
	}

	c.JSON(http.StatusOK, toBookResponse(*updated))
}

// DeleteBook godoc
// @Summary      Delete a book
// @Description  Delete a book by its ID
// @Tags         books
// @Produce      json
// @Param        id   path      string  true  "Book ID"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  validation.ErrorResponse   "Book not found"
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(c, http.StatusNotFound,
				"BOOK_NOT_FOUND",
				"book not found",
			)
			return
		}

		writeFault(c, http.StatusInternalServerError,
			"BOOK_DELETE_FAILED",
			"failed to delete book",
			err,
		)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "book deleted"})
}

func validateBook(c *gin.Context, book model.Book) bool {
	err := validation.ValidateBook(book)
	if err == nil {
		return true
	}

	var verr *validation.Error
	if errors.As(err, &verr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, verr.Response())
		return false
	}

	writeFault(c, http.StatusInternalServerError,
		"VALIDATION_ERROR",
		"failed to validate book",
		err,
	)
	return false
}
