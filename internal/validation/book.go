package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hramlk99k/library-api/internal/model"
)

const MinPublicationYear = 1000

// now is swapped in tests that pin the current year.
var now = time.Now

// Error is returned when a book violates its field rules. Fields are listed
// in declaration order: title, author, publicationYear.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *Error) Response() ErrorResponse {
	return ErrorResponse{
		Code:    "VALIDATION_FAILED",
		Message: e.Error(),
		Errors:  e.Fields,
	}
}

type bookRules struct {
	Title           string `json:"title" binding:"required,notblank"`
	Author          string `json:"author" binding:"required,notblank"`
	PublicationYear *int   `json:"publicationYear" binding:"omitempty,pubyear"`
}

// ValidateBook checks a complete record, which for updates is the record
// after the patch has been merged.
func ValidateBook(b model.Book) error {
	rules := bookRules{
		Title:           b.Title,
		Author:          b.Author,
		PublicationYear: b.PublicationYear,
	}

	err := Engine().Struct(rules)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	return newError(verrs)
}

func CurrentYear() int {
	return now().Year()
}

func newError(verrs validator.ValidationErrors) *Error {
	fields := make([]FieldError, 0, len(verrs))

	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: buildMessage(fe.Field(), fe),
		})
	}

	return &Error{Fields: fields}
}

func buildMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "notblank":
		return field + " must not be blank"
	case "pubyear":
		return fmt.Sprintf("%s must be between %d and %d", field, MinPublicationYear, CurrentYear())
	}

	return field + " is invalid (" + fe.Tag() + ")"
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func publicationYear(fl validator.FieldLevel) bool {
	y := fl.Field().Int()
	return y >= MinPublicationYear && y <= int64(CurrentYear())
}
