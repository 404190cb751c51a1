package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/kutbudev/todolists/internal/models"
)

// Remote is the durable store of lists and items. Every call is a single
// round trip and may fail independently of the others.
type Remote interface {
	LoadAll(ctx context.Context) (*models.Snapshot, error)

	CreateList(ctx context.Context, title string) (int, error)
	UpdateList(ctx context.Context, id int, title string) error
	DeleteList(ctx context.Context, id int) error

	CreateItem(ctx context.Context, listID int, title string, priority models.Priority, color models.Color) (int, error)
	UpdateItem(ctx context.Context, id int, title string, done bool) error
	UpdateItemDetails(ctx context.Context, id int, details models.ItemDetails) error
	SoftDeleteItem(ctx context.Context, id int) error
	DeleteItem(ctx context.Context, id int) error
}

// Kind classifies a remote failure.
type Kind int

const (
	TransientNetworkFailure Kind = iota
	NotFound
	ValidationFailed
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case ValidationFailed:
		return "validation failed"
	default:
		return "transient network failure"
	}
}

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrTransient  = errors.New("transient network failure")
)

// Error is a failed remote operation.
type Error struct {
	Kind    Kind
	Op      string
	Field   string // set for ValidationFailed when the store names the field
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match the kind sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == NotFound
	case ErrValidation:
		return e.Kind == ValidationFailed
	case ErrTransient:
		return e.Kind == TransientNetworkFailure
	}
	return false
}

// KindOf returns the kind of err. Errors that did not come from the store
// are treated as transient.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return NotFound
	case errors.Is(err, ErrValidation):
		return ValidationFailed
	}
	return TransientNetworkFailure
}

// Validation builds a ValidationFailed error for field.
func Validation(op, field, message string) *Error {
	return &Error{Kind: ValidationFailed, Op: op, Field: field, Message: message}
}

// Missing builds a NotFound error for an entity id.
func Missing(op, entity string, id int) *Error {
	return &Error{Kind: NotFound, Op: op, Message: fmt.Sprintf("%s (%d) was not found", entity, id)}
}
