package pointmass

import (
	"errors"
	"fmt"
	"log/slog"
)

// Kind categorizes core errors.
type Kind string

const (
	// KindInvalidArgument covers non-finite or negative amounts, bad points,
	// nil elements, and targets below the source total.
	KindInvalidArgument Kind = "INVALID_ARGUMENT"

	// KindDivisionByZero covers centres of gravity of zero-total bodies and
	// corrector solves with no remaining amount to place.
	KindDivisionByZero Kind = "DIVISION_BY_ZERO"
)

// Error is returned by every failing operation in this package.
type Error struct {
	Kind    Kind
	Op      string // "new", "add", "collection", "cg", "corrector"
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
}

// IsInvalidArgument returns true if err is an invalid argument error.
// Uses errors.As to handle wrapped errors.
func IsInvalidArgument(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind == KindInvalidArgument
	}
	return false
}

// IsDivisionByZero returns true if err is a division by zero error.
func IsDivisionByZero(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind == KindDivisionByZero
	}
	return false
}

// Observer is notified of each error before it is returned.
type Observer func(*Error)

// LogObserver returns an Observer that logs errors at error level.
func LogObserver(logger *slog.Logger) Observer {
	return func(e *Error) {
		logger.Error(e.Message, "op", e.Op, "kind", string(e.Kind))
	}
}

func (s *settings) fail(kind Kind, op, format string, args ...any) *Error {
	err := &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
	if s.observer != nil {
		s.observer(err)
	}
	return err
}

// Chain returns an Observer that calls each non-nil observer in order.
func Chain(observers ...Observer) Observer {
	return func(e *Error) {
		for _, o := range observers {
			if o != nil {
				o(e)
			}
		}
	}
}
