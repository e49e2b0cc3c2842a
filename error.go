package ocaf

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an Error.
type ErrorCode int

const (
	Unknown ErrorCode = iota
	// NoOpenTransaction is returned when commit or abort is requested with no open transaction.
	NoOpenTransaction
	// NullLabel is returned when an operation is invoked on a null label.
	NullLabel
	// DetachedLabel is returned when a label was removed from the tree by an undo.
	DetachedLabel
	// AttributeNotFound is returned when a requested attribute kind is absent on a label.
	AttributeNotFound
	// KindMismatch is returned when an attribute does not match the kind it is used as.
	KindMismatch
	// InapplicableDelta is returned when a delta does not fit the current document state.
	InapplicableDelta
	// AllocationFailure is returned when the label arena cannot grow.
	AllocationFailure
	// DataReleased is returned when a released document store is used.
	DataReleased
	// UnknownKind is returned when decoding meets an attribute kind that is not registered.
	UnknownKind
	// CommandState is returned when document commands are misused (e.g. open twice).
	CommandState
	// InvalidEntry is returned when an entry string or tag cannot be parsed.
	InvalidEntry
	// AttributeInUse is returned when an attribute already attached to a label is added to another one.
	AttributeInUse
	// FileIOError and the codes after it classify storage failures.
	FileIOError ErrorCode = 77 + iota
	StorageNotFound
	ShardReconstructionFailure
)

// Error is the OCAF custom error.
type Error struct {
	Code     ErrorCode
	Err      error
	UserData any
}

func (e Error) Error() string {
	return fmt.Errorf("error code: %d, user data: %v, details: %w", e.Code, e.UserData, e.Err).Error()
}

// Unwrap exposes the wrapped error so errors.Is/As see through Error.
func (e Error) Unwrap() error {
	return e.Err
}

// IsCode reports whether err is (or wraps) an Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var oe Error
	if errors.As(err, &oe) {
		return oe.Code == code
	}
	return false
}
