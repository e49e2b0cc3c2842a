package tdf

import (
	"errors"

	"github.com/sharedcode/ocaf"
)

// Sentinels wrapped by the ocaf.Error values returned from this package.
var (
	ErrNoTransaction     = errors.New("no open transaction")
	ErrNullLabel         = errors.New("null label")
	ErrDetachedLabel     = errors.New("label is detached from the tree")
	ErrAttributeNotFound = errors.New("attribute not found")
	ErrKindMismatch      = errors.New("attribute kind mismatch")
	ErrInapplicableDelta = errors.New("delta is not applicable")
	ErrAllocation        = errors.New("label allocation failed")
	ErrReleased          = errors.New("data is released")
	ErrInvalidEntry      = errors.New("invalid entry")
	ErrAttributeInUse    = errors.New("attribute belongs to another label")
)

func newError(code ocaf.ErrorCode, err error, userData any) error {
	return ocaf.Error{
		Code:     code,
		Err:      err,
		UserData: userData,
	}
}
