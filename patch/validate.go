package patch

import (
	"errors"
	"fmt"
)

// ErrPathNotAllowed is returned when an operation targets a pointer outside the form.
var ErrPathNotAllowed = errors.New("path is not in the allowed paths set")

// ErrInvalidText is returned when a field value is not valid UTF-8.
var ErrInvalidText = errors.New("value is not valid UTF-8")

func ValidatePatchOperations(ops []Operation, allowedPaths map[string]bool) error {
	for i, op := range ops {
		switch op.Op {
		case OperationAdd, OperationRemove, OperationReplace:
		default:
			return fmt.Errorf("operation %d: unsupported op %q", i, op.Op)
		}
		if len(allowedPaths) > 0 && !allowedPaths[op.Path] {
			return fmt.Errorf("operation %d: %q: %w", i, op.Path, ErrPathNotAllowed)
		}
	}
	return nil
}
