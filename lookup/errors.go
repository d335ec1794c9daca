// Package lookup resolves member names against a type and its base types.
// It applies hiding, override folding, generic substitution and
// accessibility the way a C#-like compiler does during member access and
// before overload resolution.
package lookup

import (
	"errors"
	"fmt"
)

// ErrInvalidInput indicates a call that violates the lookup contract, such
// as an empty name or a nil target type. It is never returned for members
// that simply do not exist.
var ErrInvalidInput = errors.New("lookup: invalid input")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
