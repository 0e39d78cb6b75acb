package signature

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateParameter: one overload lists the same parameter twice.
	ErrDuplicateParameter = errors.New("duplicate parameter in overload")
	// ErrAmbiguousOrder: overloads disagree on the relative order of parameters.
	ErrAmbiguousOrder = errors.New("ambiguous parameter order")
)

// StructuralError describes why an overload set cannot be compacted.
type StructuralError struct {
	Err      error   // ErrDuplicateParameter or ErrAmbiguousOrder
	Overload int     // index of the offending overload, -1 when several are involved
	Params   []Param // parameters involved
}

func (e *StructuralError) Error() string {
	names := make([]string, len(e.Params))
	for i, p := range e.Params {
		names[i] = "'" + p.String() + "'"
	}
	if e.Overload >= 0 {
		return fmt.Sprintf("%v: %s in overload %d", e.Err, strings.Join(names, ", "), e.Overload+1)
	}
	return fmt.Sprintf("%v: %s", e.Err, strings.Join(names, ", "))
}

func (e *StructuralError) Unwrap() error { return e.Err }
