package types

import "fmt"

// InvalidRequestError indicates the caller supplied an unrecognized value
type InvalidRequestError struct {
	Field string
	Value string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: unrecognized %s %q", e.Field, e.Value)
}
