package survey

import "fmt"

// ParseError reports a malformed timestamp or numeric field. Index is the
// position of the offending feature in the input batch.
type ParseError struct {
	Index int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("feature %d: parse %s %q: %v", e.Index, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("feature %d: parse %s %q", e.Index, e.Field, e.Value)
}

func (e *ParseError) Unwrap() error { return e.Err }

type ValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("feature %d: invalid %s: %s", e.Index, e.Field, e.Reason)
}

// EmptyInputError is returned when there is nothing to compute on. What names
// the empty collection ("records", "stress values").
type EmptyInputError struct {
	What string
}

func (e *EmptyInputError) Error() string {
	return "empty input: no " + e.What
}
