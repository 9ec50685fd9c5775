package sentiment

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidUTF8 = errors.New("invalid UTF-8 encoding")
	ErrNoScorer    = errors.New("no scorer configured")
)

// ReadError reports that the input source could not be read or decoded.
// Line is 1-based and zero when the failure is not tied to a line.
type ReadError struct {
	Line int
	Err  error
}

func (e *ReadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return e.Err.Error()
}

func (e *ReadError) Unwrap() error { return e.Err }

// ScoringError reports that the scorer failed on a line.
type ScoringError struct {
	Line int
	Err  error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring line %d: %v", e.Line, e.Err)
}

func (e *ScoringError) Unwrap() error { return e.Err }
