package parser

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyMarkup is wrapped in a ParseError when there is nothing to parse.
var ErrEmptyMarkup = errors.New("empty markup")

// ParseError reports that the native markup parser rejected the input.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "html parse error: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// TimeoutError reports that building the tree exceeded its time budget.
// No partial tree accompanies it.
type TimeoutError struct {
	Elapsed time.Duration
	Limit   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("parse timed out after %v (limit %v)", e.Elapsed.Round(time.Millisecond), e.Limit)
}

// NodeLimitError reports that the input holds more nodes than allowed.
type NodeLimitError struct {
	Limit int
}

func (e *NodeLimitError) Error() string {
	return fmt.Sprintf("markup exceeds %d nodes", e.Limit)
}
