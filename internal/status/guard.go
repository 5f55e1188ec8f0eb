package status

import (
	"fmt"
	"runtime/debug"
)

// PanicError wraps a value recovered from a panic inside a guarded call.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// Guard runs fn and absorbs its failure. Errors and panics are logged with
// label as prefix, mirrored to the sink, and shown to the user when notify
// is set. On failure Guard returns the zero value and false; callers must
// leave their state unchanged.
func Guard[T any](n *Notifier, label string, notify bool, fn func() (T, error)) (result T, ok bool) {
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = &PanicError{Value: r, Stack: debug.Stack()}
			}
		}()
		result, err = fn()
	}()
	if err == nil {
		return result, true
	}

	var zero T
	n.fail(label, err, notify)
	return zero, false
}

func (n *Notifier) fail(label string, err error, notify bool) {
	detailed := label + ": " + err.Error()
	attrs := []any{"error", err}
	if pe, ok := err.(*PanicError); ok {
		attrs = append(attrs, "stack", string(pe.Stack))
	}
	n.log.Error(label, attrs...)

	if notify {
		msg := label
		if n.opts.ShowDetailedErrors {
			msg = detailed
		}
		n.Show(msg, Error, DefaultTimeout)
	}

	n.mu.Lock()
	sink := n.sink
	n.mu.Unlock()
	if sink != nil {
		sink.LogError(err)
	}
}
