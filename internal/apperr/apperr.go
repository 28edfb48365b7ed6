// Package apperr defines the failure classes of the split pipeline so that
// shells can react to each class without matching on message text.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	// KindUnknown is reported for errors that did not originate in the pipeline.
	KindUnknown Kind = iota
	// KindInput covers malformed, empty or ragged CSV input and bad upload names.
	KindInput
	// KindConfig covers invalid settings such as a non-positive chunk size.
	KindConfig
	// KindSerialization covers values that cannot be written back out as CSV.
	KindSerialization
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindConfig:
		return "config"
	case KindSerialization:
		return "serialization"
	default:
		return "unknown"
	}
}

// Error is the typed failure returned by every pipeline stage.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	if e.Op == "" {
		return fmt.Sprintf("%s error: %s", e.Kind, msg)
	}
	return fmt.Sprintf("%s: %s error: %s", e.Op, e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so errors.Is(err, apperr.Input)
// works for any input failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	Input         = &Error{Kind: KindInput}
	Config        = &Error{Kind: KindConfig}
	Serialization = &Error{Kind: KindSerialization}
)

func Inputf(op, format string, args ...any) error {
	return &Error{Kind: KindInput, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func Configf(op, format string, args ...any) error {
	return &Error{Kind: KindConfig, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func Serializationf(op, format string, args ...any) error {
	return &Error{Kind: KindSerialization, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to err. A nil err returns nil.
func Wrap(kind Kind, op, msg string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
