package session

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation did not produce its result.
type Kind int

const (
	KindNone Kind = iota
	// the engine failed to load at start
	KindEngineUnavailable
	// a required input was empty or absent
	KindMissingInput
	// recognition produced no usable text
	KindNotUnderstood
	// an engine or file operation failed during the call
	KindEngineFailure
)

func (k Kind) String() string {
	switch k {
	case KindEngineUnavailable:
		return "engine_unavailable"
	case KindMissingInput:
		return "missing_input"
	case KindNotUnderstood:
		return "not_understood"
	case KindEngineFailure:
		return "engine_failure"
	default:
		return "none"
	}
}

var (
	ErrNoSynthesizer = errors.New("tts engine is not loaded")
	ErrNoRecognizer  = errors.New("stt engine is not loaded")
	ErrMissingAudio  = errors.New("audio is missing")
	ErrNotUnderstood = errors.New("speech was not understood")
)

// Error is the failure of one session operation.
type Error struct {
	Op   Op
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s; %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, KindNone for nil and KindEngineFailure for
// errors that did not come from a session operation.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Kind
	}
	return KindEngineFailure
}
