package mobi

import (
	"errors"

	"github.com/joshuapare/mobikit/internal/format"
)

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindTruncated   ErrKind = iota // buffer shorter than a stage requires or declares
	ErrKindMalformed                  // declared length smaller than its own prefix
	ErrKindNotFound                   // record ID outside the table or empty
	ErrKindUnsupported                // recognized value we cannot handle
	ErrKindIO                         // open/map failure in the buffer provider
	ErrKindState                      // invalid operation for current state (e.g., closed)
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindTruncated:
		return "truncated"
	case ErrKindMalformed:
		return "malformed"
	case ErrKindNotFound:
		return "not found"
	case ErrKindUnsupported:
		return "unsupported"
	case ErrKindIO:
		return "io"
	case ErrKindState:
		return "state"
	default:
		return "unknown"
	}
}

// Stage names the decoder that produced an error.
type Stage string

const (
	StagePDB  Stage = "pdb"
	StageMOBI Stage = "mobi"
	StageEXTH Stage = "exth"
)

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind  ErrKind
	Stage Stage // empty outside the decode pipeline
	Msg   string
	Err   error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Msg
	if e.Stage != "" {
		msg = string(e.Stage) + " header: " + msg
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Sentinels commonly returned by this package.
var (
	ErrTruncated       = format.ErrTruncated
	ErrMalformedRecord = format.ErrMalformedRecord
	ErrRecordNotFound  = format.ErrRecordNotFound
	ErrUnsupported     = format.ErrUnsupported

	// ErrClosed indicates the book's buffer was already released.
	ErrClosed = &Error{Kind: ErrKindState, Msg: "book is closed"}
)

// KindOf returns the ErrKind of the first *Error in err's chain.
func KindOf(err error) (ErrKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func wrapIOErr(err error) error {
	return &Error{Kind: ErrKindIO, Msg: "open book", Err: err}
}

func wrapFormatErr(stage Stage, err error) error {
	switch {
	case errors.Is(err, format.ErrTruncated):
		return &Error{Kind: ErrKindTruncated, Stage: stage, Msg: "truncated", Err: err}
	case errors.Is(err, format.ErrMalformedRecord):
		return &Error{Kind: ErrKindMalformed, Stage: stage, Msg: "malformed", Err: err}
	case errors.Is(err, format.ErrRecordNotFound):
		return &Error{Kind: ErrKindNotFound, Stage: stage, Msg: "not found", Err: err}
	case errors.Is(err, format.ErrUnsupported):
		return &Error{Kind: ErrKindUnsupported, Stage: stage, Msg: "unsupported", Err: err}
	default:
		return &Error{Kind: ErrKindMalformed, Stage: stage, Msg: "decode failed", Err: err}
	}
}
