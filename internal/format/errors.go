package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes a structure requires
	// or declares for itself.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrMalformedRecord indicates a declared length smaller than its own
	// mandatory prefix, or record offsets that go backwards.
	ErrMalformedRecord = errors.New("format: malformed record")
	// ErrRecordNotFound indicates a record ID outside the record table or one
	// that resolves to an empty region.
	ErrRecordNotFound = errors.New("format: record not found")
	// ErrUnsupported indicates a recognized field value this package cannot handle.
	ErrUnsupported = errors.New("format: unsupported feature")
)
