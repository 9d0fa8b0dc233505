package mobi

import (
	"io"
	"log/slog"
)

// OpenOptions controls how a book is loaded and how records are handed out.
type OpenOptions struct {
	// NoMmap reads the whole file into memory instead of mapping it.
	NoMmap bool

	// CopyRecords makes Record return copies. By default returned slices
	// alias the underlying buffer and are only valid until Close.
	CopyRecords bool

	// Logger receives per-stage debug records. Nil discards them.
	Logger *slog.Logger
}

func (o OpenOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
