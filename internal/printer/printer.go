// Package printer renders decoded MOBI headers for the readmobi CLI.
package printer

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs human-readable text format.
	FormatText Format = "text"

	// FormatJSON outputs a single JSON document.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// NoColor disables styling of section titles (text format only).
	NoColor bool

	// MaxValueBytes limits how many bytes of binary EXTH values to display
	// in text format. Set to 0 for no limit.
	// Default: 32
	MaxValueBytes int
}

const DefaultMaxValueBytes = 32

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:        FormatText,
		MaxValueBytes: DefaultMaxValueBytes,
	}
}

// Printer writes header sections to a writer. In JSON mode the sections are
// collected and written as one object by Flush.
type Printer struct {
	opts   Options
	writer io.Writer
	title  lipgloss.Style

	doc jsonDocument
}

// New creates a new Printer.
//
// Example:
//
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.PrintPDBHeader(book.PDB())
//	p.PrintMOBIHeader(book.MOBI())
//	p.Flush()
func New(w io.Writer, opts Options) *Printer {
	title := lipgloss.NewRenderer(w).NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	if opts.NoColor {
		title = lipgloss.NewStyle()
	}
	return &Printer{
		opts:   opts,
		writer: w,
		title:  title,
	}
}

func (p *Printer) json() bool { return p.opts.Format == FormatJSON }

// Flush writes the collected JSON document. It is a no-op in text mode or
// when nothing was printed.
func (p *Printer) Flush() error {
	if !p.json() || p.doc.empty() {
		return nil
	}
	err := p.writeJSON(p.doc)
	p.doc = jsonDocument{}
	return err
}
