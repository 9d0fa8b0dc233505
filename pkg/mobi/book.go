package mobi

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/joshuapare/mobikit/internal/buf"
	"github.com/joshuapare/mobikit/internal/format"
	"github.com/joshuapare/mobikit/internal/mmfile"
)

// Header types re-exported for convenience.
type (
	PDBHeader   = format.PDBHeader
	RecordEntry = format.RecordEntry
	MOBIHeader  = format.MOBIHeader
	EXTHHeader  = format.EXTHHeader
	EXTHRecord  = format.EXTHRecord
)

// Consumed reports how many bytes each decoding stage claimed.
type Consumed struct {
	PDB  int `json:"pdb"`
	MOBI int `json:"mobi"`
	EXTH int `json:"exth"`
}

// Total returns the combined length of all stages.
func (c Consumed) Total() int { return c.PDB + c.MOBI + c.EXTH }

// Book is a decoded MOBI file. It is immutable and safe for concurrent
// readers until Close.
type Book struct {
	data    []byte
	release func() error
	opts    OpenOptions
	closed  bool

	pdb  format.PDBHeader
	mobi format.MOBIHeader
	exth *format.EXTHHeader

	mobiOffset int
	consumed   Consumed
}

// Open loads the book at path and decodes its headers.
func Open(path string, opts OpenOptions) (*Book, error) {
	load := mmfile.Map
	if opts.NoMmap {
		load = mmfile.Read
	}
	data, release, err := load(path)
	if err != nil {
		return nil, wrapIOErr(fmt.Errorf("%s: %w", path, err))
	}
	b, err := parse(data, opts)
	if err != nil {
		if release != nil {
			_ = release()
		}
		return nil, err
	}
	b.release = release
	opts.logger().Debug("book opened", "path", path, "size", len(data), "mmap", !opts.NoMmap)
	return b, nil
}

// Parse decodes the headers of a book held in data. The caller keeps
// ownership of data and must not modify it while the Book is in use.
func Parse(data []byte, opts OpenOptions) (*Book, error) {
	return parse(data, opts)
}

func parse(data []byte, opts OpenOptions) (*Book, error) {
	log := opts.logger()
	b := &Book{data: data, opts: opts}

	pdb, n, err := format.ParsePDB(data)
	if err != nil {
		return nil, wrapFormatErr(StagePDB, err)
	}
	b.pdb = pdb
	b.consumed.PDB = n
	cursor := n
	log.Debug("stage decoded", "stage", StagePDB, "offset", 0, "consumed", n, "records", len(pdb.Records))

	mobi, n, err := format.ParseMOBI(data[cursor:])
	if err != nil {
		return nil, wrapFormatErr(StageMOBI, err)
	}
	if id := format.FourCC(mobi.Identifier); id != string(format.MOBISignature[:]) {
		log.Warn("unexpected MOBI identifier", "identifier", id, "offset", cursor)
	}
	b.mobi = mobi
	b.mobiOffset = cursor
	b.consumed.MOBI = n
	log.Debug("stage decoded", "stage", StageMOBI, "offset", cursor, "consumed", n,
		"header_length", mobi.HeaderLength, "exth", mobi.HasEXTH())
	cursor += n

	if !mobi.HasEXTH() {
		log.Debug("stage skipped", "stage", StageEXTH, "exth_flags", mobi.EXTHFlags)
		return b, nil
	}

	exth, n, err := format.ParseEXTH(data[cursor:])
	if err != nil {
		return nil, wrapFormatErr(StageEXTH, err)
	}
	if !bytes.Equal(exth.Identifier[:], format.EXTHSignature[:]) {
		log.Warn("unexpected EXTH identifier", "identifier", string(exth.Identifier[:]), "offset", cursor)
	}
	b.exth = &exth
	b.consumed.EXTH = n
	log.Debug("stage decoded", "stage", StageEXTH, "offset", cursor, "consumed", n, "records", len(exth.Records))

	return b, nil
}

// Close releases the backing buffer if Open created it.
func (b *Book) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	if b.release != nil {
		return b.release()
	}
	return nil
}

func (b *Book) ensureOpen() error {
	if b.closed {
		return ErrClosed
	}
	return nil
}

// Size returns the length of the backing buffer.
func (b *Book) Size() int { return len(b.data) }

// PDB returns the Palm Database header and record table.
func (b *Book) PDB() PDBHeader { return b.pdb }

// MOBI returns the PalmDOC/MOBI header.
func (b *Book) MOBI() MOBIHeader { return b.mobi }

// EXTH returns the EXTH header and whether the book has one.
func (b *Book) EXTH() (EXTHHeader, bool) {
	if b.exth == nil {
		return EXTHHeader{}, false
	}
	return *b.exth, true
}

// MOBIOffset returns the file offset at which the MOBI header was decoded.
func (b *Book) MOBIOffset() int { return b.mobiOffset }

// Consumed returns the per-stage consumed lengths.
func (b *Book) Consumed() Consumed { return b.consumed }

// RecordCount returns the number of entries in the PDB record table.
func (b *Book) RecordCount() int { return len(b.pdb.Records) }

// RecordOffset returns the file offset of record id.
func (b *Book) RecordOffset(id int) (uint32, error) {
	off, err := b.pdb.RecordOffset(id)
	if err != nil {
		return 0, &Error{Kind: ErrKindNotFound, Msg: fmt.Sprintf("record #%d", id), Err: err}
	}
	return off, nil
}

// RecordSize returns the byte length of record id.
func (b *Book) RecordSize(id int) (uint32, error) {
	size, err := b.pdb.RecordSize(id)
	if err != nil {
		return 0, &Error{Kind: ErrKindNotFound, Msg: fmt.Sprintf("record #%d", id), Err: err}
	}
	return size, nil
}

// Record returns the raw bytes of record id. A record is only served when
// its offset is greater than 1 and its size is positive; anything else is
// reported as ErrRecordNotFound.
func (b *Book) Record(id int) ([]byte, error) {
	if err := b.ensureOpen(); err != nil {
		return nil, err
	}
	off, _ := b.pdb.RecordOffset(id)
	size, _ := b.pdb.RecordSize(id)
	if off <= 1 || size == 0 {
		return nil, &Error{
			Kind: ErrKindNotFound,
			Msg:  fmt.Sprintf("record #%d (offset %d, size %d)", id, off, size),
			Err:  ErrRecordNotFound,
		}
	}
	rec, ok := buf.Slice(b.data, int(off), int(size))
	if !ok {
		return nil, &Error{
			Kind: ErrKindTruncated,
			Msg:  fmt.Sprintf("record #%d (offset %d, size %d) outside %d bytes", id, off, size, len(b.data)),
			Err:  ErrTruncated,
		}
	}
	if b.opts.CopyRecords {
		return bytes.Clone(rec), nil
	}
	return rec, nil
}

// FullName decodes the book title stored in record 0 at the MOBI header's
// full-name offset, using the header's text encoding.
func (b *Book) FullName() (string, error) {
	if err := b.ensureOpen(); err != nil {
		return "", err
	}
	if b.mobi.FullNameLength == 0 {
		return "", nil
	}
	start, ok := buf.AddOverflowSafe(b.mobiOffset, int(b.mobi.FullNameOffset))
	var raw []byte
	if ok {
		raw, ok = buf.Slice(b.data, start, int(b.mobi.FullNameLength))
	}
	if !ok {
		return "", &Error{
			Kind:  ErrKindTruncated,
			Stage: StageMOBI,
			Msg:   fmt.Sprintf("full name at %d+%d", b.mobi.FullNameOffset, b.mobi.FullNameLength),
			Err:   ErrTruncated,
		}
	}
	name, err := format.DecodeText(b.mobi.TextEncoding, raw)
	if err != nil {
		return "", wrapFormatErr(StageMOBI, err)
	}
	return name, nil
}

// LogValue summarizes the book for structured logging.
func (b *Book) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", b.pdb.DatabaseName()),
		slog.Int("size", len(b.data)),
		slog.Int("records", len(b.pdb.Records)),
		slog.Bool("exth", b.exth != nil),
	)
}
