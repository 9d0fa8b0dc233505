package format

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/joshuapare/mobikit/internal/buf"
)

// EXTHHeader is the optional metadata header that follows the MOBI header.
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------------------
//	 0x00     4   'E' 'X' 'T' 'H'
//	 0x04     4   Header length (unpadded, includes this prefix)
//	 0x08     4   Record count
//	 0x0C     *   Records: type u32, length u32 (includes 8-byte prefix), data
//
// The header is padded with zeroes to a multiple of four bytes.
type EXTHHeader struct {
	Identifier   [4]byte
	HeaderLength uint32
	RecordCount  uint32
	Records      []EXTHRecord
}

// EXTHRecord is one type/value pair. Value is owned by the record.
type EXTHRecord struct {
	Type  uint32
	Value []byte
}

// Length returns the record's on-disk length including its prefix.
func (r EXTHRecord) Length() int {
	return EXTHRecordPrefixSize + len(r.Value)
}

var exthPrefixSchema = Schema[EXTHHeader]{
	Bytes("identifier", 4, func(h *EXTHHeader, b []byte) { copy(h.Identifier[:], b) }),
	U32("header_length", func(h *EXTHHeader, v uint32) { h.HeaderLength = v }),
	U32("record_count", func(h *EXTHHeader, v uint32) { h.RecordCount = v }),
}

// ParseEXTH decodes an EXTH header at the start of b. Callers should only
// invoke it when MOBIHeader.HasEXTH reports true. The consumed length is the
// declared header length rounded up to EXTHAlignment.
func ParseEXTH(b []byte) (EXTHHeader, int, error) {
	if len(b) < EXTHPrefixSize {
		return EXTHHeader{}, 0, fmt.Errorf("exth header: %d bytes, need %d: %w", len(b), EXTHPrefixSize, ErrTruncated)
	}

	var h EXTHHeader
	if err := exthPrefixSchema.Decode(buf.NewCursor(b), &h); err != nil {
		return EXTHHeader{}, 0, fmt.Errorf("exth header: %w", errors.Join(ErrTruncated, err))
	}
	if h.HeaderLength < EXTHPrefixSize {
		return EXTHHeader{}, 0, fmt.Errorf("exth header: length %d below prefix size: %w", h.HeaderLength, ErrMalformedRecord)
	}
	if uint64(h.HeaderLength) > uint64(len(b)) {
		return EXTHHeader{}, 0, fmt.Errorf("exth header: declared length %d exceeds %d bytes: %w", h.HeaderLength, len(b), ErrTruncated)
	}

	declared := int(h.HeaderLength)
	consumed := buf.AlignUp(declared, EXTHAlignment)
	if consumed > len(b) {
		return EXTHHeader{}, 0, fmt.Errorf("exth header: padded length %d exceeds %d bytes: %w", consumed, len(b), ErrTruncated)
	}

	c := buf.NewCursor(b[EXTHPrefixSize:declared])
	// Every record needs at least its prefix, so a corrupt count cannot force
	// a huge allocation.
	capHint := c.Remaining() / EXTHRecordPrefixSize
	if uint64(h.RecordCount) < uint64(capHint) {
		capHint = int(h.RecordCount)
	}
	h.Records = make([]EXTHRecord, 0, capHint)

	for i := uint32(0); i < h.RecordCount; i++ {
		typ, err := c.ReadU32()
		if err != nil {
			return EXTHHeader{}, 0, fmt.Errorf("exth record %d: type: %w", i, errors.Join(ErrTruncated, err))
		}
		length, err := c.ReadU32()
		if err != nil {
			return EXTHHeader{}, 0, fmt.Errorf("exth record %d: length: %w", i, errors.Join(ErrTruncated, err))
		}
		if length < EXTHRecordPrefixSize {
			return EXTHHeader{}, 0, fmt.Errorf("exth record %d: length %d below prefix size: %w", i, length, ErrMalformedRecord)
		}
		if uint64(length-EXTHRecordPrefixSize) > uint64(c.Remaining()) {
			return EXTHHeader{}, 0, fmt.Errorf("exth record %d: length %d exceeds header: %w", i, length, ErrTruncated)
		}
		payload, err := c.Bytes(int(length - EXTHRecordPrefixSize))
		if err != nil {
			return EXTHHeader{}, 0, fmt.Errorf("exth record %d: value: %w", i, errors.Join(ErrTruncated, err))
		}
		h.Records = append(h.Records, EXTHRecord{Type: typ, Value: bytes.Clone(payload)})
	}

	return h, consumed, nil
}

// Lookup returns every value recorded under typ, in file order.
func (h EXTHHeader) Lookup(typ uint32) [][]byte {
	var out [][]byte
	for _, r := range h.Records {
		if r.Type == typ {
			out = append(out, r.Value)
		}
	}
	return out
}

// ByType groups record values by type, preserving file order within a type.
func (h EXTHHeader) ByType() map[uint32][][]byte {
	out := make(map[uint32][][]byte, len(h.Records))
	for _, r := range h.Records {
		out[r.Type] = append(out[r.Type], r.Value)
	}
	return out
}
