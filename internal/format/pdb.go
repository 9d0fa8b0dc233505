package format

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/joshuapare/mobikit/internal/buf"
)

// PDBHeader is the Palm Database header together with its record table.
type PDBHeader struct {
	Name               [PDBNameSize]byte
	Attributes         uint16
	Version            uint16
	CreationTime       uint32
	ModificationTime   uint32
	BackupTime         uint32
	ModificationNumber uint32
	AppInfoOffset      uint32
	SortInfoOffset     uint32
	Type               [4]byte
	Creator            [4]byte
	UniqueIDSeed       uint32
	NextRecordList     uint32
	RecordCount        uint16

	// Records holds one entry per record in file order.
	Records []RecordEntry

	// fileSize is the length of the buffer the header was parsed from; the
	// last record extends to it.
	fileSize int
}

// RecordEntry is a single PDB record table entry.
type RecordEntry struct {
	Offset     uint32
	Attributes uint8
	UniqueID   uint32 // 24 bits on disk
}

var pdbHeaderSchema = Schema[PDBHeader]{
	Bytes("name", PDBNameSize, func(h *PDBHeader, b []byte) { copy(h.Name[:], b) }),
	U16("attributes", func(h *PDBHeader, v uint16) { h.Attributes = v }),
	U16("version", func(h *PDBHeader, v uint16) { h.Version = v }),
	U32("creation_time", func(h *PDBHeader, v uint32) { h.CreationTime = v }),
	U32("modification_time", func(h *PDBHeader, v uint32) { h.ModificationTime = v }),
	U32("backup_time", func(h *PDBHeader, v uint32) { h.BackupTime = v }),
	U32("modification_number", func(h *PDBHeader, v uint32) { h.ModificationNumber = v }),
	U32("app_info_offset", func(h *PDBHeader, v uint32) { h.AppInfoOffset = v }),
	U32("sort_info_offset", func(h *PDBHeader, v uint32) { h.SortInfoOffset = v }),
	Bytes("type", 4, func(h *PDBHeader, b []byte) { copy(h.Type[:], b) }),
	Bytes("creator", 4, func(h *PDBHeader, b []byte) { copy(h.Creator[:], b) }),
	U32("unique_id_seed", func(h *PDBHeader, v uint32) { h.UniqueIDSeed = v }),
	U32("next_record_list", func(h *PDBHeader, v uint32) { h.NextRecordList = v }),
	U16("record_count", func(h *PDBHeader, v uint16) { h.RecordCount = v }),
}

var recordEntrySchema = Schema[RecordEntry]{
	U32("offset", func(e *RecordEntry, v uint32) { e.Offset = v }),
	U8("attributes", func(e *RecordEntry, v uint8) { e.Attributes = v }),
	U24("unique_id", func(e *RecordEntry, v uint32) { e.UniqueID = v }),
}

// ParsePDB decodes the PDB header and record table at the start of b and
// returns the number of bytes consumed (78 + 8*N).
func ParsePDB(b []byte) (PDBHeader, int, error) {
	if len(b) < PDBHeaderSize {
		return PDBHeader{}, 0, fmt.Errorf("pdb header: %w", ErrTruncated)
	}

	var h PDBHeader
	c := buf.NewCursor(b)
	if err := pdbHeaderSchema.Decode(c, &h); err != nil {
		return PDBHeader{}, 0, fmt.Errorf("pdb header: %w", errors.Join(ErrTruncated, err))
	}

	n := int(h.RecordCount)
	end, err := buf.CheckListBounds(len(b), PDBHeaderSize, n, PDBRecordEntrySize)
	if err != nil {
		return PDBHeader{}, 0, fmt.Errorf("pdb record list (%d records): %w: %v", n, ErrTruncated, err)
	}

	h.Records = make([]RecordEntry, n)
	for i := range h.Records {
		if err := recordEntrySchema.Decode(c, &h.Records[i]); err != nil {
			return PDBHeader{}, 0, fmt.Errorf("pdb record %d: %w", i, errors.Join(ErrTruncated, err))
		}
		off := h.Records[i].Offset
		if uint64(off) > uint64(len(b)) {
			return PDBHeader{}, 0, fmt.Errorf("pdb record %d: offset %d beyond %d bytes: %w", i, off, len(b), ErrTruncated)
		}
		if i > 0 && off < h.Records[i-1].Offset {
			return PDBHeader{}, 0, fmt.Errorf("pdb record %d: offset %d before previous %d: %w", i, off, h.Records[i-1].Offset, ErrMalformedRecord)
		}
	}
	h.fileSize = len(b)

	return h, end, nil
}

// DatabaseName returns the NUL-terminated database name.
func (h PDBHeader) DatabaseName() string {
	if i := bytes.IndexByte(h.Name[:], 0); i >= 0 {
		return string(h.Name[:i])
	}
	return string(h.Name[:])
}

// FileSize returns the length of the buffer the header was parsed from.
func (h PDBHeader) FileSize() int { return h.fileSize }

// RecordOffset returns the file offset of record id.
func (h PDBHeader) RecordOffset(id int) (uint32, error) {
	if id < 0 || id >= len(h.Records) {
		return 0, fmt.Errorf("record %d of %d: %w", id, len(h.Records), ErrRecordNotFound)
	}
	return h.Records[id].Offset, nil
}

// RecordSize returns the byte length of record id: the distance to the next
// record's offset, or to the end of the file for the last record.
func (h PDBHeader) RecordSize(id int) (uint32, error) {
	off, err := h.RecordOffset(id)
	if err != nil {
		return 0, err
	}
	if id == len(h.Records)-1 {
		return uint32(h.fileSize - int(off)), nil
	}
	return h.Records[id+1].Offset - off, nil
}
