// Package mobifixture builds synthetic MOBI files for tests. It writes the
// on-disk layout directly with encoding/binary and does not depend on the
// decoders under test.
package mobifixture

import (
	"encoding/binary"
)

const (
	pdbHeaderSize  = 78
	pdbEntrySize   = 8
	mobiMinSize    = 264
	noIndex        = 0xFFFFFFFF
	exthFlag       = 0x40
	headerWithINDX = 0xE8
)

// EXTHRecord is a raw EXTH type/value pair.
type EXTHRecord struct {
	Type  uint32
	Value []byte
}

// Builder describes a synthetic book. The zero value is not useful; start
// from New.
type Builder struct {
	Name             string
	CreationTime     uint32
	ModificationTime uint32
	UniqueIDSeed     uint32

	Compression      uint16
	TextLength       uint32
	TextRecordCount  uint16
	TextRecordSize   uint16
	EncryptionType   uint16
	HeaderLength     uint32
	MOBIType         uint32
	TextEncoding     uint32
	UniqueID         uint32
	FileVersion      uint32
	EXTHFlags        uint32
	FirstContent     uint16
	LastContent      uint16
	FCISRecord       uint32
	FLISRecord       uint32
	ExtraDataFlags   uint32
	INDXRecordOffset uint32
	FullName         []byte

	// EXTH records; when non-nil an EXTH header is emitted and the EXTH
	// flag bit is set.
	EXTH []EXTHRecord

	// HeaderInRecord0 makes the header block (MOBI, EXTH, full name) the
	// first PDB record, as in real books. Otherwise the record table lists
	// only Records.
	HeaderInRecord0 bool

	// Records are content records appended after the header block.
	Records [][]byte
}

// Layout reports where Build placed each structure.
type Layout struct {
	PDBSize       int
	MOBIOffset    int
	MOBISize      int
	EXTHOffset    int
	EXTHSize      int
	RecordOffsets []uint32
	Size          int
}

// New returns a builder for an uncompressed UTF-8 book with a 0xE8 MOBI header.
func New() *Builder {
	return &Builder{
		Name:             "Test_Book",
		CreationTime:     0x7C000000,
		ModificationTime: 0x7C000100,
		Compression:      1,
		TextRecordSize:   4096,
		HeaderLength:     headerWithINDX,
		MOBIType:         2,
		TextEncoding:     65001,
		UniqueID:         0xCAFEBABE,
		FileVersion:      6,
		FCISRecord:       noIndex,
		FLISRecord:       noIndex,
		INDXRecordOffset: noIndex,
	}
}

// Build lays the book out as PDB header, record table, header block and
// content records.
func (b *Builder) Build() ([]byte, Layout) {
	nRecords := len(b.Records)
	if b.HeaderInRecord0 {
		nRecords++
	}

	var lay Layout
	lay.PDBSize = pdbHeaderSize + pdbEntrySize*nRecords
	lay.MOBIOffset = lay.PDBSize

	block := b.headerBlock(&lay)

	out := make([]byte, lay.PDBSize, lay.PDBSize+len(block))
	out = append(out, block...)
	if b.HeaderInRecord0 {
		lay.RecordOffsets = append(lay.RecordOffsets, uint32(lay.MOBIOffset))
	}
	for _, rec := range b.Records {
		lay.RecordOffsets = append(lay.RecordOffsets, uint32(len(out)))
		out = append(out, rec...)
	}
	lay.Size = len(out)

	b.writePDB(out, lay.RecordOffsets)
	return out, lay
}

func (b *Builder) writePDB(out []byte, offsets []uint32) {
	be := binary.BigEndian
	copy(out[0:32], b.Name)
	be.PutUint32(out[0x24:], b.CreationTime)
	be.PutUint32(out[0x28:], b.ModificationTime)
	copy(out[0x3C:], "BOOK")
	copy(out[0x40:], "MOBI")
	be.PutUint32(out[0x44:], b.UniqueIDSeed)
	be.PutUint16(out[0x4C:], uint16(len(offsets)))
	for i, off := range offsets {
		e := out[pdbHeaderSize+i*pdbEntrySize:]
		be.PutUint32(e, off)
		e[4] = 0
		e[5], e[6], e[7] = byte(uint32(2*i)>>16), byte(uint32(2*i)>>8), byte(2*i)
	}
}

// headerBlock returns the MOBI header (HeaderLength+16 bytes), the padded
// EXTH header and the full name, zero-padded to at least 264 bytes so the
// MOBI decoder's minimum size is met.
func (b *Builder) headerBlock(lay *Layout) []byte {
	be := binary.BigEndian
	mobiLen := int(b.HeaderLength) + 16
	m := make([]byte, max(mobiLen, 248))

	exthFlags := b.EXTHFlags
	if b.EXTH != nil {
		exthFlags |= exthFlag
	}

	be.PutUint16(m[0:], b.Compression)
	be.PutUint32(m[4:], b.TextLength)
	be.PutUint16(m[8:], b.TextRecordCount)
	be.PutUint16(m[10:], b.TextRecordSize)
	be.PutUint16(m[12:], b.EncryptionType)
	copy(m[16:], "MOBI")
	be.PutUint32(m[20:], b.HeaderLength)
	be.PutUint32(m[24:], b.MOBIType)
	be.PutUint32(m[28:], b.TextEncoding)
	be.PutUint32(m[32:], b.UniqueID)
	be.PutUint32(m[36:], b.FileVersion)
	for off := 40; off <= 76; off += 4 { // orthographic .. extra index 5
		be.PutUint32(m[off:], noIndex)
	}
	be.PutUint32(m[80:], uint32(len(b.Records)))
	be.PutUint32(m[92:], 9)
	be.PutUint32(m[104:], b.FileVersion)
	be.PutUint32(m[108:], noIndex)
	be.PutUint32(m[128:], exthFlags)
	be.PutUint32(m[164:], noIndex)
	be.PutUint16(m[192:], b.FirstContent)
	be.PutUint16(m[194:], b.LastContent)
	be.PutUint32(m[200:], b.FCISRecord)
	be.PutUint32(m[204:], 1)
	be.PutUint32(m[208:], b.FLISRecord)
	be.PutUint32(m[212:], 1)
	be.PutUint32(m[240:], b.ExtraDataFlags)
	be.PutUint32(m[244:], b.INDXRecordOffset)

	block := append([]byte(nil), m[:mobiLen]...)
	lay.MOBISize = mobiLen

	if b.EXTH != nil {
		exth := EncodeEXTH(b.EXTH)
		lay.EXTHOffset = lay.MOBIOffset + len(block)
		lay.EXTHSize = len(exth)
		block = append(block, exth...)
	}

	if len(b.FullName) > 0 {
		be.PutUint32(block[84:], uint32(len(block)))
		be.PutUint32(block[88:], uint32(len(b.FullName)))
		block = append(block, b.FullName...)
		block = append(block, 0, 0)
	}

	if len(block) < mobiMinSize {
		block = append(block, make([]byte, mobiMinSize-len(block))...)
	}
	return block
}

// EncodeEXTH serializes records as an EXTH header padded to four bytes.
func EncodeEXTH(records []EXTHRecord) []byte {
	be := binary.BigEndian
	length := 12
	for _, r := range records {
		length += 8 + len(r.Value)
	}
	out := make([]byte, 12, length+3)
	copy(out, "EXTH")
	be.PutUint32(out[4:], uint32(length))
	be.PutUint32(out[8:], uint32(len(records)))
	for _, r := range records {
		var prefix [8]byte
		be.PutUint32(prefix[0:], r.Type)
		be.PutUint32(prefix[4:], uint32(8+len(r.Value)))
		out = append(out, prefix[:]...)
		out = append(out, r.Value...)
	}
	for len(out)%4 != 0 {
		out = append(out, 0)
	}
	return out
}
