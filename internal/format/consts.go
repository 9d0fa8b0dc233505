// Package format houses low-level decoders for the Palm Database / MOBI
// container. Every decoder takes the remaining bytes of the file, reports how
// many of them its structure consumed, and never copies or mutates the
// caller's buffer.
package format

var (
	// MOBISignature is the identifier that opens the MOBI sub-header.
	MOBISignature = [4]byte{'M', 'O', 'B', 'I'}

	// EXTHSignature is the identifier that opens the EXTH metadata header.
	EXTHSignature = [4]byte{'E', 'X', 'T', 'H'}
)

// PDB layout.
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------------------
//	 0x00    32   Database name (NUL padded)
//	 0x20     2   Attributes
//	 0x22     2   Version
//	 0x24     4   Creation time
//	 0x28     4   Modification time
//	 0x2C     4   Last backup time
//	 0x30     4   Modification number
//	 0x34     4   App info offset
//	 0x38     4   Sort info offset
//	 0x3C     4   Type ("BOOK")
//	 0x40     4   Creator ("MOBI")
//	 0x44     4   Unique ID seed
//	 0x48     4   Next record list
//	 0x4C     2   Number of records
//	 0x4E   8*N   Record entries
const (
	PDBHeaderSize      = 78
	PDBNameSize        = 32
	PDBRecordEntrySize = 8
)

// MOBI layout.
const (
	// PalmDOCHeaderSize is the size of the PalmDOC sub-header that precedes
	// the MOBI identifier. The MOBI header length field does not include it.
	PalmDOCHeaderSize = 16

	// MOBIFieldsMinSize is the minimum number of MOBI bytes required after the
	// PalmDOC sub-header.
	MOBIFieldsMinSize = 0xF8

	// MOBIMinSize is the hard lower bound on the bytes available to the MOBI
	// decoder (264).
	MOBIMinSize = PalmDOCHeaderSize + MOBIFieldsMinSize

	// MOBIHeaderLengthWithINDX is the header length value for which the INDX
	// record offset follows the extra record data flags.
	MOBIHeaderLengthWithINDX = 0xE8

	// MOBIExtraIndexes is the number of extra index slots between the index
	// keys and the first non-book index.
	MOBIExtraIndexes = 6

	// NoIndex marks an absent optional index or record reference.
	NoIndex = 0xFFFFFFFF
)

// EXTH layout.
const (
	// EXTHFlagPresent is the bit of MOBIHeader.EXTHFlags announcing an EXTH header.
	EXTHFlagPresent = 0x40

	// EXTHPrefixSize covers identifier, header length and record count.
	EXTHPrefixSize = 12

	// EXTHRecordPrefixSize covers the type and length of a single record.
	EXTHRecordPrefixSize = 8

	// EXTHAlignment is the boundary the EXTH header is padded to.
	EXTHAlignment = 4
)

// Compression codes stored in the PalmDOC sub-header.
const (
	CompressionNone     = 1
	CompressionPalmDOC  = 2
	CompressionHuffCDIC = 17480
)

// Extra record data flag bits.
const (
	ExtraDataMultibyte   = 0x1
	ExtraDataTBSIndex    = 0x2
	ExtraDataUncrossable = 0x4
)

// Text encodings declared in the MOBI header.
const (
	TextEncodingCP1252 = 1252
	TextEncodingUTF8   = 65001
	TextEncodingUTF16  = 65002
)
