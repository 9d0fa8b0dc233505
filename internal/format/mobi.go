package format

import (
	"fmt"

	"github.com/joshuapare/mobikit/internal/buf"
)

// MOBIHeader is the PalmDOC sub-header followed by the MOBI header, as found
// at the start of record 0.
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------------------
//	 0x00     2   Compression (1 none, 2 PalmDOC, 17480 HUFF/CDIC)
//	 0x02     2   Unused
//	 0x04     4   Uncompressed text length
//	 0x08     2   Text record count
//	 0x0A     2   Text record size
//	 0x0C     2   Encryption type
//	 0x0E     2   Unused
//	 0x10     4   'M' 'O' 'B' 'I'
//	 0x14     4   Header length (excludes the 16 PalmDOC bytes)
//	 0x18    64   Type .. extra index 5
//	 0x50    52   First non-book index .. EXTH flags
//	 0x84    32   Unknown
//	 0xA4    16   DRM offset, count, size, flags
//	 0xB4    12   Unknown
//	 0xC0     4   First/last content record (u16 each)
//	 0xC4     4   Unknown
//	 0xC8     8   FCIS record, unknown
//	 0xD0     8   FLIS record, unknown
//	 0xD8    24   Unknown
//	 0xF0     4   Extra record data flags
//	 0xF4     4   INDX record offset (header length 0xE8 only)
type MOBIHeader struct {
	Compression    uint16
	TextLength     uint32
	RecordCount    uint16
	RecordSize     uint16
	EncryptionType uint16

	Identifier          uint32
	HeaderLength        uint32
	Type                uint32
	TextEncoding        uint32
	UniqueID            uint32
	FileVersion         uint32
	OrthographicIndex   uint32
	InflectionIndex     uint32
	IndexNames          uint32
	IndexKeys           uint32
	ExtraIndex          [MOBIExtraIndexes]uint32
	FirstNonBookIndex   uint32
	FullNameOffset      uint32
	FullNameLength      uint32
	Locale              uint32
	DictInputLanguage   uint32
	DictOutputLanguage  uint32
	MinVersion          uint32
	FirstImageRecord    uint32
	HuffmanRecordOffset uint32
	HuffmanRecordCount  uint32
	HuffmanTableOffset  uint32
	HuffmanTableCount   uint32
	EXTHFlags           uint32

	DRMOffset uint32
	DRMCount  uint32
	DRMSize   uint32
	DRMFlags  uint32

	FirstContentRecord   uint16
	LastContentRecord    uint16
	FCISRecord           uint32
	FLISRecord           uint32
	ExtraRecordDataFlags uint32

	// INDXRecordOffset is NoIndex unless HeaderLength is MOBIHeaderLengthWithINDX.
	INDXRecordOffset uint32
}

var mobiHeaderSchema = buildMOBISchema()

func buildMOBISchema() Schema[MOBIHeader] {
	s := Schema[MOBIHeader]{
		U16("compression", func(h *MOBIHeader, v uint16) { h.Compression = v }),
		Pad[MOBIHeader]("unused", 2),
		U32("text_length", func(h *MOBIHeader, v uint32) { h.TextLength = v }),
		U16("record_count", func(h *MOBIHeader, v uint16) { h.RecordCount = v }),
		U16("record_size", func(h *MOBIHeader, v uint16) { h.RecordSize = v }),
		U16("encryption_type", func(h *MOBIHeader, v uint16) { h.EncryptionType = v }),
		Pad[MOBIHeader]("zeroes", 2),

		U32("identifier", func(h *MOBIHeader, v uint32) { h.Identifier = v }),
		U32("header_length", func(h *MOBIHeader, v uint32) { h.HeaderLength = v }),
		U32("type", func(h *MOBIHeader, v uint32) { h.Type = v }),
		U32("text_encoding", func(h *MOBIHeader, v uint32) { h.TextEncoding = v }),
		U32("unique_id", func(h *MOBIHeader, v uint32) { h.UniqueID = v }),
		U32("file_version", func(h *MOBIHeader, v uint32) { h.FileVersion = v }),
		U32("orthographic_index", func(h *MOBIHeader, v uint32) { h.OrthographicIndex = v }),
		U32("inflection_index", func(h *MOBIHeader, v uint32) { h.InflectionIndex = v }),
		U32("index_names", func(h *MOBIHeader, v uint32) { h.IndexNames = v }),
		U32("index_keys", func(h *MOBIHeader, v uint32) { h.IndexKeys = v }),
	}
	for i := range MOBIExtraIndexes {
		s = append(s, U32(fmt.Sprintf("extra_index_%d", i), func(h *MOBIHeader, v uint32) { h.ExtraIndex[i] = v }))
	}
	return append(s,
		U32("first_nonbook_index", func(h *MOBIHeader, v uint32) { h.FirstNonBookIndex = v }),
		U32("full_name_offset", func(h *MOBIHeader, v uint32) { h.FullNameOffset = v }),
		U32("full_name_length", func(h *MOBIHeader, v uint32) { h.FullNameLength = v }),
		U32("locale", func(h *MOBIHeader, v uint32) { h.Locale = v }),
		U32("dict_input_language", func(h *MOBIHeader, v uint32) { h.DictInputLanguage = v }),
		U32("dict_output_language", func(h *MOBIHeader, v uint32) { h.DictOutputLanguage = v }),
		U32("min_version", func(h *MOBIHeader, v uint32) { h.MinVersion = v }),
		U32("first_image_record", func(h *MOBIHeader, v uint32) { h.FirstImageRecord = v }),
		U32("huffman_record_offset", func(h *MOBIHeader, v uint32) { h.HuffmanRecordOffset = v }),
		U32("huffman_record_count", func(h *MOBIHeader, v uint32) { h.HuffmanRecordCount = v }),
		U32("huffman_table_offset", func(h *MOBIHeader, v uint32) { h.HuffmanTableOffset = v }),
		U32("huffman_table_count", func(h *MOBIHeader, v uint32) { h.HuffmanTableCount = v }),
		U32("exth_flags", func(h *MOBIHeader, v uint32) { h.EXTHFlags = v }),
		Pad[MOBIHeader]("unknown_0x84", 32),

		U32("drm_offset", func(h *MOBIHeader, v uint32) { h.DRMOffset = v }),
		U32("drm_count", func(h *MOBIHeader, v uint32) { h.DRMCount = v }),
		U32("drm_size", func(h *MOBIHeader, v uint32) { h.DRMSize = v }),
		U32("drm_flags", func(h *MOBIHeader, v uint32) { h.DRMFlags = v }),
		Pad[MOBIHeader]("unknown_0xb4", 12),

		U16("first_content_record", func(h *MOBIHeader, v uint16) { h.FirstContentRecord = v }),
		U16("last_content_record", func(h *MOBIHeader, v uint16) { h.LastContentRecord = v }),
		Pad[MOBIHeader]("unknown_0xc4", 4),
		U32("fcis_record", func(h *MOBIHeader, v uint32) { h.FCISRecord = v }),
		Pad[MOBIHeader]("fcis_count", 4),
		U32("flis_record", func(h *MOBIHeader, v uint32) { h.FLISRecord = v }),
		Pad[MOBIHeader]("flis_count", 4),
		Pad[MOBIHeader]("unknown_0xd8", 24),
		U32("extra_record_data_flags", func(h *MOBIHeader, v uint32) { h.ExtraRecordDataFlags = v }),
	)
}

// ParseMOBI decodes the PalmDOC and MOBI headers at the start of b, where
// len(b) is the number of bytes remaining in the file. The consumed length is
// the header's own declared size (HeaderLength + 16), which covers trailing
// fields this decoder does not name.
func ParseMOBI(b []byte) (MOBIHeader, int, error) {
	if len(b) < MOBIMinSize {
		return MOBIHeader{}, 0, fmt.Errorf("mobi header: %d bytes, need %d: %w", len(b), MOBIMinSize, ErrTruncated)
	}

	var h MOBIHeader
	c := buf.NewCursor(b)
	if err := mobiHeaderSchema.Decode(c, &h); err != nil {
		return MOBIHeader{}, 0, fmt.Errorf("mobi header: %w", err)
	}

	if h.HeaderLength == MOBIHeaderLengthWithINDX {
		v, err := c.ReadU32()
		if err != nil {
			return MOBIHeader{}, 0, fmt.Errorf("mobi header: indx record offset: %w", err)
		}
		h.INDXRecordOffset = v
	} else {
		h.INDXRecordOffset = NoIndex
	}

	declared := uint64(h.HeaderLength) + PalmDOCHeaderSize
	if declared > uint64(len(b)) {
		return MOBIHeader{}, 0, fmt.Errorf("mobi header: declared length %d exceeds %d bytes: %w", declared, len(b), ErrTruncated)
	}

	return h, int(declared), nil
}

// HasEXTH reports whether an EXTH header follows the MOBI header.
func (h MOBIHeader) HasEXTH() bool {
	return h.EXTHFlags&EXTHFlagPresent != 0
}

// IndexPresent reports whether an index field holds a real record number.
func IndexPresent(v uint32) bool {
	return v != NoIndex
}
