package format

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// mobiBytes returns a size-byte buffer holding a MOBI header with the given
// header length and a distinct value in every field.
func mobiBytes(size int, headerLength uint32) []byte {
	be := binary.BigEndian
	b := make([]byte, size)
	be.PutUint16(b[0x00:], CompressionPalmDOC)
	be.PutUint32(b[0x04:], 123456)
	be.PutUint16(b[0x08:], 31)
	be.PutUint16(b[0x0A:], 4096)
	be.PutUint16(b[0x0C:], 0)
	copy(b[0x10:], MOBISignature[:])
	be.PutUint32(b[0x14:], headerLength)
	be.PutUint32(b[0x18:], 2)
	be.PutUint32(b[0x1C:], TextEncodingUTF8)
	be.PutUint32(b[0x20:], 0xDEADBEEF)
	be.PutUint32(b[0x24:], 6)
	be.PutUint32(b[0x28:], NoIndex)
	be.PutUint32(b[0x2C:], NoIndex)
	be.PutUint32(b[0x30:], 12)
	be.PutUint32(b[0x34:], NoIndex)
	for i := range MOBIExtraIndexes {
		be.PutUint32(b[0x38+4*i:], uint32(100+i))
	}
	be.PutUint32(b[0x50:], 33)
	be.PutUint32(b[0x54:], 0x1F0)
	be.PutUint32(b[0x58:], 11)
	be.PutUint32(b[0x5C:], 9)
	be.PutUint32(b[0x60:], 1)
	be.PutUint32(b[0x64:], 2)
	be.PutUint32(b[0x68:], 6)
	be.PutUint32(b[0x6C:], 34)
	be.PutUint32(b[0x70:], 40)
	be.PutUint32(b[0x74:], 2)
	be.PutUint32(b[0x78:], 0x30)
	be.PutUint32(b[0x7C:], 0x40)
	be.PutUint32(b[0x80:], 0x50)
	be.PutUint32(b[0xA4:], NoIndex)
	be.PutUint32(b[0xA8:], 0)
	be.PutUint32(b[0xAC:], 0)
	be.PutUint32(b[0xB0:], 0)
	be.PutUint16(b[0xC0:], 1)
	be.PutUint16(b[0xC2:], 31)
	be.PutUint32(b[0xC8:], 35)
	be.PutUint32(b[0xD0:], 36)
	be.PutUint32(b[0xF0:], ExtraDataMultibyte|ExtraDataTBSIndex)
	be.PutUint32(b[0xF4:], 0x42)
	return b
}

func TestParseMOBIMinimumSize(t *testing.T) {
	_, _, err := ParseMOBI(mobiBytes(MOBIMinSize-1, MOBIHeaderLengthWithINDX))
	require.ErrorIs(t, err, ErrTruncated)

	h, consumed, err := ParseMOBI(mobiBytes(MOBIMinSize, MOBIHeaderLengthWithINDX))
	require.NoError(t, err)
	require.Equal(t, MOBIHeaderLengthWithINDX+PalmDOCHeaderSize, consumed)
	require.EqualValues(t, MOBIHeaderLengthWithINDX, h.HeaderLength)
}

func TestParseMOBIFields(t *testing.T) {
	h, _, err := ParseMOBI(mobiBytes(MOBIMinSize, MOBIHeaderLengthWithINDX))
	require.NoError(t, err)

	require.EqualValues(t, CompressionPalmDOC, h.Compression)
	require.EqualValues(t, 123456, h.TextLength)
	require.EqualValues(t, 31, h.RecordCount)
	require.EqualValues(t, 4096, h.RecordSize)
	require.Equal(t, "MOBI", FourCC(h.Identifier))
	require.EqualValues(t, 2, h.Type)
	require.EqualValues(t, TextEncodingUTF8, h.TextEncoding)
	require.EqualValues(t, 0xDEADBEEF, h.UniqueID)
	require.EqualValues(t, 6, h.FileVersion)
	require.EqualValues(t, NoIndex, h.OrthographicIndex)
	require.EqualValues(t, 12, h.IndexNames)
	require.Equal(t, [MOBIExtraIndexes]uint32{100, 101, 102, 103, 104, 105}, h.ExtraIndex)
	require.EqualValues(t, 33, h.FirstNonBookIndex)
	require.EqualValues(t, 0x1F0, h.FullNameOffset)
	require.EqualValues(t, 11, h.FullNameLength)
	require.EqualValues(t, 9, h.Locale)
	require.EqualValues(t, 34, h.FirstImageRecord)
	require.EqualValues(t, 40, h.HuffmanRecordOffset)
	require.EqualValues(t, 0x40, h.HuffmanTableCount)
	require.EqualValues(t, 0x50, h.EXTHFlags)
	require.True(t, h.HasEXTH())
	require.EqualValues(t, NoIndex, h.DRMOffset)
	require.EqualValues(t, 1, h.FirstContentRecord)
	require.EqualValues(t, 31, h.LastContentRecord)
	require.EqualValues(t, 35, h.FCISRecord)
	require.EqualValues(t, 36, h.FLISRecord)
	require.EqualValues(t, ExtraDataMultibyte|ExtraDataTBSIndex, h.ExtraRecordDataFlags)
	require.EqualValues(t, 0x42, h.INDXRecordOffset)
}

func TestParseMOBIConsumedFollowsDeclaredLength(t *testing.T) {
	tests := []struct {
		name         string
		headerLength uint32
		wantINDX     uint32
	}{
		{name: "0xE8 reads INDX", headerLength: MOBIHeaderLengthWithINDX, wantINDX: 0x42},
		{name: "shorter header skips INDX", headerLength: 0xE4, wantINDX: NoIndex},
		{name: "longer header skips INDX", headerLength: 0xF8, wantINDX: NoIndex},
		{name: "tiny header still decodes fixed fields", headerLength: 0x18, wantINDX: NoIndex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, consumed, err := ParseMOBI(mobiBytes(MOBIMinSize, tt.headerLength))
			require.NoError(t, err)
			require.Equal(t, int(tt.headerLength)+PalmDOCHeaderSize, consumed)
			require.Equal(t, tt.wantINDX, h.INDXRecordOffset)
		})
	}
}

func TestParseMOBIDeclaredLengthBeyondBuffer(t *testing.T) {
	_, _, err := ParseMOBI(mobiBytes(MOBIMinSize, 0x200))
	require.ErrorIs(t, err, ErrTruncated)

	_, consumed, err := ParseMOBI(mobiBytes(0x210, 0x200))
	require.NoError(t, err)
	require.Equal(t, 0x210, consumed)
}

func TestMOBISchemaSize(t *testing.T) {
	// Everything up to the extra record data flags; INDX is read separately.
	require.Equal(t, PalmDOCHeaderSize+MOBIHeaderLengthWithINDX-4, mobiHeaderSchema.Size())
}

func TestHasEXTH(t *testing.T) {
	h := MOBIHeader{EXTHFlags: 0x10}
	require.False(t, h.HasEXTH())
	h.EXTHFlags |= EXTHFlagPresent
	require.True(t, h.HasEXTH())
	require.False(t, IndexPresent(NoIndex))
	require.True(t, IndexPresent(0))
}
