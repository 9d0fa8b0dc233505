package format

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/mobikit/internal/testutil/mobifixture"
)

func TestParseEXTHRecords(t *testing.T) {
	records := []mobifixture.EXTHRecord{
		{Type: 100, Value: []byte("Anon")},
		{Type: 503, Value: []byte("Title!")},
		{Type: 201, Value: []byte{0, 0, 0, 1, 0, 2}},
	}
	data := mobifixture.EncodeEXTH(records)
	declared := binary.BigEndian.Uint32(data[4:])
	require.Zero(t, declared%EXTHAlignment, "fixture should need no padding")

	h, consumed, err := ParseEXTH(data)
	require.NoError(t, err)
	require.Equal(t, EXTHSignature, h.Identifier)
	require.EqualValues(t, 3, h.RecordCount)
	require.Len(t, h.Records, int(h.RecordCount))
	require.EqualValues(t, declared, consumed)
	require.Equal(t, h.HeaderLength, declared)

	for i, r := range records {
		require.Equal(t, r.Type, h.Records[i].Type)
		require.Equal(t, r.Value, h.Records[i].Value)
		require.Equal(t, EXTHRecordPrefixSize+len(r.Value), h.Records[i].Length())
	}
}

func TestParseEXTHPadding(t *testing.T) {
	data := mobifixture.EncodeEXTH([]mobifixture.EXTHRecord{{Type: 100, Value: []byte("abcde")}})
	data = append(data, "trailing"...)

	h, consumed, err := ParseEXTH(data)
	require.NoError(t, err)
	require.EqualValues(t, 25, h.HeaderLength)
	require.Equal(t, 28, consumed)
}

func TestParseEXTHCopiesValues(t *testing.T) {
	data := mobifixture.EncodeEXTH([]mobifixture.EXTHRecord{{Type: 1, Value: []byte("keep")}})

	h, _, err := ParseEXTH(data)
	require.NoError(t, err)
	copy(data[EXTHPrefixSize+EXTHRecordPrefixSize:], "XXXX")
	require.Equal(t, []byte("keep"), h.Records[0].Value)
}

func TestParseEXTHErrors(t *testing.T) {
	be := binary.BigEndian
	valid := mobifixture.EncodeEXTH([]mobifixture.EXTHRecord{
		{Type: 100, Value: []byte("abcd")},
		{Type: 101, Value: []byte("efgh")},
	})

	tests := []struct {
		name    string
		mutate  func([]byte) []byte
		wantErr error
	}{
		{
			name:    "shorter than prefix",
			mutate:  func(b []byte) []byte { return b[:EXTHPrefixSize-1] },
			wantErr: ErrTruncated,
		},
		{
			name:    "declared length beyond buffer",
			mutate:  func(b []byte) []byte { return b[:len(b)-1] },
			wantErr: ErrTruncated,
		},
		{
			name: "declared length below prefix",
			mutate: func(b []byte) []byte {
				be.PutUint32(b[4:], 8)
				return b
			},
			wantErr: ErrMalformedRecord,
		},
		{
			name: "record length below prefix",
			mutate: func(b []byte) []byte {
				be.PutUint32(b[EXTHPrefixSize+4:], 7)
				return b
			},
			wantErr: ErrMalformedRecord,
		},
		{
			name: "record runs past header",
			mutate: func(b []byte) []byte {
				be.PutUint32(b[EXTHPrefixSize+4:], 64)
				return b
			},
			wantErr: ErrTruncated,
		},
		{
			name: "count larger than records present",
			mutate: func(b []byte) []byte {
				be.PutUint32(b[8:], 0xFFFFFFFF)
				return b
			},
			wantErr: ErrTruncated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.mutate(append([]byte(nil), valid...))
			_, _, err := ParseEXTH(data)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEXTHLookup(t *testing.T) {
	data := mobifixture.EncodeEXTH([]mobifixture.EXTHRecord{
		{Type: 100, Value: []byte("First Author")},
		{Type: 524, Value: []byte("en")},
		{Type: 100, Value: []byte("Second Author")},
	})
	h, _, err := ParseEXTH(data)
	require.NoError(t, err)

	require.Equal(t, [][]byte{[]byte("First Author"), []byte("Second Author")}, h.Lookup(100))
	require.Nil(t, h.Lookup(999))

	byType := h.ByType()
	require.Len(t, byType, 2)
	require.Equal(t, [][]byte{[]byte("en")}, byType[524])
	require.Len(t, byType[100], 2)
}

func TestParseEXTHEmpty(t *testing.T) {
	h, consumed, err := ParseEXTH(mobifixture.EncodeEXTH([]mobifixture.EXTHRecord{}))
	require.NoError(t, err)
	require.Empty(t, h.Records)
	require.Equal(t, EXTHPrefixSize, consumed)
}
