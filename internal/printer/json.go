package printer

import (
	"encoding/json"
	"fmt"

	"github.com/joshuapare/mobikit/internal/format"
)

// jsonDocument is the single object written by Flush in JSON mode.
type jsonDocument struct {
	PDBHeader   *jsonPDBHeader   `json:"pdb_header,omitempty"`
	PDBRecords  []jsonRecord     `json:"pdb_records,omitempty"`
	MOBIHeader  *jsonMOBIHeader  `json:"mobi_header,omitempty"`
	FullName    *string          `json:"full_name,omitempty"`
	EXTHHeader  *jsonEXTHHeader  `json:"exth_header,omitempty"`
	EXTHRecords []jsonEXTHRecord `json:"exth_records,omitempty"`
}

func (d jsonDocument) empty() bool {
	return d.PDBHeader == nil && d.PDBRecords == nil && d.MOBIHeader == nil && d.FullName == nil &&
		d.EXTHHeader == nil && d.EXTHRecords == nil
}

type jsonPDBHeader struct {
	Name               string `json:"name"`
	Attributes         uint16 `json:"attributes"`
	Version            uint16 `json:"version"`
	CreationTime       string `json:"creation_time"`
	ModificationTime   string `json:"modification_time"`
	BackupTime         string `json:"backup_time"`
	ModificationNumber uint32 `json:"modification_number"`
	AppInfoOffset      uint32 `json:"app_info_offset"`
	SortInfoOffset     uint32 `json:"sort_info_offset"`
	Type               string `json:"type"`
	Creator            string `json:"creator"`
	UniqueIDSeed       uint32 `json:"unique_id_seed"`
	NextRecordList     uint32 `json:"next_record_list"`
	RecordCount        uint16 `json:"record_count"`
}

type jsonRecord struct {
	ID         int    `json:"id"`
	Offset     uint32 `json:"offset"`
	Size       uint32 `json:"size"`
	Attributes uint8  `json:"attributes"`
	UniqueID   uint32 `json:"unique_id"`
}

// jsonMOBIHeader omits index fields that hold format.NoIndex.
type jsonMOBIHeader struct {
	Compression          uint16         `json:"compression"`
	CompressionName      string         `json:"compression_name"`
	TextLength           uint32         `json:"text_length"`
	RecordCount          uint16         `json:"record_count"`
	RecordSize           uint16         `json:"record_size"`
	EncryptionType       uint16         `json:"encryption_type"`
	Identifier           string         `json:"identifier"`
	HeaderLength         uint32         `json:"header_length"`
	Type                 uint32         `json:"type"`
	TextEncoding         uint32         `json:"text_encoding"`
	UniqueID             uint32         `json:"unique_id"`
	FileVersion          uint32         `json:"file_version"`
	OrthographicIndex    *uint32        `json:"orthographic_index,omitempty"`
	InflectionIndex      *uint32        `json:"inflection_index,omitempty"`
	IndexNames           *uint32        `json:"index_names,omitempty"`
	IndexKeys            *uint32        `json:"index_keys,omitempty"`
	ExtraIndex           map[int]uint32 `json:"extra_index,omitempty"`
	FirstNonBookIndex    uint32         `json:"first_nonbook_index"`
	FullNameOffset       uint32         `json:"full_name_offset"`
	FullNameLength       uint32         `json:"full_name_length"`
	Locale               uint32         `json:"locale"`
	DictInputLanguage    uint32         `json:"dict_input_language"`
	DictOutputLanguage   uint32         `json:"dict_output_language"`
	MinVersion           uint32         `json:"min_version"`
	FirstImageRecord     uint32         `json:"first_image_record"`
	HuffmanRecordOffset  uint32         `json:"huffman_record_offset"`
	HuffmanRecordCount   uint32         `json:"huffman_record_count"`
	HuffmanTableOffset   uint32         `json:"huffman_table_offset"`
	HuffmanTableCount    uint32         `json:"huffman_table_count"`
	EXTHFlags            uint32         `json:"exth_flags"`
	EXTHPresent          bool           `json:"exth_present"`
	DRMOffset            uint32         `json:"drm_offset"`
	DRMCount             uint32         `json:"drm_count"`
	DRMSize              uint32         `json:"drm_size"`
	DRMFlags             uint32         `json:"drm_flags"`
	FirstContentRecord   uint16         `json:"first_content_record"`
	LastContentRecord    uint16         `json:"last_content_record"`
	FCISRecord           uint32         `json:"fcis_record"`
	FLISRecord           uint32         `json:"flis_record"`
	ExtraRecordDataFlags []string       `json:"extra_record_data_flags"`
	INDXRecordOffset     *uint32        `json:"indx_record_offset,omitempty"`
}

type jsonEXTHHeader struct {
	Identifier   string `json:"identifier"`
	HeaderLength uint32 `json:"header_length"`
	RecordCount  uint32 `json:"record_count"`
}

type jsonEXTHRecord struct {
	Type   uint32 `json:"type"`
	Length int    `json:"length"`
	Text   string `json:"text,omitempty"`
	Hex    string `json:"hex,omitempty"`
}

func newJSONPDBHeader(h format.PDBHeader) *jsonPDBHeader {
	return &jsonPDBHeader{
		Name:               h.DatabaseName(),
		Attributes:         h.Attributes,
		Version:            h.Version,
		CreationTime:       palmTime(h.CreationTime),
		ModificationTime:   palmTime(h.ModificationTime),
		BackupTime:         palmTime(h.BackupTime),
		ModificationNumber: h.ModificationNumber,
		AppInfoOffset:      h.AppInfoOffset,
		SortInfoOffset:     h.SortInfoOffset,
		Type:               fourCC(h.Type),
		Creator:            fourCC(h.Creator),
		UniqueIDSeed:       h.UniqueIDSeed,
		NextRecordList:     h.NextRecordList,
		RecordCount:        h.RecordCount,
	}
}

func newJSONRecords(h format.PDBHeader) []jsonRecord {
	out := make([]jsonRecord, 0, len(h.Records))
	for i, rec := range h.Records {
		size, _ := h.RecordSize(i)
		out = append(out, jsonRecord{
			ID:         i,
			Offset:     rec.Offset,
			Size:       size,
			Attributes: rec.Attributes,
			UniqueID:   rec.UniqueID,
		})
	}
	return out
}

func index(v uint32) *uint32 {
	if !format.IndexPresent(v) {
		return nil
	}
	return &v
}

func newJSONMOBIHeader(h format.MOBIHeader) *jsonMOBIHeader {
	out := &jsonMOBIHeader{
		Compression:          h.Compression,
		CompressionName:      format.CompressionName(h.Compression),
		TextLength:           h.TextLength,
		RecordCount:          h.RecordCount,
		RecordSize:           h.RecordSize,
		EncryptionType:       h.EncryptionType,
		Identifier:           format.FourCC(h.Identifier),
		HeaderLength:         h.HeaderLength,
		Type:                 h.Type,
		TextEncoding:         h.TextEncoding,
		UniqueID:             h.UniqueID,
		FileVersion:          h.FileVersion,
		OrthographicIndex:    index(h.OrthographicIndex),
		InflectionIndex:      index(h.InflectionIndex),
		IndexNames:           index(h.IndexNames),
		IndexKeys:            index(h.IndexKeys),
		FirstNonBookIndex:    h.FirstNonBookIndex,
		FullNameOffset:       h.FullNameOffset,
		FullNameLength:       h.FullNameLength,
		Locale:               h.Locale,
		DictInputLanguage:    h.DictInputLanguage,
		DictOutputLanguage:   h.DictOutputLanguage,
		MinVersion:           h.MinVersion,
		FirstImageRecord:     h.FirstImageRecord,
		HuffmanRecordOffset:  h.HuffmanRecordOffset,
		HuffmanRecordCount:   h.HuffmanRecordCount,
		HuffmanTableOffset:   h.HuffmanTableOffset,
		HuffmanTableCount:    h.HuffmanTableCount,
		EXTHFlags:            h.EXTHFlags,
		EXTHPresent:          h.HasEXTH(),
		DRMOffset:            h.DRMOffset,
		DRMCount:             h.DRMCount,
		DRMSize:              h.DRMSize,
		DRMFlags:             h.DRMFlags,
		FirstContentRecord:   h.FirstContentRecord,
		LastContentRecord:    h.LastContentRecord,
		FCISRecord:           h.FCISRecord,
		FLISRecord:           h.FLISRecord,
		ExtraRecordDataFlags: format.ExtraDataFlagNames(h.ExtraRecordDataFlags),
		INDXRecordOffset:     index(h.INDXRecordOffset),
	}
	if out.ExtraRecordDataFlags == nil {
		out.ExtraRecordDataFlags = []string{}
	}
	for i, v := range h.ExtraIndex {
		if !format.IndexPresent(v) {
			continue
		}
		if out.ExtraIndex == nil {
			out.ExtraIndex = make(map[int]uint32)
		}
		out.ExtraIndex[i] = v
	}
	return out
}

func newJSONEXTHRecords(h format.EXTHHeader, encoding uint32) []jsonEXTHRecord {
	out := make([]jsonEXTHRecord, 0, len(h.Records))
	for _, rec := range h.Records {
		r := jsonEXTHRecord{Type: rec.Type, Length: rec.Length()}
		if text, ok := valueText(rec.Value, encoding); ok {
			r.Text = text
		} else {
			r.Hex = fmt.Sprintf("%X", rec.Value)
		}
		out = append(out, r)
	}
	return out
}

func (p *Printer) writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}
