package printer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/joshuapare/mobikit/internal/format"
)

// PrintPDBHeader prints the Palm Database header.
func (p *Printer) PrintPDBHeader(h format.PDBHeader) error {
	if p.json() {
		p.doc.PDBHeader = newJSONPDBHeader(h)
		return nil
	}

	w := p.writer
	fmt.Fprintln(w, p.title.Render("PDB header"))
	fmt.Fprintf(w, "  Name: %s\n", h.DatabaseName())
	fmt.Fprintf(w, "  Attributes: 0x%04x\n", h.Attributes)
	fmt.Fprintf(w, "  Version: %d\n", h.Version)
	fmt.Fprintf(w, "  Creation time: %s (0x%08x)\n", palmTime(h.CreationTime), h.CreationTime)
	fmt.Fprintf(w, "  Modification time: %s (0x%08x)\n", palmTime(h.ModificationTime), h.ModificationTime)
	fmt.Fprintf(w, "  Backup time: %s (0x%08x)\n", palmTime(h.BackupTime), h.BackupTime)
	fmt.Fprintf(w, "  Modification number: %d\n", h.ModificationNumber)
	fmt.Fprintf(w, "  App info offset: %d\n", h.AppInfoOffset)
	fmt.Fprintf(w, "  Sort info offset: %d\n", h.SortInfoOffset)
	fmt.Fprintf(w, "  Type: %s\n", fourCC(h.Type))
	fmt.Fprintf(w, "  Creator: %s\n", fourCC(h.Creator))
	fmt.Fprintf(w, "  Unique ID seed: %d\n", h.UniqueIDSeed)
	fmt.Fprintf(w, "  Next record list: %d\n", h.NextRecordList)
	_, err := fmt.Fprintf(w, "  Record count: %d\n", h.RecordCount)
	return err
}

// PrintPDBRecords prints one line per record table entry.
func (p *Printer) PrintPDBRecords(h format.PDBHeader) error {
	if p.json() {
		p.doc.PDBRecords = newJSONRecords(h)
		return nil
	}

	fmt.Fprintln(p.writer, p.title.Render("PDB records"))
	for i, rec := range h.Records {
		size, _ := h.RecordSize(i)
		if _, err := fmt.Fprintf(p.writer, "  #%d: offset %d, size %d, attributes 0x%02x, unique id %d\n",
			i, rec.Offset, size, rec.Attributes, rec.UniqueID); err != nil {
			return err
		}
	}
	return nil
}

// PrintMOBIHeader prints the PalmDOC and MOBI headers. Index fields holding
// format.NoIndex are omitted.
func (p *Printer) PrintMOBIHeader(h format.MOBIHeader) error {
	if p.json() {
		p.doc.MOBIHeader = newJSONMOBIHeader(h)
		return nil
	}

	w := p.writer
	fmt.Fprintln(w, p.title.Render("PalmDOC header"))
	fmt.Fprintf(w, "  Compression: %d (%s)\n", h.Compression, format.CompressionName(h.Compression))
	fmt.Fprintf(w, "  Uncompressed text length: %d\n", h.TextLength)
	fmt.Fprintf(w, "  Record count: %d\n", h.RecordCount)
	fmt.Fprintf(w, "  Record size: %d\n", h.RecordSize)
	fmt.Fprintf(w, "  Encryption type: %d\n", h.EncryptionType)

	fmt.Fprintln(w, p.title.Render("MOBI header"))
	fmt.Fprintf(w, "  MOBI ID: %08x (%s)\n", h.Identifier, format.FourCC(h.Identifier))
	fmt.Fprintf(w, "  MOBI header length: %d\n", h.HeaderLength)
	fmt.Fprintf(w, "  Type: %08x\n", h.Type)
	fmt.Fprintf(w, "  Text encoding: %d (%s)\n", h.TextEncoding, format.TextEncodingName(h.TextEncoding))
	fmt.Fprintf(w, "  Unique ID: %08x\n", h.UniqueID)
	fmt.Fprintf(w, "  File version: %d\n", h.FileVersion)
	printIndex(w, "Orthographic index", h.OrthographicIndex)
	printIndex(w, "Inflection index", h.InflectionIndex)
	printIndex(w, "Index names", h.IndexNames)
	printIndex(w, "Index keys", h.IndexKeys)
	for i, v := range h.ExtraIndex {
		printIndex(w, fmt.Sprintf("Extra index #%d", i), v)
	}
	fmt.Fprintf(w, "  First non-book index: %d\n", h.FirstNonBookIndex)
	fmt.Fprintf(w, "  Full name offset: %d\n", h.FullNameOffset)
	fmt.Fprintf(w, "  Full name length: %d\n", h.FullNameLength)
	fmt.Fprintf(w, "  Locale: %d\n", h.Locale)
	fmt.Fprintf(w, "  Dict input language: %d\n", h.DictInputLanguage)
	fmt.Fprintf(w, "  Dict output language: %d\n", h.DictOutputLanguage)
	fmt.Fprintf(w, "  Min version: %d\n", h.MinVersion)
	fmt.Fprintf(w, "  First image index: %d\n", h.FirstImageRecord)
	fmt.Fprintf(w, "  Huffman record offset: %d\n", h.HuffmanRecordOffset)
	fmt.Fprintf(w, "  Huffman record count: %d\n", h.HuffmanRecordCount)
	fmt.Fprintf(w, "  Huffman table offset: %d\n", h.HuffmanTableOffset)
	fmt.Fprintf(w, "  Huffman table count: %d\n", h.HuffmanTableCount)
	exth := "No EXTH"
	if h.HasEXTH() {
		exth = "EXTH present"
	}
	fmt.Fprintf(w, "  EXTH flags: %s (0x%08x)\n", exth, h.EXTHFlags)
	fmt.Fprintf(w, "  DRM offset: %d\n", h.DRMOffset)
	fmt.Fprintf(w, "  DRM count: %d\n", h.DRMCount)
	fmt.Fprintf(w, "  DRM size: %d\n", h.DRMSize)
	fmt.Fprintf(w, "  DRM flags: %08x\n", h.DRMFlags)
	fmt.Fprintf(w, "  First content record #: %d\n", h.FirstContentRecord)
	fmt.Fprintf(w, "  Last content record #: %d\n", h.LastContentRecord)
	fmt.Fprintf(w, "  FCIS record #: %d\n", h.FCISRecord)
	fmt.Fprintf(w, "  FLIS record #: %d\n", h.FLISRecord)
	flags := ""
	if names := format.ExtraDataFlagNames(h.ExtraRecordDataFlags); len(names) > 0 {
		flags = " " + strings.Join(names, " ")
	}
	fmt.Fprintf(w, "  Extra record data flags:%s (0x%08x)\n", flags, h.ExtraRecordDataFlags)
	printIndex(w, "INDX record offset", h.INDXRecordOffset)
	return nil
}

// PrintFullName prints the decoded book title.
func (p *Printer) PrintFullName(name string) error {
	if p.json() {
		p.doc.FullName = &name
		return nil
	}
	_, err := fmt.Fprintf(p.writer, "  Full name: %q\n", name)
	return err
}

// PrintEXTHHeader prints the EXTH header prefix.
func (p *Printer) PrintEXTHHeader(h format.EXTHHeader) error {
	if p.json() {
		p.doc.EXTHHeader = &jsonEXTHHeader{
			Identifier:   fourCC(h.Identifier),
			HeaderLength: h.HeaderLength,
			RecordCount:  h.RecordCount,
		}
		return nil
	}

	w := p.writer
	fmt.Fprintln(w, p.title.Render("EXTH header"))
	fmt.Fprintf(w, "  EXTH ID: %s\n", fourCC(h.Identifier))
	fmt.Fprintf(w, "  Header length: %d\n", h.HeaderLength)
	_, err := fmt.Fprintf(w, "  Record count: %d\n", h.RecordCount)
	return err
}

// PrintEXTHRecords prints every EXTH record. Values that decode to printable
// text in the book's encoding are shown as text, others as hex.
func (p *Printer) PrintEXTHRecords(h format.EXTHHeader, encoding uint32) error {
	if p.json() {
		p.doc.EXTHRecords = newJSONEXTHRecords(h, encoding)
		return nil
	}

	fmt.Fprintln(p.writer, p.title.Render("EXTH records"))
	for i, rec := range h.Records {
		fmt.Fprintf(p.writer, "  #%d: type %d, length %d: ", i, rec.Type, rec.Length())
		if text, ok := valueText(rec.Value, encoding); ok {
			fmt.Fprintf(p.writer, "%q\n", text)
			continue
		}
		if _, err := fmt.Fprintln(p.writer, p.hexValue(rec.Value)); err != nil {
			return err
		}
	}
	return nil
}

func printIndex(w io.Writer, label string, v uint32) {
	if format.IndexPresent(v) {
		fmt.Fprintf(w, "  %s: %d\n", label, v)
	}
}

func (p *Printer) hexValue(b []byte) string {
	if len(b) == 0 {
		return "<empty>"
	}
	maxBytes := p.opts.MaxValueBytes
	if maxBytes == 0 || maxBytes > len(b) {
		maxBytes = len(b)
	}
	out := fmt.Sprintf("%X", b[:maxBytes])
	if maxBytes < len(b) {
		out += fmt.Sprintf(" (truncated, %d total bytes)", len(b))
	}
	return out
}

// valueText decodes b in the book's text encoding and reports whether the
// result is printable.
func valueText(b []byte, encoding uint32) (string, bool) {
	text, err := format.DecodeText(encoding, b)
	if err != nil || !format.Printable([]byte(text)) {
		return "", false
	}
	return text, true
}

func palmTime(v uint32) string {
	t := format.PalmTime(v)
	if t.IsZero() {
		return "never"
	}
	return t.UTC().Format(time.RFC3339)
}

func fourCC(b [4]byte) string {
	return format.FourCC(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
}
