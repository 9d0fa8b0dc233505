/*
Package mobi decodes the headers of MOBI e-books and exposes their raw records.

A MOBI file is a Palm Database (PDB) holding a record table, a PalmDOC/MOBI
header and an optional EXTH metadata header. Parse runs the three decoders in
order, advancing a cursor by the length each one declares, and returns an
immutable Book.

# Quick Start

	book, err := mobi.Open("novel.mobi", mobi.OpenOptions{})
	if err != nil {
	    log.Fatal(err)
	}
	defer book.Close()

	fmt.Println(book.PDB().DatabaseName(), book.MOBI().HeaderLength)

	rec, err := book.Record(1)
	if errors.Is(err, mobi.ErrRecordNotFound) {
	    // not fatal
	}

# Buffers

Open memory-maps the file. Record returns slices that alias the mapping
unless OpenOptions.CopyRecords is set; aliased slices must not be used after
Close. Parse accepts any caller-owned buffer and never modifies it.

# Errors

Decode failures are returned as *Error carrying the failing Stage and an
ErrKind. The sentinels ErrTruncated, ErrMalformedRecord and ErrRecordNotFound
match with errors.Is. A missing record is an ordinary outcome; every other
error aborts the parse.

Content decompression and EXTH record interpretation are out of scope.
*/
package mobi
