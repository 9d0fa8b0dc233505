package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joshuapare/mobikit/internal/logger"
	"github.com/joshuapare/mobikit/internal/printer"
	"github.com/joshuapare/mobikit/pkg/mobi"
)

func anySection() bool {
	return printAll || printPDBHeader || printPDBRecords || printMOBIHeader ||
		printEXTHHeader || printEXTHRecords
}

func runReadmobi(path string) error {
	if anySection() && dumpRecord > -1 {
		return errors.New("can't mix -r and -adDeEm options")
	}
	if printAll {
		printPDBHeader, printPDBRecords, printMOBIHeader = true, true, true
		printEXTHHeader, printEXTHRecords = true, true
	}

	printVerbose("Opening book: %s\n", path)

	book, err := mobi.Open(path, mobi.OpenOptions{
		NoMmap: noMmap,
		Logger: logger.L,
	})
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer book.Close()

	logger.Debug("book decoded", "book", book, "consumed", book.Consumed().Total())

	if dumpRecord > -1 {
		return dumpPDBRecord(book, dumpRecord)
	}
	return printSections(book)
}

func printSections(book *mobi.Book) error {
	opts := printer.DefaultOptions()
	opts.NoColor = noColor
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	p := printer.New(os.Stdout, opts)

	if printPDBHeader {
		if err := p.PrintPDBHeader(book.PDB()); err != nil {
			return err
		}
	}
	if printPDBRecords {
		if err := p.PrintPDBRecords(book.PDB()); err != nil {
			return err
		}
	}
	if printMOBIHeader {
		if err := p.PrintMOBIHeader(book.MOBI()); err != nil {
			return err
		}
		if name, err := book.FullName(); err != nil {
			logger.Warn("full name unavailable", "error", err)
		} else if name != "" {
			if err := p.PrintFullName(name); err != nil {
				return err
			}
		}
	}

	exth, ok := book.EXTH()
	if !ok && (printEXTHHeader || printEXTHRecords) && !jsonOut {
		fmt.Fprintln(os.Stdout, "No EXTH header")
	}
	if ok && printEXTHHeader {
		if err := p.PrintEXTHHeader(exth); err != nil {
			return err
		}
	}
	if ok && printEXTHRecords {
		if err := p.PrintEXTHRecords(exth, book.MOBI().TextEncoding); err != nil {
			return err
		}
	}

	return p.Flush()
}

// dumpPDBRecord writes the raw bytes of record id to stdout. A missing record
// is reported on stderr and is not an error.
func dumpPDBRecord(book *mobi.Book, id int) error {
	rec, err := book.Record(id)
	if errors.Is(err, mobi.ErrRecordNotFound) {
		offset, _ := book.RecordOffset(id)
		size, _ := book.RecordSize(id)
		fmt.Fprintf(os.Stderr, "PDB record #%d not found(%d, %d)\n", id, offset, size)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read record #%d: %w", id, err)
	}
	_, err = os.Stdout.Write(rec)
	return err
}
