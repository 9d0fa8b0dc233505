// Package testutil holds helpers shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/mobikit/internal/testutil/mobifixture"
)

// WriteBook writes data to a file named name inside a per-test temporary
// directory and returns its path.
func WriteBook(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// SampleBook returns a small book with the header block as record 0, three
// EXTH records, a full name and two content records.
func SampleBook() ([]byte, mobifixture.Layout) {
	b := mobifixture.New()
	b.HeaderInRecord0 = true
	b.FullName = []byte("Sample Book")
	b.FirstContent = 1
	b.LastContent = 2
	b.ExtraDataFlags = 0x3
	b.EXTH = []mobifixture.EXTHRecord{
		{Type: 100, Value: []byte("Jane Author")},
		{Type: 101, Value: []byte("Publisher")},
		{Type: 201, Value: []byte{0, 0, 0, 1}},
	}
	b.Records = [][]byte{[]byte("ABCD"), []byte("second record")}
	return b.Build()
}
