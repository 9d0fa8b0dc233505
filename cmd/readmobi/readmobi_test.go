package main

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/mobikit/internal/testutil"
	"github.com/joshuapare/mobikit/internal/testutil/mobifixture"
)

func sampleBookPath(t *testing.T) string {
	t.Helper()
	data, _ := testutil.SampleBook()
	return testutil.WriteBook(t, "sample.mobi", data)
}

func TestReadmobiSections(t *testing.T) {
	path := sampleBookPath(t)

	tests := []struct {
		name           string
		args           []string
		wantContain    []string
		wantNotContain []string
		wantJSON       bool
	}{
		{
			name: "all sections",
			args: []string{"-a", "--no-color", path},
			wantContain: []string{
				"PDB header", "Name: Test_Book",
				"PDB records", "#1: offset",
				"PalmDOC header", "MOBI header", `Full name: "Sample Book"`,
				"EXTH header", `#0: type 100, length 19: "Jane Author"`,
			},
		},
		{
			name:           "pdb header only",
			args:           []string{"-d", "--no-color", path},
			wantContain:    []string{"PDB header", "Record count: 3"},
			wantNotContain: []string{"PDB records", "MOBI header", "EXTH"},
		},
		{
			name:           "pdb records only",
			args:           []string{"-D", "--no-color", path},
			wantContain:    []string{"#0: offset 102", "#2: offset"},
			wantNotContain: []string{"PDB header"},
		},
		{
			name:           "mobi header",
			args:           []string{"-m", "--no-color", path},
			wantContain:    []string{"Compression: 1 (no compression)", "EXTH flags: EXTH present"},
			wantNotContain: []string{"PDB header", "EXTH records"},
		},
		{
			name:           "exth header and records",
			args:           []string{"-e", "-E", "--no-color", path},
			wantContain:    []string{"EXTH ID: EXTH", "#2: type 201, length 12: 00000001"},
			wantNotContain: []string{"PalmDOC header"},
		},
		{
			name:        "json",
			args:        []string{"-a", "--json", path},
			wantContain: []string{`"pdb_header"`, `"mobi_header"`, `"full_name": "Sample Book"`, `"exth_records"`},
			wantJSON:    true,
		},
		{
			name: "no sections",
			args: []string{path},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := runCLI(t, tt.args...)
			require.NoError(t, err)
			require.Empty(t, stderr)

			if len(tt.wantContain) == 0 {
				require.Empty(t, stdout)
			}
			assertContains(t, stdout, tt.wantContain)
			assertNotContains(t, stdout, tt.wantNotContain)
			if tt.wantJSON {
				assertJSON(t, stdout)
			}
		})
	}
}

func TestReadmobiDumpRecord(t *testing.T) {
	path := sampleBookPath(t)

	stdout, stderr, err := runCLI(t, "-r", "1", path)
	require.NoError(t, err)
	require.Empty(t, stderr)
	require.Equal(t, "ABCD", stdout)

	stdout, _, err = runCLI(t, "--no-mmap", "-r", "2", path)
	require.NoError(t, err)
	require.Equal(t, "second record", stdout)
}

func TestReadmobiDumpMissingRecord(t *testing.T) {
	path := sampleBookPath(t)

	stdout, stderr, err := runCLI(t, "-r", "9", path)
	require.NoError(t, err)
	require.Empty(t, stdout)
	require.Equal(t, "PDB record #9 not found(0, 0)\n", stderr)
}

func TestReadmobiDumpEmptyRecord(t *testing.T) {
	b := mobifixture.New()
	b.Records = [][]byte{{}, []byte("tail")}
	data, lay := b.Build()
	path := testutil.WriteBook(t, "empty.mobi", data)

	stdout, stderr, err := runCLI(t, "-r", "0", path)
	require.NoError(t, err)
	require.Empty(t, stdout)
	require.Equal(t, "PDB record #0 not found("+strconv.Itoa(int(lay.RecordOffsets[0]))+", 0)\n", stderr)
}

func TestReadmobiRejectsMixedOptions(t *testing.T) {
	path := sampleBookPath(t)

	for _, flag := range []string{"-a", "-d", "-D", "-e", "-E", "-m"} {
		stdout, _, err := runCLI(t, flag, "-r", "1", path)
		require.Error(t, err, flag)
		require.Contains(t, err.Error(), "can't mix -r and -adDeEm options")
		require.Empty(t, stdout)
	}
}

func TestReadmobiWithoutEXTH(t *testing.T) {
	b := mobifixture.New()
	b.Records = [][]byte{[]byte("ABCD")}
	data, _ := b.Build()
	path := testutil.WriteBook(t, "plain.mobi", data)

	stdout, _, err := runCLI(t, "-e", "-E", path)
	require.NoError(t, err)
	require.Equal(t, "No EXTH header\n", stdout)

	// The end of the record table is where the MOBI header starts.
	stdout, _, err = runCLI(t, "-r", "0", path)
	require.NoError(t, err)
	require.Equal(t, "ABCD", stdout)
}

func TestReadmobiErrors(t *testing.T) {
	t.Run("truncated book", func(t *testing.T) {
		path := testutil.WriteBook(t, "short.mobi", []byte("BOOKMOBI"))
		_, _, err := runCLI(t, "-a", path)
		require.Error(t, err)
		require.Contains(t, err.Error(), "pdb header")
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := runCLI(t, "-a", t.TempDir()+"/missing.mobi")
		require.Error(t, err)
		require.Contains(t, err.Error(), "open book")
	})

	t.Run("no file argument", func(t *testing.T) {
		_, _, err := runCLI(t, "-a")
		require.Error(t, err)
	})
}

func TestReadmobiVerbose(t *testing.T) {
	path := sampleBookPath(t)

	stdout, stderr, err := runCLI(t, "-v", "-d", "--no-color", path)
	require.NoError(t, err)
	require.Contains(t, stdout, "PDB header")
	assertContains(t, stderr, []string{"Opening book:", "stage=pdb", "stage=mobi", "stage=exth", "book decoded"})

	_, stderr, err = runCLI(t, "-v", "-q", "-d", path)
	require.NoError(t, err)
	require.Empty(t, stderr)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assertContains(t, stdout, []string{"readmobi dev", "commit: none"})
}

