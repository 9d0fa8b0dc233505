package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/mobikit/internal/logger"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
	noColor bool
	noMmap  bool

	// Section flags
	printAll         bool
	printPDBHeader   bool
	printPDBRecords  bool
	printMOBIHeader  bool
	printEXTHHeader  bool
	printEXTHRecords bool
	dumpRecord       int
)

var rootCmd = &cobra.Command{
	Use:   "readmobi [-adDeEm] [-r id] <file.mobi>",
	Short: "Inspect the headers and records of MOBI e-book files",
	Long: `readmobi decodes the Palm Database, MOBI and EXTH headers of a
MOBI e-book and prints them, or dumps the raw bytes of a single PDB record.

Example:
  readmobi -a book.mobi
  readmobi -m --json book.mobi
  readmobi -r 1 book.mobi > record1.bin`,
	Version:       "0.1.0",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(logger.Options{
			Enabled: verbose && !quiet,
			Writer:  os.Stderr,
			Level:   slog.LevelDebug,
		})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReadmobi(args[0])
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log decoding stages to stderr")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors and requested sections")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noMmap, "no-mmap", false, "Read the file into memory instead of mapping it")

	flags := rootCmd.Flags()
	flags.BoolVarP(&printAll, "all", "a", false, "Print all headers/records")
	flags.BoolVarP(&printPDBHeader, "pdb-header", "d", false, "Print PDB header")
	flags.BoolVarP(&printPDBRecords, "pdb-records", "D", false, "Print PDB records")
	flags.BoolVarP(&printEXTHHeader, "exth-header", "e", false, "Print EXTH header")
	flags.BoolVarP(&printEXTHRecords, "exth-records", "E", false, "Print EXTH records")
	flags.BoolVarP(&printMOBIHeader, "mobi-header", "m", false, "Print MOBI headers")
	flags.IntVarP(&dumpRecord, "record", "r", -1, "Dump PDB record `id` to stdout")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// Helper functions for output

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
