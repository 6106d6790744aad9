package cmd

import (
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/payments"
)

// Record file formats.
const (
	formatCSV   = "csv"
	formatJSONL = "jsonl"
)

// inputFormat guesses the format of a record file from its extension.
func inputFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		return formatJSONL
	}
	return formatCSV
}

// openRecords opens a record file, "-" being stdin, and returns its records.
// The caller must close the returned closer once the records are consumed.
func openRecords(path string) (iter.Seq2[payments.Record, error], io.Closer, error) {
	var r io.ReadCloser = io.NopCloser(os.Stdin)
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open transactions: %w", err)
		}
		r = f
	}
	return decodeRecords(r, inputFormat(path)), r, nil
}

func decodeRecords(r io.Reader, format string) iter.Seq2[payments.Record, error] {
	if format == formatJSONL {
		return payments.DecodeJSONL(r)
	}
	return payments.DecodeCSV(r)
}

// inputArg returns the single file argument of a command.
func inputArg(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", fmt.Errorf("missing transactions file, use - for stdin")
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("expected a single transactions file, got %d arguments", len(args))
	}
}
