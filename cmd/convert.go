package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/etnz/payments"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// convertCmd holds the flags for the 'convert' subcommand.
type convertCmd struct {
	to string
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "convert a transactions file between CSV and JSON lines" }
func (*convertCmd) Usage() string {
	return `txp convert [-to csv|jsonl] <file>

  Reads the transactions of <file> and writes them to stdout in the other
  format, or the one given by -to. The output is canonical: lower case
  types, amounts with four fractional digits. Invalid lines are logged on
  stderr and dropped.
`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.to, "to", "", "output format: csv or jsonl. Defaults to the format the input is not in.")
}

func (c *convertCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path, err := inputArg(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	to := c.to
	if to == "" {
		to = formatJSONL
		if inputFormat(path) == formatJSONL {
			to = formatCSV
		}
	}
	if to != formatCSV && to != formatJSONL {
		fmt.Fprintf(os.Stderr, "Error: unknown record format %q\n", to)
		return subcommands.ExitUsageError
	}

	records, closer, err := openRecords(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closer.Close()

	if _, err := convert(newLogger(), records, os.Stdout, to); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// convert re-encodes records to w and returns how many were written.
func convert(log zerolog.Logger, records iter.Seq2[payments.Record, error], w io.Writer, to string) (int, error) {
	var enc payments.RecordEncoder
	if to == formatJSONL {
		enc = payments.NewJSONLRecordEncoder(w)
	} else {
		enc = payments.NewCSVRecordEncoder(w)
	}

	n := 0
	for rec, err := range records {
		if err != nil {
			var derr *payments.DecodeError
			if errors.As(err, &derr) {
				log.Warn().Int("line", derr.Line).Err(derr.Err).Msg("deserialize failed")
				continue
			}
			return n, err
		}
		if err := enc.Encode(rec); err != nil {
			return n, err
		}
		n++
	}
	return n, enc.Flush()
}
