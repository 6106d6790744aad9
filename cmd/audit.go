package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/etnz/payments"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

type auditCmd struct{}

func (*auditCmd) Name() string     { return "audit" }
func (*auditCmd) Synopsis() string { return "check every account against its transaction history" }
func (*auditCmd) Usage() string {
	return `txp audit <file>

  Applies the transactions of <file>, then recomputes every account from the
  transactions it owns and reports any difference with the live balances.
  Exits with a failure status when an account drifts.
`
}

func (c *auditCmd) SetFlags(f *flag.FlagSet) {}

func (c *auditCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path, err := inputArg(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	records, closer, err := openRecords(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closer.Close()

	if err := audit(newLogger(), records, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// audit processes records then checks the resulting ledger.
func audit(log zerolog.Logger, records iter.Seq2[payments.Record, error], w io.Writer) error {
	p := payments.NewProcessor()
	stats, err := payments.Ingester{Log: log}.Ingest(p, records)
	if err != nil {
		return err
	}
	if err := p.Audit(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%d accounts consistent with %d applied records\n", p.Len(), stats.Applied)
	return nil
}
