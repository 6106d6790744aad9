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
	"github.com/etnz/payments/events/kafka"
	"github.com/etnz/payments/renderer"
	"github.com/etnz/payments/storage/postgres"
	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Report formats.
const (
	formatJSON     = "json"
	formatMarkdown = "md"
)

// processCmd holds the flags for the 'process' subcommand.
type processCmd struct {
	format      string
	query       string
	brokers     string
	topic       string
	postgresDSN string
}

func (*processCmd) Name() string     { return "process" }
func (*processCmd) Synopsis() string { return "apply a transactions file and report every account" }
func (*processCmd) Usage() string {
	return `txp process [-format csv|json|md] [-q <jsonpath>] [-kafka <brokers>] [-postgres <dsn>] <file>

  Applies the transactions of <file> (CSV, or JSON lines when the name ends
  with .jsonl, - for stdin) and writes the final state of every account.

  Invalid lines and rejected records are logged on stderr and skipped.

Usage Examples:
$ txp process transactions.csv > accounts.csv
$ txp process -format json -q '$[?(@.locked)].client' transactions.csv
`
}

func (c *processCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "", "output format: csv, json or md. Defaults to "+EnvFormat+", then csv.")
	f.StringVar(&c.query, "q", "", "JSONPath query applied to the json output")
	f.StringVar(&c.brokers, "kafka", "", "comma separated Kafka brokers to publish the results to. Defaults to "+EnvKafkaBrokers+".")
	f.StringVar(&c.topic, "kafka-topic", "", "Kafka topic. Defaults to "+EnvKafkaTopic+", then "+kafka.DefaultTopic+".")
	f.StringVar(&c.postgresDSN, "postgres", "", "PostgreSQL connection string to export the accounts to. Defaults to "+EnvPostgresDSN+".")
}

func (c *processCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path, err := inputArg(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	format, err := c.outputFormat()
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

	runID := uuid.NewString()
	log := newLogger().With().Str("run", runID).Logger()

	var sinks []sink
	if brokers := splitList(envOr(c.brokers, EnvKafkaBrokers)); len(brokers) > 0 {
		pub := kafka.NewPublisher(brokers, envOr(c.topic, EnvKafkaTopic), runID)
		defer pub.Close()
		sinks = append(sinks, kafkaSink{pub})
	}
	if dsn := envOr(c.postgresDSN, EnvPostgresDSN); dsn != "" {
		exp, err := postgres.Open(ctx, dsn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		defer exp.Close()
		sinks = append(sinks, postgresSink{exp, runID})
	}

	run := &processRun{Log: log, Format: format, Query: c.query, Sinks: sinks}
	if err := run.Run(ctx, records, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// outputFormat resolves and validates the report format.
func (c *processCmd) outputFormat() (string, error) {
	format := envOr(c.format, EnvFormat)
	if format == "" {
		format = formatCSV
	}
	if c.query != "" {
		if c.format != "" && c.format != formatJSON {
			return "", fmt.Errorf("-q requires the %s format, got %q", formatJSON, c.format)
		}
		format = formatJSON
	}
	switch format {
	case formatCSV, formatJSON, formatMarkdown:
		return format, nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

// sink receives the outcome of a run, beside the report.
type sink interface {
	// Rejected is called for every record refused by the ledger.
	Rejected(payments.Record, error)
	// Done is called once with the final account summaries.
	Done(context.Context, []payments.AccountSummary) error
}

type kafkaSink struct{ *kafka.Publisher }

func (s kafkaSink) Done(ctx context.Context, rows []payments.AccountSummary) error {
	s.Summaries(rows)
	return s.Flush(ctx)
}

type postgresSink struct {
	*postgres.Exporter
	runID string
}

func (postgresSink) Rejected(payments.Record, error) {}

func (s postgresSink) Done(ctx context.Context, rows []payments.AccountSummary) error {
	if err := s.Migrate(ctx); err != nil {
		return err
	}
	return s.Export(ctx, s.runID, rows)
}

// processRun applies a record stream and reports the resulting accounts.
type processRun struct {
	Log    zerolog.Logger
	Format string
	Query  string
	Sinks  []sink
}

// Run processes records and writes the report to w. Bad records are not
// errors, only a failing input, output or sink is.
func (r *processRun) Run(ctx context.Context, records iter.Seq2[payments.Record, error], w io.Writer) error {
	p := payments.NewProcessor()
	var rejected []rejection
	ingester := payments.Ingester{
		Log: r.Log,
		OnReject: func(rec payments.Record, err error) {
			rejected = append(rejected, rejection{rec, err})
			for _, s := range r.Sinks {
				s.Rejected(rec, err)
			}
		},
	}
	stats, err := ingester.Ingest(p, records)
	if err != nil {
		return err
	}
	rows, err := p.Summaries()
	if err != nil {
		return err
	}
	r.Log.Info().
		Int("records", stats.Records()).
		Int("applied", stats.Applied).
		Int("rejected", stats.Rejected).
		Int("malformed", stats.Malformed).
		Int("accounts", len(rows)).
		Msg("processed")

	if err := r.write(w, rows, stats, rejected); err != nil {
		return err
	}

	var errs error
	for _, s := range r.Sinks {
		errs = errors.Join(errs, s.Done(ctx, rows))
	}
	return errs
}

type rejection struct {
	rec payments.Record
	err error
}

func (r *processRun) write(w io.Writer, rows []payments.AccountSummary, stats payments.IngestStats, rejected []rejection) error {
	switch r.Format {
	case formatJSON:
		if r.Query != "" {
			return writeQuery(w, rows, r.Query)
		}
		return payments.EncodeJSON(w, rows)
	case formatMarkdown:
		report := renderer.NewReport(rows, stats)
		for _, rj := range rejected {
			report.AddRejection(rj.rec, rj.err)
		}
		writeMarkdown(w, renderer.RenderReport(report))
		return nil
	default:
		return payments.EncodeCSV(w, rows)
	}
}
