package payments

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
)

// Column names of the transaction and account files.
const (
	colType      = "type"
	colClient    = "client"
	colTx        = "tx"
	colAmount    = "amount"
	colAvailable = "available"
	colHeld      = "held"
	colTotal     = "total"
	colLocked    = "locked"
)

// DecodeError reports an input line that could not be turned into a Record.
type DecodeError struct {
	Line int
	Err  error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// columns maps the column names to their index in a row, -1 when absent.
type columns struct {
	kind, client, tx, amount int
}

func newColumns(header []string) (columns, error) {
	c := columns{-1, -1, -1, -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case colType:
			c.kind = i
		case colClient:
			c.client = i
		case colTx:
			c.tx = i
		case colAmount:
			c.amount = i
		}
	}
	if c.kind < 0 || c.client < 0 || c.tx < 0 {
		return c, fmt.Errorf("header %q must name the columns %q, %q and %q", strings.Join(header, ","), colType, colClient, colTx)
	}
	return c, nil
}

// field returns the trimmed value at index i, "" when the row is shorter.
func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// DecodeCSV reads transaction records from a CSV stream.
//
// The first row is a header naming the columns type, client, tx and amount
// in any order. Blanks around fields are ignored and the amount may be left
// empty (or omitted) on dispute, resolve and chargeback rows.
//
// A row that cannot be decoded is yielded as a *DecodeError and decoding
// carries on with the next row. Only a missing header or a read failure of
// the underlying stream ends the sequence early.
func DecodeCSV(r io.Reader) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		cr.TrimLeadingSpace = true
		cr.ReuseRecord = true

		var cols *columns
		for {
			row, err := cr.Read()
			if err == io.EOF {
				return
			}
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				if !yield(Record{}, &DecodeError{Line: perr.Line, Err: perr.Err}) {
					return
				}
				continue
			}
			if err != nil {
				yield(Record{}, fmt.Errorf("error reading from input: %w", err))
				return
			}
			if blank(row) {
				continue
			}
			line, _ := cr.FieldPos(0)

			if cols == nil {
				c, err := newColumns(row)
				if err != nil {
					yield(Record{}, &DecodeError{Line: line, Err: err})
					return
				}
				cols = &c
				continue
			}

			rec, err := cols.decode(row)
			if err != nil {
				err = &DecodeError{Line: line, Err: err}
			}
			if !yield(rec, err) {
				return
			}
		}
	}
}

func blank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// decode turns a data row into a Record.
func (c columns) decode(row []string) (Record, error) {
	kind, err := ParseKind(field(row, c.kind))
	if err != nil {
		return Record{}, err
	}
	client, err := parseClientID(field(row, c.client))
	if err != nil {
		return Record{}, err
	}
	tx, err := parseTransactionID(field(row, c.tx))
	if err != nil {
		return Record{}, err
	}

	rec := Record{Kind: kind, Client: client, Tx: tx}
	if !kind.HasAmount() {
		return rec, nil
	}
	s := field(row, c.amount)
	if s == "" {
		return Record{}, fmt.Errorf("%w: missing amount for %s", InvalidAmount, kind)
	}
	if rec.Amount, err = ParseMoney(s); err != nil {
		return Record{}, err
	}
	rec.HasAmount = true
	return rec, nil
}

func parseClientID(s string) (ClientID, error) {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid client id %q: %w", s, err)
	}
	return ClientID(v), nil
}

func parseTransactionID(s string) (TransactionID, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid transaction id %q: %w", s, err)
	}
	return TransactionID(v), nil
}

// EncodeCSV writes the account summaries as CSV, one row per account in the
// given order, amounts with four fractional digits.
func EncodeCSV(w io.Writer, rows []AccountSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{colClient, colAvailable, colHeld, colTotal, colLocked}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, s := range rows {
		record := []string{
			strconv.FormatUint(uint64(s.Client), 10),
			s.Available.String(),
			s.Held.String(),
			s.Total.String(),
			strconv.FormatBool(s.Locked),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write client %d: %w", s.Client, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// RecordEncoder writes a stream of records.
type RecordEncoder interface {
	Encode(Record) error
	// Flush writes any buffered data.
	Flush() error
}

type csvRecordEncoder struct {
	w *csv.Writer
}

// NewCSVRecordEncoder returns an encoder writing records as CSV, header
// included. This is the canonical form read back by DecodeCSV.
func NewCSVRecordEncoder(w io.Writer) RecordEncoder {
	cw := csv.NewWriter(w)
	cw.Write([]string{colType, colClient, colTx, colAmount}) // errors are sticky, reported by Flush
	return &csvRecordEncoder{w: cw}
}

func (e *csvRecordEncoder) Encode(r Record) error {
	amount := ""
	if r.HasAmount {
		amount = r.Amount.String()
	}
	return e.w.Write([]string{
		string(r.Kind),
		strconv.FormatUint(uint64(r.Client), 10),
		strconv.FormatUint(uint64(r.Tx), 10),
		amount,
	})
}

func (e *csvRecordEncoder) Flush() error {
	e.w.Flush()
	return e.w.Error()
}
