package payments

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
)

// MarshalJSON implements the json.Marshaler interface for Record.
// Keys are written in the order type, client, tx, amount.
func (r Record) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append(colType, r.Kind)
	w.Append(colClient, r.Client)
	w.Append(colTx, r.Tx)
	w.AppendIf(r.HasAmount, colAmount, r.Amount)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Record.
// It applies the same rules as the CSV decoder: the amount is required for
// deposits and withdrawals, ignored otherwise.
func (r *Record) UnmarshalJSON(data []byte) error {
	var temp struct {
		Type   string         `json:"type"`
		Client *ClientID      `json:"client"`
		Tx     *TransactionID `json:"tx"`
		Amount *Money         `json:"amount"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	kind, err := ParseKind(temp.Type)
	if err != nil {
		return err
	}
	if temp.Client == nil {
		return errors.New("missing client id")
	}
	if temp.Tx == nil {
		return errors.New("missing transaction id")
	}

	rec := Record{Kind: kind, Client: *temp.Client, Tx: *temp.Tx}
	if kind.HasAmount() {
		if temp.Amount == nil {
			return fmt.Errorf("%w: missing amount for %s", InvalidAmount, kind)
		}
		rec.Amount, rec.HasAmount = *temp.Amount, true
	}
	*r = rec
	return nil
}

// DecodeJSONL reads transaction records from a JSONL stream, one object per
// line. Like DecodeCSV, a bad line is yielded as a *DecodeError and decoding
// continues.
func DecodeJSONL(r io.Reader) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		scanner := bufio.NewScanner(r)
		line := 0
		for scanner.Scan() {
			line++
			b := scanner.Bytes()
			if len(b) == 0 {
				continue
			}
			var rec Record
			if err := json.Unmarshal(b, &rec); err != nil {
				if !yield(Record{}, &DecodeError{Line: line, Err: err}) {
					return
				}
				continue
			}
			if !yield(rec, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(Record{}, fmt.Errorf("error reading from input: %w", err))
		}
	}
}

type jsonlRecordEncoder struct {
	w *bufio.Writer
}

// NewJSONLRecordEncoder returns an encoder writing one JSON object per line.
func NewJSONLRecordEncoder(w io.Writer) RecordEncoder {
	return &jsonlRecordEncoder{w: bufio.NewWriter(w)}
}

func (e *jsonlRecordEncoder) Encode(r Record) error {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if _, err := e.w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

func (e *jsonlRecordEncoder) Flush() error { return e.w.Flush() }

// EncodeJSON writes the account summaries as an indented JSON array.
func EncodeJSON(w io.Writer, rows []AccountSummary) error {
	if rows == nil {
		rows = []AccountSummary{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
