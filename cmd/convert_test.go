package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/etnz/payments"
	"github.com/rs/zerolog"
)

func TestConvert(t *testing.T) {
	input := "type, client, tx, amount\nDeposit, 1, 1, 1.5\nbogus\ndispute, 1, 1,\n"

	var jsonl bytes.Buffer
	n, err := convert(zerolog.Nop(), payments.DecodeCSV(strings.NewReader(input)), &jsonl, formatJSONL)
	if err != nil {
		t.Fatalf("convert() unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("convert() = %d records, want 2", n)
	}
	wantJSONL := `{"type":"deposit","client":1,"tx":1,"amount":1.5000}` + "\n" +
		`{"type":"dispute","client":1,"tx":1}` + "\n"
	if got := jsonl.String(); got != wantJSONL {
		t.Errorf("convert() to jsonl =\n%s\nwant\n%s", got, wantJSONL)
	}

	var csv bytes.Buffer
	if _, err := convert(zerolog.Nop(), payments.DecodeJSONL(&jsonl), &csv, formatCSV); err != nil {
		t.Fatalf("convert() unexpected error: %v", err)
	}
	wantCSV := "type,client,tx,amount\ndeposit,1,1,1.5000\ndispute,1,1,\n"
	if got := csv.String(); got != wantCSV {
		t.Errorf("convert() to csv =\n%s\nwant\n%s", got, wantCSV)
	}
}

func TestInputFormat(t *testing.T) {
	testCases := map[string]string{
		"tx.csv":      formatCSV,
		"tx.JSONL":    formatJSONL,
		"dir/a.jsonl": formatJSONL,
		"-":           formatCSV,
	}
	for path, want := range testCases {
		if got := inputFormat(path); got != want {
			t.Errorf("inputFormat(%q) = %q, want %q", path, got, want)
		}
	}
}
