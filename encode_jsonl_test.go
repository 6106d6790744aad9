package payments

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeJSONL(t *testing.T) {
	input := `{"type":"deposit","client":1,"tx":1,"amount":1.5}
{"type":"WITHDRAWAL","client":1,"tx":2,"amount":"0.25"}

{"type":"dispute","client":1,"tx":2,"amount":99}
{"type":"resolve","client":1}
{"type":"deposit","client":1,"tx":3}
not json
{"type":"chargeback","client":1,"tx":2}
`
	recs, errs := decodeAll(DecodeJSONL(strings.NewReader(input)))

	want := []Record{
		NewDeposit(1, 1, m("1.5")),
		NewWithdrawal(1, 2, m("0.25")),
		NewDispute(1, 2),
		NewChargeback(1, 2),
	}
	if diff := cmp.Diff(want, recs, cmp.AllowUnexported(Money{})); diff != "" {
		t.Errorf("DecodeJSONL() mismatch (-want +got):\n%s", diff)
	}

	var lines []int
	for _, err := range errs {
		var derr *DecodeError
		if !errors.As(err, &derr) {
			t.Fatalf("DecodeJSONL() error = %#v, want a *DecodeError", err)
		}
		lines = append(lines, derr.Line)
	}
	if diff := cmp.Diff([]int{5, 6, 7}, lines); diff != "" {
		t.Errorf("error lines mismatch (-want +got):\n%s", diff)
	}
	if len(errs) == 3 && !errors.Is(errs[1], InvalidAmount) {
		t.Errorf("deposit without amount = %v, want %v", errs[1], InvalidAmount)
	}
}

func TestRecord_MarshalJSON(t *testing.T) {
	testCases := []struct {
		name   string
		record Record
		want   string
	}{
		{name: "deposit", record: NewDeposit(2, 9, m("1.5")), want: `{"type":"deposit","client":2,"tx":9,"amount":1.5000}`},
		{name: "dispute", record: NewDispute(2, 9), want: `{"type":"dispute","client":2,"tx":9}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := json.Marshal(tc.record)
			if err != nil {
				t.Fatalf("json.Marshal() unexpected error: %v", err)
			}
			if string(got) != tc.want {
				t.Errorf("json.Marshal() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestJSONLRecordEncoder(t *testing.T) {
	var buf bytes.Buffer
	enc := NewJSONLRecordEncoder(&buf)
	for _, r := range []Record{NewDeposit(1, 1, m("3")), NewChargeback(1, 1)} {
		if err := enc.Encode(r); err != nil {
			t.Fatalf("Encode(%v) unexpected error: %v", r, err)
		}
	}
	if buf.Len() != 0 {
		t.Errorf("encoder wrote %q before Flush", buf.String())
	}
	if err := enc.Flush(); err != nil {
		t.Fatalf("Flush() unexpected error: %v", err)
	}
	want := `{"type":"deposit","client":1,"tx":1,"amount":3.0000}` + "\n" +
		`{"type":"chargeback","client":1,"tx":1}` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("encoded =\n%s\nwant\n%s", got, want)
	}
}

func TestEncodeJSON(t *testing.T) {
	testCases := []struct {
		name string
		rows []AccountSummary
		want string
	}{
		{name: "no accounts", want: "[]\n"},
		{
			name: "one account",
			rows: []AccountSummary{{Client: 3, Available: m("-70"), Total: m("-70"), Locked: true}},
			want: `[
  {
    "client": 3,
    "available": -70.0000,
    "held": 0.0000,
    "total": -70.0000,
    "locked": true
  }
]
`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := EncodeJSON(&buf, tc.rows); err != nil {
				t.Fatalf("EncodeJSON() unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, buf.String()); diff != "" {
				t.Errorf("EncodeJSON() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
