package renderer

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/etnz/payments"
)

var fixGoldens = flag.Bool("fix-goldens", false, "if true, update failing golden .md files with the received output")

func TestFixGoldensIsOff(t *testing.T) {
	if *fixGoldens {
		t.Fatal("-fix-goldens is enabled. This flag should only be used for updating test fixtures and must be disabled for regular tests.")
	}
}

func m(s string) payments.Money {
	v, err := payments.ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestRenderReport(t *testing.T) {
	rows := []payments.AccountSummary{
		{Client: 1, Available: m("1.0"), Held: m("0"), Total: m("1.0"), Locked: true},
		{Client: 2, Available: m("12345.5"), Held: m("-0.0001"), Total: m("12345.4999")},
	}
	report := NewReport(rows, payments.IngestStats{Applied: 5, Rejected: 2, Malformed: 1})
	report.AddRejection(payments.NewWithdrawal(1, 6, m("0.5")), &payments.Error{Kind: payments.AccountFrozen, Client: 1})
	report.AddRejection(payments.NewDispute(3, 7), errors.New("boom"))

	testCases := []struct {
		name   string
		report *Report
		golden string
	}{
		{name: "full", report: report, golden: "testdata/report_assembly.md"},
		{name: "empty", report: NewReport(nil, payments.IngestStats{}), golden: "testdata/report_empty.md"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := RenderReport(tc.report)
			want, err := os.ReadFile(tc.golden)
			if err != nil {
				t.Fatalf("failed to read golden file %q: %v", tc.golden, err)
			}
			if got != string(want) {
				if *fixGoldens {
					if err := os.WriteFile(tc.golden, []byte(got), 0644); err != nil {
						t.Fatalf("failed to update golden file %q: %v", tc.golden, err)
					}
					return
				}
				t.Errorf("RenderReport() mismatch:\n%s", createDiff(string(want), got))
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"0", "0.0000"},
		{"0.0001", "0.0001"},
		{"-2.3", "-2.3000"},
		{"1234567.89", "1,234,567.8900"},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			if got := FormatAmount(m(tc.in)); got != tc.want {
				t.Errorf("FormatAmount(%s) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func createDiff(want, got string) string {
	// A simple diff-like representation for clearer test failures.
	return fmt.Sprintf("-%s\n+%s", strings.ReplaceAll(want, "\n", "\n-"), strings.ReplaceAll(got, "\n", "\n+"))
}
