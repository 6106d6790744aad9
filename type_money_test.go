package payments

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"
)

func TestParseMoney(t *testing.T) {
	testCases := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{input: "1", want: 10000},
		{input: "1.5", want: 15000},
		{input: ".5", want: 5000},
		{input: ".0001", want: 1},
		{input: "100.03", want: 1000300},
		{input: "  2.0 ", want: 20000},
		{input: "-3.25", want: -32500},
		{input: "1.50000", want: 15000}, // trailing zeros lose nothing
		{input: "0.00001", wantErr: true},
		{input: "1.23456", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "", wantErr: true},
		{input: "1e30", wantErr: true},
		{input: "1.5e-1", want: 1500},
		{input: "150e-5", want: 15},
		{input: "15e-5", wantErr: true},
		{input: "922337203685477.5807", want: math.MaxInt64},
		{input: "922337203685477.5808", wantErr: true},
		{input: "0e-5000000", want: 0},
		{input: "1e-5000000", wantErr: true},
		{input: "-1e-5000000", wantErr: true},
		{input: "1e5000000", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseMoney(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseMoney(%q) = %v, want an error", tc.input, got)
				}
				if !errors.Is(err, InvalidAmount) {
					t.Errorf("ParseMoney(%q) error %v is not InvalidAmount", tc.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMoney(%q) unexpected error: %v", tc.input, err)
			}
			if got.Units() != tc.want {
				t.Errorf("ParseMoney(%q) = %d units, want %d", tc.input, got.Units(), tc.want)
			}
		})
	}
}

func TestParseMoney_LargeExponentsFailFast(t *testing.T) {
	for _, input := range []string{"1e-5000000", "7e-2147483648", "1e2147483647", "0e2147483647"} {
		start := time.Now()
		_, _ = ParseMoney(input)
		if d := time.Since(start); d > 100*time.Millisecond {
			t.Errorf("ParseMoney(%q) took %v", input, d)
		}
	}
}

func TestMoney_String(t *testing.T) {
	testCases := []struct {
		units int64
		want  string
	}{
		{0, "0.0000"},
		{1, "0.0001"},
		{15000, "1.5000"},
		{-32500, "-3.2500"},
		{1000300, "100.0300"},
	}
	for _, tc := range testCases {
		if got := Units(tc.units).String(); got != tc.want {
			t.Errorf("Units(%d).String() = %q, want %q", tc.units, got, tc.want)
		}
	}
}

func TestMoney_CheckedArithmetic(t *testing.T) {
	max, min := Units(math.MaxInt64), Units(math.MinInt64)

	if _, err := max.Add(Units(1)); !errors.Is(err, Overflow) {
		t.Errorf("max+1 error = %v, want Overflow", err)
	}
	if _, err := min.Add(Units(-1)); !errors.Is(err, Overflow) {
		t.Errorf("min-1 error = %v, want Overflow", err)
	}
	if _, err := min.Sub(Units(1)); !errors.Is(err, Overflow) {
		t.Errorf("min-1 error = %v, want Overflow", err)
	}
	if _, err := max.Sub(Units(-1)); !errors.Is(err, Overflow) {
		t.Errorf("max+1 error = %v, want Overflow", err)
	}

	got, err := max.Add(Units(-1))
	if err != nil || got.Units() != math.MaxInt64-1 {
		t.Errorf("max-1 = %v, %v, want %d", got.Units(), err, int64(math.MaxInt64-1))
	}
	got, err = m("1.5").Sub(m("2"))
	if err != nil || !got.Equal(m("-0.5")) {
		t.Errorf("1.5-2 = %v, %v, want -0.5000", got, err)
	}
}

func TestMoney_JSON(t *testing.T) {
	b, err := json.Marshal(m("1.5"))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "1.5000" {
		t.Errorf("json.Marshal = %s, want 1.5000", b)
	}

	for _, input := range []string{`1.5`, `"1.5"`} {
		var got Money
		if err := json.Unmarshal([]byte(input), &got); err != nil {
			t.Fatalf("json.Unmarshal(%s) unexpected error: %v", input, err)
		}
		if !got.Equal(m("1.5")) {
			t.Errorf("json.Unmarshal(%s) = %v, want 1.5000", input, got)
		}
	}

	var got Money
	if err := json.Unmarshal([]byte(`0.00001`), &got); err == nil {
		t.Errorf("json.Unmarshal(0.00001) = %v, want an error", got)
	}
}
