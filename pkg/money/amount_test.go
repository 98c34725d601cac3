package money

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParse_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "integer", in: "10", want: "10.00"},
		{name: "one_decimal", in: "10.5", want: "10.50"},
		{name: "two_decimals", in: "0.01", want: "0.01"},
		{name: "negative", in: "-3.25", want: "-3.25"},
		{name: "zero", in: "0", want: "0.00"},
		{name: "large", in: "999999999999.99", want: "999999999999.99"},
		{name: "too_many_decimals", in: "1.001", wantErr: true},
		{name: "not_a_number", in: "abc", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "double_dot", in: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.in)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q): expected error, got %v", tt.in, got)
				}
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("Parse(%q): expected ErrInvalidAmount, got %v", tt.in, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			if got.String() != tt.want {
				t.Fatalf("Parse(%q) = %s, want %s", tt.in, got.String(), tt.want)
			}
		})
	}
}

func TestArithmetic_Exact(t *testing.T) {
	t.Parallel()

	bal := MustParse("1000.00")

	bal = bal.Sub(MustParse("10.00"))
	bal = bal.Sub(MustParse("5.00"))
	bal = bal.Add(MustParse("25.00"))
	bal = bal.Add(MustParse("5.00"))

	if bal.String() != "1015.00" {
		t.Fatalf("expected 1015.00, got %s", bal.String())
	}

	// Repeated small ops must not drift.
	sum := Zero()
	for range 1000 {
		sum = sum.Add(MustParse("0.01"))
	}
	if sum.String() != "10.00" {
		t.Fatalf("expected 10.00 after 1000 x 0.01, got %s", sum.String())
	}
}

func TestLessThan(t *testing.T) {
	t.Parallel()

	if !MustParse("99.99").LessThan(MustParse("100.00")) {
		t.Fatal("99.99 should be less than 100.00")
	}
	if MustParse("100.00").LessThan(MustParse("100.00")) {
		t.Fatal("100.00 is not less than itself")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	type payload struct {
		Amount Amount `json:"amount"`
	}

	out, err := json.Marshal(payload{Amount: MustParse("985.00")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"amount":"985.00"}` {
		t.Fatalf("unexpected JSON: %s", out)
	}

	var in payload
	err = json.Unmarshal(out, &in)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !in.Amount.Equal(MustParse("985.00")) {
		t.Fatalf("round trip mismatch: %s", in.Amount)
	}
}

func TestScan(t *testing.T) {
	t.Parallel()

	var a Amount
	err := a.Scan([]byte("1010.00"))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if a.String() != "1010.00" {
		t.Fatalf("scan mismatch: %s", a.String())
	}

	v, err := a.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if v != "1010.00" {
		t.Fatalf("value mismatch: %v", v)
	}
}
