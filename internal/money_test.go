package internal

import (
	"encoding/json"
	"regexp"
	"testing"
)

func TestNewAmount_RoundsHalfUp(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2.675, "2.68"},
		{1.005, "1.01"},
		{0.125, "0.13"},
		{10.994, "10.99"},
		{-2.675, "-2.68"},
		{895, "895.00"},
		{0, "0.00"},
	}

	for _, tt := range tests {
		if got := NewAmount(tt.in).String(); got != tt.want {
			t.Errorf("NewAmount(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestAmount_SumsExactly(t *testing.T) {
	total := ZeroAmount
	for i := 0; i < 100; i++ {
		total = total.Add(MustAmount("0.10"))
	}
	if !total.Equal(MustAmount("10.00")) {
		t.Errorf("expected 10.00, got %s", total)
	}
	if got := SumAmounts(MustAmount("0.10"), MustAmount("0.20")); got.String() != "0.30" {
		t.Errorf("expected 0.30, got %s", got)
	}
}

func TestAmount_ZeroValueIsUsable(t *testing.T) {
	var a Amount
	if !a.IsZero() {
		t.Error("zero value should be zero")
	}
	if got := a.Add(MustAmount("1.50")).String(); got != "1.50" {
		t.Errorf("expected 1.50, got %s", got)
	}
	if a.String() != "0.00" {
		t.Errorf("expected 0.00, got %s", a)
	}
}

func TestParseAmount(t *testing.T) {
	if _, err := ParseAmount("twelve"); err == nil {
		t.Error("expected error for non-numeric amount")
	}
	a, err := ParseAmount("3800")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.String() != "3800.00" {
		t.Errorf("expected 3800.00, got %s", a)
	}
}

func TestAmount_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Amount Amount `json:"amount"`
	}{NewAmount(42.1)})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"amount":"42.10"}` {
		t.Errorf("unexpected encoding: %s", data)
	}

	var a Amount
	if err := json.Unmarshal([]byte(`"7.999"`), &a); err != nil {
		t.Fatal(err)
	}
	if a.String() != "8.00" {
		t.Errorf("expected 8.00, got %s", a)
	}
	if err := json.Unmarshal([]byte(`7.99`), &a); err == nil {
		t.Error("expected error for bare number")
	}
}

func TestNewAmount_AlwaysTwoDecimals(t *testing.T) {
	twoDecimals := regexp.MustCompile(`^-?\d+\.\d{2}$`)
	r := NewRandom(7)
	for i := 0; i < 500; i++ {
		s := NewAmount(r.Uniform(0, 1000)).String()
		if !twoDecimals.MatchString(s) {
			t.Fatalf("amount %q does not have two decimals", s)
		}
	}
}
