package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/duskwallet/duskwallet/internal/model"
)

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "R$ 0,00"},
		{"5", "R$ 5,00"},
		{"1234.5", "R$ 1.234,50"},
		{"999999999", "R$ 999.999.999,00"},
		{"0.005", "R$ 0,01"},
		{"-10.9", "-R$ 10,90"},
	}
	for _, tt := range tests {
		if got := FormatBRL(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("FormatBRL(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSigned(t *testing.T) {
	in := model.Transaction{Type: model.Income, Amount: decimal.NewFromInt(10)}
	if got := FormatSigned(in); got != "+ R$ 10,00" {
		t.Errorf("income = %q", got)
	}
	in.Type = model.Expense
	if got := FormatSigned(in); got != "- R$ 10,00" {
		t.Errorf("expense = %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, 3, 7, 0, 0, 0, 0, time.Local)
	if got := FormatDate(d); got != "07/03/2024" {
		t.Errorf("FormatDate = %q, want 07/03/2024", got)
	}
	if got := FormatDate(time.Time{}); got != "-" {
		t.Errorf("zero = %q, want -", got)
	}
}

func TestFormatRelative(t *testing.T) {
	now := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)
	if got := FormatRelative(now.Add(-3*time.Minute), now); got != "3 minutes ago" {
		t.Errorf("3m = %q", got)
	}
	if got := FormatRelative(time.Time{}, now); got != "never" {
		t.Errorf("zero = %q", got)
	}
	if got := FormatRelative(now.Add(time.Hour), now); got != "now" {
		t.Errorf("future = %q, want now", got)
	}
}

func TestFormatNumberAndDays(t *testing.T) {
	if got := FormatNumber(1234567); got != "1,234,567" {
		t.Errorf("FormatNumber = %q", got)
	}
	if FormatDays(1) != "1 day" || FormatDays(3) != "3 days" {
		t.Errorf("FormatDays = %q, %q", FormatDays(1), FormatDays(3))
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Supermercado", 6); got != "Super…" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("Pão", 10); got != "Pão" {
		t.Errorf("Truncate short = %q", got)
	}
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable(Table{
		Headers:    []string{"Name", "Amount"},
		Rows:       [][]string{{"Café", "R$ 5,00"}, {"Aluguel", "R$ 1.500,00"}},
		RightAlign: []bool{false, true},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("lines = %d, want 6:\n%s", len(lines), out)
	}
	if !strings.Contains(out, "Aluguel") || !strings.Contains(out, "R$ 1.500,00") {
		t.Errorf("missing cells:\n%s", out)
	}
}
