package pipeline

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/duskwallet/duskwallet/internal/model"
)

func tx(id string, typ model.TransactionType, cat model.Category, amount string, date time.Time) model.Transaction {
	return model.Transaction{
		ID:            id,
		Type:          typ,
		Description:   "tx " + id,
		Amount:        decimal.RequireFromString(amount),
		Category:      cat,
		PaymentMethod: model.Pix,
		Date:          date,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.Local)
}

func TestCategoryTotals_MercadoScenario(t *testing.T) {
	txs := []model.Transaction{
		tx("1", model.Expense, model.Mercado, "100", day(2024, 1, 5)),
		tx("2", model.Expense, model.Mercado, "50", day(2024, 1, 6)),
		tx("3", model.Income, model.Salario, "1000", day(2024, 1, 7)),
	}

	got := CategoryTotals(txs)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1: %+v", len(got), got)
	}
	if got[0].Category != model.Mercado {
		t.Errorf("Category = %s, want MERCADO", got[0].Category)
	}
	if !got[0].Total.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Total = %s, want 150", got[0].Total)
	}
}

func TestCategoryTotals_FirstSeenOrder(t *testing.T) {
	txs := []model.Transaction{
		tx("1", model.Expense, model.Lazer, "10", day(2024, 1, 1)),
		tx("2", model.Expense, model.Mercado, "20", day(2024, 1, 2)),
		tx("3", model.Expense, model.Lazer, "5", day(2024, 1, 3)),
		tx("4", model.Expense, model.Saude, "1.10", day(2024, 1, 4)),
	}

	got := CategoryTotals(txs)
	want := []string{"LAZER=15", "MERCADO=20", "SAUDE=1.1"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, ct := range got {
		if s := fmt.Sprintf("%s=%s", ct.Category, ct.Total); s != want[i] {
			t.Errorf("[%d] = %s, want %s", i, s, want[i])
		}
	}
}

func TestCategoryTotals_SumMatchesExpenses(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		var txs []model.Transaction
		wantSum := decimal.Zero
		n := rng.Intn(40)
		for i := 0; i < n; i++ {
			typ := model.Income
			if rng.Intn(2) == 0 {
				typ = model.Expense
			}
			amount := decimal.New(int64(rng.Intn(100000)+1), -2)
			cat := model.Categories[rng.Intn(len(model.Categories))]
			txs = append(txs, model.Transaction{Type: typ, Category: cat, Amount: amount, Date: day(2024, 1, 1)})
			if typ == model.Expense {
				wantSum = wantSum.Add(amount)
			}
		}

		gotSum := decimal.Zero
		for _, ct := range CategoryTotals(txs) {
			if !ct.Total.IsPositive() {
				t.Fatalf("round %d: category %s has non-positive total %s", round, ct.Category, ct.Total)
			}
			gotSum = gotSum.Add(ct.Total)
		}
		if !gotSum.Equal(wantSum) {
			t.Fatalf("round %d: sum = %s, want %s", round, gotSum, wantSum)
		}
	}
}

func TestCategoryTotals_DoesNotMutateInput(t *testing.T) {
	txs := []model.Transaction{
		tx("1", model.Expense, model.Mercado, "100", day(2024, 1, 5)),
		tx("2", model.Expense, model.Mercado, "50", day(2024, 1, 6)),
	}
	before := fmt.Sprintf("%+v", txs)
	CategoryTotals(txs)
	MonthlySeries(txs)
	Apply(txs, Filter{})
	if after := fmt.Sprintf("%+v", txs); after != before {
		t.Errorf("input mutated:\n before %s\n after  %s", before, after)
	}
}

func TestMonthlySeries_Keys(t *testing.T) {
	txs := []model.Transaction{
		tx("1", model.Income, model.Salario, "1000", day(2024, 1, 5)),
		tx("2", model.Expense, model.Mercado, "200", day(2024, 1, 20)),
		tx("3", model.Expense, model.Lazer, "30", day(2024, 11, 2)),
	}

	got := MonthlySeries(txs)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Month != "1/2024" || got[1].Month != "11/2024" {
		t.Errorf("months = %s, %s; want 1/2024, 11/2024", got[0].Month, got[1].Month)
	}
	if !got[0].Income.Equal(decimal.NewFromInt(1000)) || !got[0].Expense.Equal(decimal.NewFromInt(200)) {
		t.Errorf("1/2024 = %s/%s, want 1000/200", got[0].Income, got[0].Expense)
	}
	if !got[1].Income.IsZero() || !got[1].Expense.Equal(decimal.NewFromInt(30)) {
		t.Errorf("11/2024 = %s/%s, want 0/30", got[1].Income, got[1].Expense)
	}
}

func TestMonthlySeries_KeepsLastSixInFirstSeenOrder(t *testing.T) {
	// Newest first, as the backend lists them: months 8..1 of 2024.
	var txs []model.Transaction
	for m := 8; m >= 1; m-- {
		txs = append(txs, tx(fmt.Sprint(m), model.Expense, model.Outros, "1", day(2024, time.Month(m), 10)))
	}

	got := MonthlySeries(txs)
	want := []string{"6/2024", "5/2024", "4/2024", "3/2024", "2/2024", "1/2024"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Month != want[i] {
			t.Errorf("[%d] = %s, want %s", i, got[i].Month, want[i])
		}
	}
}

func TestMonthlySeries_NeverMoreThanSix(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		var txs []model.Transaction
		n := rng.Intn(60)
		for i := 0; i < n; i++ {
			d := day(2020+rng.Intn(4), time.Month(rng.Intn(12)+1), 1)
			txs = append(txs, tx("x", model.Expense, model.Outros, "1", d))
		}
		if got := MonthlySeries(txs); len(got) > MaxMonths {
			t.Fatalf("round %d: len = %d, want <= %d", round, len(got), MaxMonths)
		}
	}
}

func TestMonthlySeries_Deterministic(t *testing.T) {
	txs := []model.Transaction{
		tx("1", model.Income, model.Salario, "1000", day(2024, 1, 5)),
		tx("2", model.Expense, model.Mercado, "200", day(2024, 2, 20)),
	}
	a := fmt.Sprintf("%v", MonthlySeries(txs))
	b := fmt.Sprintf("%v", MonthlySeries(txs))
	if a != b {
		t.Errorf("not deterministic: %s vs %s", a, b)
	}
}

func TestSumByType(t *testing.T) {
	txs := []model.Transaction{
		tx("1", model.Income, model.Salario, "1000", day(2024, 1, 5)),
		tx("2", model.Expense, model.Mercado, "250.75", day(2024, 1, 6)),
	}
	tot := SumByType(txs)
	if !tot.Balance().Equal(decimal.RequireFromString("749.25")) {
		t.Errorf("Balance = %s, want 749.25", tot.Balance())
	}
	if d := tot.Dashboard(); !d.TotalExpense.Equal(decimal.RequireFromString("250.75")) {
		t.Errorf("TotalExpense = %s, want 250.75", d.TotalExpense)
	}
}

func TestRecent(t *testing.T) {
	var txs []model.Transaction
	for i := 0; i < 8; i++ {
		txs = append(txs, tx(fmt.Sprint(i), model.Expense, model.Outros, "1", day(2024, 1, 1)))
	}
	got := Recent(txs, RecentCount)
	if len(got) != 5 || got[0].ID != "0" || got[4].ID != "4" {
		t.Errorf("Recent = %v", got)
	}
	if got := Recent(txs[:2], RecentCount); len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestApply(t *testing.T) {
	txs := []model.Transaction{
		tx("old", model.Expense, model.Mercado, "10", day(2024, 1, 1)),
		tx("new", model.Expense, model.Mercado, "20", day(2024, 3, 1)),
		tx("inc", model.Income, model.Salario, "900", day(2024, 2, 1)),
	}
	txs[0].Description = "Feira do bairro"
	txs[1].Description = "Supermercado"
	txs[1].PaymentMethod = model.Credito

	tests := []struct {
		name string
		f    Filter
		want []string
	}{
		{"no filter sorts newest first", Filter{}, []string{"new", "inc", "old"}},
		{"search is case insensitive", Filter{Search: "FEIRA"}, []string{"old"}},
		{"type", Filter{Type: model.Income}, []string{"inc"}},
		{"category", Filter{Category: model.Mercado}, []string{"new", "old"}},
		{"payment method", Filter{PaymentMethod: model.Credito}, []string{"new"}},
		{"combined", Filter{Category: model.Mercado, PaymentMethod: model.Pix}, []string{"old"}},
		{"no match", Filter{Search: "aluguel"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(txs, tt.f)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestFind(t *testing.T) {
	txs := []model.Transaction{tx("a", model.Expense, model.Outros, "1", day(2024, 1, 1))}
	if _, ok := Find(txs, "a"); !ok {
		t.Error("Find(a) not found")
	}
	if _, ok := Find(txs, "b"); ok {
		t.Error("Find(b) found")
	}
}
