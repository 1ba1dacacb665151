package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/duskwallet/duskwallet/internal/model"
)

type fakeSource struct {
	dash    model.Dashboard
	dashErr error
	txs     []model.Transaction
	txsErr  error
}

func (f fakeSource) Dashboard(context.Context) (model.Dashboard, error) {
	return f.dash, f.dashErr
}

func (f fakeSource) ListTransactions(context.Context) ([]model.Transaction, error) {
	return f.txs, f.txsErr
}

func TestLoadDashboard(t *testing.T) {
	src := fakeSource{
		dash: model.Dashboard{TotalIncome: decimal.NewFromInt(1000)},
		txs: []model.Transaction{
			tx("1", model.Expense, model.Mercado, "100", day(2024, 1, 5)),
			tx("2", model.Income, model.Salario, "1000", day(2024, 1, 7)),
		},
	}

	data := LoadDashboard(context.Background(), src)
	if data.TotalsErr != nil || data.TransactionsErr != nil {
		t.Fatalf("unexpected errors: %v, %v", data.TotalsErr, data.TransactionsErr)
	}
	if !data.Totals.TotalIncome.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("TotalIncome = %s, want 1000", data.Totals.TotalIncome)
	}
	if len(data.Categories) != 1 || len(data.Monthly) != 1 || len(data.Recent) != 2 {
		t.Errorf("derived = %d categories, %d months, %d recent", len(data.Categories), len(data.Monthly), len(data.Recent))
	}
}

func TestLoadDashboard_IndependentFailures(t *testing.T) {
	boom := errors.New("boom")
	src := fakeSource{
		dashErr: boom,
		txs:     []model.Transaction{tx("1", model.Expense, model.Mercado, "100", day(2024, 1, 5))},
	}

	data := LoadDashboard(context.Background(), src)
	if !errors.Is(data.TotalsErr, boom) {
		t.Errorf("TotalsErr = %v, want boom", data.TotalsErr)
	}
	if !data.Totals.Balance.IsZero() {
		t.Errorf("Balance = %s, want 0", data.Totals.Balance)
	}
	if len(data.Categories) != 1 {
		t.Errorf("categories = %d, want 1", len(data.Categories))
	}
	if data.Failed() {
		t.Error("Failed() = true with one successful fetch")
	}

	data = LoadDashboard(context.Background(), fakeSource{dashErr: boom, txsErr: boom})
	if !data.Failed() {
		t.Error("Failed() = false with both fetches failing")
	}
	if len(data.Recent) != 0 {
		t.Errorf("recent = %d, want 0", len(data.Recent))
	}
}
