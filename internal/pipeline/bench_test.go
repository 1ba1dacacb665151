package pipeline

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/duskwallet/duskwallet/internal/model"
)

// benchTransactions builds n transactions spread over two years.
func benchTransactions(n int) []model.Transaction {
	txs := make([]model.Transaction, n)
	start := time.Date(2023, 1, 1, 12, 0, 0, 0, time.Local)
	for i := range txs {
		typ := model.Expense
		if i%5 == 0 {
			typ = model.Income
		}
		txs[i] = model.Transaction{
			ID:            fmt.Sprint(i),
			Type:          typ,
			Description:   fmt.Sprintf("transaction %d", i),
			Amount:        decimal.New(int64(i%9000+100), -2),
			Category:      model.Categories[i%len(model.Categories)],
			PaymentMethod: model.PaymentMethods[i%len(model.PaymentMethods)],
			Date:          start.AddDate(0, 0, i%730),
		}
	}
	return txs
}

func BenchmarkCategoryTotals(b *testing.B) {
	txs := benchTransactions(500)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = CategoryTotals(txs)
	}
}

func BenchmarkMonthlySeries(b *testing.B) {
	txs := benchTransactions(500)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = MonthlySeries(txs)
	}
}

func BenchmarkApply(b *testing.B) {
	txs := benchTransactions(500)
	f := Filter{Search: "transaction 1", Type: model.Expense}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Apply(txs, f)
	}
}
