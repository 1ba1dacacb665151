package pipeline

import (
	"context"
	"sync"

	"github.com/duskwallet/duskwallet/internal/model"
)

// Source is the slice of the API the dashboard reads from.
type Source interface {
	Dashboard(ctx context.Context) (model.Dashboard, error)
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
}

// DashboardData is everything the dashboard view renders. The two fetches
// fail independently: a failed totals fetch leaves zero totals, a failed
// transactions fetch leaves the charts empty.
type DashboardData struct {
	Totals       model.Dashboard
	Transactions []model.Transaction

	Categories []model.CategoryTotal
	Monthly    []model.MonthlyPoint
	Recent     []model.Transaction

	TotalsErr       error
	TransactionsErr error
}

// Failed reports whether both fetches failed.
func (d *DashboardData) Failed() bool {
	return d.TotalsErr != nil && d.TransactionsErr != nil
}

// LoadDashboard fetches totals and transactions concurrently and derives
// the chart series from the transactions.
func LoadDashboard(ctx context.Context, src Source) *DashboardData {
	data := &DashboardData{}
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		data.Totals, data.TotalsErr = src.Dashboard(ctx)
	}()
	go func() {
		defer wg.Done()
		data.Transactions, data.TransactionsErr = src.ListTransactions(ctx)
	}()
	wg.Wait()

	if data.TotalsErr != nil {
		data.Totals = model.Dashboard{}
	}
	if data.TransactionsErr != nil {
		data.Transactions = nil
	}

	data.Categories = CategoryTotals(data.Transactions)
	data.Monthly = MonthlySeries(data.Transactions)
	data.Recent = Recent(data.Transactions, RecentCount)
	return data
}
