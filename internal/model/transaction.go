// Package model defines domain types for the duskwallet client.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is one of exactly two variants.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// Label returns the display name for the type.
func (t TransactionType) Label() string {
	switch t {
	case Income:
		return "Receita"
	case Expense:
		return "Despesa"
	}
	return string(t)
}

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// ParseTransactionType accepts the wire value in any case, plus the
// shorthand "in"/"out".
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INCOME", "IN":
		return Income, nil
	case "EXPENSE", "OUT":
		return Expense, nil
	}
	return "", fmt.Errorf("unknown transaction type %q (want INCOME or EXPENSE)", s)
}

// Transaction is a single income or expense record owned by the backend.
type Transaction struct {
	ID            string          `json:"id"`
	Type          TransactionType `json:"type"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Category      Category        `json:"category"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Date          time.Time       `json:"date"`
}

// IsExpense reports whether the transaction counts as spending.
func (t Transaction) IsExpense() bool {
	return t.Type == Expense
}

// TransactionInput is the payload for create and update calls.
type TransactionInput struct {
	Type          TransactionType
	Description   string
	Amount        decimal.Decimal
	Category      Category
	PaymentMethod PaymentMethod
	Date          time.Time // midnight local time of the chosen day
}

// InputFrom copies the editable fields of an existing transaction.
func InputFrom(t Transaction) TransactionInput {
	return TransactionInput{
		Type:          t.Type,
		Description:   t.Description,
		Amount:        t.Amount,
		Category:      t.Category,
		PaymentMethod: t.PaymentMethod,
		Date:          t.Date,
	}
}

// CategoryTotal is the summed expense amount for one category.
type CategoryTotal struct {
	Category Category
	Total    decimal.Decimal
}

// MonthlyPoint holds income and expense sums for one "month/year" key.
type MonthlyPoint struct {
	Month   string
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Dashboard is the aggregate returned by the backend's /dashboard endpoint.
type Dashboard struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Balance      decimal.Decimal `json:"balance"`
}
