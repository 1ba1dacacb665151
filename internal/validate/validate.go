// Package validate implements the client-side field checks that run before
// any request reaches the backend.
package validate

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/duskwallet/duskwallet/internal/model"
)

// DateLayout is the calendar-day format accepted for transaction dates.
const DateLayout = "2006-01-02"

var maxAmount = decimal.NewFromInt(999_999_999)

// Errors maps a field name to its message. A nil or empty Errors means valid.
type Errors map[string]string

// Error implements error with fields in a stable order.
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e[f]
	}
	return strings.Join(parts, "; ")
}

// Add records msg for field when msg is non-empty.
func (e Errors) Add(field, msg string) {
	if msg != "" {
		e[field] = msg
	}
}

// Err returns e as an error, or nil when there are no messages.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Email checks presence and address syntax.
func Email(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "email is required"
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return "invalid email"
	}
	return ""
}

// Password checks presence and minimum length.
func Password(password string) string {
	if password == "" {
		return "password is required"
	}
	if utf8.RuneCountInString(password) < 6 {
		return "password must be at least 6 characters"
	}
	return ""
}

// Name checks presence, length, and that only letters and spaces are used.
func Name(name string) string {
	if name == "" {
		return "name is required"
	}
	if utf8.RuneCountInString(name) < 3 {
		return "name must be at least 3 characters"
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return "name must contain only letters"
		}
	}
	return ""
}

// Amount parses a user-entered amount. Comma decimal separators are accepted.
func Amount(raw string) (decimal.Decimal, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, "amount is required"
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, "amount must be greater than zero"
	}
	if d.GreaterThan(maxAmount) {
		return decimal.Zero, "amount too large"
	}
	return d, ""
}

// Description checks the trimmed text is between 3 and 200 characters.
func Description(desc string) string {
	if strings.TrimSpace(desc) == "" {
		return "description is required"
	}
	n := utf8.RuneCountInString(desc)
	if n < 3 {
		return "description must be at least 3 characters"
	}
	if n > 200 {
		return "description too long (max 200 characters)"
	}
	return ""
}

// Date parses a YYYY-MM-DD day as local midnight and rejects future days.
func Date(raw string, now time.Time) (time.Time, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, "date is required"
	}
	d, err := time.ParseInLocation(DateLayout, raw, now.Location())
	if err != nil {
		return time.Time{}, "invalid date"
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if d.After(today) {
		return time.Time{}, "date cannot be in the future"
	}
	return d, ""
}

// Credentials validates a login form.
func Credentials(email, password string) error {
	errs := Errors{}
	errs.Add("email", Email(email))
	errs.Add("password", Password(password))
	return errs.Err()
}

// Registration validates a registration form.
func Registration(name, email, password string) error {
	errs := Errors{}
	errs.Add("name", Name(name))
	errs.Add("email", Email(email))
	errs.Add("password", Password(password))
	return errs.Err()
}

// TransactionForm is the raw, user-entered transaction.
type TransactionForm struct {
	Type          string
	Description   string
	Amount        string
	Category      string
	PaymentMethod string
	Date          string
}

// Transaction validates a form and converts it into an API input.
func Transaction(f TransactionForm, now time.Time) (model.TransactionInput, error) {
	errs := Errors{}
	var in model.TransactionInput

	typ := f.Type
	if typ == "" {
		typ = string(model.Expense)
	}
	t, err := model.ParseTransactionType(typ)
	if err != nil {
		errs.Add("type", err.Error())
	}
	in.Type = t

	errs.Add("description", Description(f.Description))
	in.Description = strings.TrimSpace(f.Description)

	amount, msg := Amount(f.Amount)
	errs.Add("amount", msg)
	in.Amount = amount

	if strings.TrimSpace(f.Category) == "" {
		errs.Add("category", "category is required")
	} else if c, err := model.ParseCategory(f.Category); err != nil {
		errs.Add("category", err.Error())
	} else {
		in.Category = c
	}

	if strings.TrimSpace(f.PaymentMethod) == "" {
		errs.Add("paymentMethod", "payment method is required")
	} else if p, err := model.ParsePaymentMethod(f.PaymentMethod); err != nil {
		errs.Add("paymentMethod", err.Error())
	} else {
		in.PaymentMethod = p
	}

	rawDate := f.Date
	if strings.TrimSpace(rawDate) == "" {
		rawDate = now.Format(DateLayout)
	}
	d, msg := Date(rawDate, now)
	errs.Add("date", msg)
	in.Date = d

	if err := errs.Err(); err != nil {
		return model.TransactionInput{}, fmt.Errorf("invalid transaction: %w", err)
	}
	return in, nil
}
