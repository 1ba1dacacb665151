package api

import (
	"encoding/json"
	"time"

	"github.com/duskwallet/duskwallet/internal/model"
)

type credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type transactionsResponse struct {
	Transactions []model.Transaction `json:"transactions"`
}

// transactionPayload is the create/update body. Amount is written as a
// bare JSON number and Date as an ISO-8601 UTC instant.
type transactionPayload struct {
	Type          model.TransactionType `json:"type"`
	Description   string                `json:"description"`
	Amount        json.Number           `json:"amount"`
	Category      model.Category        `json:"category"`
	PaymentMethod model.PaymentMethod   `json:"paymentMethod"`
	Date          string                `json:"date"`
}

func payloadFrom(in model.TransactionInput) transactionPayload {
	return transactionPayload{
		Type:          in.Type,
		Description:   in.Description,
		Amount:        json.Number(in.Amount.String()),
		Category:      in.Category,
		PaymentMethod: in.PaymentMethod,
		Date:          in.Date.UTC().Format("2006-01-02T15:04:05.000Z"),
	}
}

type analysisResponse struct {
	Analysis  json.RawMessage `json:"analysis"`
	Message   string          `json:"message"`
	CreatedAt *time.Time      `json:"createdAt"`
}

type limitResponse struct {
	DaysUntilReset int `json:"daysUntilReset"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Generated is the result of asking the backend for a fresh analysis.
// Analysis is empty when the backend had nothing to analyze; Message then
// explains why.
type Generated struct {
	Analysis model.Analysis
	Message  string
}
