package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/duskwallet/duskwallet/internal/config"
	"github.com/duskwallet/duskwallet/internal/model"
	"github.com/duskwallet/duskwallet/internal/validate"
)

func TestSetConfigValue(t *testing.T) {
	cfg := config.DefaultConfig()

	if err := setConfigValue(&cfg, "api.base_url", "https://api.example.com/"); err != nil {
		t.Fatalf("base_url: %v", err)
	}
	if cfg.API.BaseURL != "https://api.example.com" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.API.BaseURL)
	}
	if err := setConfigValue(&cfg, "api.timeout_sec", "10"); err != nil || cfg.API.TimeoutSec != 10 {
		t.Errorf("timeout_sec = %d, %v", cfg.API.TimeoutSec, err)
	}
	if err := setConfigValue(&cfg, "api.timeout_sec", "0"); err == nil {
		t.Error("timeout_sec 0 should be rejected")
	}
	if err := setConfigValue(&cfg, "api.dedupe_gets", "true"); err != nil || !cfg.API.DedupeGets {
		t.Errorf("dedupe_gets = %v, %v", cfg.API.DedupeGets, err)
	}
	if err := setConfigValue(&cfg, "appearance.theme", "dawn"); err != nil || cfg.Appearance.Theme != "dawn" {
		t.Errorf("theme = %q, %v", cfg.Appearance.Theme, err)
	}
	if err := setConfigValue(&cfg, "appearance.theme", "neon"); err == nil {
		t.Error("unknown theme should be rejected")
	}
	if err := setConfigValue(&cfg, "nope", "x"); err == nil {
		t.Error("unknown key should be rejected")
	}
}

func TestListFilter(t *testing.T) {
	defer func() { flagType, flagCategory, flagPayment, flagSearch = "", "", "", "" }()

	flagSearch, flagType, flagCategory, flagPayment = "feira", "expense", "comida fora", "pix"
	f, err := listFilter()
	if err != nil {
		t.Fatalf("listFilter: %v", err)
	}
	if f.Type != model.Expense || f.Category != model.ComidaFora || f.PaymentMethod != model.Pix || f.Search != "feira" {
		t.Errorf("filter = %+v", f)
	}

	flagCategory = "mercdo"
	_, err = listFilter()
	if err == nil || !strings.Contains(err.Error(), "MERCADO") {
		t.Errorf("err = %v, want a MERCADO suggestion", err)
	}
}

func TestMergeFormKeepsUnsetFields(t *testing.T) {
	cur := model.Transaction{
		ID:            "t1",
		Type:          model.Expense,
		Description:   "Feira",
		Amount:        decimal.RequireFromString("42.5"),
		Category:      model.Mercado,
		PaymentMethod: model.Pix,
		Date:          time.Date(2025, 1, 10, 0, 0, 0, 0, time.Local),
	}

	f := mergeForm(validate.TransactionForm{Amount: "50"}, cur)
	in, err := validate.Transaction(f, time.Date(2025, 2, 1, 12, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("Transaction: %v", err)
	}
	if !in.Amount.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Amount = %s, want 50", in.Amount)
	}
	if in.Description != "Feira" || in.Category != model.Mercado || in.PaymentMethod != model.Pix || in.Type != model.Expense {
		t.Errorf("merged input = %+v", in)
	}
	if got := in.Date.Format(validate.DateLayout); got != "2025-01-10" {
		t.Errorf("Date = %s, want 2025-01-10", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := validate.Credentials("", "123")
	if got := userMessage(err); got != err.Error() {
		t.Errorf("userMessage = %q, want %q", got, err.Error())
	}
}
