package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"MERCADO", Mercado},
		{"mercado", Mercado},
		{" comida fora ", ComidaFora},
		{"outras-receitas", OutrasReceitas},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		if err != nil {
			t.Errorf("ParseCategory(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCategory(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseCategory_Suggests(t *testing.T) {
	_, err := ParseCategory("transprte")
	if err == nil || !strings.Contains(err.Error(), "did you mean TRANSPORTE") {
		t.Errorf("err = %v, want a TRANSPORTE suggestion", err)
	}

	_, err = ParseCategory("xyzzy-plugh-quux")
	if err == nil || !strings.Contains(err.Error(), "one of") {
		t.Errorf("err = %v, want the list of categories", err)
	}
}

func TestParsePaymentMethod(t *testing.T) {
	got, err := ParsePaymentMethod("pix")
	if err != nil || got != Pix {
		t.Errorf("ParsePaymentMethod(pix) = %s, %v", got, err)
	}
	if _, err := ParsePaymentMethod("boleto"); err == nil {
		t.Error("ParsePaymentMethod(boleto) should fail")
	}
}

func TestLabelsFallBackToKey(t *testing.T) {
	if got := Category("CRIPTO").Label(); got != "CRIPTO" {
		t.Errorf("unknown category label = %q", got)
	}
	if got := Saude.Label(); got != "Saúde" {
		t.Errorf("Saude.Label() = %q", got)
	}
	if got := PaymentMethod("BOLETO").Label(); got != "BOLETO" {
		t.Errorf("unknown payment label = %q", got)
	}
	if got := Income.Label(); got != "Receita" {
		t.Errorf("Income.Label() = %q", got)
	}
}

func TestCacheKeyPrefersID(t *testing.T) {
	if got := (User{ID: "u1", Email: "a@b.com"}).CacheKey(); got != "u1" {
		t.Errorf("CacheKey = %q, want u1", got)
	}
	if got := (User{Email: "a@b.com"}).CacheKey(); got != "a@b.com" {
		t.Errorf("CacheKey = %q, want email", got)
	}
	if got := (User{Email: "a@b.com"}).DisplayName(); got != "a@b.com" {
		t.Errorf("DisplayName = %q, want email", got)
	}
}

func TestAnalysisSections(t *testing.T) {
	a := Analysis{Payload: json.RawMessage(`{
		"resumo": "Gastos altos",
		"ponto_positivo": "Renda estável",
		"ponto_de_atencao": "Mercado acima da média",
		"analise_de_padroes": ["compras no fim de semana", "delivery frequente"],
		"conselhos": ["b"],
		"plano_de_emergencia": ["cortar assinaturas"]
	}`)}
	s := a.Sections()
	if s.Summary != "Gastos altos" || s.Strength != "Renda estável" || s.Concern != "Mercado acima da média" {
		t.Errorf("Sections = %+v", s)
	}
	if len(s.Patterns) != 2 || len(s.Advice) != 1 || len(s.EmergencyPlan) != 1 {
		t.Errorf("list sections = %+v", s)
	}
	if !s.Known() {
		t.Error("Known = false for a full payload")
	}
	if got := s.PatternsCaption(); got != "2 padrões identificados" {
		t.Errorf("PatternsCaption = %q", got)
	}

	other := Analysis{Payload: json.RawMessage(`{"summary":"english"}`)}
	if other.Sections().Known() {
		t.Error("unrecognized keys should not count as known sections")
	}

	text := Analysis{Payload: json.RawMessage(`"plain text"`)}
	if got := text.Sections().Summary; got != "plain text" {
		t.Errorf("string payload summary = %q", got)
	}

	if !(Analysis{Payload: json.RawMessage("null")}).Empty() {
		t.Error("null payload should be empty")
	}
	if !(Analysis{}).Empty() {
		t.Error("zero analysis should be empty")
	}
}

func TestAnalysisStatusCanGenerate(t *testing.T) {
	if (AnalysisStatus{}).CanGenerate() {
		t.Error("no quota and no subscription should not generate")
	}
	if !(AnalysisStatus{HasSubscription: true}).CanGenerate() {
		t.Error("subscription should generate")
	}
	if !(AnalysisStatus{AnalysisRemaining: 1}).CanGenerate() {
		t.Error("remaining quota should generate")
	}
}

func TestIDsAcceptStringsAndNumbers(t *testing.T) {
	var u User
	if err := json.Unmarshal([]byte(`{"id":42,"email":"a@b.com"}`), &u); err != nil {
		t.Fatalf("numeric user id: %v", err)
	}
	if u.ID != "42" || u.Email != "a@b.com" {
		t.Errorf("user = %+v", u)
	}

	if err := json.Unmarshal([]byte(`{"id":"abc","name":"Ana","email":"a@b.com"}`), &u); err != nil {
		t.Fatalf("string user id: %v", err)
	}
	if u.ID != "abc" || u.Name != "Ana" {
		t.Errorf("user = %+v", u)
	}

	var noID User
	if err := json.Unmarshal([]byte(`{"id":null,"email":"a@b.com"}`), &noID); err != nil {
		t.Fatalf("null id: %v", err)
	}
	if noID.CacheKey() != "a@b.com" {
		t.Errorf("CacheKey = %q, want email", noID.CacheKey())
	}

	var tx Transaction
	if err := json.Unmarshal([]byte(`{"id":7,"type":"INCOME","amount":"10.5"}`), &tx); err != nil {
		t.Fatalf("numeric transaction id: %v", err)
	}
	if tx.ID != "7" || tx.Type != Income || tx.Amount.String() != "10.5" {
		t.Errorf("transaction = %+v", tx)
	}

	if err := json.Unmarshal([]byte(`{"id":true}`), &tx); err == nil {
		t.Error("boolean id accepted")
	}
}
