// Package apitest runs an in-process fake of the DuskWallet backend for
// tests. It speaks the same JSON contract as the real API and records
// every request it receives.
package apitest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/duskwallet/duskwallet/internal/model"
)

// Call is one recorded request.
type Call struct {
	Method    string
	Path      string
	Auth      string
	RequestID string
	Body      []byte
}

type account struct {
	user     model.User
	password string
}

type failure struct {
	status int
	body   any
}

// Server is a fake backend. The zero value is not usable; use New.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	secret       []byte
	tokenTTL     time.Duration
	accounts     map[string]account
	transactions map[string][]model.Transaction // by user email
	last         map[string]model.Analysis
	status       model.AnalysisStatus
	limitDays    int
	limited      bool
	loginError   string
	failures     map[string]failure // "METHOD /path"
	calls        []Call
	nextID       int
	generated    int
}

// New starts a fake backend. Close it with Server.Close.
func New() *Server {
	s := &Server{
		secret:       []byte("apitest-secret"),
		tokenTTL:     time.Hour,
		accounts:     make(map[string]account),
		transactions: make(map[string][]model.Transaction),
		last:         make(map[string]model.Analysis),
		failures:     make(map[string]failure),
		status:       model.AnalysisStatus{AnalysisRemaining: 1, MaxAnalysisPerWeek: 1, DaysUntilReset: 7},
	}

	r := mux.NewRouter()
	r.Use(s.record)
	r.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/register", s.register).Methods(http.MethodPost)

	authed := r.PathPrefix("/").Subrouter()
	authed.Use(s.authenticate)
	authed.HandleFunc("/dashboard", s.dashboard).Methods(http.MethodGet)
	authed.HandleFunc("/transactions", s.listTransactions).Methods(http.MethodGet)
	authed.HandleFunc("/transactions", s.createTransaction).Methods(http.MethodPost)
	authed.HandleFunc("/transactions/{id}", s.updateTransaction).Methods(http.MethodPut)
	authed.HandleFunc("/transactions/{id}", s.deleteTransaction).Methods(http.MethodDelete)
	authed.HandleFunc("/analysis", s.generateAnalysis).Methods(http.MethodGet)
	authed.HandleFunc("/analysis/last", s.lastAnalysis).Methods(http.MethodGet)
	authed.HandleFunc("/analysis/status", s.analysisStatus).Methods(http.MethodGet)

	s.Server = httptest.NewServer(r)
	return s
}

// AddUser registers an account and returns it.
func (s *Server) AddUser(id, name, email, password string) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := model.User{ID: id, Name: name, Email: email}
	s.accounts[email] = account{user: u, password: password}
	return u
}

// SetTransactions replaces the transactions owned by email.
func (s *Server) SetTransactions(email string, txs []model.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[email] = append([]model.Transaction(nil), txs...)
}

// Transactions returns a copy of the transactions owned by email.
func (s *Server) Transactions(email string) []model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Transaction(nil), s.transactions[email]...)
}

// SetLastAnalysis sets the stored analysis returned by /analysis/last.
func (s *Server) SetLastAnalysis(email string, payload string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[email] = model.Analysis{Payload: json.RawMessage(payload), CreatedAt: at}
}

// SetStatus sets the quota state returned by /analysis/status.
func (s *Server) SetStatus(st model.AnalysisStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = st
}

// SetLimitReached makes /analysis answer 403 with daysUntilReset.
func (s *Server) SetLimitReached(days int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limited = true
	s.limitDays = days
}

// RejectLogins makes every login fail with msg.
func (s *Server) RejectLogins(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginError = msg
}

// Fail makes the next request to method+path answer status with body.
func (s *Server) Fail(method, path string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, body: body}
}

// SetTokenTTL changes the lifetime of tokens minted from now on.
func (s *Server) SetTokenTTL(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenTTL = d
}

// Token mints a token for email, as a login would.
func (s *Server) Token(email string) string {
	s.mu.Lock()
	ttl := s.tokenTTL
	s.mu.Unlock()
	return s.mint(email, ttl)
}

// Calls returns every request received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount counts requests matching method and path.
func (s *Server) CallCount(method, path string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// Generated returns how many analyses /analysis has produced.
func (s *Server) Generated() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generated
}

func (s *Server) mint(email string, ttl time.Duration) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		panic(fmt.Sprintf("apitest: signing token: %v", err))
	}
	return signed
}

type ctxKey struct{}

func withEmail(r *http.Request, email string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKey{}, email))
}

func emailFrom(r *http.Request) string {
	email, _ := r.Context().Value(ctxKey{}).(string)
	return email
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		s.mu.Lock()
		s.calls = append(s.calls, Call{
			Method:    r.Method,
			Path:      r.URL.Path,
			Auth:      r.Header.Get("Authorization"),
			RequestID: r.Header.Get("X-Request-ID"),
			Body:      body,
		})
		f, forced := s.failures[r.Method+" "+r.URL.Path]
		if forced {
			delete(s.failures, r.Method+" "+r.URL.Path)
		}
		s.mu.Unlock()

		if forced {
			writeJSON(w, f.status, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token não fornecido"})
			return
		}
		var claims jwt.RegisteredClaims
		_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token inválido"})
			return
		}
		next.ServeHTTP(w, withEmail(r, claims.Subject))
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "JSON inválido"})
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[req.Email]
	rejected := s.loginError
	ttl := s.tokenTTL
	s.mu.Unlock()

	if rejected != "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": rejected})
		return
	}
	if !ok || acc.password != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Credenciais inválidas"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": s.mint(req.Email, ttl),
		"user":  acc.user,
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "JSON inválido"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Email]; exists {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Email já cadastrado"})
		return
	}
	s.nextID++
	u := model.User{ID: "u" + strconv.Itoa(s.nextID), Name: req.Name, Email: req.Email}
	s.accounts[req.Email] = account{user: u, password: req.Password}
	writeJSON(w, http.StatusCreated, map[string]any{"user": u})
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	email := emailFrom(r)
	s.mu.Lock()
	txs := s.transactions[email]
	s.mu.Unlock()

	income, expense := decimal.Zero, decimal.Zero
	for _, t := range txs {
		if t.Type == model.Income {
			income = income.Add(t.Amount)
		} else {
			expense = expense.Add(t.Amount)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"totalIncome":  income.InexactFloat64(),
		"totalExpense": expense.InexactFloat64(),
		"balance":      income.Sub(expense).InexactFloat64(),
	})
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	email := emailFrom(r)
	s.mu.Lock()
	txs := append([]model.Transaction{}, s.transactions[email]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"transactions": txs})
}

type transactionBody struct {
	Type          model.TransactionType `json:"type"`
	Description   string                `json:"description"`
	Amount        decimal.Decimal       `json:"amount"`
	Category      model.Category        `json:"category"`
	PaymentMethod model.PaymentMethod   `json:"paymentMethod"`
	Date          time.Time             `json:"date"`
}

func (b transactionBody) transaction(id string) model.Transaction {
	return model.Transaction{
		ID:            id,
		Type:          b.Type,
		Description:   b.Description,
		Amount:        b.Amount,
		Category:      b.Category,
		PaymentMethod: b.PaymentMethod,
		Date:          b.Date,
	}
}

func decodeTransaction(w http.ResponseWriter, r *http.Request) (transactionBody, bool) {
	var b transactionBody
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "JSON inválido"})
		return b, false
	}
	if !b.Type.Valid() || !b.Amount.IsPositive() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Dados inválidos"})
		return b, false
	}
	return b, true
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	b, ok := decodeTransaction(w, r)
	if !ok {
		return
	}
	email := emailFrom(r)

	s.mu.Lock()
	s.nextID++
	t := b.transaction("t" + strconv.Itoa(s.nextID))
	s.transactions[email] = append(s.transactions[email], t)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{"transaction": t})
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request) {
	b, ok := decodeTransaction(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	email := emailFrom(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.transactions[email] {
		if t.ID == id {
			s.transactions[email][i] = b.transaction(id)
			writeJSON(w, http.StatusOK, map[string]any{"transaction": s.transactions[email][i]})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Transação não encontrada"})
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	email := emailFrom(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	txs := s.transactions[email]
	for i, t := range txs {
		if t.ID == id {
			s.transactions[email] = append(txs[:i:i], txs[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Transação não encontrada"})
}

func (s *Server) generateAnalysis(w http.ResponseWriter, r *http.Request) {
	email := emailFrom(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.limited {
		writeJSON(w, http.StatusForbidden, map[string]any{
			"message":        "Limite semanal de análises atingido",
			"daysUntilReset": s.limitDays,
		})
		return
	}
	if len(s.transactions[email]) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"analysis": nil,
			"message":  "Adicione transações para gerar uma análise",
		})
		return
	}

	s.generated++
	payload, _ := json.Marshal(map[string]any{
		"resumo":             fmt.Sprintf("Análise #%d", s.generated),
		"ponto_positivo":     "Receitas cobrem as despesas",
		"ponto_de_atencao":   "Gastos com mercado em alta",
		"analise_de_padroes": []string{"Compras concentradas no fim de semana"},
		"conselhos":          []string{"Revise gastos com mercado"},
	})
	a := model.Analysis{Payload: payload, CreatedAt: time.Now().UTC()}
	s.last[email] = a
	if s.status.AnalysisRemaining > 0 {
		s.status.AnalysisRemaining--
	}
	writeJSON(w, http.StatusOK, map[string]any{"analysis": a.Payload, "createdAt": a.CreatedAt})
}

func (s *Server) lastAnalysis(w http.ResponseWriter, r *http.Request) {
	email := emailFrom(r)
	s.mu.Lock()
	a, ok := s.last[email]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Nenhuma análise encontrada"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"analysis": a.Payload, "createdAt": a.CreatedAt})
}

func (s *Server) analysisStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	st := s.status
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, st)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}
