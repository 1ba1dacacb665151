package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskwallet/duskwallet/internal/api"
	"github.com/duskwallet/duskwallet/internal/api/apitest"
	"github.com/duskwallet/duskwallet/internal/model"
)

func newBackend(t *testing.T) *apitest.Server {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	srv.AddUser("u1", "Ana Souza", "ana@example.com", "secret1")
	return srv
}

func authedClient(t *testing.T, srv *apitest.Server, opts ...api.Option) *api.Client {
	t.Helper()
	token := srv.Token("ana@example.com")
	opts = append([]api.Option{api.WithTokenSource(func() string { return token })}, opts...)
	return api.New(srv.URL, opts...)
}

func TestLogin_Success(t *testing.T) {
	srv := newBackend(t)
	c := api.New(srv.URL)

	sess, err := c.Login(context.Background(), "ana@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, model.User{ID: "u1", Name: "Ana Souza", Email: "ana@example.com"}, sess.User)

	calls := srv.Calls()
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].Auth, "login must not send a bearer token")
	assert.NotEmpty(t, calls[0].RequestID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv := newBackend(t)
	hooked := false
	c := api.New(srv.URL)
	c.OnUnauthorized(func() { hooked = true })

	_, err := c.Login(context.Background(), "ana@example.com", "wrong-pass")
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrUnauthorized))
	assert.Equal(t, "Credenciais inválidas", err.Error())
	assert.Equal(t, http.StatusUnauthorized, api.Status(err))
	assert.False(t, hooked, "public endpoints must not trigger the unauthorized hook")
}

func TestLogin_UserOmitted(t *testing.T) {
	srv := newBackend(t)
	srv.Fail(http.MethodPost, "/auth/login", http.StatusOK, map[string]string{"token": "abc"})
	c := api.New(srv.URL)

	sess, err := c.Login(context.Background(), "bia@example.com", "whatever")
	require.NoError(t, err)
	assert.Equal(t, "abc", sess.Token)
	assert.Equal(t, model.User{Email: "bia@example.com"}, sess.User)
}

func TestRegister_Conflict(t *testing.T) {
	srv := newBackend(t)
	c := api.New(srv.URL)

	err := c.Register(context.Background(), "Ana", "ana@example.com", "secret1")
	require.Error(t, err)
	assert.Equal(t, "Email já cadastrado", api.Message(err, "fallback"))
	assert.True(t, errors.Is(err, api.ErrServer))
}

func TestAuthenticatedCallsSendBearer(t *testing.T) {
	srv := newBackend(t)
	token := srv.Token("ana@example.com")
	c := api.New(srv.URL, api.WithTokenSource(func() string { return token }))

	_, err := c.Dashboard(context.Background())
	require.NoError(t, err)

	calls := srv.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Bearer "+token, calls[0].Auth)
}

func TestUnauthorizedInvokesHook(t *testing.T) {
	srv := newBackend(t)
	var hooked atomic.Int32
	c := api.New(srv.URL, api.WithTokenSource(func() string { return "not-a-jwt" }))
	c.OnUnauthorized(func() { hooked.Add(1) })

	_, err := c.ListTransactions(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrUnauthorized))
	assert.Equal(t, "Token inválido", err.Error())
	assert.Equal(t, int32(1), hooked.Load())
}

func TestTransactionsCRUD(t *testing.T) {
	srv := newBackend(t)
	c := authedClient(t, srv)
	ctx := context.Background()

	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local)
	in := model.TransactionInput{
		Type:          model.Expense,
		Description:   "Feira",
		Amount:        decimal.RequireFromString("42.50"),
		Category:      model.Mercado,
		PaymentMethod: model.Pix,
		Date:          day,
	}
	require.NoError(t, c.CreateTransaction(ctx, in))

	var sent map[string]any
	calls := srv.Calls()
	require.NoError(t, json.Unmarshal(calls[len(calls)-1].Body, &sent))
	assert.Equal(t, 42.5, sent["amount"], "amount goes out as a JSON number")
	assert.Equal(t, day.UTC().Format("2006-01-02T15:04:05.000Z"), sent["date"])

	txs, err := c.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("42.5")))
	assert.Equal(t, model.Mercado, txs[0].Category)
	assert.True(t, txs[0].Date.Equal(day))

	in.Description = "Feira livre"
	require.NoError(t, c.UpdateTransaction(ctx, txs[0].ID, in))
	txs, err = c.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Feira livre", txs[0].Description)

	require.NoError(t, c.DeleteTransaction(ctx, txs[0].ID))
	txs, err = c.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)

	err = c.DeleteTransaction(ctx, "missing")
	assert.True(t, errors.Is(err, api.ErrNotFound))
}

func TestDashboard(t *testing.T) {
	srv := newBackend(t)
	srv.SetTransactions("ana@example.com", []model.Transaction{
		{ID: "1", Type: model.Income, Amount: decimal.NewFromInt(1000), Category: model.Salario},
		{ID: "2", Type: model.Expense, Amount: decimal.NewFromInt(150), Category: model.Mercado},
	})
	c := authedClient(t, srv)

	d, err := c.Dashboard(context.Background())
	require.NoError(t, err)
	assert.True(t, d.TotalIncome.Equal(decimal.NewFromInt(1000)))
	assert.True(t, d.TotalExpense.Equal(decimal.NewFromInt(150)))
	assert.True(t, d.Balance.Equal(decimal.NewFromInt(850)))
}

func TestGenerateAnalysis_LimitReached(t *testing.T) {
	srv := newBackend(t)
	srv.SetLimitReached(3)
	c := authedClient(t, srv)

	_, err := c.GenerateAnalysis(context.Background())
	require.Error(t, err)

	var limit *api.LimitError
	require.True(t, errors.As(err, &limit))
	assert.Equal(t, 3, limit.DaysUntilReset)
	assert.True(t, errors.Is(err, api.ErrLimitReached))
	assert.Equal(t, http.StatusForbidden, api.Status(err))
	assert.Contains(t, api.Message(err, ""), "next reset in 3 day(s)")
}

func TestGenerateAnalysis_LimitReachedWithGetDedupe(t *testing.T) {
	srv := newBackend(t)
	srv.SetLimitReached(3)
	c := authedClient(t, srv, api.WithGetDedupe(true))

	_, err := c.GenerateAnalysis(context.Background())
	require.Error(t, err)

	var limit *api.LimitError
	require.True(t, errors.As(err, &limit))
	assert.Equal(t, 3, limit.DaysUntilReset)
	assert.Contains(t, api.Message(err, ""), "next reset in 3 day(s)")
}

func TestGetDedupe_KeepsErrorMessage(t *testing.T) {
	srv := newBackend(t)
	srv.Fail(http.MethodGet, "/dashboard", http.StatusInternalServerError, map[string]string{"error": "Banco indisponível"})
	c := authedClient(t, srv, api.WithGetDedupe(true))

	_, err := c.Dashboard(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Banco indisponível", api.Message(err, ""))
}

func TestGenerateAnalysis_NothingToAnalyze(t *testing.T) {
	srv := newBackend(t)
	c := authedClient(t, srv)

	g, err := c.GenerateAnalysis(context.Background())
	require.NoError(t, err)
	assert.True(t, g.Analysis.Empty())
	assert.NotEmpty(t, g.Message)
}

func TestLastAnalysis(t *testing.T) {
	srv := newBackend(t)
	c := authedClient(t, srv)
	ctx := context.Background()

	_, err := c.LastAnalysis(ctx)
	assert.True(t, errors.Is(err, api.ErrNotFound))

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	srv.SetLastAnalysis("ana@example.com", `{"resumo":"ok"}`, at)
	a, err := c.LastAnalysis(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", a.Sections().Summary)
	assert.True(t, a.CreatedAt.Equal(at))
}

func TestAnalysisStatus(t *testing.T) {
	srv := newBackend(t)
	srv.SetStatus(model.AnalysisStatus{AnalysisRemaining: 0, MaxAnalysisPerWeek: 1, DaysUntilReset: 4})
	c := authedClient(t, srv)

	st, err := c.AnalysisStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, st.DaysUntilReset)
	assert.False(t, st.CanGenerate())
}

func TestServerErrorMessageFallbacks(t *testing.T) {
	srv := newBackend(t)
	c := authedClient(t, srv)
	ctx := context.Background()

	srv.Fail(http.MethodGet, "/dashboard", http.StatusInternalServerError, map[string]string{"message": "db down"})
	_, err := c.Dashboard(ctx)
	assert.True(t, errors.Is(err, api.ErrServer))
	assert.Equal(t, "db down", err.Error())

	srv.Fail(http.MethodGet, "/dashboard", http.StatusBadGateway, nil)
	_, err = c.Dashboard(ctx)
	assert.Equal(t, "could not load the dashboard", err.Error())
	assert.Equal(t, http.StatusBadGateway, api.Status(err))
}

func TestNetworkError(t *testing.T) {
	srv := apitest.New()
	url := srv.URL
	srv.Close()

	c := api.New(url, api.WithTimeout(time.Second))
	_, err := c.Dashboard(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrNetwork))
	assert.Equal(t, 0, api.Status(err))
}

func TestMessage_NonAPIError(t *testing.T) {
	assert.Equal(t, "fallback", api.Message(errors.New("boom"), "fallback"))
	assert.Equal(t, 0, api.Status(errors.New("boom")))
}

func TestGetDedupe_DoesNotCacheSequentialCalls(t *testing.T) {
	srv := newBackend(t)
	c := authedClient(t, srv, api.WithGetDedupe(true))

	for i := 0; i < 2; i++ {
		_, err := c.Dashboard(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 2, srv.CallCount(http.MethodGet, "/dashboard"))
}

func TestNumericIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/login":
			_, _ = w.Write([]byte(`{"token":"abc","user":{"id":1,"name":"Ana","email":"ana@example.com"}}`))
		case "/transactions":
			_, _ = w.Write([]byte(`{"transactions":[{"id":7,"type":"EXPENSE","description":"Feira","amount":42.5,` +
				`"category":"MERCADO","paymentMethod":"PIX","date":"2024-03-10T00:00:00.000Z"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	c := api.New(srv.URL, api.WithTokenSource(func() string { return "abc" }))
	ctx := context.Background()

	sess, err := c.Login(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "1", sess.User.ID)
	assert.Equal(t, "1", sess.User.CacheKey())

	txs, err := c.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "7", txs[0].ID)
	assert.Equal(t, "Feira", txs[0].Description)
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("42.5")))
}
