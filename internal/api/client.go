// Package api is the HTTP gateway to the DuskWallet backend. Every call
// carries the current bearer token and failures come back as *Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/duskwallet/duskwallet/internal/logging"
	"github.com/duskwallet/duskwallet/internal/model"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	userAgent      = "duskwallet-cli/1.0"
)

// TokenSource returns the bearer token to attach, or "" for none.
type TokenSource func() string

// Client talks to the backend REST API.
type Client struct {
	baseURL        string
	http           *http.Client
	timeout        time.Duration
	token          TokenSource
	onUnauthorized func()
	log            *logrus.Entry

	dedupe bool
	group  singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithTokenSource sets where the bearer token is read from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

// WithLogger routes request logs to logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) { c.log = logging.Component(logger, "api") }
}

// WithGetDedupe collapses concurrent identical GETs into one request.
// Callers that overlap receive the same response.
func WithGetDedupe(enabled bool) Option {
	return func(c *Client) { c.dedupe = enabled }
}

// New returns a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{},
		timeout: defaultTimeout,
		token:   func() string { return "" },
		log:     logging.Component(logging.Discard(), "api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnUnauthorized registers fn to run whenever an authenticated call gets
// a 401. The session store uses it to drop the expired session.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// BaseURL returns the API root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call describes one request.
type call struct {
	method   string
	path     string
	body     any
	public   bool   // no token, no unauthorized hook
	fallback string // message when the body carries none
}

// sharedBody is what de-duplicated callers receive, so the response body
// survives alongside an error.
type sharedBody struct {
	body []byte
}

// do performs the call and returns the raw response body. A non-2xx body
// comes back together with its error.
func (c *Client) do(ctx context.Context, cl call) ([]byte, error) {
	if cl.method == http.MethodGet && c.dedupe {
		key := cl.path + "\x00" + c.tokenFor(cl)
		v, err, _ := c.group.Do(key, func() (any, error) {
			body, err := c.roundTrip(ctx, cl)
			return sharedBody{body}, err
		})
		// Error bodies carry details such as daysUntilReset.
		return v.(sharedBody).body, err
	}
	return c.roundTrip(ctx, cl)
}

func (c *Client) tokenFor(cl call) string {
	if cl.public || c.token == nil {
		return ""
	}
	return c.token()
}

func (c *Client) roundTrip(ctx context.Context, cl call) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("api: encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("api: creating request: %w", err)
	}

	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", reqID)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.tokenFor(cl); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	log := c.log.WithFields(logrus.Fields{
		"method":     cl.method,
		"path":       cl.path,
		"request_id": reqID,
	})
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Warn("request failed")
		return nil, &Error{Message: networkMessage, kind: ErrNetwork, cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		log.WithError(err).Warn("reading response failed")
		return nil, &Error{Status: resp.StatusCode, Message: networkMessage, kind: ErrNetwork, cause: err}
	}

	log.WithFields(logrus.Fields{
		"status":  resp.StatusCode,
		"elapsed": time.Since(start).String(),
	}).Debug("request done")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	apiErr := &Error{
		Status:  resp.StatusCode,
		Message: bodyMessage(body, cl.fallback),
		kind:    kindFor(resp.StatusCode),
	}
	if resp.StatusCode == http.StatusUnauthorized && !cl.public && c.onUnauthorized != nil {
		log.Info("session rejected by backend, clearing")
		c.onUnauthorized()
	}
	return body, apiErr
}

func kindFor(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}
	return ErrServer
}

// bodyMessage extracts "error" then "message" from a JSON error body.
func bodyMessage(body []byte, fallback string) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if s := strings.TrimSpace(eb.Error); s != "" {
			return s
		}
		if s := strings.TrimSpace(eb.Message); s != "" {
			return s
		}
	}
	if fallback == "" {
		return "something went wrong, please try again"
	}
	return fallback
}

func decode(body []byte, out any, what string) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("api: parsing %s: %w", what, err)
	}
	return nil
}

// Login exchanges credentials for a session. A backend that omits the user
// yields a user carrying only the email.
func (c *Client) Login(ctx context.Context, email, password string) (model.Session, error) {
	body, err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/login",
		body:     credentials{Email: email, Password: password},
		public:   true,
		fallback: "login failed",
	})
	if err != nil {
		return model.Session{}, err
	}

	var lr loginResponse
	if err := decode(body, &lr, "login response"); err != nil {
		return model.Session{}, err
	}
	if lr.Token == "" {
		return model.Session{}, &Error{Status: http.StatusOK, Message: "login failed", kind: ErrServer,
			cause: errors.New("api: login response has no token")}
	}

	user := model.User{Email: email}
	if lr.User != nil {
		user = *lr.User
		if user.Email == "" {
			user.Email = email
		}
	}
	return model.Session{User: user, Token: lr.Token}, nil
}

// Register creates an account. It does not establish a session.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	_, err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/register",
		body:     credentials{Name: name, Email: email, Password: password},
		public:   true,
		fallback: "registration failed",
	})
	return err
}

// Dashboard returns the backend's income/expense/balance totals.
func (c *Client) Dashboard(ctx context.Context) (model.Dashboard, error) {
	body, err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/dashboard",
		fallback: "could not load the dashboard",
	})
	if err != nil {
		return model.Dashboard{}, err
	}
	var d model.Dashboard
	if err := decode(body, &d, "dashboard"); err != nil {
		return model.Dashboard{}, err
	}
	return d, nil
}

// ListTransactions returns the user's transactions in backend order.
func (c *Client) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	body, err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/transactions",
		fallback: "could not load transactions",
	})
	if err != nil {
		return nil, err
	}
	var tr transactionsResponse
	if err := decode(body, &tr, "transactions"); err != nil {
		return nil, err
	}
	if tr.Transactions == nil {
		return []model.Transaction{}, nil
	}
	return tr.Transactions, nil
}

// CreateTransaction stores a new transaction.
func (c *Client) CreateTransaction(ctx context.Context, in model.TransactionInput) error {
	_, err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/transactions",
		body:     payloadFrom(in),
		fallback: "could not save the transaction",
	})
	return err
}

// UpdateTransaction replaces the editable fields of transaction id.
func (c *Client) UpdateTransaction(ctx context.Context, id string, in model.TransactionInput) error {
	_, err := c.do(ctx, call{
		method:   http.MethodPut,
		path:     "/transactions/" + id,
		body:     payloadFrom(in),
		fallback: "could not save the transaction",
	})
	return err
}

// DeleteTransaction removes transaction id.
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	_, err := c.do(ctx, call{
		method:   http.MethodDelete,
		path:     "/transactions/" + id,
		fallback: "could not delete the transaction",
	})
	return err
}

// GenerateAnalysis asks the backend for a fresh AI analysis. A 403 means
// the weekly quota is used up and is returned as *LimitError.
func (c *Client) GenerateAnalysis(ctx context.Context) (Generated, error) {
	body, err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/analysis",
		fallback: "could not generate the analysis",
	})
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden {
			var lr limitResponse
			_ = json.Unmarshal(body, &lr)
			limited := *apiErr
			limited.kind = ErrLimitReached
			return Generated{}, &LimitError{Err: &limited, DaysUntilReset: lr.DaysUntilReset}
		}
		return Generated{}, err
	}

	var ar analysisResponse
	if err := decode(body, &ar, "analysis"); err != nil {
		return Generated{}, err
	}
	g := Generated{Message: ar.Message}
	if len(ar.Analysis) > 0 && string(ar.Analysis) != "null" {
		g.Analysis = model.Analysis{Payload: ar.Analysis, CreatedAt: time.Now()}
		if ar.CreatedAt != nil {
			g.Analysis.CreatedAt = *ar.CreatedAt
		}
	}
	return g, nil
}

// LastAnalysis returns the most recent stored analysis. When none exists
// the error matches ErrNotFound.
func (c *Client) LastAnalysis(ctx context.Context) (model.Analysis, error) {
	body, err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/analysis/last",
		fallback: "could not load the last analysis",
	})
	if err != nil {
		return model.Analysis{}, err
	}
	var ar analysisResponse
	if err := decode(body, &ar, "analysis"); err != nil {
		return model.Analysis{}, err
	}
	a := model.Analysis{Payload: ar.Analysis}
	if ar.CreatedAt != nil {
		a.CreatedAt = *ar.CreatedAt
	}
	return a, nil
}

// AnalysisStatus returns the subscription and weekly quota state.
func (c *Client) AnalysisStatus(ctx context.Context) (model.AnalysisStatus, error) {
	body, err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/analysis/status",
		fallback: "could not load the analysis status",
	})
	if err != nil {
		return model.AnalysisStatus{}, err
	}
	var st model.AnalysisStatus
	if err := decode(body, &st, "analysis status"); err != nil {
		return model.AnalysisStatus{}, err
	}
	return st, nil
}
