package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"budgetmaster/internal/logger"
	"budgetmaster/internal/month"
	"budgetmaster/internal/queue"
	"budgetmaster/internal/testutil"
	"budgetmaster/internal/validator"
)

const testPipelineKey = "test-pipeline-key"

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test", "error")
	validator.Register()
}

// testApp holds the full application stack for router-level tests.
type testApp struct {
	*App
	DB *gorm.DB
}

func setupApp(t *testing.T, mutate ...func(*Options)) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	opts := Options{
		JWTSecret:          testutil.TestJWTSecret,
		JWTAudience:        testutil.TestJWTAudience,
		PipelineAPIKey:     testPipelineKey,
		CORSAllowedOrigins: []string{"http://localhost:5173"},
	}
	for _, fn := range mutate {
		fn(&opts)
	}

	app := New(db, opts)
	t.Cleanup(func() { _ = app.WS.Close() })
	return &testApp{App: app, DB: db}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// pipelineRequest posts to a pipeline route with the test API key.
func (app *testApp) pipelineRequest(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testPipelineKey)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// decimalField reads a decimal encoded as a JSON string.
func decimalField(t *testing.T, obj map[string]interface{}, key string) decimal.Decimal {
	t.Helper()
	raw, ok := obj[key].(string)
	if !ok {
		t.Fatalf("expected %s to be a decimal string, got %v", key, obj[key])
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("invalid decimal %s=%q: %v", key, raw, err)
	}
	return d
}

// budgetsByName lists a month's budgets keyed by name.
func (app *testApp) budgetsByName(t *testing.T, token, m string) map[string]map[string]interface{} {
	t.Helper()
	rec := app.request("GET", "/api/v1/budgets?month="+m, "", token)
	if rec.Code != 200 {
		t.Fatalf("list budgets failed: %d %s", rec.Code, rec.Body.String())
	}
	out := map[string]map[string]interface{}{}
	for _, item := range parseJSON(t, rec)["budgets"].([]interface{}) {
		b := item.(map[string]interface{})
		out[b["name"].(string)] = b
	}
	return out
}

// recordingPublisher captures reconcile requests instead of sending them.
type recordingPublisher struct {
	mu       sync.Mutex
	requests []string
}

func (p *recordingPublisher) PublishReconcile(_ context.Context, userID string, m month.Key) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, userID+"|"+m.String())
	return nil
}

// memoryBus stands in for RabbitMQ between an API app and a worker app.
type memoryBus struct {
	mu        sync.Mutex
	reconcile [][]byte
	events    [][]byte
}

func (b *memoryBus) PublishReconcile(_ context.Context, userID string, m month.Key) error {
	body, err := queue.NewReconcileMessage(userID, m).ToJSON()
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reconcile = append(b.reconcile, body)
	return nil
}

func (b *memoryBus) PublishBudgetsChanged(_ context.Context, userID string, months ...month.Key) error {
	body, err := queue.NewBudgetsChangedMessage(userID, months...).ToJSON()
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, body)
	return nil
}

// deliverReconcile hands queued reconcile requests to handler and returns
// how many were delivered.
func (b *memoryBus) deliverReconcile(t *testing.T, handler queue.Handler) int {
	t.Helper()
	b.mu.Lock()
	pending := b.reconcile
	b.reconcile = nil
	b.mu.Unlock()
	for _, body := range pending {
		if err := queue.Dispatch(context.Background(), body, handler); err != nil {
			t.Fatalf("reconcile delivery failed: %v", err)
		}
	}
	return len(pending)
}

// deliverEvents hands queued budget events to handler and returns how many
// were delivered.
func (b *memoryBus) deliverEvents(t *testing.T, handler queue.EventHandler) int {
	t.Helper()
	b.mu.Lock()
	pending := b.events
	b.events = nil
	b.mu.Unlock()
	for _, body := range pending {
		if err := queue.DispatchEvent(context.Background(), body, handler); err != nil {
			t.Fatalf("event delivery failed: %v", err)
		}
	}
	return len(pending)
}
