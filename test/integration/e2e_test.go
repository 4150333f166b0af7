//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cryptosden/backend/internal/config"
	"github.com/cryptosden/backend/internal/handler"
	"github.com/cryptosden/backend/internal/market"
	"github.com/cryptosden/backend/internal/notify"
	"github.com/cryptosden/backend/internal/repository"
	"github.com/cryptosden/backend/internal/service"
)

const testJWTSecret = "integration-test-secret"

// Schema for test database
const testSchema = `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    phone_number VARCHAR(32),
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS alerts (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    type VARCHAR(30) NOT NULL CHECK (type IN ('price', 'sentiment', 'risk', 'volume', 'technical')),
    cryptocurrency VARCHAR(100) NOT NULL,
    condition VARCHAR(30) NOT NULL CHECK (condition IN ('above', 'below', 'crosses_up', 'crosses_down', 'change_percent')),
    threshold DECIMAL(30, 10) NOT NULL,
    metadata JSONB NOT NULL DEFAULT '{}',
    notification_method TEXT[] NOT NULL DEFAULT '{}',
    is_active BOOLEAN NOT NULL DEFAULT true,
    is_triggered BOOLEAN NOT NULL DEFAULT false,
    current_value DECIMAL(30, 10),
    previous_value DECIMAL(30, 10),
    last_checked TIMESTAMP WITH TIME ZONE,
    triggered_at TIMESTAMP WITH TIME ZONE,
    last_notified_at TIMESTAMP WITH TIME ZONE,
    message TEXT NOT NULL DEFAULT '',
    version BIGINT NOT NULL DEFAULT 1,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS notification_preferences (
    user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    email JSONB NOT NULL DEFAULT '{}',
    push JSONB NOT NULL DEFAULT '{}',
    sms JSONB NOT NULL DEFAULT '{}',
    frequency VARCHAR(20) NOT NULL DEFAULT 'immediate' CHECK (frequency IN ('immediate', 'daily', 'weekly')),
    quiet_hours JSONB NOT NULL DEFAULT '{}',
    timezone VARCHAR(64) NOT NULL DEFAULT 'UTC',
    last_digest_at TIMESTAMP WITH TIME ZONE,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS dispatch_records (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL,
    alert_id UUID REFERENCES alerts(id) ON DELETE SET NULL,
    event_id UUID NOT NULL,
    channel VARCHAR(20) NOT NULL,
    status VARCHAR(30) NOT NULL CHECK (status IN ('sent', 'failed', 'pending_retry', 'suppressed_quiet_hours', 'suppressed_preference')),
    digest BOOLEAN NOT NULL DEFAULT false,
    simulated BOOLEAN NOT NULL DEFAULT false,
    message TEXT NOT NULL DEFAULT '',
    error TEXT,
    attempts INTEGER NOT NULL DEFAULT 0,
    refers_to UUID,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS audit_log (
    id UUID PRIMARY KEY,
    actor_id UUID NOT NULL,
    action VARCHAR(100) NOT NULL,
    target_type VARCHAR(50) NOT NULL,
    target_id VARCHAR(100) NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    details JSONB NOT NULL DEFAULT '{}',
    severity VARCHAR(20) NOT NULL DEFAULT 'info',
    category VARCHAR(50) NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS push_subscriptions (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    endpoint TEXT UNIQUE NOT NULL,
    p256dh TEXT NOT NULL DEFAULT '',
    auth TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
`

// marketStub serves canned snapshot values the way the market-data feed does.
type marketStub struct {
	mu     sync.Mutex
	values map[string]string // "metric/asset" -> decimal string
	server *httptest.Server
}

func newMarketStub() *marketStub {
	s := &marketStub{values: map[string]string{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		value, ok := s.values[r.URL.Path[len("/v1/"):]]
		s.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"value": %s}`, value)
	})
	s.server = httptest.NewServer(mux)
	return s
}

// Set registers the value returned for one metric/asset pair.
func (s *marketStub) Set(metric, asset, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[metric+"/"+asset] = value
}

// TestEnv holds the test environment
type TestEnv struct {
	DB         *sqlx.DB
	Container  testcontainers.Container
	Server     *httptest.Server
	Market     *marketStub
	Evaluation *service.EvaluationService
	Digests    *service.DigestService
	Token      string // JWT token for authenticated requests
}

// SetupTestEnv creates a test environment with a real PostgreSQL database
func SetupTestEnv(t *testing.T) *TestEnv {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", testJWTSecret)

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	// Get connection string
	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Connect to database
	db, err := sqlx.Connect("postgres", connStr)
	require.NoError(t, err)

	// Run migrations
	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	// Stub market-data feed
	stub := newMarketStub()
	provider := market.NewHTTPProvider(stub.server.URL, "", 5*time.Second)

	// Initialize repositories
	alertRepo := repository.NewAlertRepository(db)
	prefRepo := repository.NewPreferenceRepository(db)
	dispatchRepo := repository.NewDispatchRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	pushRepo := repository.NewPushRepository(db)
	userDirectory := repository.NewUserDirectory(db)

	// No SMTP server and no VAPID keys here, so tests route notifications
	// through the inert sms channel and assert on dispatch records.
	cfg := &config.Config{
		Dispatch: config.DispatchConfig{Concurrency: 4, MaxAttempts: 2, InitialDelay: time.Millisecond},
		Evaluator: config.EvaluatorConfig{
			Enabled:          true,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FetchConcurrency: 4,
			DigestSweep:      time.Minute,
		},
	}
	adapters := []notify.Adapter{
		notify.NewEmailAdapter(cfg.SMTP, userDirectory),
		notify.NewPushAdapter(cfg, pushRepo),
		notify.NewSMSAdapter(),
	}

	// Initialize services
	dispatcher := service.NewDispatcher(dispatchRepo, adapters, cfg.Dispatch)
	prefService := service.NewPreferenceService(prefRepo)
	alertService := service.NewAlertService(alertRepo, prefService, dispatcher, auditRepo)
	metrics := service.NewMetricsCollector()
	evaluationService := service.NewEvaluationService(alertRepo, provider, prefService, dispatcher, cfg.Evaluator, metrics)
	digestService := service.NewDigestService(alertRepo, prefRepo, dispatcher)

	// Initialize handlers
	alertHandler := handler.NewAlertHandler(alertService)
	prefHandler := handler.NewPreferenceHandler(prefService)
	pushHandler := handler.NewPushHandler(pushRepo, "")

	// Setup router
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// Health check
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(handler.AuthMiddleware)

		r.Get("/api/alerts", alertHandler.List)
		r.Post("/api/alerts", alertHandler.Create)
		r.Get("/api/alerts/stats", alertHandler.Stats)
		r.Get("/api/alerts/dispatches", alertHandler.Dispatches)
		r.Post("/api/alerts/toggle-all", alertHandler.ToggleAll)
		r.Get("/api/alerts/{id}", alertHandler.Get)
		r.Delete("/api/alerts/{id}", alertHandler.Delete)
		r.Post("/api/alerts/{id}/toggle", alertHandler.Toggle)
		r.Post("/api/alerts/{id}/clear", alertHandler.ClearTrigger)
		r.Post("/api/alerts/{id}/test", alertHandler.TestFire)

		r.Get("/api/preferences", prefHandler.Get)
		r.Put("/api/preferences", prefHandler.Update)

		r.Post("/api/push/subscriptions", pushHandler.Subscribe)
		r.Delete("/api/push/subscriptions", pushHandler.Unsubscribe)
	})

	server := httptest.NewServer(r)

	return &TestEnv{
		DB:         db,
		Container:  pgContainer,
		Server:     server,
		Market:     stub,
		Evaluation: evaluationService,
		Digests:    digestService,
	}
}

// Cleanup tears down the test environment
func (e *TestEnv) Cleanup(t *testing.T) {
	e.Server.Close()
	e.Market.server.Close()
	e.DB.Close()
	if err := e.Container.Terminate(context.Background()); err != nil {
		t.Logf("Failed to terminate container: %v", err)
	}
}

// Helper: Make HTTP request
func (e *TestEnv) Request(method, path string, body interface{}) (*http.Response, error) {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, e.Server.URL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if e.Token != "" {
		req.Header.Set("Authorization", "Bearer "+e.Token)
	}
	return http.DefaultClient.Do(req)
}

// Helper: Create a user row and a signed token for them. The account subsystem
// owns registration, so tests seed the shared users table directly.
func (e *TestEnv) CreateUser(t *testing.T, email string) (uuid.UUID, string) {
	userID := uuid.New()
	_, err := e.DB.Exec(`INSERT INTO users (id, email) VALUES ($1, $2)`, userID, email)
	require.NoError(t, err)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return userID, signed
}

// smsOnlyPreferences routes alert notifications through the inert sms channel.
func smsOnlyPreferences(frequency string) map[string]interface{} {
	return map[string]interface{}{
		"email":     map[string]bool{"enabled": false},
		"push":      map[string]bool{"enabled": false},
		"sms":       map[string]bool{"enabled": true, "alerts": true},
		"frequency": frequency,
		"timezone":  "UTC",
	}
}

// ============ E2E Tests ============

func TestE2E_HealthCheck(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	env := SetupTestEnv(t)
	defer env.Cleanup(t)

	resp, err := env.Request("GET", "/api/health", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestE2E_AlertCRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	env := SetupTestEnv(t)
	defer env.Cleanup(t)

	_, env.Token = env.CreateUser(t, "crud@example.com")

	// 1. Create alert
	resp, err := env.Request("POST", "/api/alerts", map[string]interface{}{
		"type":               "price",
		"cryptocurrency":     "bitcoin",
		"condition":          "above",
		"threshold":          50000,
		"notificationMethod": []string{"sms"},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&created)
	alertID := created["id"].(string)
	assert.NotEmpty(t, alertID)
	assert.Equal(t, true, created["isActive"])

	// 2. Get alert
	resp, err = env.Request("GET", fmt.Sprintf("/api/alerts/%s", alertID), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&fetched)
	assert.Equal(t, "bitcoin", fetched["cryptocurrency"])

	// 3. List alerts
	resp, err = env.Request("GET", "/api/alerts", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var listed []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&listed)
	assert.Len(t, listed, 1)

	// 4. Deactivate
	resp, err = env.Request("POST", fmt.Sprintf("/api/alerts/%s/toggle", alertID), map[string]bool{"active": false})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = env.Request("GET", fmt.Sprintf("/api/alerts/%s", alertID), nil)
	require.NoError(t, err)
	json.NewDecoder(resp.Body).Decode(&fetched)
	assert.Equal(t, false, fetched["isActive"])

	// 5. Delete alert
	resp, err = env.Request("DELETE", fmt.Sprintf("/api/alerts/%s", alertID), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Verify deleted - should return 404
	resp, err = env.Request("GET", fmt.Sprintf("/api/alerts/%s", alertID), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestE2E_CreateAlertEveryType(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	env := SetupTestEnv(t)
	defer env.Cleanup(t)

	_, env.Token = env.CreateUser(t, "types@example.com")

	// One create per alert type, against the real schema and its CHECK
	// constraints.
	tests := []struct {
		alertType string
		condition string
		metadata  map[string]string
	}{
		{alertType: "price", condition: "above"},
		{alertType: "sentiment", condition: "above"},
		{alertType: "risk", condition: "below"},
		{alertType: "volume", condition: "change_percent"},
		{alertType: "technical", condition: "above", metadata: map[string]string{"technicalIndicator": "RSI"}},
	}

	for _, tt := range tests {
		t.Run(tt.alertType, func(t *testing.T) {
			body := map[string]interface{}{
				"type":               tt.alertType,
				"cryptocurrency":     "bitcoin",
				"condition":          tt.condition,
				"threshold":          50,
				"notificationMethod": []string{"email"},
			}
			if tt.metadata != nil {
				body["metadata"] = tt.metadata
			}

			resp, err := env.Request("POST", "/api/alerts", body)
			require.NoError(t, err)
			require.Equal(t, http.StatusCreated, resp.StatusCode)

			var created map[string]interface{}
			json.NewDecoder(resp.Body).Decode(&created)
			assert.Equal(t, tt.alertType, created["type"])
		})
	}
}

func TestE2E_PreferenceFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	env := SetupTestEnv(t)
	defer env.Cleanup(t)

	_, env.Token = env.CreateUser(t, "prefs@example.com")

	// Defaults apply until the user saves their own
	resp, err := env.Request("GET", "/api/preferences", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var prefs map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&prefs)
	assert.Equal(t, "immediate", prefs["frequency"])

	// Save daily cadence with quiet hours
	resp, err = env.Request("PUT", "/api/preferences", map[string]interface{}{
		"email":      map[string]bool{"enabled": true, "alerts": true},
		"frequency":  "daily",
		"quietHours": map[string]interface{}{"enabled": true, "start": "22:00", "end": "07:00"},
		"timezone":   "America/New_York",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = env.Request("GET", "/api/preferences", nil)
	require.NoError(t, err)
	json.NewDecoder(resp.Body).Decode(&prefs)
	assert.Equal(t, "daily", prefs["frequency"])
	assert.Equal(t, "America/New_York", prefs["timezone"])

	// Unknown cadence is rejected
	resp, err = env.Request("PUT", "/api/preferences", map[string]interface{}{
		"frequency": "hourly",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestE2E_EvaluationTriggersAndRecordsDispatch(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	env := SetupTestEnv(t)
	defer env.Cleanup(t)

	_, env.Token = env.CreateUser(t, "evaluation@example.com")

	resp, err := env.Request("PUT", "/api/preferences", smsOnlyPreferences("immediate"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = env.Request("POST", "/api/alerts", map[string]interface{}{
		"type":               "price",
		"cryptocurrency":     "bitcoin",
		"condition":          "above",
		"threshold":          50000,
		"notificationMethod": []string{"sms"},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&created)
	alertID := created["id"].(string)

	// Below threshold: nothing fires
	env.Market.Set("price", "bitcoin", "49500")
	_, err = env.Evaluation.RunCycle(context.Background())
	require.NoError(t, err)

	resp, err = env.Request("GET", fmt.Sprintf("/api/alerts/%s", alertID), nil)
	require.NoError(t, err)
	var fetched map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&fetched)
	assert.Equal(t, false, fetched["isTriggered"])
	assert.NotEmpty(t, fetched["lastChecked"])

	// Above threshold: alert fires and a dispatch record is written
	env.Market.Set("price", "bitcoin", "51000")
	_, err = env.Evaluation.RunCycle(context.Background())
	require.NoError(t, err)

	resp, err = env.Request("GET", fmt.Sprintf("/api/alerts/%s", alertID), nil)
	require.NoError(t, err)
	json.NewDecoder(resp.Body).Decode(&fetched)
	assert.Equal(t, true, fetched["isTriggered"])
	assert.Contains(t, fetched["message"], "above")

	resp, err = env.Request("GET", "/api/alerts/dispatches", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var records []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&records)
	require.Len(t, records, 1)
	assert.Equal(t, "sms", records[0]["channel"])
	assert.Equal(t, "sent", records[0]["status"])
	// sms has no live provider yet, so the delivery is marked simulated
	assert.Equal(t, true, records[0]["simulated"])

	// Still above threshold on the next cycle: a fresh trigger event fires
	// rather than being coalesced into the sticky flag
	env.Market.Set("price", "bitcoin", "52000")
	_, err = env.Evaluation.RunCycle(context.Background())
	require.NoError(t, err)

	resp, err = env.Request("GET", "/api/alerts/dispatches", nil)
	require.NoError(t, err)
	json.NewDecoder(resp.Body).Decode(&records)
	assert.Len(t, records, 2)
}

func TestE2E_DigestBatchesTriggeredAlerts(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	env := SetupTestEnv(t)
	defer env.Cleanup(t)

	_, env.Token = env.CreateUser(t, "digest@example.com")

	resp, err := env.Request("PUT", "/api/preferences", smsOnlyPreferences("daily"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, alert := range []map[string]interface{}{
		{"type": "price", "cryptocurrency": "bitcoin", "condition": "above", "threshold": 50000, "notificationMethod": []string{"sms"}},
		{"type": "price", "cryptocurrency": "ethereum", "condition": "below", "threshold": 3000, "notificationMethod": []string{"sms"}},
	} {
		resp, err = env.Request("POST", "/api/alerts", alert)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	env.Market.Set("price", "bitcoin", "51000")
	env.Market.Set("price", "ethereum", "2900")
	_, err = env.Evaluation.RunCycle(context.Background())
	require.NoError(t, err)

	// Digest users get nothing at trigger time
	resp, err = env.Request("GET", "/api/alerts/dispatches", nil)
	require.NoError(t, err)
	var records []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&records)
	assert.Empty(t, records)

	// The sweep batches both triggers into one notification
	_, err = env.Digests.FlushDue(context.Background())
	require.NoError(t, err)

	resp, err = env.Request("GET", "/api/alerts/dispatches", nil)
	require.NoError(t, err)
	json.NewDecoder(resp.Body).Decode(&records)
	require.Len(t, records, 1)
	assert.Equal(t, true, records[0]["digest"])
	assert.Contains(t, records[0]["message"], "Bitcoin")
	assert.Contains(t, records[0]["message"], "Ethereum")

	// A second sweep inside the window sends nothing new
	_, err = env.Digests.FlushDue(context.Background())
	require.NoError(t, err)

	resp, err = env.Request("GET", "/api/alerts/dispatches", nil)
	require.NoError(t, err)
	json.NewDecoder(resp.Body).Decode(&records)
	assert.Len(t, records, 1)
}

func TestE2E_TestFireBypassesFrequency(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	env := SetupTestEnv(t)
	defer env.Cleanup(t)

	_, env.Token = env.CreateUser(t, "testfire@example.com")

	resp, err := env.Request("PUT", "/api/preferences", smsOnlyPreferences("daily"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = env.Request("POST", "/api/alerts", map[string]interface{}{
		"type":               "price",
		"cryptocurrency":     "bitcoin",
		"condition":          "above",
		"threshold":          50000,
		"notificationMethod": []string{"sms"},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&created)
	alertID := created["id"].(string)

	resp, err = env.Request("POST", fmt.Sprintf("/api/alerts/%s/test", alertID), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var event map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&event)
	assert.Equal(t, true, event["test"])
	assert.Contains(t, event["message"], "[Test]")

	// Test fire dispatches immediately even on a daily cadence
	resp, err = env.Request("GET", "/api/alerts/dispatches", nil)
	require.NoError(t, err)
	var records []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&records)
	require.Len(t, records, 1)
	assert.Equal(t, "sms", records[0]["channel"])

	// And leaves the alert untriggered
	resp, err = env.Request("GET", fmt.Sprintf("/api/alerts/%s", alertID), nil)
	require.NoError(t, err)
	var fetched map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&fetched)
	assert.Equal(t, false, fetched["isTriggered"])
}

func TestE2E_UnauthorizedAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	env := SetupTestEnv(t)
	defer env.Cleanup(t)

	// No token set - should fail
	resp, err := env.Request("GET", "/api/alerts", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = env.Request("GET", "/api/preferences", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestE2E_InvalidToken(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	env := SetupTestEnv(t)
	defer env.Cleanup(t)

	env.Token = "invalid-jwt-token"

	resp, err := env.Request("GET", "/api/alerts", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestE2E_CrossUserIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	env := SetupTestEnv(t)
	defer env.Cleanup(t)

	_, ownerToken := env.CreateUser(t, "owner@example.com")
	_, otherToken := env.CreateUser(t, "other@example.com")

	env.Token = ownerToken
	resp, err := env.Request("POST", "/api/alerts", map[string]interface{}{
		"type":               "price",
		"cryptocurrency":     "bitcoin",
		"condition":          "above",
		"threshold":          50000,
		"notificationMethod": []string{"sms"},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&created)
	alertID := created["id"].(string)

	// Another user cannot see or delete it
	env.Token = otherToken
	resp, err = env.Request("GET", fmt.Sprintf("/api/alerts/%s", alertID), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = env.Request("DELETE", fmt.Sprintf("/api/alerts/%s", alertID), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
