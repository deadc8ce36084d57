package modules_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/lifehubapp/lifehub/modules"
	"github.com/lifehubapp/lifehub/modules/account"
	"github.com/lifehubapp/lifehub/modules/admin"
	"github.com/lifehubapp/lifehub/modules/billing"
	"github.com/lifehubapp/lifehub/modules/habits"
	"github.com/lifehubapp/lifehub/svc/entitlement"
	"github.com/lifehubapp/lifehub/svc/habit"
	"github.com/lifehubapp/lifehub/svc/user"
)

const adminToken = "test-admin-token"

// newTestServer wires the full API against in-memory stores: a free plan
// capped at 2 habits and a premium plan with unlimited habits.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	plans := entitlement.NewInMemPlanStore(
		entitlement.Plan{
			ID:   "free",
			Name: "Free",
			Quotas: map[entitlement.Resource]entitlement.Quota{
				entitlement.ResourceHabit: entitlement.LimitOf(2),
			},
			DurationDays: 365,
			Active:       true,
		},
		entitlement.Plan{
			ID:   "premium",
			Name: "Premium",
			Quotas: map[entitlement.Resource]entitlement.Quota{
				entitlement.ResourceHabit: entitlement.NoLimit(),
			},
			Features:     []entitlement.Feature{entitlement.FeatureAI},
			PriceCents:   999,
			DurationDays: 30,
			Active:       true,
		},
	)
	subs := entitlement.NewInMemSubscriptionStore()

	habitRepo := habit.NewInMemRepository()
	registry := entitlement.NewRegistry()
	registry.Register(entitlement.ResourceHabit, habitRepo.CountActive)

	eval := entitlement.NewEvaluator(plans, subs, registry)
	userSvc := user.NewService(user.NewInMemStorage(), eval,
		user.WithBcryptCost(bcrypt.MinCost))
	habitSvc := habit.NewService(habitRepo, eval)

	router := modules.Router(modules.RouterOptions{
		Auth:    userSvc,
		Account: account.Router(userSvc),
		Habits:  habits.Router(habitSvc),
		Billing: billing.Router(eval, plans),
		Admin:   admin.Router(plans, adminToken),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doJSON(t *testing.T, method, url string, body any, auth func(*http.Request)) (*http.Response, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if auth != nil {
		auth(req)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp, env
}

func register(t *testing.T, srv *httptest.Server, email string) func(*http.Request) {
	t.Helper()

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/account/register", map[string]string{
		"email":    email,
		"password": "longenough",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	return func(req *http.Request) { req.SetBasicAuth(email, "longenough") }
}

func TestRegisterAndQuotaFlow(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	auth := register(t, srv, "quota@example.com")

	for _, name := range []string{"Run", "Read"} {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/habits/", map[string]string{"name": name}, auth)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/habits/", map[string]string{"name": "Swim"}, auth)
	require.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "quota_exceeded", env.Error.Code)
	assert.Contains(t, env.Error.Message, "limit reached")
}

func TestUpgradeLiftsQuota(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	auth := register(t, srv, "upgrade@example.com")

	for _, name := range []string{"Run", "Read"} {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/habits/", map[string]string{"name": name}, auth)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/habits/", map[string]string{"name": "Swim"}, auth)
	require.Equal(t, http.StatusPaymentRequired, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/billing/plan", map[string]string{"plan_id": "premium"}, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/habits/", map[string]string{"name": "Swim"}, auth)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestDowngradeBlockedByUsage(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	auth := register(t, srv, "downgrade@example.com")

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/billing/plan", map[string]string{"plan_id": "premium"}, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, name := range []string{"Run", "Read", "Swim"} {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/habits/", map[string]string{"name": name}, auth)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/billing/plan", map[string]string{"plan_id": "free"}, auth)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Message, "exceed")
}

func TestAuthRequired(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp, env := doJSON(t, http.MethodGet, srv.URL+"/habits/", nil, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.NotNil(t, env.Error)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/habits/", nil, func(req *http.Request) {
		req.SetBasicAuth("nobody@example.com", "wrong")
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBillingUsage(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	auth := register(t, srv, "usage@example.com")

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/habits/", map[string]string{"name": "Run"}, auth)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, env := doJSON(t, http.MethodGet, srv.URL+"/billing/usage", nil, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var usage map[string]struct {
		Current int64 `json:"current"`
		Quota   struct {
			Limit     int64 `json:"limit"`
			Unlimited bool  `json:"unlimited"`
		} `json:"quota"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &usage))
	assert.Equal(t, int64(1), usage["habits"].Current)
	assert.Equal(t, int64(2), usage["habits"].Quota.Limit)
}

func TestAdminPlanEdit(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	// Wrong token is rejected.
	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/admin/plans", nil, func(req *http.Request) {
		req.Header.Set("X-Admin-Token", "nope")
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	withToken := func(req *http.Request) { req.Header.Set("X-Admin-Token", adminToken) }

	// Raise the free habit cap to 3; the next create that would have been
	// denied now succeeds.
	auth := register(t, srv, "admin-edit@example.com")
	for _, name := range []string{"Run", "Read"} {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/habits/", map[string]string{"name": name}, auth)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/habits/", map[string]string{"name": "Swim"}, auth)
	require.Equal(t, http.StatusPaymentRequired, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/admin/plans/free", map[string]any{
		"name":          "Free",
		"quotas":        map[string]any{"habits": map[string]any{"limit": 3}},
		"duration_days": 365,
		"active":        true,
	}, withToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/habits/", map[string]string{"name": "Swim"}, auth)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegisterValidationOverHTTP(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/account/register", map[string]string{
		"email":    "not-an-email",
		"password": "longenough",
	}, nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.NotNil(t, env.Error)

	register(t, srv, "dup@example.com")
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/account/register", map[string]string{
		"email":    "dup@example.com",
		"password": "longenough",
	}, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSubscriptionEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	auth := register(t, srv, "sub@example.com")

	resp, env := doJSON(t, http.MethodGet, srv.URL+"/billing/subscription", nil, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Plan struct {
			ID string `json:"id"`
		} `json:"plan"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, "free", body.Plan.ID)
}
