package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkout-pricing-api/models"
	"checkout-pricing-api/pricing"
	"checkout-pricing-api/purchase"
	"checkout-pricing-api/services/accountplans"
	"checkout-pricing-api/services/auth"
	"checkout-pricing-api/services/checkout"
	"checkout-pricing-api/services/upstream"
)

type fakeSummaries struct {
	lastRequest checkout.SummaryRequest
	summary     models.CheckoutSummary
	err         error
	applied     models.PromocodeApplied
	promoErr    error
}

func (f *fakeSummaries) Summary(ctx context.Context, req checkout.SummaryRequest) (models.CheckoutSummary, error) {
	f.lastRequest = req
	return f.summary, f.err
}

func (f *fakeSummaries) ValidatePromocode(ctx context.Context, planID int, promocode string) (models.PromocodeApplied, error) {
	if f.promoErr != nil {
		return models.PromocodeApplied{}, f.promoErr
	}
	applied := f.applied
	applied.Promocode = promocode
	return applied, nil
}

type fakePurchaser struct {
	lastInput checkout.PurchaseInput
	result    checkout.PurchaseResult
	err       error
}

func (f *fakePurchaser) Purchase(ctx context.Context, in checkout.PurchaseInput) (checkout.PurchaseResult, error) {
	f.lastInput = in
	return f.result, f.err
}

type testServer struct {
	router     *mux.Router
	summaries  *fakeSummaries
	purchaser  *fakePurchaser
	authorized *models.AuthUser
}

func newTestServer() *testServer {
	ts := &testServer{
		router:    mux.NewRouter(),
		summaries: &fakeSummaries{},
		purchaser: &fakePurchaser{},
	}
	store := NewSessionStore(SessionConfig{Secret: "test-secret", MaxAge: 3600})

	withUser := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ts.authorized != nil {
				r = r.WithContext(auth.NewContext(r.Context(), ts.authorized))
			}
			next.ServeHTTP(w, r)
		})
	}

	Routes{
		Checkout:    NewCheckoutHandler(ts.summaries, store, "https://cp.example.com"),
		Purchase:    NewPurchaseHandler(ts.purchaser, store),
		Health:      NewHealthHandler(func(context.Context) error { return nil }, func(context.Context) error { return errors.New("down") }),
		RequireAuth: []Middleware{withUser},
	}.Register(ts.router)
	return ts
}

func (ts *testServer) do(method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestGetSummary(t *testing.T) {
	ts := newTestServer()
	ts.summaries.summary = models.CheckoutSummary{Title: "Premium plan", Total: "US$ 285"}

	rec := ts.do(http.MethodGet, "/api/checkout/subscribers/summary?selected-plan=7&discountId=2&monthPlan=3&PromoCode=SAVE&paymentMethod=TRANSF&locale=es", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, checkout.SummaryRequest{
		PlanType:      models.PlanTypeByContact,
		PlanID:        7,
		DiscountID:    2,
		MonthPlan:     3,
		Promocode:     "SAVE",
		PaymentMethod: models.PaymentMethodTransfer,
		Locale:        pricing.LocaleES,
	}, ts.summaries.lastRequest)

	resp := decodeResponse(t, rec)
	assert.Equal(t, "success", resp.Status)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Premium plan", data["title"])
}

func TestGetSummaryErrors(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(http.MethodGet, "/api/checkout/free/summary", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ts.summaries.err = &upstream.Error{Service: "account-plans", Endpoint: "/plans/7", StatusCode: 500}
	rec = ts.do(http.MethodGet, "/api/checkout/free/summary?selected-plan=7", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	ts.summaries.err = errors.New("boom")
	rec = ts.do(http.MethodGet, "/api/checkout/free/summary?selected-plan=7", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPromocodeSessionFlow(t *testing.T) {
	ts := newTestServer()
	ts.summaries.applied = models.PromocodeApplied{PlanType: models.PlanTypeByCredit, ExtraCredits: 100}

	rec := ts.do(http.MethodPost, "/api/checkout/promocode", `{"planId":7,"promocode":"CREDITS"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	rec = ts.do(http.MethodGet, "/api/checkout/prepaid/summary?selected-plan=7", "", cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CREDITS", ts.summaries.lastRequest.Promocode)

	// a promocode for another plan type is not picked up
	rec = ts.do(http.MethodGet, "/api/checkout/subscribers/summary?selected-plan=7", "", cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, ts.summaries.lastRequest.Promocode)

	rec = ts.do(http.MethodDelete, "/api/checkout/promocode", "", cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := rec.Result().Cookies()

	rec = ts.do(http.MethodGet, "/api/checkout/prepaid/summary?selected-plan=7", "", cleared...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, ts.summaries.lastRequest.Promocode)
}

func TestApplyPromocodeErrors(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(http.MethodPost, "/api/checkout/promocode", `{"planId":7}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodPost, "/api/checkout/promocode", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ts.summaries.promoErr = accountplans.ErrInvalidPromocode
	rec = ts.do(http.MethodPost, "/api/checkout/promocode", `{"planId":7,"promocode":"NOPE"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestBuyURL(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(http.MethodPost, "/api/checkout/buy-url",
		`{"planType":"byContact","planId":7,"search":"?selected-plan=1&foo=bar","sessionPlanType":"free","isEqualPlan":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeResponse(t, rec).Data.(map[string]interface{})
	assert.Equal(t, "/checkout/premium/byContact?selected-plan=7&foo=bar", data["url"])
	assert.Equal(t, true, data["newCheckoutEnabled"])
	assert.Equal(t, true, data["showTooltip"])

	rec = ts.do(http.MethodPost, "/api/checkout/buy-url", `{"planType":"byContact","planId":7,"sessionPlanType":"unknown"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	data = decodeResponse(t, rec).Data.(map[string]interface{})
	assert.Equal(t, "https://cp.example.com/AccountPreferences/UpgradeAccountStep2?IdUserTypePlan=7&fromStep1=True", data["url"])
	assert.Equal(t, false, data["newCheckoutEnabled"])

	rec = ts.do(http.MethodPost, "/api/checkout/buy-url", `{"planType":"byContact"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPlanType(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(http.MethodGet, "/api/plans/monthly-deliveries", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeResponse(t, rec).Data.(map[string]interface{})
	assert.Equal(t, "byEmail", data["planType"])
	assert.Equal(t, "monthly-deliveries", data["segment"])

	rec = ts.do(http.MethodGet, "/api/plans/gold", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPurchase(t *testing.T) {
	ts := newTestServer()
	body := `{"planId":7,"discountId":2,"total":"285.004","paymentMethod":"NONE","discountDescription":"Quarterly","extraCredits":50,"promocode":"X"}`

	rec := ts.do(http.MethodPost, "/api/checkout/purchase", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	ts.authorized = &models.AuthUser{Email: "user@example.com"}
	ts.purchaser.result = checkout.PurchaseResult{AttemptID: "a1", RedirectURL: "/checkout-summary?planId=7"}
	rec = ts.do(http.MethodPost, "/api/checkout/purchase", body)
	require.Equal(t, http.StatusOK, rec.Code)

	in := ts.purchaser.lastInput
	assert.Equal(t, "user@example.com", in.AccountEmail)
	assert.Equal(t, models.PaymentMethodCreditCard, in.PaymentMethod)
	assert.True(t, in.Request.Total.Equal(decimal.RequireFromString("285")))
	require.NotNil(t, in.Discount)
	assert.Equal(t, "Quarterly", in.Discount.Description)
	require.NotNil(t, in.Promotion)
	assert.Equal(t, 50, in.Promotion.ExtraCredits)

	data := decodeResponse(t, rec).Data.(map[string]interface{})
	assert.Equal(t, "/checkout-summary?planId=7", data["redirectUrl"])
}

func TestPurchaseErrors(t *testing.T) {
	ts := newTestServer()
	ts.authorized = &models.AuthUser{Email: "user@example.com"}
	body := `{"planId":7,"total":"10"}`

	ts.purchaser.err = &checkout.PurchaseError{Code: "FirstData.Declined", MessageKey: "declined.key", Err: errors.New("declined")}
	rec := ts.do(http.MethodPost, "/api/checkout/purchase", body)
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	data := decodeResponse(t, rec).Data.(map[string]interface{})
	assert.Equal(t, "declined.key", data["messageKey"])

	ts.purchaser.err = checkout.ErrPurchaseInProgress
	rec = ts.do(http.MethodPost, "/api/checkout/purchase", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	ts.purchaser.err = errors.New("db down")
	rec = ts.do(http.MethodPost, "/api/checkout/purchase", body)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	data = decodeResponse(t, rec).Data.(map[string]interface{})
	assert.Equal(t, purchase.MsgPurchaseError, data["messageKey"])

	rec = ts.do(http.MethodPost, "/api/checkout/purchase", `{"planId":7,"total":"-1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	ts := newTestServer()
	rec := ts.do(http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var health healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "connected", health.Database)
	assert.Equal(t, "error", health.Redis)
}
