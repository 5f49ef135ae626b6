package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"checkout-pricing-api/logger"
	"checkout-pricing-api/models"
	"checkout-pricing-api/pricing"
	"checkout-pricing-api/purchase"
	"checkout-pricing-api/services/accountplans"
	"checkout-pricing-api/services/checkout"
	"checkout-pricing-api/services/upstream"
	"checkout-pricing-api/utils"
)

type SummaryService interface {
	Summary(ctx context.Context, req checkout.SummaryRequest) (models.CheckoutSummary, error)
	ValidatePromocode(ctx context.Context, planID int, promocode string) (models.PromocodeApplied, error)
}

type CheckoutHandler struct {
	summaries       SummaryService
	store           sessions.Store
	controlPanelURL string
}

func NewCheckoutHandler(summaries SummaryService, store sessions.Store, controlPanelURL string) *CheckoutHandler {
	return &CheckoutHandler{
		summaries:       summaries,
		store:           store,
		controlPanelURL: controlPanelURL,
	}
}

// GetSummary answers GET /api/checkout/{planType}/summary.
func (h *CheckoutHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	planType := models.ParsePlanType(mux.Vars(r)["planType"])
	planID := utils.QueryInt(r, "selected-plan", 0)
	if planID <= 0 {
		utils.SendErrorResponse(w, http.StatusBadRequest, "selected-plan is required")
		return
	}

	query := r.URL.Query()
	promocode := query.Get("PromoCode")
	if promocode == "" {
		if applied := sessionPromocode(h.store, r); applied != nil && (applied.PlanType == planType || !applied.PlanType.IsValid()) {
			promocode = applied.Promocode
		}
	}

	req := checkout.SummaryRequest{
		PlanType:      planType,
		PlanID:        planID,
		DiscountID:    utils.QueryInt(r, "discountId", 0),
		MonthPlan:     utils.QueryInt(r, "monthPlan", 0),
		Promocode:     promocode,
		PaymentMethod: models.PaymentMethodType(query.Get("paymentMethod")),
		Locale:        requestLocale(r),
	}

	summary, err := h.summaries.Summary(r.Context(), req)
	if err != nil {
		sendUpstreamError(w, "failed to load purchase summary", err, zap.Int("plan_id", planID))
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{Data: summary})
}

type buyURLRequest struct {
	PlanType        models.PlanType `json:"planType"`
	PlanID          int             `json:"planId"`
	DiscountID      int             `json:"discountId"`
	MonthPlan       int             `json:"monthPlan"`
	Search          string          `json:"search"`
	SessionPlanType models.PlanType `json:"sessionPlanType"`
	IsEqualPlan     bool            `json:"isEqualPlan"`
}

type buyURLResponse struct {
	URL                string `json:"url"`
	NewCheckoutEnabled bool   `json:"newCheckoutEnabled"`
	ShowTooltip        bool   `json:"showTooltip"`
}

// BuyURL answers POST /api/checkout/buy-url.
func (h *CheckoutHandler) BuyURL(w http.ResponseWriter, r *http.Request) {
	var req buyURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PlanID <= 0 {
		utils.SendErrorResponse(w, http.StatusBadRequest, "planId is required")
		return
	}

	enabled := purchase.NewCheckoutEnabled(req.SessionPlanType)
	url := purchase.BuyURL(purchase.BuyURLParams{
		ControlPanelURL:    h.controlPanelURL,
		PlanType:           req.PlanType,
		PlanID:             req.PlanID,
		DiscountID:         req.DiscountID,
		MonthPlan:          req.MonthPlan,
		NewCheckoutEnabled: enabled,
		Search:             req.Search,
	})

	utils.SendSuccessResponse(w, models.APIResponse{Data: buyURLResponse{
		URL:                url,
		NewCheckoutEnabled: enabled,
		ShowTooltip:        purchase.UpgradeTooltip(req.IsEqualPlan, req.SessionPlanType),
	}})
}

// GetPlanType answers GET /api/plans/{planType}, resolving a route segment.
func (h *CheckoutHandler) GetPlanType(w http.ResponseWriter, r *http.Request) {
	planType := models.ParsePlanType(mux.Vars(r)["planType"])
	if planType == models.PlanTypeUnknown {
		utils.SendErrorResponse(w, http.StatusNotFound, "Unknown plan type")
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{Data: map[string]interface{}{
		"planType":           planType,
		"segment":            planType.URLSegment(),
		"newCheckoutEnabled": purchase.NewCheckoutEnabled(planType),
	}})
}

type promocodeRequest struct {
	PlanID    int    `json:"planId"`
	Promocode string `json:"promocode"`
}

// ApplyPromocode answers POST /api/checkout/promocode.
func (h *CheckoutHandler) ApplyPromocode(w http.ResponseWriter, r *http.Request) {
	var req promocodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PlanID <= 0 || req.Promocode == "" {
		utils.SendErrorResponse(w, http.StatusBadRequest, "planId and promocode are required")
		return
	}

	applied, err := h.summaries.ValidatePromocode(r.Context(), req.PlanID, req.Promocode)
	if err != nil {
		if errors.Is(err, accountplans.ErrInvalidPromocode) {
			utils.SendErrorWithData(w, http.StatusUnprocessableEntity, "Invalid promocode",
				map[string]string{"messageKey": "promocode.invalid"})
			return
		}
		sendUpstreamError(w, "failed to validate promocode", err, zap.Int("plan_id", req.PlanID))
		return
	}

	session, _ := h.store.Get(r, checkoutSessionName)
	session.Values[promocodeKey] = applied
	if err := session.Save(r, w); err != nil {
		logger.Log.Error("error saving session", zap.Error(err))
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{Message: "Promocode applied", Data: applied})
}

// RemovePromocode answers DELETE /api/checkout/promocode.
func (h *CheckoutHandler) RemovePromocode(w http.ResponseWriter, r *http.Request) {
	session, _ := h.store.Get(r, checkoutSessionName)
	delete(session.Values, promocodeKey)
	if err := session.Save(r, w); err != nil {
		logger.Log.Error("error saving session", zap.Error(err))
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{Message: "Promocode removed"})
}

func requestLocale(r *http.Request) pricing.Locale {
	if locale := r.URL.Query().Get("locale"); locale != "" {
		return pricing.ParseLocale(locale)
	}
	return pricing.ParseLocale(r.Header.Get("Accept-Language"))
}

func sendUpstreamError(w http.ResponseWriter, message string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if upstreamErr, ok := upstream.AsError(err); ok {
		logger.Log.Warn(message, append(fields, zap.String("endpoint", upstreamErr.Endpoint))...)
		utils.SendErrorResponse(w, http.StatusBadGateway, "Upstream service unavailable")
		return
	}
	logger.Log.Error(message, fields...)
	utils.SendErrorResponse(w, http.StatusInternalServerError, "Internal server error")
}
