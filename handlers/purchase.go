package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"checkout-pricing-api/logger"
	"checkout-pricing-api/models"
	"checkout-pricing-api/purchase"
	"checkout-pricing-api/services/auth"
	"checkout-pricing-api/services/checkout"
	"checkout-pricing-api/utils"
)

type PurchaseRunner interface {
	Purchase(ctx context.Context, in checkout.PurchaseInput) (checkout.PurchaseResult, error)
}

type PurchaseHandler struct {
	purchaser PurchaseRunner
	store     sessions.Store
}

func NewPurchaseHandler(purchaser PurchaseRunner, store sessions.Store) *PurchaseHandler {
	return &PurchaseHandler{purchaser: purchaser, store: store}
}

type purchaseRequest struct {
	PlanID              int                      `json:"planId"`
	DiscountID          int                      `json:"discountId"`
	Total               decimal.Decimal          `json:"total"`
	Promocode           string                   `json:"promocode"`
	OriginInbound       string                   `json:"originInbound"`
	PaymentMethod       models.PaymentMethodType `json:"paymentMethod"`
	DiscountDescription string                   `json:"discountDescription"`
	ExtraCredits        int                      `json:"extraCredits"`
}

// Purchase answers POST /api/checkout/purchase. Rejections come back with the message
// key the UI shows.
func (h *PurchaseHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	user := auth.FromContext(r.Context())
	if user == nil {
		utils.SendErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PlanID <= 0 {
		utils.SendErrorResponse(w, http.StatusBadRequest, "planId is required")
		return
	}
	if req.Total.IsNegative() {
		utils.SendErrorResponse(w, http.StatusBadRequest, "total must not be negative")
		return
	}

	method := req.PaymentMethod
	if method == "" || method == models.PaymentMethodNone {
		method = models.PaymentMethodCreditCard
	}

	in := checkout.PurchaseInput{
		AccountEmail: user.Email,
		Request: models.PurchaseRequest{
			PlanID:        req.PlanID,
			DiscountID:    req.DiscountID,
			Total:         utils.RoundMoney(req.Total),
			Promocode:     req.Promocode,
			OriginInbound: req.OriginInbound,
		},
		PaymentMethod: method,
		Locale:        requestLocale(r),
	}
	if req.DiscountID > 0 || req.DiscountDescription != "" {
		in.Discount = &models.Discount{ID: req.DiscountID, Description: req.DiscountDescription}
	}
	in.Promotion = purchasePromotion(req, sessionPromocode(h.store, r))

	result, err := h.purchaser.Purchase(r.Context(), in)
	if err != nil {
		var purchaseErr *checkout.PurchaseError
		switch {
		case errors.As(err, &purchaseErr):
			utils.SendErrorWithData(w, http.StatusPaymentRequired, "Purchase rejected", map[string]string{
				"errorCode":  purchaseErr.Code,
				"messageKey": purchaseErr.MessageKey,
			})
		case errors.Is(err, checkout.ErrPurchaseInProgress):
			utils.SendErrorResponse(w, http.StatusConflict, "A purchase is already in progress")
		default:
			logger.Log.Error("purchase failed", zap.String("email", user.Email), zap.Int("plan_id", req.PlanID), zap.Error(err))
			utils.SendErrorWithData(w, http.StatusInternalServerError, "Purchase failed", map[string]string{
				"messageKey": purchase.MsgPurchaseError,
			})
		}
		return
	}

	// The promocode is spent once the plan is bought.
	if session, err := h.store.Get(r, checkoutSessionName); err == nil {
		delete(session.Values, promocodeKey)
		if err := session.Save(r, w); err != nil {
			logger.Log.Warn("error clearing promocode session", zap.Error(err))
		}
	}

	utils.SendSuccessResponse(w, models.APIResponse{Message: "Purchase completed", Data: result})
}

func purchasePromotion(req purchaseRequest, fromSession *models.PromocodeApplied) *models.PromocodeApplied {
	if fromSession != nil && (req.Promocode == "" || fromSession.Promocode == req.Promocode) {
		return fromSession
	}
	if req.Promocode == "" && req.ExtraCredits <= 0 {
		return nil
	}
	return &models.PromocodeApplied{Promocode: req.Promocode, ExtraCredits: req.ExtraCredits}
}
