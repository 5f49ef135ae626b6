package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Middleware is the shape of the mux middlewares used on the routes.
type Middleware func(http.Handler) http.Handler

type Routes struct {
	Checkout *CheckoutHandler
	Purchase *PurchaseHandler
	Health   *HealthHandler
	// RequireAuth guards the purchase route.
	RequireAuth []Middleware
}

// Register mounts the API under /api.
func (rt Routes) Register(router *mux.Router) {
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", rt.Health.Health).Methods(http.MethodGet)
	api.HandleFunc("/plans/{planType}", rt.Checkout.GetPlanType).Methods(http.MethodGet, http.MethodOptions)

	api.HandleFunc("/checkout/{planType}/summary", rt.Checkout.GetSummary).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/checkout/promocode", rt.Checkout.ApplyPromocode).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/checkout/promocode", rt.Checkout.RemovePromocode).Methods(http.MethodDelete)
	api.HandleFunc("/checkout/buy-url", rt.Checkout.BuyURL).Methods(http.MethodPost, http.MethodOptions)

	var purchaseHandler http.Handler = http.HandlerFunc(rt.Purchase.Purchase)
	for i := len(rt.RequireAuth) - 1; i >= 0; i-- {
		purchaseHandler = rt.RequireAuth[i](purchaseHandler)
	}
	api.Handle("/checkout/purchase", purchaseHandler).Methods(http.MethodPost, http.MethodOptions)
}
