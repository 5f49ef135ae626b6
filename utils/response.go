package utils

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"checkout-pricing-api/logger"
	"checkout-pricing-api/models"
)

func SendErrorResponse(w http.ResponseWriter, status int, message string) {
	SendJSON(w, status, models.APIResponse{
		Status:  "error",
		Message: message,
	})
}

// SendErrorWithData is an error response that still carries a payload, e.g. the message
// key the UI translates.
func SendErrorWithData(w http.ResponseWriter, status int, message string, data interface{}) {
	SendJSON(w, status, models.APIResponse{
		Status:  "error",
		Message: message,
		Data:    data,
	})
}

func SendSuccessResponse(w http.ResponseWriter, response models.APIResponse) {
	if response.Status == "" {
		response.Status = "success"
	}
	SendJSON(w, http.StatusOK, response)
}

func SendJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Warn("failed to encode response", zap.Error(err))
	}
}
