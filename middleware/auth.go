package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"checkout-pricing-api/logger"
	"checkout-pricing-api/models"
	"checkout-pricing-api/services/auth"
	"checkout-pricing-api/utils"
)

type TokenValidator interface {
	ValidateToken(token string) (*models.AuthUser, error)
}

// AuthMiddleware rejects requests without a valid bearer token and puts the account in
// the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				logger.Log.Info("missing or malformed authorization header",
					zap.String("remote_addr", r.RemoteAddr))
				utils.SendErrorResponse(w, http.StatusUnauthorized, "Missing authorization header")
				return
			}

			user, err := validator.ValidateToken(token)
			if err != nil {
				logger.Log.Info("token validation failed",
					zap.String("remote_addr", r.RemoteAddr), zap.Error(err))

				message := "Authentication failed"
				switch {
				case errors.Is(err, auth.ErrTokenExpired):
					message = "Token expired"
				case errors.Is(err, auth.ErrInvalidToken):
					message = "Invalid token"
				}
				utils.SendErrorResponse(w, http.StatusUnauthorized, message)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.NewContext(r.Context(), user)))
		})
	}
}

// OptionalAuth adds the account to the context when a valid token is present and lets
// anonymous requests through.
func OptionalAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			user, err := validator.ValidateToken(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.NewContext(r.Context(), user)))
		})
	}
}

// RequireActiveAccount blocks inactive accounts from buying.
func RequireActiveAccount() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUserFromContext(r.Context())
			if user == nil {
				utils.SendErrorResponse(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			if user.AccountType == "inactive" || user.AccountType == "dea" {
				logger.Log.Info("inactive account attempted a protected call",
					zap.String("email", user.Email), zap.String("account_type", user.AccountType))
				utils.SendErrorResponse(w, http.StatusForbidden, "Account is inactive")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func GetUserFromContext(ctx context.Context) *models.AuthUser {
	return auth.FromContext(ctx)
}

func IsAuthenticated(ctx context.Context) bool {
	return GetUserFromContext(ctx) != nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
