package middleware

import (
	"net/http"
	"strings"

	"barbershop-booking/internal/data/repository"
	"barbershop-booking/pkg/utils"

	"go.uber.org/zap"
)

// AuthSession resolves the bearer token to a live session and puts the customer
// id on the request context.
func AuthSession(sessionRepo repository.SessionRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.With(zap.String("middleware", "auth"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			scheme, token, found := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			session, err := sessionRepo.FindValidSession(r.Context(), token)
			if err != nil {
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseError(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
				return
			}

			if session == nil {
				logger.Warn("Invalid or expired session", zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			ctx := utils.SetCustomerContext(r.Context(), session.CustomerID)
			ctx = utils.SetTokenContext(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
