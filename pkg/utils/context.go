package utils

import (
	"context"
)

type contextKey string

const (
	CustomerIDKey contextKey = "customer_id"
	TokenKey      contextKey = "token"
)

func GetCustomerIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(CustomerIDKey).(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

func SetCustomerContext(ctx context.Context, customerID int64) context.Context {
	return context.WithValue(ctx, CustomerIDKey, customerID)
}

// GetTokenFromContext returns the bearer token the session was resolved from.
func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}

func SetTokenContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}
