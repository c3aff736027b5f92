package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const buyerIDKey contextKey = "buyer_id"

func SetBuyerContext(ctx context.Context, buyerID int64) context.Context {
	return context.WithValue(ctx, buyerIDKey, buyerID)
}

func BuyerIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(buyerIDKey).(int64)
	return id, ok
}

// AuthMiddleware parses a bearer access token and injects the authenticated
// buyer id into the request context. Requests without a valid token pass
// through unauthenticated; handlers that need a buyer reject them.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
				return key, nil
			})
			if err != nil || !token.Valid {
				next.ServeHTTP(w, r)
				return
			}

			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				if uid, ok := claims["user_id"].(float64); ok {
					r = r.WithContext(SetBuyerContext(r.Context(), int64(uid)))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
