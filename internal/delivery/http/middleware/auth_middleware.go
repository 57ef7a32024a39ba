package middleware

import (
	"context"
	"net/http"

	"variant-catalog/pkg/logger"
	"variant-catalog/pkg/utils"
)

type claimsKey struct{}

// ClaimsFromContext returns the verified token claims set by AuthMiddleware.
func ClaimsFromContext(ctx context.Context) (*utils.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*utils.Claims)
	return claims, ok && claims != nil
}

// AuthMiddleware verifies the bearer token (or accessToken cookie) and puts
// its claims in the request context. Tokens are issued elsewhere.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := utils.ExtractClaims(r)
		if err != nil {
			logger.WithContext(r.Context()).Debug().Err(err).Msg("Token rejected")
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
