package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/periodica-hq/bizops-backend-go/internal/handler/http/response"
	"github.com/periodica-hq/bizops-backend-go/internal/pkg/jwt"
)

type claimsKey struct{}

// AuthRequired rejects requests without a verified access token carrying a
// company scope, and stores the caller's claims on the request context.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claimMap, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}
		if token == nil {
			response.Unauthorized(w, "Invalid token")
			return
		}

		tokenType, ok := claimMap["type"].(string)
		if tokenType != "access" || !ok {
			response.Unauthorized(w, "Invalid token")
			return
		}

		claims := jwt.ClaimsFromMap(claimMap)
		if claims.CompanyID == "" {
			response.Forbidden(w, "Company scope required")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the claims stored by AuthRequired.
func ClaimsFromContext(ctx context.Context) (jwt.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(jwt.Claims)
	return claims, ok
}

// CompanyID returns the caller's company, or "" outside AuthRequired.
func CompanyID(ctx context.Context) string {
	claims, _ := ClaimsFromContext(ctx)
	return claims.CompanyID
}
