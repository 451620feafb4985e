package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/lzjever/microsvc/internal/auth"
	"github.com/lzjever/microsvc/internal/core"
	"github.com/lzjever/microsvc/internal/observability"
)

// TokenParser verifies a raw bearer token.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

type ctxKeyClaims struct{}

// Authenticate rejects requests without a valid bearer token and stores the
// token's claims in the request context. Rejections are logged at debug level.
func Authenticate(p TokenParser, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}
			claims, err := p.Parse(token)
			if err != nil {
				observability.RequestLogger(log, GetRequestID(r), r.Method, r.URL.Path).Debug("token rejected", zap.Error(err))
				unauthorized(w, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyClaims{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(ctxKeyClaims{}).(*auth.Claims)
	return c, ok
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, core.NewAppError(core.ErrUnauthorized, msg))
}
