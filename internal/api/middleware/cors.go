package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/lzjever/microsvc/internal/core"
	"github.com/lzjever/microsvc/internal/observability"
)

const corsMaxAge = 600

var allMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch,
	http.MethodDelete, http.MethodConnect, http.MethodOptions, http.MethodTrace,
}

type originPolicy struct {
	any     bool
	allowed map[string]struct{}
}

func newOriginPolicy(origins []string) originPolicy {
	p := originPolicy{allowed: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		if o == "*" {
			p.any = true
			continue
		}
		p.allowed[o] = struct{}{}
	}
	return p
}

func (p originPolicy) allows(origin string) bool {
	if p.any {
		return true
	}
	_, ok := p.allowed[origin]
	return ok
}

// CORS permits cross-origin requests from origins, with credentials and every
// method and header allowed. The allowed origin is echoed back rather than
// "*" so credentialed requests work.
//
// A preflight from an origin outside the list gets 400. Other requests from
// such origins are served without CORS headers, which the browser rejects.
func CORS(origins []string) func(http.Handler) http.Handler {
	policy := newOriginPolicy(origins)
	c := cors.New(cors.Options{
		AllowOriginFunc:  func(_ *http.Request, origin string) bool { return policy.allows(origin) },
		AllowedMethods:   allMethods,
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	})

	return func(next http.Handler) http.Handler {
		h := c.Handler(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && !policy.allows(origin) {
				observability.CORSRejectedTotal.Inc()
				if isPreflight(r) {
					writeError(w, core.NewAppError(core.ErrBadRequest, "Disallowed CORS origin"))
					return
				}
			}
			h.ServeHTTP(w, r)
		})
	}
}

func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
}
