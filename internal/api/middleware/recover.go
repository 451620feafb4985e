package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/lzjever/microsvc/internal/core"
	"github.com/lzjever/microsvc/internal/observability"
)

// Recoverer turns a handler panic into a 500 JSON response and logs the
// stack. http.ErrAbortHandler is re-panicked so net/http can abort the
// connection.
func Recoverer(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				observability.RequestLogger(log, GetRequestID(r), r.Method, r.URL.Path).Error("panic recovered",
					zap.Any("panic", rvr),
					zap.String("stack", string(debug.Stack())),
				)
				writeError(w, core.NewAppError(core.ErrInternal, "internal server error"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
