package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/lzjever/microsvc/internal/core"
)

// writeError renders err as the service's {"code","message"} body. The api
// package's WriteError does the same for handlers.
func writeError(w http.ResponseWriter, err *core.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code.HTTPStatus())
	json.NewEncoder(w).Encode(err)
}
