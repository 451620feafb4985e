package api

import (
	"net/http"
	"time"

	"github.com/lzjever/microsvc/internal/api/middleware"
	"github.com/lzjever/microsvc/internal/core"
)

type WhoAmIResponse struct {
	Subject   string    `json:"subject"`
	ExpiresAt time.Time `json:"expires_at"`
}

// WhoAmIHandler echoes the caller's verified token claims.
func (a *API) WhoAmIHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, core.NewAppError(core.ErrUnauthorized, "not authenticated"))
		return
	}
	resp := WhoAmIResponse{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	WriteJSON(w, http.StatusOK, resp)
}
