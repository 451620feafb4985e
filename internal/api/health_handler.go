package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/lzjever/microsvc/internal/core"
	"github.com/lzjever/microsvc/internal/observability"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
}

// ReadyResponse carries Code only when a dependency is down.
type ReadyResponse struct {
	Status string            `json:"status"`
	Code   core.ErrorCode    `json:"code,omitempty"`
	Checks map[string]string `json:"checks"`
}

// HealthHandler reports liveness. It never touches a dependency.
func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: a.settings.AppName,
	})
}

// RootHandler describes the API.
func (a *API) RootHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, RootResponse{
		Message: RootMessage,
		Version: Version,
		Docs:    DocsPath,
	})
}

// ReadyHandler returns 200 once every backing store answers a ping.
func (a *API) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	resp := ReadyResponse{Status: "ready", Checks: map[string]string{}}
	if a.checker == nil {
		WriteJSON(w, http.StatusOK, resp)
		return
	}

	results, err := a.checker.Check(r.Context())
	for _, res := range results {
		if res.Error != nil {
			resp.Checks[res.Name] = res.Error.Error()
			observability.DependencyUp.WithLabelValues(res.Name).Set(0)
			continue
		}
		resp.Checks[res.Name] = "ok"
		observability.DependencyUp.WithLabelValues(res.Name).Set(1)
	}
	if err != nil {
		a.log.Warn("readiness check failed", zap.Error(err))
		resp.Status = "unavailable"
		resp.Code = core.ErrUnavailable
		WriteJSON(w, resp.Code.HTTPStatus(), resp)
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}
