package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var docsTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type docsPage struct {
	Title       string
	OpenAPIPath string
}

// DocsHandler serves the Swagger UI page.
func (a *API) DocsHandler(w http.ResponseWriter, r *http.Request) {
	a.renderDocs(w, "docs.html")
}

// RedocHandler serves the ReDoc page.
func (a *API) RedocHandler(w http.ResponseWriter, r *http.Request) {
	a.renderDocs(w, "redoc.html")
}

// OpenAPIHandler serves the OpenAPI document both pages render.
func (a *API) OpenAPIHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, a.openAPI)
}

func (a *API) renderDocs(w http.ResponseWriter, name string) {
	var buf bytes.Buffer
	page := docsPage{Title: a.settings.AppName, OpenAPIPath: OpenAPIPath}
	if err := docsTemplates.ExecuteTemplate(&buf, name, page); err != nil {
		a.log.Error("render docs page", zap.String("template", name), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
