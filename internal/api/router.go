package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lzjever/microsvc/internal/api/middleware"
	"github.com/lzjever/microsvc/internal/config"
	"github.com/lzjever/microsvc/internal/core"
	"github.com/lzjever/microsvc/internal/server"
	"github.com/lzjever/microsvc/internal/store"
)

const (
	Version     = "1.0.0"
	Description = "Production-ready FastAPI microservice template"
	RootMessage = "FastAPI Microservice Template"

	DocsPath    = "/docs"
	RedocPath   = "/redoc"
	OpenAPIPath = "/openapi.json"
)

// ReadinessChecker probes backing stores; *store.Checker satisfies it.
type ReadinessChecker interface {
	Check(ctx context.Context) ([]store.Result, error)
}

type API struct {
	settings config.Settings
	checker  ReadinessChecker
	tokens   middleware.TokenParser
	log      *zap.Logger
	openAPI  OpenAPIDocument
}

// NewAPI builds the handlers. checker may be nil, in which case /readyz always
// reports ready.
func NewAPI(settings config.Settings, checker ReadinessChecker, tokens middleware.TokenParser, log *zap.Logger) *API {
	return &API{
		settings: settings,
		checker:  checker,
		tokens:   tokens,
		log:      log,
		openAPI:  newOpenAPIDocument(settings.AppName, Description, Version, settings.APIV1Prefix, tokens != nil),
	}
}

// NewApp constructs the application object described by settings.
func NewApp(settings config.Settings, log *zap.Logger) *server.App {
	return server.New(server.Info{
		Title:       settings.AppName,
		Description: Description,
		Version:     Version,
	}, log, server.WithShutdownTimeout(settings.ShutdownTimeout))
}

// Register attaches middleware, routes and lifecycle hooks to app.
func (a *API) Register(app *server.App) {
	app.Use(middleware.RequestID)
	app.Use(middleware.Metrics)
	app.Use(middleware.Recoverer(a.log))
	app.Use(middleware.Logger(a.log))
	app.Use(middleware.CORS(a.settings.AllowedOrigins()))

	app.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, core.NewAppError(core.ErrNotFound, "Not Found"))
	})
	app.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, core.NewAppError(core.ErrMethodNotAllowed, "Method Not Allowed"))
	})

	app.Handle(http.MethodGet, "/health", a.HealthHandler)
	app.Handle(http.MethodGet, "/", a.RootHandler)
	app.Handle(http.MethodGet, "/readyz", a.ReadyHandler)

	app.Handle(http.MethodGet, DocsPath, a.DocsHandler)
	app.Handle(http.MethodGet, RedocPath, a.RedocHandler)
	app.Handle(http.MethodGet, OpenAPIPath, a.OpenAPIHandler)

	if a.tokens != nil {
		app.Group(a.settings.APIV1Prefix, func(r chi.Router) {
			r.Use(middleware.Authenticate(a.tokens, a.log))
			r.Get("/whoami", a.WhoAmIHandler)
		})
	}

	app.OnStart(func(ctx context.Context) error {
		a.log.Info("Starting "+a.settings.AppName+"...",
			zap.String("version", Version),
			zap.Bool("debug", bool(a.settings.Debug)),
			zap.Strings("allowed_origins", a.settings.AllowedOrigins()),
		)
		return nil
	})
	app.OnStop(func(ctx context.Context) error {
		a.log.Info("Shutting down " + a.settings.AppName + "...")
		return nil
	})
}
