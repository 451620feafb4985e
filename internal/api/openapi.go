package api

// OpenAPIDocument is the subset of OpenAPI 3.1 the service publishes.
type OpenAPIDocument struct {
	OpenAPI    string                          `json:"openapi"`
	Info       OpenAPIInfo                     `json:"info"`
	Paths      map[string]map[string]Operation `json:"paths"`
	Components map[string]any                  `json:"components,omitempty"`
}

type OpenAPIInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

type Operation struct {
	Summary     string                `json:"summary"`
	OperationID string                `json:"operationId"`
	Security    []map[string][]string `json:"security,omitempty"`
	Responses   map[string]Response   `json:"responses"`
}

type Response struct {
	Description string               `json:"description"`
	Content     map[string]MediaType `json:"content,omitempty"`
}

type MediaType struct {
	Schema map[string]any `json:"schema"`
}

func jsonObject(props ...string) map[string]MediaType {
	properties := make(map[string]any, len(props))
	for _, p := range props {
		properties[p] = map[string]string{"type": "string"}
	}
	return map[string]MediaType{
		"application/json": {Schema: map[string]any{
			"type":       "object",
			"properties": properties,
			"required":   props,
		}},
	}
}

func jsonOK(summary, id string, props ...string) map[string]Operation {
	return map[string]Operation{"get": {
		Summary:     summary,
		OperationID: id,
		Responses: map[string]Response{
			"200": {Description: "Successful Response", Content: jsonObject(props...)},
		},
	}}
}

func readySchema(required ...string) map[string]MediaType {
	return map[string]MediaType{
		"application/json": {Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"status": map[string]string{"type": "string"},
				"code":   map[string]string{"type": "string"},
				"checks": map[string]any{
					"type":                 "object",
					"additionalProperties": map[string]string{"type": "string"},
				},
			},
			"required": required,
		}},
	}
}

// newOpenAPIDocument describes the routes registered by Register. The whoami
// route and its security scheme are listed only when withAuth is set.
func newOpenAPIDocument(title, description, version, v1Prefix string, withAuth bool) OpenAPIDocument {
	doc := OpenAPIDocument{
		OpenAPI: "3.1.0",
		Info:    OpenAPIInfo{Title: title, Description: description, Version: version},
		Paths: map[string]map[string]Operation{
			"/health": jsonOK("Health Check", "health_check", "status", "service"),
			"/":       jsonOK("Root", "root", "message", "version", "docs"),
			"/readyz": {"get": {
				Summary:     "Readiness check",
				OperationID: "readiness_check",
				Responses: map[string]Response{
					"200": {Description: "Successful Response", Content: readySchema("status", "checks")},
					"503": {Description: "A dependency is unavailable", Content: readySchema("status", "code", "checks")},
				},
			}},
		},
	}
	if !withAuth {
		return doc
	}

	whoami := jsonOK("Who am I", "whoami", "subject", "expires_at")
	op := whoami["get"]
	op.Security = []map[string][]string{{"bearerAuth": {}}}
	op.Responses["401"] = Response{Description: "Missing or invalid token", Content: jsonObject("code", "message")}
	whoami["get"] = op
	doc.Paths[v1Prefix+"/whoami"] = whoami
	doc.Components = map[string]any{
		"securitySchemes": map[string]any{
			"bearerAuth": map[string]string{"type": "http", "scheme": "bearer", "bearerFormat": "JWT"},
		},
	}
	return doc
}
