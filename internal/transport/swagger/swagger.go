package swagger

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	httpSwagger "github.com/swaggo/http-swagger"
)

const DocumentPath = "/openapi.json"

// Document is the parsed and validated OpenAPI description, pre-rendered as JSON.
type Document struct {
	spec *openapi3.T
	json []byte
}

// Load parses the YAML document and fails when it is not valid OpenAPI 3.
func Load(ctx context.Context, raw []byte) (*Document, error) {
	loader := openapi3.NewLoader()
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load: %w", err)
	}
	if err := spec.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	body, err := spec.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("openapi: marshal: %w", err)
	}
	return &Document{spec: spec, json: body}, nil
}

func (d *Document) Version() string {
	return d.spec.Info.Version
}

// HasOperation reports whether method and path are documented.
func (d *Document) HasOperation(method, path string) bool {
	item := d.spec.Paths.Find(path)
	return item != nil && item.GetOperation(method) != nil
}

func (d *Document) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(d.json)
}

// Handler serves the Swagger UI pointed at the JSON document.
func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(DocumentPath),
	)
}
