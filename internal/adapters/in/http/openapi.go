package http

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

//go:embed openapi.json
var openAPISpec []byte

var registerSwaggerOnce sync.Once

// swaggerDoc exposes the embedded document to swag, which backs the Swagger UI.
type swaggerDoc struct{}

func (swaggerDoc) ReadDoc() string {
	return string(openAPISpec)
}

// LoadOpenAPI parses and validates the embedded OpenAPI document and registers it
// for the Swagger UI. It is safe to call more than once.
func LoadOpenAPI() (*openapi3.T, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(openAPISpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}

	registerSwaggerOnce.Do(func() {
		swag.Register(swag.Name, swaggerDoc{})
	})
	return doc, nil
}
