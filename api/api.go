// Package api embeds the OpenAPI description of the HTTP surface.
package api

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var document []byte

// Raw returns the embedded OpenAPI document.
func Raw() []byte {
	return document
}

// Load parses and validates the embedded document.
func Load(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("failed to parse openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}

// Version returns info.version of the embedded document, or "unknown".
func Version() string {
	doc, err := openapi3.NewLoader().LoadFromData(document)
	if err != nil || doc.Info == nil {
		return "unknown"
	}
	return doc.Info.Version
}
