package http_test

import (
	"encoding/json"
	"net/http"
	"testing"

	httpadapter "deliveryingest/internal/adapters/in/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOpenAPI(t *testing.T) {
	// When
	doc, err := httpadapter.LoadOpenAPI()

	// Then
	require.NoError(t, err)
	for _, path := range []string{"/health", "/api/v1/admin/start-jobs", "/api/v1/jobs", "/api/v1/deliveries"} {
		assert.NotNil(t, doc.Paths.Find(path), path)
	}

	_, err = httpadapter.LoadOpenAPI()
	require.NoError(t, err)
}

func TestRouter_ServesOpenAPIDocument(t *testing.T) {
	// Given
	f := newServerFixture(t, httpadapter.RouterConfig{})

	// When
	rec := f.do(http.MethodGet, "/openapi.json")

	// Then
	require.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
}

func TestRouter_ServesSwaggerDocument(t *testing.T) {
	// Given
	f := newServerFixture(t, httpadapter.RouterConfig{})

	// When
	rec := f.do(http.MethodGet, "/swagger/doc.json")

	// Then
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Delivery Ingestion API")
}
