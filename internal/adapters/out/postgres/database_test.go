package postgres_test

import (
	"testing"

	"deliveryingest/internal/adapters/out/postgres"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	testCases := []struct {
		name     string
		sslMode  string
		password string
		expected string
	}{
		{"explicit ssl mode", "require", "secret", "postgres://app:secret@db:5432/ingest?sslmode=require"},
		{"default ssl mode", "", "secret", "postgres://app:secret@db:5432/ingest?sslmode=disable"},
		{"escaped password", "disable", "p@ss/word", "postgres://app:p%40ss%2Fword@db:5432/ingest?sslmode=disable"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, postgres.DSN("db", "5432", "app", tc.password, "ingest", tc.sslMode))
		})
	}
}
