// Package http is the inbound REST adapter. It exposes the admin trigger for
// ingestion runs and read-only listings of jobs and deliveries, described by the
// embedded openapi.json and served through echo.
package http
