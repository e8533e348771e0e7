package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// PageParams are the optional paging query parameters of list endpoints.
type PageParams struct {
	Limit  *int `form:"limit,omitempty" json:"limit,omitempty"`
	Offset *int `form:"offset,omitempty" json:"offset,omitempty"`
}

// ServerInterface lists the operations of openapi.json.
type ServerInterface interface {
	// (GET /health)
	GetHealth(ctx echo.Context) error
	// (POST /api/v1/admin/start-jobs)
	StartJobs(ctx echo.Context) error
	// (GET /api/v1/jobs)
	ListJobs(ctx echo.Context, params PageParams) error
	// (GET /api/v1/deliveries)
	ListDeliveries(ctx echo.Context, params PageParams) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) GetHealth(ctx echo.Context) error {
	return w.Handler.GetHealth(ctx)
}

func (w *ServerInterfaceWrapper) StartJobs(ctx echo.Context) error {
	return w.Handler.StartJobs(ctx)
}

func (w *ServerInterfaceWrapper) ListJobs(ctx echo.Context) error {
	params, err := bindPageParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ListJobs(ctx, params)
}

func (w *ServerInterfaceWrapper) ListDeliveries(ctx echo.Context) error {
	params, err := bindPageParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ListDeliveries(ctx, params)
}

func bindPageParams(ctx echo.Context) (PageParams, error) {
	var params PageParams

	err := runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit)
	if err != nil {
		return params, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}

	err = runtime.BindQueryParameter("form", true, false, "offset", ctx.QueryParams(), &params.Offset)
	if err != nil {
		return params, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter offset: %s", err))
	}

	return params, nil
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds the routes of ServerInterface to router. adminMiddleware
// applies to the admin endpoints only.
func RegisterHandlers(router EchoRouter, si ServerInterface, adminMiddleware ...echo.MiddlewareFunc) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.GET("/health", wrapper.GetHealth)
	router.POST("/api/v1/admin/start-jobs", wrapper.StartJobs, adminMiddleware...)
	router.GET("/api/v1/jobs", wrapper.ListJobs)
	router.GET("/api/v1/deliveries", wrapper.ListDeliveries)
}
