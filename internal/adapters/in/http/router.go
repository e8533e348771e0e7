package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"
)

// RouterConfig tunes the echo instance built by NewRouter.
type RouterConfig struct {
	// AdminRateLimit is the sustained number of admin requests per second and
	// client IP. Zero disables the limit.
	AdminRateLimit float64
}

// NewRouter builds the echo instance serving server, the OpenAPI document and the
// Swagger UI. The embedded OpenAPI document must be valid.
func NewRouter(server ServerInterface, config RouterConfig, logger *slog.Logger) (*echo.Echo, error) {
	if _, err := LoadOpenAPI(); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))

	var adminMiddleware []echo.MiddlewareFunc
	if config.AdminRateLimit > 0 {
		adminMiddleware = append(adminMiddleware, middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:  rate.Limit(config.AdminRateLimit),
				Burst: max(1, int(config.AdminRateLimit)),
			}),
			DenyHandler: func(ctx echo.Context, _ string, _ error) error {
				return ctx.JSON(http.StatusTooManyRequests, Error{
					Code:    http.StatusTooManyRequests,
					Message: "Too many requests",
				})
			},
		}))
	}

	RegisterHandlers(e, server, adminMiddleware...)

	e.GET("/openapi.json", func(ctx echo.Context) error {
		return ctx.Blob(http.StatusOK, echo.MIMEApplicationJSON, openAPISpec)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	logger = logger.With("component", "http")

	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(ctx echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				logger.WarnContext(ctx.Request().Context(), "Request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.InfoContext(ctx.Request().Context(), "Request handled", attrs...)
			return nil
		},
	})
}

// errorHandler renders echo errors as Error bodies.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			code = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(code)
			}
		} else {
			logger.ErrorContext(ctx.Request().Context(), "Unhandled request error", "error", err)
		}

		if ctx.Request().Method == http.MethodHead {
			err = ctx.NoContent(code)
		} else {
			err = ctx.JSON(code, Error{Code: code, Message: message})
		}
		if err != nil {
			logger.ErrorContext(ctx.Request().Context(), "Failed to write error response", "error", err)
		}
	}
}
