package http

import (
	"log/slog"
	"net/http"

	"marketplace/internal/generated/servers"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RouterOptions carries the pieces of the echo instance that live outside the API.
type RouterOptions struct {
	Logger  *slog.Logger
	Metrics http.Handler
	Health  func() error
}

// NewRouter builds the echo instance: recovery, request ids, request logging, OpenAPI
// request validation, the API routes plus health, metrics and swagger.
func NewRouter(server *Server, opts RouterOptions) (*echo.Echo, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	doc, err := servers.GetSwagger()
	if err != nil {
		return nil, err
	}
	validate, err := OpenAPIValidator(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(RequestLogger(logger))

	e.GET("/health", func(c echo.Context) error {
		if opts.Health != nil {
			if err := opts.Health(); err != nil {
				return c.String(http.StatusServiceUnavailable, "Unhealthy")
			}
		}
		return c.String(http.StatusOK, "Healthy")
	})
	if opts.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(opts.Metrics))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	servers.RegisterHandlers(withMiddleware{router: e, middleware: []echo.MiddlewareFunc{validate}}, server)

	return e, nil
}

// withMiddleware attaches route level middleware to everything registered through it.
type withMiddleware struct {
	router     *echo.Echo
	middleware []echo.MiddlewareFunc
}

func (w withMiddleware) GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route {
	return w.router.GET(path, h, append(w.middleware, m...)...)
}

func (w withMiddleware) PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route {
	return w.router.PATCH(path, h, append(w.middleware, m...)...)
}

func (w withMiddleware) POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route {
	return w.router.POST(path, h, append(w.middleware, m...)...)
}

func (w withMiddleware) PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route {
	return w.router.PUT(path, h, append(w.middleware, m...)...)
}
