package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/rsmhq/rsm/modules/core/infrastructure/persistence"
	"github.com/rsmhq/rsm/pkg/application"
	"github.com/rsmhq/rsm/pkg/configuration"
	"github.com/rsmhq/rsm/pkg/constants"
	"github.com/rsmhq/rsm/pkg/middleware"
	"github.com/rsmhq/rsm/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Pool          *pgxpool.Pool
}

// Default assembles the standard middleware stack and returns a server ready
// to start. Route-specific middleware (auth requirements, transactions) is
// attached by controllers.
func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application

	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger, middleware.DefaultLoggerOptions()),

		middleware.TracedMiddleware("provide"),
		middleware.Provide(constants.AppKey, app),
		middleware.Provide(constants.PoolKey, options.Pool),

		middleware.TracedMiddleware("cors"),
		middleware.Cors(options.Configuration.Origin),
	}

	if options.Configuration.RateLimit.Enabled {
		middlewares = append(middlewares,
			middleware.TracedMiddleware("rateLimit"),
			middleware.RateLimit(middleware.RateLimitConfig{
				RequestsPerPeriod: options.Configuration.RateLimit.GlobalRPS,
				Store:             middleware.NewMemoryStore(),
			}),
		)
	}

	middlewares = append(middlewares,
		middleware.TracedMiddleware("requestParams"),
		middleware.RequestParams(),
		middleware.TracedMiddleware("authorize"),
		middleware.Authorize(persistence.NewUserRepository()),
	)

	app.RegisterMiddleware(middlewares...)

	return server.NewHTTPServer(app, notFound(), methodNotAllowed()), nil
}

func notFound() http.Handler {
	return jsonError(http.StatusNotFound, "NOT_FOUND", "Resource not found.")
}

func methodNotAllowed() http.Handler {
	return jsonError(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed.")
}

func jsonError(status int, code, message string) http.Handler {
	body := []byte(`{"code":"` + code + `","message":"` + message + `"}`)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	})
}
