package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/rsmhq/rsm/modules/core/domain/aggregates/user"
	"github.com/rsmhq/rsm/pkg/composables"
	"github.com/rsmhq/rsm/pkg/configuration"
)

// Provide stores a static value under key for every request.
func Provide(key interface{}, value interface{}) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), key, value)))
		})
	}
}

func Cors(allowOrigins ...string) mux.MiddlewareFunc {
	return cors.New(cors.Options{
		AllowedOrigins: allowOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}).Handler
}

// RequestParams captures per-request metadata used further down the stack.
func RequestParams() mux.MiddlewareFunc {
	conf := configuration.Use()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			params := &composables.Params{
				IP:        getRealIP(r, conf),
				UserAgent: r.UserAgent(),
				Request:   r,
				Writer:    w,
			}
			next.ServeHTTP(w, r.WithContext(composables.WithParams(r.Context(), params)))
		})
	}
}

type RateLimitConfig struct {
	RequestsPerPeriod int
	Store             limiter.Store
}

func NewMemoryStore() limiter.Store {
	return memory.NewStore()
}

// RateLimit applies a global requests-per-second limit keyed by client IP.
func RateLimit(cfg RateLimitConfig) mux.MiddlewareFunc {
	conf := configuration.Use()
	rate := limiter.Rate{Limit: int64(cfg.RequestsPerPeriod), Period: time.Second}
	instance := limiter.New(cfg.Store, rate)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiterCtx, err := instance.Get(r.Context(), getRealIP(r, conf))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if limiterCtx.Reached {
				writeJSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Authorize resolves the bearer token to a user and attaches it to the
// context. Requests without a token pass through unauthenticated; guards
// further down decide whether that is acceptable.
func Authorize(users user.Repository) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			u, err := users.GetByToken(r.Context(), token)
			if err != nil {
				if errors.Is(err, user.ErrNotFound) {
					writeJSONError(w, http.StatusUnauthorized, "CRM_UNAUTHENTICATED", "Invalid token.")
					return
				}
				writeJSONError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error")
				return
			}
			ctx := composables.WithUser(r.Context(), u)
			if params, ok := composables.UseParams(ctx); ok {
				params.Authenticated = true
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuthorization rejects requests that did not authenticate.
func RequireAuthorization() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := composables.UseUser(r.Context()); err != nil {
				writeJSONError(w, http.StatusUnauthorized, "CRM_UNAUTHENTICATED", "Authentication required.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}
