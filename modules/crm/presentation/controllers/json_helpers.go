package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/rsmhq/rsm/modules/crm/domain/aggregates/customer"
	"github.com/rsmhq/rsm/modules/crm/domain/aggregates/workorder"
	"github.com/rsmhq/rsm/pkg/configuration"
	"github.com/rsmhq/rsm/pkg/serrors"
)

type apiError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		panic(err)
	}
}

func ensureRequestID(w http.ResponseWriter, r *http.Request) string {
	if r == nil {
		return ""
	}
	header := strings.TrimSpace(configuration.Use().RequestIDHeader)
	if header == "" {
		header = "X-Request-ID"
	}

	requestID := strings.TrimSpace(r.Header.Get(header))
	if requestID == "" {
		requestID = strings.TrimSpace(r.Header.Get("X-Request-Id"))
	}
	if requestID == "" {
		requestID = uuid.NewString()
		w.Header().Set(header, requestID)
	}
	return requestID
}

func writeAPIError(w http.ResponseWriter, r *http.Request, status int, code string, message string) {
	writeJSON(w, status, apiError{
		Code:    code,
		Message: message,
		Meta: map[string]string{
			"request_id": ensureRequestID(w, r),
		},
	})
}

// writeServiceError maps domain errors onto the API contract. Workflow and
// permission violations all surface as 422 with the rule's message; the
// catch-all is a 500 with no detail leaked.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var base *serrors.Base
	switch {
	case errors.Is(err, customer.ErrNotFound), errors.Is(err, workorder.ErrNotFound):
		writeAPIError(w, r, http.StatusNotFound, "CRM_NOT_FOUND", "Resource not found.")
	case errors.Is(err, customer.ErrPhoneTaken):
		writeAPIError(w, r, http.StatusConflict, "CRM_DUPLICATE", "Phone number already exists in database.")
	case errors.As(err, &base):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": base.Message})
	default:
		writeAPIError(w, r, http.StatusInternalServerError, "CRM_INTERNAL", "internal error")
	}
}

func parseIDVar(r *http.Request) (uint, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// parseLimitOffset reads pagination query params, clamped to the configured
// page sizes.
func parseLimitOffset(r *http.Request) (int, int) {
	conf := configuration.Use()
	limit := conf.PageSize
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > conf.MaxPageSize {
		limit = conf.MaxPageSize
	}

	offset := 0
	if v := strings.TrimSpace(r.URL.Query().Get("offset")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			offset = parsed
		}
	}
	return limit, offset
}
