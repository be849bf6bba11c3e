package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/rsmhq/rsm/modules/crm/domain/aggregates/workorder"
	"github.com/rsmhq/rsm/modules/crm/presentation/mappers"
	"github.com/rsmhq/rsm/modules/crm/presentation/viewmodels"
	"github.com/rsmhq/rsm/modules/crm/services"
	"github.com/rsmhq/rsm/pkg/application"
	"github.com/rsmhq/rsm/pkg/composables"
	"github.com/rsmhq/rsm/pkg/middleware"
)

// openStatuses is the default scope for the due_within filter.
var openStatuses = []workorder.Status{
	workorder.StatusNew,
	workorder.StatusInProgress,
	workorder.StatusWaitingCustomer,
}

type WorkOrdersController struct {
	app        application.Application
	workOrders *services.WorkOrderService
	basePath   string
}

func NewWorkOrdersController(app application.Application) application.Controller {
	return &WorkOrdersController{
		app:        app,
		workOrders: app.Service(services.WorkOrderService{}).(*services.WorkOrderService),
		basePath:   "/api/work-orders",
	}
}

func (c *WorkOrdersController) Key() string {
	return c.basePath
}

func (c *WorkOrdersController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireAuthorization())
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}/status-history", c.StatusHistory).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}/notes", c.ListNotes).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.RequireAuthorization())
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("", c.Create).Methods(http.MethodPost)
	writeRouter.HandleFunc("/{id:[0-9]+}", c.Update).Methods(http.MethodPatch)
	writeRouter.HandleFunc("/{id:[0-9]+}", c.Delete).Methods(http.MethodDelete)
	writeRouter.HandleFunc("/{id:[0-9]+}/status", c.ChangeStatus).Methods(http.MethodPatch)
	writeRouter.HandleFunc("/{id:[0-9]+}/notes", c.AddNote).Methods(http.MethodPost)
}

func (c *WorkOrdersController) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r)
	query := r.URL.Query()

	params := &workorder.FindParams{
		Q:        strings.TrimSpace(query.Get("q")),
		Priority: workorder.Priority(strings.TrimSpace(query.Get("priority"))),
		Limit:    limit,
		Offset:   offset,
	}

	for _, raw := range query["status"] {
		s := workorder.Status(strings.TrimSpace(raw))
		if s.IsValid() {
			params.Statuses = append(params.Statuses, s)
		}
	}

	if v := strings.TrimSpace(query.Get("customer_id")); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			params.CustomerID = uint(id)
		}
	}

	if v := strings.TrimSpace(query.Get("due_within")); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil || hours < 0 {
			writeAPIError(w, r, http.StatusBadRequest, "CRM_VALIDATION", "due_within must be a non-negative number of hours")
			return
		}
		cutoff := time.Now().Add(time.Duration(hours) * time.Hour)
		params.DueBefore = &cutoff
		if len(params.Statuses) == 0 {
			params.Statuses = openStatuses
		}
	}

	items, total, err := c.workOrders.GetPaginated(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]viewmodels.WorkOrder, 0, len(items))
	for _, item := range items {
		out = append(out, mappers.WorkOrderToViewModel(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": total,
	})
}

func (c *WorkOrdersController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDVar(r)
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "CRM_INVALID_ID", "invalid id")
		return
	}

	item, err := c.workOrders.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.WorkOrderToViewModel(item))
}

func (c *WorkOrdersController) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := composables.UseUser(r.Context())
	if err != nil {
		writeAPIError(w, r, http.StatusUnauthorized, "CRM_UNAUTHENTICATED", "Authentication required.")
		return
	}

	var dto workorder.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "CRM_INVALID_JSON", "invalid json")
		return
	}

	if errs, ok := dto.Ok(); !ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "The given data was invalid.",
			"errors":  errs,
		})
		return
	}

	created, err := c.workOrders.Create(r.Context(), &dto, actor.ID())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mappers.WorkOrderToViewModel(created))
}

func (c *WorkOrdersController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDVar(r)
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "CRM_INVALID_ID", "invalid id")
		return
	}

	var dto workorder.UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "CRM_INVALID_JSON", "invalid json")
		return
	}

	if errs, ok := dto.Ok(); !ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "The given data was invalid.",
			"errors":  errs,
		})
		return
	}

	updated, err := c.workOrders.Update(r.Context(), id, &dto)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.WorkOrderToViewModel(updated))
}

func (c *WorkOrdersController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDVar(r)
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "CRM_INVALID_ID", "invalid id")
		return
	}

	if err := c.workOrders.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

func (c *WorkOrdersController) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDVar(r)
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "CRM_INVALID_ID", "invalid id")
		return
	}

	actor, err := composables.UseUser(r.Context())
	if err != nil {
		writeAPIError(w, r, http.StatusUnauthorized, "CRM_UNAUTHENTICATED", "Authentication required.")
		return
	}

	var req changeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "CRM_INVALID_JSON", "invalid json")
		return
	}

	updated, err := c.workOrders.ChangeStatus(r.Context(), id, workorder.Status(strings.TrimSpace(req.Status)), actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.WorkOrderToViewModel(updated))
}

func (c *WorkOrdersController) StatusHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDVar(r)
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "CRM_INVALID_ID", "invalid id")
		return
	}

	items, err := c.workOrders.ListHistory(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]viewmodels.StatusHistory, 0, len(items))
	for _, item := range items {
		out = append(out, mappers.StatusHistoryToViewModel(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (c *WorkOrdersController) ListNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDVar(r)
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "CRM_INVALID_ID", "invalid id")
		return
	}

	items, err := c.workOrders.ListNotes(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]viewmodels.Note, 0, len(items))
	for _, item := range items {
		out = append(out, mappers.NoteToViewModel(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (c *WorkOrdersController) AddNote(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDVar(r)
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "CRM_INVALID_ID", "invalid id")
		return
	}

	actor, err := composables.UseUser(r.Context())
	if err != nil {
		writeAPIError(w, r, http.StatusUnauthorized, "CRM_UNAUTHENTICATED", "Authentication required.")
		return
	}

	var dto workorder.CreateNoteDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "CRM_INVALID_JSON", "invalid json")
		return
	}
	if strings.TrimSpace(dto.Note) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "The given data was invalid.",
			"errors":  map[string]string{"Note": "The note field is required."},
		})
		return
	}

	created, err := c.workOrders.AddNote(r.Context(), id, dto.Note, actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mappers.NoteToViewModel(created))
}
