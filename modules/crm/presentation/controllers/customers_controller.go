package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/xuri/excelize/v2"

	"github.com/rsmhq/rsm/modules/crm/domain/aggregates/customer"
	"github.com/rsmhq/rsm/modules/crm/presentation/mappers"
	"github.com/rsmhq/rsm/modules/crm/presentation/viewmodels"
	"github.com/rsmhq/rsm/modules/crm/services"
	"github.com/rsmhq/rsm/pkg/application"
	"github.com/rsmhq/rsm/pkg/composables"
	"github.com/rsmhq/rsm/pkg/middleware"
)

type CustomersController struct {
	app       application.Application
	customers *services.CustomerService
	basePath  string
}

func NewCustomersController(app application.Application) application.Controller {
	return &CustomersController{
		app:       app,
		customers: app.Service(services.CustomerService{}).(*services.CustomerService),
		basePath:  "/api/customers",
	}
}

func (c *CustomersController) Key() string {
	return c.basePath
}

func (c *CustomersController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireAuthorization())
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/export", c.Export).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.Get).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.RequireAuthorization())
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("", c.Create).Methods(http.MethodPost)
	writeRouter.HandleFunc("/{id:[0-9]+}", c.Update).Methods(http.MethodPatch)
	writeRouter.HandleFunc("/{id:[0-9]+}", c.Delete).Methods(http.MethodDelete)
}

func (c *CustomersController) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r)
	params := &customer.FindParams{
		Q:      strings.TrimSpace(r.URL.Query().Get("q")),
		Limit:  limit,
		Offset: offset,
	}

	items, total, err := c.customers.GetPaginated(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]viewmodels.Customer, 0, len(items))
	for _, item := range items {
		out = append(out, mappers.CustomerToViewModel(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": total,
	})
}

func (c *CustomersController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDVar(r)
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "CRM_INVALID_ID", "invalid id")
		return
	}

	item, err := c.customers.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.CustomerToViewModel(item))
}

func (c *CustomersController) Create(w http.ResponseWriter, r *http.Request) {
	var dto customer.CreateDTO
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

	created, err := c.customers.Create(r.Context(), &dto)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mappers.CustomerToViewModel(created))
}

func (c *CustomersController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDVar(r)
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "CRM_INVALID_ID", "invalid id")
		return
	}

	var dto customer.UpdateDTO
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

	updated, err := c.customers.Update(r.Context(), id, &dto)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.CustomerToViewModel(updated))
}

func (c *CustomersController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDVar(r)
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "CRM_INVALID_ID", "invalid id")
		return
	}

	if err := c.customers.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

var customerExportHeader = []string{"ID", "Name", "Phone", "Email", "Address", "Created At"}

// Export streams the full customer list as an XLSX workbook.
func (c *CustomersController) Export(w http.ResponseWriter, r *http.Request) {
	items, _, err := c.customers.GetPaginated(r.Context(), &customer.FindParams{})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	const sheet = "Customers"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for i, h := range customerExportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			writeAPIError(w, r, http.StatusInternalServerError, "CRM_EXPORT_FAILED", "failed to build export")
			return
		}
	}

	for rowIdx, item := range items {
		vm := mappers.CustomerToViewModel(item)
		values := []any{vm.ID, vm.Name, vm.Phone, vm.Email, vm.Address, vm.CreatedAt}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				writeAPIError(w, r, http.StatusInternalServerError, "CRM_EXPORT_FAILED", "failed to build export")
				return
			}
		}
	}

	logger := composables.UseLogger(r.Context())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "customers.xlsx"))
	if err := f.Write(w); err != nil {
		logger.WithError(err).Error("crm: customer export stream failed")
	}
}
