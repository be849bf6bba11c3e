package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rsmhq/rsm/modules/crm/services"
	"github.com/rsmhq/rsm/pkg/application"
	"github.com/rsmhq/rsm/pkg/composables"
	"github.com/rsmhq/rsm/pkg/configuration"
	"github.com/rsmhq/rsm/pkg/middleware"
)

// ImportController accepts CSV uploads. Each row commits in its own
// transaction inside the importer, so the routes deliberately skip the
// per-request transaction middleware.
type ImportController struct {
	app             application.Application
	customerImport  *services.CustomerImportService
	workOrderImport *services.WorkOrderImportService
	basePath        string
}

func NewImportController(app application.Application) application.Controller {
	return &ImportController{
		app:             app,
		customerImport:  app.Service(services.CustomerImportService{}).(*services.CustomerImportService),
		workOrderImport: app.Service(services.WorkOrderImportService{}).(*services.WorkOrderImportService),
		basePath:        "/api/import",
	}
}

func (c *ImportController) Key() string {
	return c.basePath
}

func (c *ImportController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireAuthorization())
	router.HandleFunc("/customers", c.ImportCustomers).Methods(http.MethodPost)
	router.HandleFunc("/work-orders", c.ImportWorkOrders).Methods(http.MethodPost)
}

func (c *ImportController) ImportCustomers(w http.ResponseWriter, r *http.Request) {
	file, ok := c.formFile(w, r)
	if !ok {
		return
	}
	defer func() {
		_ = file.Close()
	}()

	report, err := c.customerImport.Import(r.Context(), file)
	if err != nil {
		c.writeImportFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (c *ImportController) ImportWorkOrders(w http.ResponseWriter, r *http.Request) {
	actor, err := composables.UseUser(r.Context())
	if err != nil {
		writeAPIError(w, r, http.StatusUnauthorized, "CRM_UNAUTHENTICATED", "Authentication required.")
		return
	}

	file, ok := c.formFile(w, r)
	if !ok {
		return
	}
	defer func() {
		_ = file.Close()
	}()

	report, err := c.workOrderImport.Import(r.Context(), file, actor.ID())
	if err != nil {
		c.writeImportFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (c *ImportController) formFile(w http.ResponseWriter, r *http.Request) (multipart.File, bool) {
	conf := configuration.Use()
	if err := r.ParseMultipartForm(conf.MaxUploadSize); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "CRM_FILE_FORMAT", "invalid multipart request")
		return nil, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "CRM_FILE_FORMAT", `the "file" field is required`)
		return nil, false
	}
	return file, true
}

// writeImportFailure reports a file-level import failure. Row-level problems
// never end up here; they come back inside the report.
func (c *ImportController) writeImportFailure(w http.ResponseWriter, r *http.Request, err error) {
	composables.UseLogger(r.Context()).WithError(err).Error("crm: import failed")
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"message": "Import failed",
		"error":   err.Error(),
	})
}
