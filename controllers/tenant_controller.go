package controllers

import (
	"net/http"
	"time"

	"rentProject/services"

	"github.com/gorilla/mux"
)

// TenantController обрабатывает запросы, связанные с арендаторами
type TenantController struct {
	tenantService *services.TenantService
}

// NewTenantController создает новый экземпляр TenantController
func NewTenantController(tenantService *services.TenantService) *TenantController {
	return &TenantController{
		tenantService: tenantService,
	}
}

// GetTenants обрабатывает запрос на список арендаторов
func (c *TenantController) GetTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := c.tenantService.GetTenants(time.Now(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tenants)
}

// GetTenant обрабатывает запрос на арендатора по имени
func (c *TenantController) GetTenant(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name == "" {
		http.Error(w, "Invalid tenant name", http.StatusBadRequest)
		return
	}

	tenant, err := c.tenantService.GetTenantByName(name, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tenant)
}
