package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rentProject/services"

	"github.com/gorilla/mux"
)

// PropertyController обрабатывает запросы, связанные с объектами аренды
type PropertyController struct {
	propertyService *services.PropertyService
}

// NewPropertyController создает новый экземпляр PropertyController
func NewPropertyController(propertyService *services.PropertyService) *PropertyController {
	return &PropertyController{
		propertyService: propertyService,
	}
}

// writeJSON отправляет ответ в формате JSON
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeServiceError переводит ошибку сервиса в HTTP статус
func writeServiceError(w http.ResponseWriter, err error) {
	message := err.Error()
	switch {
	case strings.Contains(message, "не найден"):
		http.Error(w, message, http.StatusNotFound)
	case strings.Contains(message, "поле "), strings.Contains(message, "уже оплачена"),
		strings.Contains(message, "неверный формат"), strings.Contains(message, "диапазоне"):
		http.Error(w, message, http.StatusBadRequest)
	default:
		http.Error(w, message, http.StatusInternalServerError)
	}
}

// parseID извлекает идентификатор объекта из URL
func parseID(r *http.Request) (uint, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// CreateProperty обрабатывает запрос на создание объекта аренды
func (c *PropertyController) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var dto services.PropertyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := c.propertyService.Create(dto)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

// GetProperties обрабатывает запрос на список объектов со статусами
func (c *PropertyController) GetProperties(w http.ResponseWriter, r *http.Request) {
	views, err := c.propertyService.GetPropertyViews(time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, services.FilterViews(views, r.URL.Query().Get("q")))
}

// GetDashboard обрабатывает запрос на сводку месяца
func (c *PropertyController) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := c.propertyService.Dashboard(time.Now(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboard)
}

// GetProperty обрабатывает запрос на детали объекта с историей платежей
func (c *PropertyController) GetProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.Error(w, "Invalid property ID", http.StatusBadRequest)
		return
	}

	detail, err := c.propertyService.GetPropertyDetail(id, time.Now(), 3)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// UpdateProperty обрабатывает запрос на изменение объекта аренды
func (c *PropertyController) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.Error(w, "Invalid property ID", http.StatusBadRequest)
		return
	}

	var dto services.PropertyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := c.propertyService.Update(id, dto)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// DeleteProperty обрабатывает запрос на удаление объекта аренды
func (c *PropertyController) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.Error(w, "Invalid property ID", http.StatusBadRequest)
		return
	}

	if err := c.propertyService.Delete(id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ConfirmPayment обрабатывает запрос на регистрацию оплаты аренды
func (c *PropertyController) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.Error(w, "Invalid property ID", http.StatusBadRequest)
		return
	}

	payment, err := c.propertyService.ConfirmPayment(id, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, payment)
}

// GetPaymentHistory обрабатывает запрос на историю платежей объекта
func (c *PropertyController) GetPaymentHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.Error(w, "Invalid property ID", http.StatusBadRequest)
		return
	}

	limit := 0
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	history, err := c.propertyService.GetPaymentHistory(id, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, history)
}
