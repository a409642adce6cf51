package services

import (
	"errors"
	"strings"
	"time"
)

// TenantSummaryDTO представляет арендатора со всеми его объектами.
// Арендаторы различаются только по имени: отдельного идентификатора
// в данных нет, полные тезки считаются одним человеком.
type TenantSummaryDTO struct {
	Name       string         `json:"name"`
	Phone      string         `json:"phone"`
	Properties []PropertyView `json:"properties"`
}

// TenantService предоставляет методы для работы со списком арендаторов
type TenantService struct {
	properties *PropertyService
}

// NewTenantService создает новый экземпляр TenantService
func NewTenantService(properties *PropertyService) *TenantService {
	return &TenantService{properties: properties}
}

// groupByTenantName группирует объекты по имени арендатора,
// сохраняя порядок первого появления
func groupByTenantName(views []PropertyView) []TenantSummaryDTO {
	index := make(map[string]int)
	var tenants []TenantSummaryDTO

	for _, view := range views {
		name := view.Tenant.Name
		i, exists := index[name]
		if !exists {
			i = len(tenants)
			index[name] = i
			tenants = append(tenants, TenantSummaryDTO{
				Name:  name,
				Phone: view.Tenant.Phone,
			})
		}
		tenants[i].Properties = append(tenants[i].Properties, view)
	}

	return tenants
}

// GetTenants возвращает арендаторов, сгруппированных по имени
func (s *TenantService) GetTenants(today time.Time, query string) ([]TenantSummaryDTO, error) {
	views, err := s.properties.GetPropertyViews(today)
	if err != nil {
		return nil, err
	}

	tenants := groupByTenantName(views)

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return tenants, nil
	}

	filtered := make([]TenantSummaryDTO, 0, len(tenants))
	for _, tenant := range tenants {
		if strings.Contains(strings.ToLower(tenant.Name), query) {
			filtered = append(filtered, tenant)
		}
	}
	return filtered, nil
}

// GetTenantByName возвращает арендатора по имени
func (s *TenantService) GetTenantByName(name string, today time.Time) (*TenantSummaryDTO, error) {
	views, err := s.properties.GetPropertyViews(today)
	if err != nil {
		return nil, err
	}

	for _, tenant := range groupByTenantName(views) {
		if tenant.Name == name {
			result := tenant
			return &result, nil
		}
	}

	return nil, errors.New("арендатор не найден")
}
