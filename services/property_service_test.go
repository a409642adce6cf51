package services

import (
	"testing"
	"time"

	"rentProject/models"

	"github.com/go-playground/validator/v10"
)

func newTestPropertyService() *PropertyService {
	return &PropertyService{
		validator:   validator.New(),
		status:      NewStatusService(),
		countryCode: "7",
	}
}

func TestNormalizePhone(t *testing.T) {
	service := newTestPropertyService()

	tests := []struct {
		input string
		want  string
	}{
		{"+7 (912) 345-67-89", "79123456789"},
		{"912 345 67 89", "79123456789"},
		{"79123456789", "79123456789"},
		{"8-912-345-67-89", "789123456789"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := service.normalizePhone(tt.input); got != tt.want {
			t.Errorf("normalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestValidateDTO(t *testing.T) {
	service := newTestPropertyService()

	valid := PropertyDTO{
		TenantName:  "Иванов Иван",
		TenantPhone: "79123456789",
		Address:     "ул. Ленина, 10, кв. 5",
		RentAmount:  25000,
		RentDueDay:  10,
	}
	if err := service.validateDTO(valid); err != nil {
		t.Errorf("корректный DTO отклонен: %v", err)
	}

	tests := []struct {
		name   string
		modify func(dto *PropertyDTO)
	}{
		{"без имени арендатора", func(dto *PropertyDTO) { dto.TenantName = "" }},
		{"нулевая аренда", func(dto *PropertyDTO) { dto.RentAmount = 0 }},
		{"отрицательная аренда", func(dto *PropertyDTO) { dto.RentAmount = -100 }},
		{"день оплаты 0", func(dto *PropertyDTO) { dto.RentDueDay = 0 }},
		{"день оплаты 32", func(dto *PropertyDTO) { dto.RentDueDay = 32 }},
		{"кривая дата договора", func(dto *PropertyDTO) { dto.ContractEnd = "31-12-2025" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dto := valid
			tt.modify(&dto)
			if err := service.validateDTO(dto); err == nil {
				t.Errorf("некорректный DTO принят")
			}
		})
	}
}

func TestMonthWindow(t *testing.T) {
	start, end := monthWindow(date(2025, time.February, 14))

	if start.Day() != 1 || start.Month() != time.February {
		t.Errorf("начало месяца = %v", start)
	}
	if end.Day() != 28 || end.Month() != time.February {
		t.Errorf("конец месяца = %v", end)
	}
}

func TestContractState(t *testing.T) {
	today := date(2025, time.March, 15)

	tests := []struct {
		name string
		end  *time.Time
		want ContractState
	}{
		{"без договора", nil, ""},
		{"договор истек", timePtr(today.AddDate(0, 0, -1)), ContractStateExpired},
		{"истекает сегодня", timePtr(today), ContractStateExpiring},
		{"истекает через 30 дней", timePtr(today.AddDate(0, 0, 30)), ContractStateExpiring},
		{"истекает через 31 день", timePtr(today.AddDate(0, 0, 31)), ContractStateActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := contractState(tt.end, today); got != tt.want {
				t.Errorf("contractState = %q, want %q", got, tt.want)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestContractStateMixedLocations(t *testing.T) {
	// "Сегодня" в локальном поясе, дата окончания из базы в UTC:
	// граница EXPIRING/ACTIVE не должна сдвигаться на день
	westOfUTC := time.FixedZone("UTC-5", -5*60*60)
	today := time.Date(2025, time.March, 1, 9, 30, 0, 0, westOfUTC)

	if got := contractState(timePtr(date(2025, time.March, 31)), today); got != ContractStateExpiring {
		t.Errorf("за 30 дней: contractState = %q, want %q", got, ContractStateExpiring)
	}
	if got := contractState(timePtr(date(2025, time.April, 1)), today); got != ContractStateActive {
		t.Errorf("за 31 день: contractState = %q, want %q", got, ContractStateActive)
	}
	if got := contractState(timePtr(date(2025, time.February, 28)), today); got != ContractStateExpired {
		t.Errorf("день назад: contractState = %q, want %q", got, ContractStateExpired)
	}
}

func TestFilterViews(t *testing.T) {
	views := []PropertyView{
		{ID: 1, Address: "ул. Ленина, 10", Tenant: TenantDTO{Name: "Иванов"}},
		{ID: 2, Address: "пр. Мира, 3", Tenant: TenantDTO{Name: "Петров"}},
		{ID: 3, Address: "ул. Ленина, 12", Tenant: TenantDTO{Name: "Сидоров"}},
	}

	if got := FilterViews(views, ""); len(got) != 3 {
		t.Errorf("пустой запрос вернул %d объектов, want 3", len(got))
	}
	if got := FilterViews(views, "ленина"); len(got) != 2 {
		t.Errorf("поиск по адресу вернул %d объектов, want 2", len(got))
	}
	if got := FilterViews(views, "петров"); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("поиск по имени вернул %v", got)
	}
	if got := FilterViews(views, "гагарина"); len(got) != 0 {
		t.Errorf("поиск без совпадений вернул %d объектов, want 0", len(got))
	}
}

func TestApplyDTONormalizesAndParses(t *testing.T) {
	service := newTestPropertyService()

	dto := PropertyDTO{
		TenantName:    "Иванов Иван",
		TenantPhone:   "+7 (912) 345-67-89",
		Address:       "ул. Ленина, 10, кв. 5",
		RentAmount:    25000,
		RentDueDay:    10,
		ContractStart: "2025-01-01",
		ContractEnd:   "2025-12-31",
	}

	var property models.Property
	if err := service.applyDTO(&property, dto); err != nil {
		t.Fatalf("applyDTO returned error: %v", err)
	}

	if property.TenantPhone != "79123456789" {
		t.Errorf("TenantPhone = %q, want 79123456789", property.TenantPhone)
	}
	if property.ContractStart == nil || property.ContractStart.Format("2006-01-02") != "2025-01-01" {
		t.Errorf("ContractStart = %v", property.ContractStart)
	}
	if property.ContractEnd == nil || property.ContractEnd.Format("2006-01-02") != "2025-12-31" {
		t.Errorf("ContractEnd = %v", property.ContractEnd)
	}
}

func TestApplyDTOEmptyContractDates(t *testing.T) {
	service := newTestPropertyService()

	dto := PropertyDTO{
		TenantName:  "Иванов Иван",
		TenantPhone: "79123456789",
		Address:     "ул. Ленина, 10, кв. 5",
		RentAmount:  25000,
		RentDueDay:  10,
	}

	var property models.Property
	if err := service.applyDTO(&property, dto); err != nil {
		t.Fatalf("applyDTO returned error: %v", err)
	}

	if property.ContractStart != nil || property.ContractEnd != nil {
		t.Errorf("пустые даты договора должны остаться nil")
	}
}
