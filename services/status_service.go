package services

import (
	"errors"
	"sort"
	"time"

	"rentProject/models"
)

// TenantDTO представляет данные арендатора
type TenantDTO struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// PropertyView представляет объект аренды с вычисленным статусом
type PropertyView struct {
	ID            uint                 `json:"id"`
	Address       string               `json:"address"`
	Tenant        TenantDTO            `json:"tenant"`
	RentAmount    float64              `json:"rent_amount"`
	RentDueDay    int                  `json:"rent_due_day"`
	DueDate       time.Time            `json:"due_date"` // Дата оплаты в текущем месяце
	Status        models.PaymentStatus `json:"status"`
	ContractStart *time.Time           `json:"contract_start,omitempty"`
	ContractEnd   *time.Time           `json:"contract_end,omitempty"`
}

// FinancialSummary представляет сводку по аренде за месяц
type FinancialSummary struct {
	Received  float64 `json:"received"`
	ToReceive float64 `json:"to_receive"`
}

// Приоритет статусов при сортировке: чем меньше, тем срочнее
var statusPriority = map[models.PaymentStatus]int{
	models.PaymentStatusLate:     0,
	models.PaymentStatusDueToday: 1,
	models.PaymentStatusPending:  2,
	models.PaymentStatusPaid:     3,
}

// StatusService вычисляет статус оплаты аренды по объектам.
// Все методы чистые: без базы данных и без побочных эффектов.
type StatusService struct{}

// NewStatusService создает новый экземпляр StatusService
func NewStatusService() *StatusService {
	return &StatusService{}
}

// daysInMonth возвращает количество дней в месяце указанной даты
func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// EffectiveDueDay возвращает день оплаты с поправкой на длину месяца:
// 31-е число в феврале превращается в последний день февраля
func EffectiveDueDay(rentDueDay int, today time.Time) int {
	if last := daysInMonth(today); rentDueDay > last {
		return last
	}
	return rentDueDay
}

// EffectiveDueDate возвращает дату оплаты в месяце указанной даты
func EffectiveDueDate(rentDueDay int, today time.Time) time.Time {
	return time.Date(today.Year(), today.Month(), EffectiveDueDay(rentDueDay, today), 0, 0, 0, 0, today.Location())
}

// DeriveStatus вычисляет статус оплаты по дню оплаты, платежам текущего
// месяца и сегодняшней дате. Правила проверяются по порядку, срабатывает
// первое подходящее. Время суток не учитывается.
func (s *StatusService) DeriveStatus(rentDueDay int, currentMonthPayments []models.Payment, today time.Time) (models.PaymentStatus, error) {
	if rentDueDay < 1 || rentDueDay > 31 {
		return "", errors.New("день оплаты должен быть в диапазоне от 1 до 31")
	}

	// Есть ли оплаченный платеж за текущий месяц
	for _, payment := range currentMonthPayments {
		if payment.Status == models.PaymentStatusPaid &&
			payment.DueDate.Month() == today.Month() &&
			payment.DueDate.Year() == today.Year() {
			return models.PaymentStatusPaid, nil
		}
	}

	dueDay := EffectiveDueDay(rentDueDay, today)
	switch {
	case today.Day() > dueDay:
		return models.PaymentStatusLate, nil
	case today.Day() == dueDay:
		return models.PaymentStatusDueToday, nil
	default:
		return models.PaymentStatusPending, nil
	}
}

// Rank сортирует объекты по срочности статуса. Сортировка стабильная:
// при равном статусе исходный порядок сохраняется, чтобы список не
// перестраивался между обновлениями.
func (s *StatusService) Rank(properties []PropertyView) []PropertyView {
	ranked := make([]PropertyView, len(properties))
	copy(ranked, properties)
	sort.SliceStable(ranked, func(i, j int) bool {
		return statusPriority[ranked[i].Status] < statusPriority[ranked[j].Status]
	})
	return ranked
}

// Summarize собирает финансовую сводку за месяц: оплаченные объекты
// попадают в Received, все остальные — в ToReceive
func (s *StatusService) Summarize(properties []PropertyView) FinancialSummary {
	var summary FinancialSummary
	for _, property := range properties {
		if property.Status == models.PaymentStatusPaid {
			summary.Received += property.RentAmount
		} else {
			summary.ToReceive += property.RentAmount
		}
	}
	return summary
}
