package services

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"rentProject/models"
	"rentProject/utils"
)

// AlertKind представляет тип уведомления
type AlertKind string

const (
	AlertKindLateRent AlertKind = "late_rent" // Просрочка оплаты аренды
	AlertKindContract AlertKind = "contract"  // Приближение окончания договора
)

// AlertEvent представляет уведомление для владельца
type AlertEvent struct {
	Kind       AlertKind `json:"kind"`
	PropertyID uint      `json:"property_id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
}

// Notifier доставляет уведомление владельцу. Доставка без гарантий:
// сбой логируется и не повторяется внутри сервиса.
type Notifier interface {
	Deliver(title, body string) error
}

// Вехи до окончания договора, на которых отправляется уведомление
var contractMilestones = []int{30, 7, 0}

// AlertService решает, какие уведомления отправить в текущем цикле.
// Набор уже отправленных ключей принадлежит сервису и защищен мьютексом,
// поэтому пересекающиеся циклы выполняются по очереди.
type AlertService struct {
	notifier  Notifier
	threshold int // Порог просрочки в днях
	metrics   *utils.Metrics

	mu       sync.Mutex
	notified map[string]bool
}

// NewAlertService создает новый экземпляр AlertService
func NewAlertService(notifier Notifier, lateThresholdDays int) *AlertService {
	return &AlertService{
		notifier:  notifier,
		threshold: lateThresholdDays,
		metrics:   utils.GetMetrics(),
		notified:  make(map[string]bool),
	}
}

// dateOnly отбрасывает время суток и часовой пояс: остаются только
// год, месяц и день. Даты из базы приходят в UTC, а "сегодня" — в
// локальном поясе, поэтому перед вычитанием обе даты приводятся к UTC.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween возвращает разницу между датами в целых календарных днях
func daysBetween(from, to time.Time) int {
	return int(dateOnly(to).Sub(dateOnly(from)).Hours() / 24)
}

func lateRentKey(propertyID uint, day time.Time) string {
	return fmt.Sprintf("%d:%s:%s", propertyID, AlertKindLateRent, dateOnly(day).Format("2006-01-02"))
}

func contractKey(propertyID uint, diffDays int) string {
	return fmt.Sprintf("%d:%s:%d", propertyID, AlertKindContract, diffDays)
}

// Evaluate выполняет один проход по объектам и возвращает уведомления,
// которые еще не отправлялись. Ключ просрочки привязан к календарному дню,
// поэтому повторные вызовы в тот же день ничего не добавляют; ключ вехи
// договора отправляется один раз за все время работы. Набор notified
// пополняется один раз, после полного обхода.
func (s *AlertService) Evaluate(properties []PropertyView, today time.Time, notified map[string]bool) []AlertEvent {
	var events []AlertEvent
	var firedKeys []string

	for _, property := range properties {
		// Просроченная аренда
		if property.Status == models.PaymentStatusLate {
			lateDays := daysBetween(property.DueDate, today)
			if lateDays < 0 {
				lateDays = -lateDays
			}
			if lateDays >= s.threshold {
				key := lateRentKey(property.ID, today)
				if !notified[key] {
					events = append(events, AlertEvent{
						Kind:       AlertKindLateRent,
						PropertyID: property.ID,
						Title:      "Аренда просрочена!",
						Body:       fmt.Sprintf("Платеж от %s просрочен на %d дн.", property.Tenant.Name, lateDays),
					})
					firedKeys = append(firedKeys, key)
				}
			}
		}

		// Окончание договора
		if property.ContractEnd != nil {
			diffDays := daysBetween(today, *property.ContractEnd)
			for _, milestone := range contractMilestones {
				if diffDays != milestone {
					continue
				}
				key := contractKey(property.ID, diffDays)
				if notified[key] {
					continue
				}
				body := fmt.Sprintf("Договор с %s истекает через %d дн.", property.Tenant.Name, diffDays)
				if diffDays == 0 {
					body = fmt.Sprintf("Договор с %s истекает сегодня.", property.Tenant.Name)
				}
				events = append(events, AlertEvent{
					Kind:       AlertKindContract,
					PropertyID: property.ID,
					Title:      "Договор истекает",
					Body:       body,
				})
				firedKeys = append(firedKeys, key)
			}
		}
	}

	// Фиксируем ключи только после полного обхода
	for _, key := range firedKeys {
		notified[key] = true
	}

	return events
}

// Dispatch передает уведомления приемнику. Каждая доставка независима:
// сбой одной не блокирует остальные и не откатывает ключи.
func (s *AlertService) Dispatch(events []AlertEvent) {
	for _, event := range events {
		s.metrics.RecordAlert(string(event.Kind))
		err := s.notifier.Deliver(event.Title, event.Body)
		s.metrics.RecordDelivery(err)
		if err != nil {
			log.Printf("Ошибка при доставке уведомления по объекту %d: %v", event.PropertyID, err)
			utils.LogError("Delivery failed for property %d (%s): %v", event.PropertyID, event.Kind, err)
		}
	}
}

// RunCycle выполняет один цикл оценки и доставки уведомлений
func (s *AlertService) RunCycle(properties []PropertyView, today time.Time) []AlertEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.Evaluate(properties, today, s.notified)
	s.Dispatch(events)
	return events
}

// PruneNotifiedBefore удаляет дневные ключи просрочки старше указанной даты.
// Ключи вех договора не трогаем: каждая веха отправляется один раз.
func (s *AlertService) PruneNotifiedBefore(day time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := dateOnly(day).Format("2006-01-02")
	marker := ":" + string(AlertKindLateRent) + ":"
	removed := 0
	for key := range s.notified {
		idx := strings.Index(key, marker)
		if idx < 0 {
			continue
		}
		if key[idx+len(marker):] < cutoff {
			delete(s.notified, key)
			removed++
		}
	}
	return removed
}
