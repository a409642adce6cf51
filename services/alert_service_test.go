package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"rentProject/models"
)

// fakeNotifier записывает доставленные уведомления.
// Для текстов из failBodies доставка завершается ошибкой.
type fakeNotifier struct {
	delivered  []string
	failBodies map[string]bool
}

func (f *fakeNotifier) Deliver(title, body string) error {
	if f.failBodies[body] {
		return errors.New("smtp unavailable")
	}
	f.delivered = append(f.delivered, title+": "+body)
	return nil
}

func lateView(id uint, name string, dueDate time.Time) PropertyView {
	return PropertyView{
		ID:      id,
		Status:  models.PaymentStatusLate,
		Tenant:  TenantDTO{Name: name},
		DueDate: dueDate,
	}
}

func contractView(id uint, name string, contractEnd time.Time) PropertyView {
	return PropertyView{
		ID:          id,
		Status:      models.PaymentStatusPending,
		Tenant:      TenantDTO{Name: name},
		ContractEnd: &contractEnd,
	}
}

func TestEvaluateLateRent(t *testing.T) {
	service := NewAlertService(&fakeNotifier{}, 5)
	today := date(2025, time.March, 15)
	views := []PropertyView{lateView(1, "Иванов", date(2025, time.March, 10))}
	notified := make(map[string]bool)

	events := service.Evaluate(views, today, notified)
	if len(events) != 1 {
		t.Fatalf("получено событий: %d, want 1", len(events))
	}
	if events[0].Kind != AlertKindLateRent {
		t.Errorf("Kind = %v, want %v", events[0].Kind, AlertKindLateRent)
	}
	if events[0].PropertyID != 1 {
		t.Errorf("PropertyID = %d, want 1", events[0].PropertyID)
	}
	if !strings.Contains(events[0].Body, "5 дн") {
		t.Errorf("в тексте нет количества дней: %q", events[0].Body)
	}

	// Повторный вызов в тот же день ничего не добавляет
	events = service.Evaluate(views, today, notified)
	if len(events) != 0 {
		t.Errorf("повторный вызов вернул %d событий, want 0", len(events))
	}
}

func TestEvaluateLateRentBelowThreshold(t *testing.T) {
	service := NewAlertService(&fakeNotifier{}, 5)
	today := date(2025, time.March, 13)
	views := []PropertyView{lateView(1, "Иванов", date(2025, time.March, 10))}

	events := service.Evaluate(views, today, make(map[string]bool))
	if len(events) != 0 {
		t.Errorf("до порога получено %d событий, want 0", len(events))
	}
}

func TestEvaluateLateRentNextDayFiresAgain(t *testing.T) {
	service := NewAlertService(&fakeNotifier{}, 5)
	views := []PropertyView{lateView(1, "Иванов", date(2025, time.March, 10))}
	notified := make(map[string]bool)

	if got := len(service.Evaluate(views, date(2025, time.March, 15), notified)); got != 1 {
		t.Fatalf("первый день: %d событий, want 1", got)
	}

	// Следующий календарный день — новый дневной ключ
	if got := len(service.Evaluate(views, date(2025, time.March, 16), notified)); got != 1 {
		t.Errorf("следующий день: %d событий, want 1", got)
	}
}

func TestEvaluateLateRentIgnoresOtherStatuses(t *testing.T) {
	service := NewAlertService(&fakeNotifier{}, 5)
	today := date(2025, time.March, 10)

	views := []PropertyView{
		{ID: 1, Status: models.PaymentStatusDueToday, Tenant: TenantDTO{Name: "Иванов"}, DueDate: today},
		{ID: 2, Status: models.PaymentStatusPaid, Tenant: TenantDTO{Name: "Петров"}, DueDate: date(2025, time.March, 1)},
	}

	events := service.Evaluate(views, today, make(map[string]bool))
	if len(events) != 0 {
		t.Errorf("получено %d событий, want 0", len(events))
	}
}

func TestEvaluateContractMilestones(t *testing.T) {
	service := NewAlertService(&fakeNotifier{}, 5)
	today := date(2025, time.March, 1)
	notified := make(map[string]bool)

	tests := []struct {
		name      string
		end       time.Time
		wantCount int
		wantBody  string
	}{
		{"за 30 дней", today.AddDate(0, 0, 30), 1, "через 30 дн"},
		{"за 31 день не срабатывает", today.AddDate(0, 0, 31), 0, ""},
		{"за 7 дней", today.AddDate(0, 0, 7), 1, "через 7 дн"},
		{"в день окончания", today, 1, "сегодня"},
		{"за 5 дней не срабатывает", today.AddDate(0, 0, 5), 0, ""},
	}

	propertyID := uint(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			propertyID++
			views := []PropertyView{contractView(propertyID, "Сидоров", tt.end)}

			events := service.Evaluate(views, today, notified)
			if len(events) != tt.wantCount {
				t.Fatalf("получено %d событий, want %d", len(events), tt.wantCount)
			}
			if tt.wantCount == 1 {
				if events[0].Kind != AlertKindContract {
					t.Errorf("Kind = %v, want %v", events[0].Kind, AlertKindContract)
				}
				if !strings.Contains(events[0].Body, tt.wantBody) {
					t.Errorf("Body = %q, нет %q", events[0].Body, tt.wantBody)
				}
			}
		})
	}
}

func TestEvaluateContractMilestoneFiresOnce(t *testing.T) {
	service := NewAlertService(&fakeNotifier{}, 5)
	today := date(2025, time.March, 1)
	notified := make(map[string]bool)
	views := []PropertyView{contractView(1, "Сидоров", today.AddDate(0, 0, 30))}

	if got := len(service.Evaluate(views, today, notified)); got != 1 {
		t.Fatalf("первый вызов: %d событий, want 1", got)
	}

	// Та же веха не срабатывает повторно даже на следующий день
	if got := len(service.Evaluate(views, today, notified)); got != 0 {
		t.Errorf("повторный вызов: %d событий, want 0", got)
	}
}

func TestRunCycleIdempotentSameDay(t *testing.T) {
	notifier := &fakeNotifier{}
	service := NewAlertService(notifier, 5)
	today := date(2025, time.March, 20)
	views := []PropertyView{
		lateView(1, "Иванов", date(2025, time.March, 10)),
		contractView(2, "Петров", today.AddDate(0, 0, 7)),
	}

	service.RunCycle(views, today)
	service.RunCycle(views, today)

	if len(notifier.delivered) != 2 {
		t.Errorf("доставлено %d уведомлений, want 2: %v", len(notifier.delivered), notifier.delivered)
	}
}

func TestDispatchFailureDoesNotBlockOthers(t *testing.T) {
	notifier := &fakeNotifier{failBodies: map[string]bool{
		"Платеж от Иванов просрочен на 10 дн.": true,
	}}
	service := NewAlertService(notifier, 5)
	today := date(2025, time.March, 20)
	views := []PropertyView{
		lateView(1, "Иванов", date(2025, time.March, 10)),
		lateView(2, "Петров", date(2025, time.March, 12)),
	}

	events := service.RunCycle(views, today)
	if len(events) != 2 {
		t.Fatalf("получено %d событий, want 2", len(events))
	}

	// Сбой первой доставки не мешает второй
	if len(notifier.delivered) != 1 {
		t.Fatalf("доставлено %d уведомлений, want 1", len(notifier.delivered))
	}
	if !strings.Contains(notifier.delivered[0], "Петров") {
		t.Errorf("доставлено не то уведомление: %v", notifier.delivered)
	}

	// Ключ фиксируется и при сбое доставки: в тот же день повтора нет
	if got := len(service.RunCycle(views, today)); got != 0 {
		t.Errorf("повторный цикл вернул %d событий, want 0", got)
	}
}

func TestPruneNotifiedBefore(t *testing.T) {
	service := NewAlertService(&fakeNotifier{}, 5)
	yesterday := date(2025, time.March, 19)
	today := date(2025, time.March, 20)
	views := []PropertyView{
		lateView(1, "Иванов", date(2025, time.March, 10)),
		contractView(2, "Петров", yesterday.AddDate(0, 0, 30)),
	}

	service.RunCycle(views, yesterday)

	removed := service.PruneNotifiedBefore(today)
	if removed != 1 {
		t.Errorf("удалено %d ключей, want 1", removed)
	}

	// Веха договора не должна сработать повторно после очистки
	views[1].ContractEnd = func() *time.Time { end := yesterday.AddDate(0, 0, 30); return &end }()
	events := service.Evaluate(views, yesterday, service.notified)
	for _, event := range events {
		if event.Kind == AlertKindContract {
			t.Errorf("веха договора сработала повторно после очистки")
		}
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		from, to time.Time
		want     int
	}{
		{date(2025, time.March, 10), date(2025, time.March, 15), 5},
		{date(2025, time.March, 15), date(2025, time.March, 10), -5},
		{date(2025, time.March, 15), date(2025, time.March, 15), 0},
		{date(2025, time.February, 27), date(2025, time.March, 2), 3},
		// Время суток не учитывается
		{time.Date(2025, time.March, 10, 23, 0, 0, 0, time.UTC), time.Date(2025, time.March, 11, 1, 0, 0, 0, time.UTC), 1},
	}

	for _, tt := range tests {
		if got := daysBetween(tt.from, tt.to); got != tt.want {
			t.Errorf("daysBetween(%v, %v) = %d, want %d", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestDaysBetweenMixedLocations(t *testing.T) {
	// Считаются календарные дни, а не 24-часовые интервалы:
	// "сегодня" в локальном поясе против даты договора в UTC
	westOfUTC := time.FixedZone("UTC-5", -5*60*60)
	eastOfUTC := time.FixedZone("UTC+9", 9*60*60)

	tests := []struct {
		from, to time.Time
		want     int
	}{
		{time.Date(2025, time.March, 1, 9, 30, 0, 0, westOfUTC), date(2025, time.March, 31), 30},
		{time.Date(2025, time.March, 1, 9, 30, 0, 0, eastOfUTC), date(2025, time.March, 31), 30},
		{time.Date(2025, time.March, 24, 23, 0, 0, 0, westOfUTC), date(2025, time.March, 31), 7},
		{time.Date(2025, time.March, 31, 1, 0, 0, 0, westOfUTC), date(2025, time.March, 31), 0},
	}

	for _, tt := range tests {
		if got := daysBetween(tt.from, tt.to); got != tt.want {
			t.Errorf("daysBetween(%v, %v) = %d, want %d", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestEvaluateContractMilestoneAcrossTimeZones(t *testing.T) {
	service := NewAlertService(&fakeNotifier{}, 5)

	// Сегодня в поясе западнее UTC, дата окончания договора из базы в UTC,
	// ровно через 30 календарных дней
	westOfUTC := time.FixedZone("UTC-5", -5*60*60)
	today := time.Date(2025, time.March, 1, 9, 30, 0, 0, westOfUTC)
	views := []PropertyView{contractView(1, "Сидоров", date(2025, time.March, 31))}

	events := service.Evaluate(views, today, make(map[string]bool))
	if len(events) != 1 {
		t.Fatalf("получено %d событий, want 1", len(events))
	}
	if events[0].Kind != AlertKindContract {
		t.Errorf("Kind = %v, want %v", events[0].Kind, AlertKindContract)
	}
	if !strings.Contains(events[0].Body, "через 30 дн") {
		t.Errorf("Body = %q, нет %q", events[0].Body, "через 30 дн")
	}
}
