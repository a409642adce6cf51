package services

import (
	"log"
	"time"

	"rentProject/utils"
)

// AlertSchedulerService периодически запускает цикл проверки уведомлений
type AlertSchedulerService struct {
	properties *PropertyService
	alerts     *AlertService
	interval   time.Duration
}

// NewAlertSchedulerService создает новый экземпляр AlertSchedulerService
func NewAlertSchedulerService(properties *PropertyService, alerts *AlertService, interval time.Duration) *AlertSchedulerService {
	return &AlertSchedulerService{
		properties: properties,
		alerts:     alerts,
		interval:   interval,
	}
}

// Start запускает планировщик уведомлений
func (s *AlertSchedulerService) Start() {
	// Запускаем цикл проверки уведомлений с заданным интервалом
	cycleTicker := time.NewTicker(s.interval)
	go func() {
		for {
			select {
			case <-cycleTicker.C:
				if err := s.runCycle(); err != nil {
					log.Printf("Ошибка при цикле проверки уведомлений: %v", err)
				}
			}
		}
	}()

	// Раз в сутки чистим устаревшие дневные ключи просрочки
	pruneTicker := time.NewTicker(24 * time.Hour)
	go func() {
		for {
			select {
			case <-pruneTicker.C:
				removed := s.alerts.PruneNotifiedBefore(time.Now())
				if removed > 0 {
					log.Printf("Удалено устаревших ключей уведомлений: %d", removed)
				}
			}
		}
	}()
}

// runCycle выполняет один цикл: загружает объекты со статусами
// и передает их на оценку
func (s *AlertSchedulerService) runCycle() error {
	startTime := time.Now()
	today := time.Now()

	views, err := s.properties.GetPropertyViews(today)
	if err != nil {
		utils.LogCycle("alerts", startTime, 0, err)
		return err
	}

	events := s.alerts.RunCycle(views, today)
	utils.LogCycle("alerts", startTime, len(events), nil)
	return nil
}
