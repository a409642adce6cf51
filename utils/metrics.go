package utils

import (
	"sync"
	"time"
)

// Metrics содержит метрики приложения
type Metrics struct {
	mu sync.RWMutex

	// Метрики запросов
	TotalRequests   int64
	FailedRequests  int64
	RequestLatency  time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time

	// Метрики уведомлений
	EmittedAlerts    int64
	DeliveredAlerts  int64
	FailedDeliveries int64
	AlertsByKind     map[string]int64
	LastAlertTime    time.Time

	// Метрики ошибок
	ErrorCount    int64
	LastErrorTime time.Time
	ErrorTypes    map[string]int64
}

var (
	metrics     *Metrics
	metricsOnce sync.Once
)

// GetMetrics возвращает экземпляр метрик
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			AlertsByKind: make(map[string]int64),
			ErrorTypes:   make(map[string]int64),
		}
	})
	return metrics
}

// RecordRequest записывает метрики запроса
func (m *Metrics) RecordRequest(duration time.Duration, failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests++
	m.RequestLatency += duration
	m.AverageLatency = m.RequestLatency / time.Duration(m.TotalRequests)
	m.LastRequestTime = time.Now()

	if failed {
		m.FailedRequests++
	}
}

// RecordAlert записывает метрики созданного уведомления
func (m *Metrics) RecordAlert(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.EmittedAlerts++
	m.AlertsByKind[kind]++
	m.LastAlertTime = time.Now()
}

// RecordDelivery записывает метрики доставки уведомления
func (m *Metrics) RecordDelivery(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.FailedDeliveries++
		m.recordErrorLocked(err)
		return
	}
	m.DeliveredAlerts++
}

// RecordError записывает метрики ошибки
func (m *Metrics) RecordError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordErrorLocked(err)
}

func (m *Metrics) recordErrorLocked(err error) {
	m.ErrorCount++
	m.LastErrorTime = time.Now()

	errorType := "unknown"
	if err != nil {
		errorType = err.Error()
	}
	m.ErrorTypes[errorType]++
}

// Snapshot возвращает копию метрик для отдачи наружу
func (m *Metrics) Snapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byKind := make(map[string]int64, len(m.AlertsByKind))
	for k, v := range m.AlertsByKind {
		byKind[k] = v
	}

	return map[string]interface{}{
		"total_requests":    m.TotalRequests,
		"failed_requests":   m.FailedRequests,
		"average_latency":   m.AverageLatency.String(),
		"emitted_alerts":    m.EmittedAlerts,
		"delivered_alerts":  m.DeliveredAlerts,
		"failed_deliveries": m.FailedDeliveries,
		"alerts_by_kind":    byKind,
		"error_count":       m.ErrorCount,
	}
}
