package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"rentProject/config"
	"rentProject/controllers"
	"rentProject/database"
	"rentProject/middleware"
	"rentProject/services"
	"rentProject/utils"

	"github.com/gorilla/mux"
)

// healthHandler отвечает на запрос проверки работоспособности
func healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// metricsHandler отдает текущие метрики приложения
func metricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(utils.GetMetrics().Snapshot())
}

func initAlertScheduler(db *database.Database, cfg *config.Config, emailService *services.EmailService) *services.PropertyService {
	// Создаем сервис статусов и сервис объектов аренды
	statusService := services.NewStatusService()
	propertyService := services.NewPropertyService(db.DB, statusService, cfg.DefaultCountryCode)

	// Создаем сервис уведомлений
	alertService := services.NewAlertService(emailService, cfg.Alerts.LateThresholdDays)

	// Запускаем планировщик уведомлений
	scheduler := services.NewAlertSchedulerService(propertyService, alertService, time.Duration(cfg.Alerts.CycleMinutes)*time.Minute)
	scheduler.Start()
	log.Println("Планировщик уведомлений запущен")

	return propertyService
}

func main() {
	// Инициализируем конфигурацию
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Инициализируем подключение к базе данных
	db, err := database.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}

	// Инициализируем сервис email
	emailService := services.NewEmailService(cfg)

	// Запускаем планировщик уведомлений
	propertyService := initAlertScheduler(db, cfg, emailService)

	// Создаем роутер
	router := mux.NewRouter()
	router.Use(middleware.RecoveryMiddleware)
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.RateLimitMiddleware(utils.NewRateLimiter(100, time.Minute)))

	// Инициализируем контроллеры
	propertyController := controllers.NewPropertyController(propertyService)
	tenantController := controllers.NewTenantController(services.NewTenantService(propertyService))

	// Служебные маршруты
	router.HandleFunc("/health", healthHandler).Methods("GET")
	router.HandleFunc("/api/metrics", metricsHandler).Methods("GET")

	// Маршруты для работы с объектами аренды
	router.HandleFunc("/api/properties", propertyController.CreateProperty).Methods("POST")
	router.HandleFunc("/api/properties", propertyController.GetProperties).Methods("GET")
	router.HandleFunc("/api/properties/{id}", propertyController.GetProperty).Methods("GET")
	router.HandleFunc("/api/properties/{id}", propertyController.UpdateProperty).Methods("PUT")
	router.HandleFunc("/api/properties/{id}", propertyController.DeleteProperty).Methods("DELETE")
	router.HandleFunc("/api/properties/{id}/pay", propertyController.ConfirmPayment).Methods("POST")
	router.HandleFunc("/api/properties/{id}/payments", propertyController.GetPaymentHistory).Methods("GET")

	// Маршруты для работы с арендаторами
	router.HandleFunc("/api/tenants", tenantController.GetTenants).Methods("GET")
	router.HandleFunc("/api/tenants/{name}", tenantController.GetTenant).Methods("GET")

	// Маршрут для сводки месяца
	router.HandleFunc("/api/dashboard", propertyController.GetDashboard).Methods("GET")

	// Запускаем сервер
	port := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на порту %s", port)
	if err := http.ListenAndServe(port, router); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
