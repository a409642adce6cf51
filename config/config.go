package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config представляет конфигурацию приложения
type Config struct {
	Server struct {
		Port int
	}
	DB struct {
		Host     string
		Port     int
		User     string
		Password string
		DBName   string
	}
	SMTP struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}
	Owner struct {
		Email string // Адрес владельца для уведомлений
	}
	Alerts struct {
		LateThresholdDays int // Порог просрочки в днях для уведомления
		CycleMinutes      int // Интервал цикла проверки уведомлений в минутах
	}
	DefaultCountryCode string // Код страны для нормализации телефонов
}

// NewConfig создает новый экземпляр конфигурации
func NewConfig() (*Config, error) {
	cfg := &Config{}

	// Настройки сервера
	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("неверный формат порта сервера: %v", err)
	}
	cfg.Server.Port = port

	// Настройки базы данных
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("неверный формат порта базы данных: %v", err)
	}
	cfg.DB.Port = dbPort
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.DBName = getEnv("DB_NAME", "rent_db")

	// Настройки SMTP
	cfg.SMTP.Host = getEnv("SMTP_HOST", "smtp.gmail.com")
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("неверный формат порта SMTP: %v", err)
	}
	cfg.SMTP.Port = smtpPort
	cfg.SMTP.Username = getEnv("SMTP_USERNAME", "your-email@gmail.com")
	cfg.SMTP.Password = getEnv("SMTP_PASSWORD", "your-app-password")
	cfg.SMTP.From = getEnv("SMTP_FROM", "your-email@gmail.com")

	// Настройки уведомлений
	cfg.Owner.Email = getEnv("OWNER_EMAIL", cfg.SMTP.From)
	lateThreshold, err := strconv.Atoi(getEnv("ALERT_LATE_THRESHOLD_DAYS", "5"))
	if err != nil {
		return nil, fmt.Errorf("неверный формат порога просрочки: %v", err)
	}
	cfg.Alerts.LateThresholdDays = lateThreshold
	cycleMinutes, err := strconv.Atoi(getEnv("ALERT_CYCLE_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("неверный формат интервала проверки: %v", err)
	}
	cfg.Alerts.CycleMinutes = cycleMinutes

	// Нормализация телефонов
	cfg.DefaultCountryCode = getEnv("DEFAULT_COUNTRY_CODE", "7")

	return cfg, nil
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
