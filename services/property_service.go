package services

import (
	"errors"
	"strings"
	"time"

	"rentProject/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// PropertyDTO представляет данные для создания или изменения объекта аренды
type PropertyDTO struct {
	TenantName    string  `json:"tenant_name" validate:"required,min=2,max=100"`
	TenantPhone   string  `json:"tenant_phone" validate:"required,min=8,max=20"`
	Address       string  `json:"address" validate:"required,min=5,max=255"`
	RentAmount    float64 `json:"rent_amount" validate:"required,gt=0"`
	RentDueDay    int     `json:"rent_due_day" validate:"required,gte=1,lte=31"`
	ContractStart string  `json:"contract_start" validate:"omitempty,datetime=2006-01-02"`
	ContractEnd   string  `json:"contract_end" validate:"omitempty,datetime=2006-01-02"`
}

// PaymentDTO представляет запись журнала платежей
type PaymentDTO struct {
	ID      uint       `json:"id"`
	DueDate time.Time  `json:"due_date"`
	Status  string     `json:"status"`
	PaidAt  *time.Time `json:"paid_at,omitempty"`
}

// ContractState представляет состояние договора аренды
type ContractState string

const (
	ContractStateActive   ContractState = "ACTIVE"
	ContractStateExpiring ContractState = "EXPIRING" // До окончания 30 дней или меньше
	ContractStateExpired  ContractState = "EXPIRED"
)

// PropertyDetailDTO представляет объект аренды с историей платежей
type PropertyDetailDTO struct {
	PropertyView
	ContractState ContractState `json:"contract_state,omitempty"`
	History       []PaymentDTO  `json:"history"`
}

// DashboardDTO представляет сводку и отсортированный список объектов
type DashboardDTO struct {
	Summary    FinancialSummary `json:"summary"`
	Properties []PropertyView   `json:"properties"`
}

// PropertyService предоставляет методы для работы с объектами аренды
type PropertyService struct {
	db          *gorm.DB
	validator   *validator.Validate
	status      *StatusService
	countryCode string
}

// NewPropertyService создает новый экземпляр PropertyService
func NewPropertyService(db *gorm.DB, status *StatusService, countryCode string) *PropertyService {
	return &PropertyService{
		db:          db,
		validator:   validator.New(),
		status:      status,
		countryCode: countryCode,
	}
}

// validateDTO проверяет DTO и собирает сообщения об ошибках
func (s *PropertyService) validateDTO(dto interface{}) error {
	if err := s.validator.Struct(dto); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				errorMessages = append(errorMessages, "поле "+e.Field()+" обязательно")
			case "gt":
				errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть больше 0")
			case "gte", "lte":
				errorMessages = append(errorMessages, "поле "+e.Field()+" вне допустимого диапазона")
			case "min", "max":
				errorMessages = append(errorMessages, "поле "+e.Field()+" имеет недопустимую длину")
			case "datetime":
				errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть датой в формате ГГГГ-ММ-ДД")
			default:
				errorMessages = append(errorMessages, "поле "+e.Field()+" заполнено неверно")
			}
		}
		return errors.New(strings.Join(errorMessages, "; "))
	}
	return nil
}

// normalizePhone оставляет в номере только цифры и добавляет код страны
func (s *PropertyService) normalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	normalized := digits.String()
	if normalized == "" {
		return normalized
	}
	if !strings.HasPrefix(normalized, s.countryCode) {
		normalized = s.countryCode + normalized
	}
	return normalized
}

// parseDate разбирает дату без времени суток
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, errors.New("неверный формат даты: " + value)
	}
	return &parsed, nil
}

func (s *PropertyService) applyDTO(property *models.Property, dto PropertyDTO) error {
	contractStart, err := parseDate(dto.ContractStart)
	if err != nil {
		return err
	}
	contractEnd, err := parseDate(dto.ContractEnd)
	if err != nil {
		return err
	}

	property.TenantName = dto.TenantName
	property.TenantPhone = s.normalizePhone(dto.TenantPhone)
	property.Address = dto.Address
	property.RentAmount = dto.RentAmount
	property.RentDueDay = dto.RentDueDay
	property.ContractStart = contractStart
	property.ContractEnd = contractEnd
	return nil
}

// Create создает новый объект аренды
func (s *PropertyService) Create(dto PropertyDTO) (*PropertyView, error) {
	if err := s.validateDTO(dto); err != nil {
		return nil, err
	}

	var property models.Property
	if err := s.applyDTO(&property, dto); err != nil {
		return nil, err
	}

	if err := s.db.Create(&property).Error; err != nil {
		return nil, errors.New("ошибка при создании объекта аренды")
	}

	view, err := s.buildView(property, nil, time.Now())
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// Update изменяет существующий объект аренды
func (s *PropertyService) Update(id uint, dto PropertyDTO) (*PropertyView, error) {
	if err := s.validateDTO(dto); err != nil {
		return nil, err
	}

	var property models.Property
	if err := s.db.First(&property, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("объект аренды не найден")
		}
		return nil, errors.New("ошибка при поиске объекта аренды")
	}

	if err := s.applyDTO(&property, dto); err != nil {
		return nil, err
	}

	if err := s.db.Save(&property).Error; err != nil {
		return nil, errors.New("ошибка при обновлении объекта аренды")
	}

	today := time.Now()
	payments, err := s.currentMonthPayments(property.ID, today)
	if err != nil {
		return nil, err
	}
	view, err := s.buildView(property, payments, today)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// Delete удаляет объект аренды вместе с журналом платежей
func (s *PropertyService) Delete(id uint) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return errors.New("ошибка при начале транзакции")
	}

	var property models.Property
	if err := tx.First(&property, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("объект аренды не найден")
		}
		return errors.New("ошибка при поиске объекта аренды")
	}

	if err := tx.Where("property_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
		tx.Rollback()
		return errors.New("ошибка при удалении платежей")
	}

	if err := tx.Delete(&property).Error; err != nil {
		tx.Rollback()
		return errors.New("ошибка при удалении объекта аренды")
	}

	if err := tx.Commit().Error; err != nil {
		return errors.New("ошибка при подтверждении транзакции")
	}

	return nil
}

// monthWindow возвращает границы текущего месяца
func monthWindow(today time.Time) (time.Time, time.Time) {
	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	end := time.Date(today.Year(), today.Month(), daysInMonth(today), 23, 59, 59, 0, today.Location())
	return start, end
}

func (s *PropertyService) currentMonthPayments(propertyID uint, today time.Time) ([]models.Payment, error) {
	start, end := monthWindow(today)
	var payments []models.Payment
	if err := s.db.Where("property_id = ? AND due_date >= ? AND due_date <= ?", propertyID, start, end).
		Find(&payments).Error; err != nil {
		return nil, errors.New("ошибка при получении платежей")
	}
	return payments, nil
}

func (s *PropertyService) buildView(property models.Property, currentMonthPayments []models.Payment, today time.Time) (PropertyView, error) {
	status, err := s.status.DeriveStatus(property.RentDueDay, currentMonthPayments, today)
	if err != nil {
		return PropertyView{}, err
	}

	return PropertyView{
		ID:      property.ID,
		Address: property.Address,
		Tenant: TenantDTO{
			Name:  property.TenantName,
			Phone: property.TenantPhone,
		},
		RentAmount:    property.RentAmount,
		RentDueDay:    property.RentDueDay,
		DueDate:       EffectiveDueDate(property.RentDueDay, today),
		Status:        status,
		ContractStart: property.ContractStart,
		ContractEnd:   property.ContractEnd,
	}, nil
}

// GetPropertyViews загружает все объекты, вычисляет статусы по платежам
// текущего месяца и возвращает список, отсортированный по срочности
func (s *PropertyService) GetPropertyViews(today time.Time) ([]PropertyView, error) {
	var properties []models.Property
	if err := s.db.Order("id ASC").Find(&properties).Error; err != nil {
		return nil, errors.New("ошибка при получении объектов аренды")
	}

	start, end := monthWindow(today)
	var payments []models.Payment
	if err := s.db.Where("due_date >= ? AND due_date <= ?", start, end).Find(&payments).Error; err != nil {
		return nil, errors.New("ошибка при получении платежей")
	}

	paymentsByProperty := make(map[uint][]models.Payment, len(properties))
	for _, payment := range payments {
		paymentsByProperty[payment.PropertyID] = append(paymentsByProperty[payment.PropertyID], payment)
	}

	views := make([]PropertyView, 0, len(properties))
	for _, property := range properties {
		view, err := s.buildView(property, paymentsByProperty[property.ID], today)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return s.status.Rank(views), nil
}

// FilterViews оставляет объекты, в которых имя арендатора или адрес
// содержат строку поиска
func FilterViews(views []PropertyView, query string) []PropertyView {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return views
	}
	filtered := make([]PropertyView, 0, len(views))
	for _, view := range views {
		if strings.Contains(strings.ToLower(view.Tenant.Name), query) ||
			strings.Contains(strings.ToLower(view.Address), query) {
			filtered = append(filtered, view)
		}
	}
	return filtered
}

// Dashboard возвращает сводку месяца и отсортированный список объектов
func (s *PropertyService) Dashboard(today time.Time, query string) (*DashboardDTO, error) {
	views, err := s.GetPropertyViews(today)
	if err != nil {
		return nil, err
	}

	return &DashboardDTO{
		Summary:    s.status.Summarize(views),
		Properties: FilterViews(views, query),
	}, nil
}

// contractState вычисляет состояние договора на сегодняшний день
func contractState(contractEnd *time.Time, today time.Time) ContractState {
	if contractEnd == nil {
		return ""
	}
	diffDays := daysBetween(today, *contractEnd)
	switch {
	case diffDays < 0:
		return ContractStateExpired
	case diffDays <= 30:
		return ContractStateExpiring
	default:
		return ContractStateActive
	}
}

// GetPropertyDetail возвращает объект с историей последних платежей
func (s *PropertyService) GetPropertyDetail(id uint, today time.Time, historyLimit int) (*PropertyDetailDTO, error) {
	var property models.Property
	if err := s.db.First(&property, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("объект аренды не найден")
		}
		return nil, errors.New("ошибка при поиске объекта аренды")
	}

	payments, err := s.currentMonthPayments(property.ID, today)
	if err != nil {
		return nil, err
	}

	view, err := s.buildView(property, payments, today)
	if err != nil {
		return nil, err
	}

	history, err := s.GetPaymentHistory(property.ID, historyLimit)
	if err != nil {
		return nil, err
	}

	return &PropertyDetailDTO{
		PropertyView:  view,
		ContractState: contractState(property.ContractEnd, today),
		History:       history,
	}, nil
}

// GetPaymentHistory возвращает последние записи журнала платежей
func (s *PropertyService) GetPaymentHistory(propertyID uint, limit int) ([]PaymentDTO, error) {
	var payments []models.Payment
	query := s.db.Where("property_id = ?", propertyID).Order("due_date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&payments).Error; err != nil {
		return nil, errors.New("ошибка при получении истории платежей")
	}

	history := make([]PaymentDTO, len(payments))
	for i, payment := range payments {
		history[i] = PaymentDTO{
			ID:      payment.ID,
			DueDate: payment.DueDate,
			Status:  string(payment.Status),
			PaidAt:  payment.PaidAt,
		}
	}
	return history, nil
}

// ConfirmPayment регистрирует оплату аренды за текущий месяц.
// Журнал только пополняется: повторная оплата месяца отклоняется.
func (s *PropertyService) ConfirmPayment(propertyID uint, today time.Time) (*PaymentDTO, error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("ошибка при начале транзакции")
	}

	var property models.Property
	if err := tx.First(&property, propertyID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("объект аренды не найден")
		}
		return nil, errors.New("ошибка при поиске объекта аренды")
	}

	start, end := monthWindow(today)
	var paidCount int64
	if err := tx.Model(&models.Payment{}).
		Where("property_id = ? AND status = ? AND due_date >= ? AND due_date <= ?",
			propertyID, models.PaymentStatusPaid, start, end).
		Count(&paidCount).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при проверке платежей")
	}
	if paidCount > 0 {
		tx.Rollback()
		return nil, errors.New("аренда за текущий месяц уже оплачена")
	}

	now := time.Now()
	payment := models.Payment{
		PropertyID: propertyID,
		DueDate:    EffectiveDueDate(property.RentDueDay, today),
		Status:     models.PaymentStatusPaid,
		PaidAt:     &now,
	}

	if err := tx.Create(&payment).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при создании платежа")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, errors.New("ошибка при подтверждении транзакции")
	}

	return &PaymentDTO{
		ID:      payment.ID,
		DueDate: payment.DueDate,
		Status:  string(payment.Status),
		PaidAt:  payment.PaidAt,
	}, nil
}
