package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentStatus представляет статус аренды по объекту
type PaymentStatus string

const (
	PaymentStatusPaid     PaymentStatus = "PAID"      // Аренда за текущий месяц оплачена
	PaymentStatusLate     PaymentStatus = "LATE"      // Срок оплаты прошел, платежа нет
	PaymentStatusDueToday PaymentStatus = "DUE_TODAY" // Срок оплаты наступает сегодня
	PaymentStatusPending  PaymentStatus = "PENDING"   // Срок оплаты еще не наступил
)

// Payment представляет запись об оплате аренды.
// Журнал платежей только пополняется: записи не изменяются и не удаляются,
// кроме каскадного удаления вместе с объектом.
type Payment struct {
	gorm.Model
	PropertyID uint          `gorm:"not null;index"`
	Property   Property      `gorm:"foreignKey:PropertyID"`
	DueDate    time.Time     `gorm:"not null"` // Дата, которую погашает этот платеж
	Status     PaymentStatus `gorm:"type:varchar(20);not null;default:'PAID'"`
	PaidAt     *time.Time    // Дата фактической регистрации платежа
}

// TableName возвращает имя таблицы для модели Payment
func (Payment) TableName() string {
	return "payments"
}
