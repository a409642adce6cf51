package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Property представляет сдаваемый в аренду объект
type Property struct {
	gorm.Model
	Address       string     `gorm:"not null;size:255"`
	TenantName    string     `gorm:"column:tenant_name;not null;size:100;index"`
	TenantPhone   string     `gorm:"column:tenant_phone;not null;size:20"`
	RentAmount    float64    `gorm:"not null"`
	RentDueDay    int        `gorm:"not null"` // День месяца, в который должна быть оплачена аренда (1-31)
	ContractStart *time.Time // Дата начала договора аренды
	ContractEnd   *time.Time // Дата окончания договора аренды
	Payments      []Payment  `gorm:"foreignKey:PropertyID"`
}

// TableName возвращает имя таблицы для модели Property
func (Property) TableName() string {
	return "properties"
}

// BeforeSave хук для валидации перед сохранением
func (p *Property) BeforeSave(tx *gorm.DB) error {
	if p.RentDueDay < 1 || p.RentDueDay > 31 {
		return errors.New("rent due day must be between 1 and 31")
	}
	if p.RentAmount <= 0 {
		return errors.New("rent amount must be positive")
	}
	if p.ContractStart != nil && p.ContractEnd != nil && p.ContractEnd.Before(*p.ContractStart) {
		return errors.New("contract end must not precede contract start")
	}
	return nil
}
