package models

import "time"

type MenuItem struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"size:100;not null"`
	Category  string  `gorm:"size:50"` // çay, tatlı, atıştırmalık...
	Price     float64 `gorm:"not null"`
	IsActive  bool    `gorm:"default:true;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
