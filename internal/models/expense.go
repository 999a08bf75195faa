package models

import "time"

// Expense - gider kaydı. Siparişlerden bağımsızdır, sadece günlük özetten
// düşülür. Muhasebe günü CreatedAt'in tarihidir.
type Expense struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"size:255;not null"`
	Amount    float64   `gorm:"not null"`
	CreatedBy uint      `gorm:"not null"`
	Creator   User      `gorm:"foreignKey:CreatedBy"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}
