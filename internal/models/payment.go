package models

import "time"

// Payment - tahsilat kaydı. Split ödemede yöntem başına bir kayıt açılır
// (cash + online), hiçbir zaman "split" yöntemli kayıt olmaz.
// Normal akışta asla güncellenmez veya silinmez.
type Payment struct {
	ID        uint          `gorm:"primaryKey"`
	OrderID   uint          `gorm:"index;not null"`
	Order     Order         `gorm:"foreignKey:OrderID"`
	Method    PaymentMethod `gorm:"size:20;not null"` // cash / online
	Amount    float64       `gorm:"not null"`
	CreatedBy uint          `gorm:"not null"` // tahsilatı yapan admin
	CreatedAt time.Time     `gorm:"index"`
}
