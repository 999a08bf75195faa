package models

import "time"

type OrderStatus string

const (
	OrderStatusTaken     OrderStatus = "taken"     // sipariş alındı
	OrderStatusPrepared  OrderStatus = "prepared"  // hazırlandı
	OrderStatusDelivered OrderStatus = "delivered" // teslim edildi
	OrderStatusPaid      OrderStatus = "paid"      // ödendi (terminal)
)

// statusRank - durum sıralaması, sadece ileri geçişe izin verilir
var statusRank = map[OrderStatus]int{
	OrderStatusTaken:     1,
	OrderStatusPrepared:  2,
	OrderStatusDelivered: 3,
	OrderStatusPaid:      4,
}

// ValidStatus - bilinen bir sipariş durumu mu?
func ValidStatus(s OrderStatus) bool {
	_, ok := statusRank[s]
	return ok
}

// StatusAfter - b, a'dan kesin olarak sonra mı geliyor?
func StatusAfter(a, b OrderStatus) bool {
	return statusRank[b] > statusRank[a]
}

type PaymentMethod string

const (
	PaymentMethodNone   PaymentMethod = ""
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodOnline PaymentMethod = "online"
	PaymentMethodSplit  PaymentMethod = "split" // sadece Order.PaymentMethod için, Payment kaydı olmaz
)

type Order struct {
	ID uint `gorm:"primaryKey"`

	// Masa silinebilir, sipariş kalır (TableID null olur)
	TableID *uint  `gorm:"index"`
	Table   *Table `gorm:"constraint:OnDelete:SET NULL"`

	// Siparişi alan çalışan
	CreatedBy uint `gorm:"index;not null"`
	Creator   User `gorm:"foreignKey:CreatedBy"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	Status OrderStatus `gorm:"size:20;not null;default:taken;index"`

	// Her edit'te kalemlerden yeniden hesaplanır
	TotalPrice float64 `gorm:"not null"`

	// Sadece paid geçişinde set edilir: cash / online / split
	PaymentMethod PaymentMethod `gorm:"size:20"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem - sipariş kalemi. İsim ve fiyat sipariş anındaki snapshot'tır,
// menü sonradan değişse bile sipariş etkilenmez.
type OrderItem struct {
	ID         uint    `gorm:"primaryKey"`
	OrderID    uint    `gorm:"index;not null"`
	MenuItemID uint    `gorm:"not null"` // referans, FK constraint yok (menü silinebilir)
	Name       string  `gorm:"size:100;not null"`
	Quantity   int     `gorm:"not null"`
	UnitPrice  float64 `gorm:"not null"`
}
