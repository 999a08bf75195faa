package models

import "time"

// DailyRevenue - gün bazlı ciro toplamları. Her tahsilatta artımlı olarak
// upsert edilir, hiçbir zaman sıfırdan hesaplanmaz. Toplam ciro türetilmiş
// değerdir (cash + online), ayrıca saklanmaz.
type DailyRevenue struct {
	ID          uint      `gorm:"primaryKey"`
	Date        string    `gorm:"size:10;uniqueIndex;not null"` // "2006-01-02", sunucu saati
	CashTotal   float64   `gorm:"not null;default:0"`
	OnlineTotal float64   `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TotalRevenue - türetilmiş toplam
func (d DailyRevenue) TotalRevenue() float64 {
	return d.CashTotal + d.OnlineTotal
}
