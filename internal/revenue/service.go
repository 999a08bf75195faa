package revenue

import (
	"errors"
	"time"

	"cayevi-backend/internal/models"

	"gorm.io/gorm"
)

var ErrInvalidDate = errors.New("revenue: tarih formatı 'YYYY-MM-DD' olmalı")

type DailySummary struct {
	Date          string  `json:"date"`
	TotalRevenue  float64 `json:"total_revenue"`
	CashRevenue   float64 `json:"cash_revenue"`
	OnlineRevenue float64 `json:"online_revenue"`
	TotalExpenses float64 `json:"total_expenses"`
	NetProfit     float64 `json:"net_profit"`
	OrderCount    int64   `json:"order_count"`
}

// ComputeDailySummary - günlük özeti ödeme kayıtlarından (asıl kaynak)
// yeniden hesapla. Tahsilat sırasında artımlı tutulan daily_revenues
// tablosundan bağımsızdır; iki kaynak birbirine karşı mutabakat edilmez.
func ComputeDailySummary(db *gorm.DB, dateStr string) (*DailySummary, error) {
	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, ErrInvalidDate
	}
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var payments []models.Payment
	if err := db.Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
		Find(&payments).Error; err != nil {
		return nil, err
	}

	summary := DailySummary{Date: dateStr}
	paidOrders := make(map[uint]bool)
	for _, p := range payments {
		switch p.Method {
		case models.PaymentMethodCash:
			summary.CashRevenue += p.Amount
		case models.PaymentMethodOnline:
			summary.OnlineRevenue += p.Amount
		}
		paidOrders[p.OrderID] = true
	}
	summary.TotalRevenue = summary.CashRevenue + summary.OnlineRevenue
	summary.OrderCount = int64(len(paidOrders))

	var expenses []models.Expense
	if err := db.Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	for _, e := range expenses {
		summary.TotalExpenses += e.Amount
	}

	summary.NetProfit = summary.TotalRevenue - summary.TotalExpenses
	return &summary, nil
}
