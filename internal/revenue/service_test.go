package revenue

import (
	"errors"
	"testing"
	"time"

	"cayevi-backend/internal/database"
	"cayevi-backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("test veritabanı açılamadı: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB alınamadı: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migration başarısız: %v", err)
	}
	return db
}

func TestComputeDailySummary(t *testing.T) {
	db := openTestDB(t)
	today := time.Now().Format("2006-01-02")

	// İki siparişin ödemeleri: biri split (iki kayıt), biri tek cash
	payments := []models.Payment{
		{OrderID: 1, Method: models.PaymentMethodCash, Amount: 60, CreatedBy: 1},
		{OrderID: 1, Method: models.PaymentMethodOnline, Amount: 40, CreatedBy: 1},
		{OrderID: 2, Method: models.PaymentMethodCash, Amount: 50, CreatedBy: 1},
	}
	if err := db.Create(&payments).Error; err != nil {
		t.Fatalf("ödemeler oluşturulamadı: %v", err)
	}

	expenses := []models.Expense{
		{Title: "Çay ocağı tüpü", Amount: 30, CreatedBy: 1},
		{Title: "Peçete", Amount: 10, CreatedBy: 1},
	}
	if err := db.Create(&expenses).Error; err != nil {
		t.Fatalf("giderler oluşturulamadı: %v", err)
	}

	summary, err := ComputeDailySummary(db, today)
	if err != nil {
		t.Fatalf("özet hesaplanamadı: %v", err)
	}

	if summary.CashRevenue != 110 {
		t.Fatalf("cash 110 bekleniyordu, got %v", summary.CashRevenue)
	}
	if summary.OnlineRevenue != 40 {
		t.Fatalf("online 40 bekleniyordu, got %v", summary.OnlineRevenue)
	}
	if summary.TotalRevenue != 150 {
		t.Fatalf("toplam 150 bekleniyordu, got %v", summary.TotalRevenue)
	}
	if summary.TotalExpenses != 40 {
		t.Fatalf("gider 40 bekleniyordu, got %v", summary.TotalExpenses)
	}
	if summary.NetProfit != 110 {
		t.Fatalf("net kar 110 bekleniyordu, got %v", summary.NetProfit)
	}
	// Split ödenen sipariş bir kez sayılır
	if summary.OrderCount != 2 {
		t.Fatalf("2 sipariş bekleniyordu, got %d", summary.OrderCount)
	}
}

func TestComputeDailySummaryExcludesOtherDays(t *testing.T) {
	db := openTestDB(t)

	yesterday := time.Now().AddDate(0, 0, -1)
	old := models.Payment{OrderID: 1, Method: models.PaymentMethodCash, Amount: 500, CreatedBy: 1, CreatedAt: yesterday}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("ödeme oluşturulamadı: %v", err)
	}

	today := time.Now().Format("2006-01-02")
	summary, err := ComputeDailySummary(db, today)
	if err != nil {
		t.Fatalf("özet hesaplanamadı: %v", err)
	}
	if summary.TotalRevenue != 0 || summary.OrderCount != 0 {
		t.Fatalf("dünün ödemesi bugüne sayılmamalı: %+v", summary)
	}

	yesterdayStr := yesterday.Format("2006-01-02")
	summary, err = ComputeDailySummary(db, yesterdayStr)
	if err != nil {
		t.Fatalf("özet hesaplanamadı: %v", err)
	}
	if summary.CashRevenue != 500 || summary.OrderCount != 1 {
		t.Fatalf("dünün özeti 500/1 olmalı: %+v", summary)
	}
}

func TestComputeDailySummaryInvalidDate(t *testing.T) {
	db := openTestDB(t)

	if _, err := ComputeDailySummary(db, "15-01-2025"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("ErrInvalidDate bekleniyordu, got %v", err)
	}
}

func TestComputeDailySummaryEmptyDay(t *testing.T) {
	db := openTestDB(t)

	summary, err := ComputeDailySummary(db, "2024-01-01")
	if err != nil {
		t.Fatalf("boş gün için özet hesaplanamadı: %v", err)
	}
	if summary.TotalRevenue != 0 || summary.TotalExpenses != 0 || summary.NetProfit != 0 || summary.OrderCount != 0 {
		t.Fatalf("boş gün sıfır dönmeli: %+v", summary)
	}
}
