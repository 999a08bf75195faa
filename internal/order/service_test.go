package order

import (
	"errors"
	"testing"

	"cayevi-backend/internal/authz"
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

	// in-memory sqlite bağlantı başına ayrı veritabanı tutar
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

func adminActor() authz.Actor {
	return authz.Actor{UserID: 1, Name: "Patron", Role: models.RoleAdmin, Verified: true}
}

func employeeActor(id uint) authz.Actor {
	return authz.Actor{UserID: id, Name: "Garson", Role: models.RoleEmployee, Verified: true}
}

func seedFloor(t *testing.T, db *gorm.DB) (models.Table, models.MenuItem, models.MenuItem) {
	t.Helper()

	table := models.Table{Number: 1, Status: models.TableStatusEmpty}
	if err := db.Create(&table).Error; err != nil {
		t.Fatalf("masa oluşturulamadı: %v", err)
	}
	tea := models.MenuItem{Name: "Çay", Category: "içecek", Price: 15, IsActive: true}
	baklava := models.MenuItem{Name: "Baklava", Category: "tatlı", Price: 120.50, IsActive: true}
	if err := db.Create(&tea).Error; err != nil {
		t.Fatalf("menü ürünü oluşturulamadı: %v", err)
	}
	if err := db.Create(&baklava).Error; err != nil {
		t.Fatalf("menü ürünü oluşturulamadı: %v", err)
	}
	return table, tea, baklava
}

func TestCreateOrderSnapshotsAndOccupiesTable(t *testing.T) {
	db := openTestDB(t)
	table, tea, baklava := seedFloor(t, db)

	ord, err := Create(db, employeeActor(2), table.ID, []CreateItemInput{
		{MenuItemID: tea.ID, Quantity: 4},
		{MenuItemID: baklava.ID, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("sipariş açılamadı: %v", err)
	}

	if ord.Status != models.OrderStatusTaken {
		t.Fatalf("yeni sipariş taken olmalı, got %s", ord.Status)
	}
	want := 4*15.0 + 120.50
	if ord.TotalPrice != want {
		t.Fatalf("toplam %v bekleniyordu, got %v", want, ord.TotalPrice)
	}

	// Menü fiyatı değişse bile sipariş etkilenmemeli
	if err := db.Model(&models.MenuItem{}).Where("id = ?", tea.ID).Update("price", 99).Error; err != nil {
		t.Fatalf("fiyat güncellenemedi: %v", err)
	}
	var stored models.Order
	if err := db.Preload("Items").First(&stored, ord.ID).Error; err != nil {
		t.Fatalf("sipariş okunamadı: %v", err)
	}
	for _, it := range stored.Items {
		if it.MenuItemID == tea.ID && it.UnitPrice != 15 {
			t.Fatalf("snapshot fiyatı korunmalı, got %v", it.UnitPrice)
		}
	}

	var tbl models.Table
	if err := db.First(&tbl, table.ID).Error; err != nil {
		t.Fatalf("masa okunamadı: %v", err)
	}
	if tbl.Status != models.TableStatusOccupied {
		t.Fatalf("masa dolu olmalı, got %s", tbl.Status)
	}

	var logCount int64
	db.Model(&models.AuditLog{}).
		Where("entity_type = ? AND entity_id = ? AND action = ?", "order", ord.ID, models.AuditActionCreate).
		Count(&logCount)
	if logCount != 1 {
		t.Fatalf("1 audit kaydı bekleniyordu, got %d", logCount)
	}
}

func TestCreateOrderOccupiedTable(t *testing.T) {
	db := openTestDB(t)
	table, tea, _ := seedFloor(t, db)

	if _, err := Create(db, employeeActor(2), table.ID, []CreateItemInput{{MenuItemID: tea.ID, Quantity: 1}}); err != nil {
		t.Fatalf("ilk sipariş açılamadı: %v", err)
	}

	_, err := Create(db, employeeActor(3), table.ID, []CreateItemInput{{MenuItemID: tea.ID, Quantity: 2}})
	if !errors.Is(err, ErrTableOccupied) {
		t.Fatalf("ErrTableOccupied bekleniyordu, got %v", err)
	}

	var count int64
	db.Model(&models.Order{}).Count(&count)
	if count != 1 {
		t.Fatalf("dolu masaya sipariş yazılmamalı, %d sipariş var", count)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	db := openTestDB(t)
	table, tea, _ := seedFloor(t, db)

	if _, err := Create(db, employeeActor(2), table.ID, nil); !errors.Is(err, ErrNoItems) {
		t.Fatalf("boş kalem listesi ErrNoItems vermeli, got %v", err)
	}
	if _, err := Create(db, employeeActor(2), table.ID, []CreateItemInput{{MenuItemID: tea.ID, Quantity: 0}}); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("adet 0 ErrInvalidQuantity vermeli, got %v", err)
	}
	if _, err := Create(db, employeeActor(2), table.ID, []CreateItemInput{{MenuItemID: 9999, Quantity: 1}}); !errors.Is(err, ErrMenuItemNotFound) {
		t.Fatalf("bilinmeyen ürün ErrMenuItemNotFound vermeli, got %v", err)
	}
	if _, err := Create(db, authz.Actor{UserID: 5, Role: models.RoleEmployee, Verified: false}, table.ID, []CreateItemInput{{MenuItemID: tea.ID, Quantity: 1}}); !errors.Is(err, authz.ErrNotVerified) {
		t.Fatalf("onaysız çalışan reddedilmeli, got %v", err)
	}
}

func TestEditOrderRecomputesTotal(t *testing.T) {
	db := openTestDB(t)
	table, tea, baklava := seedFloor(t, db)

	ord, err := Create(db, employeeActor(2), table.ID, []CreateItemInput{{MenuItemID: tea.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("sipariş açılamadı: %v", err)
	}

	// İstemci yanlış toplam gönderse de sunucu kalemlerden hesaplar
	edited, err := Edit(db, employeeActor(2), ord.ID, EditInput{
		Items: []EditItemInput{
			{MenuItemID: tea.ID, Name: "Çay", Quantity: 2, UnitPrice: 15},
			{MenuItemID: baklava.ID, Name: "Baklava", Quantity: 1, UnitPrice: 120.50},
		},
		Total: 9999,
	})
	if err != nil {
		t.Fatalf("düzenleme başarısız: %v", err)
	}

	want := 2*15.0 + 120.50
	if edited.TotalPrice != want {
		t.Fatalf("toplam kalemlerden %v olarak hesaplanmalı, got %v", want, edited.TotalPrice)
	}

	var stored models.Order
	if err := db.Preload("Items").First(&stored, ord.ID).Error; err != nil {
		t.Fatalf("sipariş okunamadı: %v", err)
	}
	if stored.TotalPrice != want {
		t.Fatalf("kalıcı toplam %v bekleniyordu, got %v", want, stored.TotalPrice)
	}
	if len(stored.Items) != 2 {
		t.Fatalf("2 kalem bekleniyordu, got %d", len(stored.Items))
	}
}

func TestEditOrderPermissions(t *testing.T) {
	db := openTestDB(t)
	table, tea, _ := seedFloor(t, db)

	ord, err := Create(db, employeeActor(2), table.ID, []CreateItemInput{{MenuItemID: tea.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("sipariş açılamadı: %v", err)
	}

	items := []EditItemInput{{MenuItemID: tea.ID, Name: "Çay", Quantity: 3, UnitPrice: 15}}

	// Başka çalışan düzenleyemez
	if _, err := Edit(db, employeeActor(3), ord.ID, EditInput{Items: items, Total: 45}); !errors.Is(err, authz.ErrNotOwner) {
		t.Fatalf("ErrNotOwner bekleniyordu, got %v", err)
	}

	// Negatif toplam
	if _, err := Edit(db, employeeActor(2), ord.ID, EditInput{Items: items, Total: -1}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("ErrInvalidAmount bekleniyordu, got %v", err)
	}

	// Teslim edildi: sahibi bile düzenleyemez, admin düzenleyebilir
	if err := db.Model(&models.Order{}).Where("id = ?", ord.ID).Update("status", models.OrderStatusDelivered).Error; err != nil {
		t.Fatalf("durum güncellenemedi: %v", err)
	}
	if _, err := Edit(db, employeeActor(2), ord.ID, EditInput{Items: items, Total: 45}); !errors.Is(err, authz.ErrTooLateToEdit) {
		t.Fatalf("ErrTooLateToEdit bekleniyordu, got %v", err)
	}
	if _, err := Edit(db, adminActor(), ord.ID, EditInput{Items: items, Total: 45}); err != nil {
		t.Fatalf("admin delivered siparişi düzenleyebilmeli: %v", err)
	}

	// Ödendi: admin dahil kimse düzenleyemez
	if err := db.Model(&models.Order{}).Where("id = ?", ord.ID).Update("status", models.OrderStatusPaid).Error; err != nil {
		t.Fatalf("durum güncellenemedi: %v", err)
	}
	if _, err := Edit(db, adminActor(), ord.ID, EditInput{Items: items, Total: 45}); !errors.Is(err, authz.ErrOrderFinalized) {
		t.Fatalf("ErrOrderFinalized bekleniyordu, got %v", err)
	}

	// Bilinmeyen sipariş
	if _, err := Edit(db, adminActor(), 9999, EditInput{Items: items, Total: 45}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ErrNotFound bekleniyordu, got %v", err)
	}
}

func TestEditOrderStatusOverride(t *testing.T) {
	db := openTestDB(t)
	table, tea, _ := seedFloor(t, db)

	ord, err := Create(db, employeeActor(2), table.ID, []CreateItemInput{{MenuItemID: tea.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("sipariş açılamadı: %v", err)
	}

	items := []EditItemInput{{MenuItemID: tea.ID, Name: "Çay", Quantity: 1, UnitPrice: 15}}

	// İleri geçiş kabul edilir
	prepared := models.OrderStatusPrepared
	edited, err := Edit(db, employeeActor(2), ord.ID, EditInput{Items: items, Total: 15, Status: &prepared})
	if err != nil {
		t.Fatalf("ileri durum geçişi kabul edilmeli: %v", err)
	}
	if edited.Status != models.OrderStatusPrepared {
		t.Fatalf("durum prepared olmalı, got %s", edited.Status)
	}

	// Geri geçiş reddedilir
	taken := models.OrderStatusTaken
	if _, err := Edit(db, employeeActor(2), ord.ID, EditInput{Items: items, Total: 15, Status: &taken}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("geri geçiş ErrInvalidTransition vermeli, got %v", err)
	}

	// paid'e düzenleme üzerinden gidilemez
	paid := models.OrderStatusPaid
	if _, err := Edit(db, adminActor(), ord.ID, EditInput{Items: items, Total: 15, Status: &paid}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("paid hedefi ErrInvalidTransition vermeli, got %v", err)
	}
}

func TestAdvanceStatus(t *testing.T) {
	db := openTestDB(t)
	table, tea, _ := seedFloor(t, db)

	ord, err := Create(db, employeeActor(2), table.ID, []CreateItemInput{{MenuItemID: tea.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("sipariş açılamadı: %v", err)
	}

	// Sahibi olmayan çalışan ilerletebilir
	if err := AdvanceStatus(db, employeeActor(3), ord.ID, models.OrderStatusPrepared); err != nil {
		t.Fatalf("taken→prepared geçmeli: %v", err)
	}

	// Geri geçiş yok
	if err := AdvanceStatus(db, employeeActor(3), ord.ID, models.OrderStatusTaken); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("geri geçiş ErrInvalidTransition vermeli, got %v", err)
	}

	// paid'e buradan erişilemez
	if err := AdvanceStatus(db, adminActor(), ord.ID, models.OrderStatusPaid); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("paid hedefi ErrInvalidTransition vermeli, got %v", err)
	}

	if err := AdvanceStatus(db, employeeActor(3), ord.ID, models.OrderStatusDelivered); err != nil {
		t.Fatalf("prepared→delivered geçmeli: %v", err)
	}

	// Ödenmiş sipariş ilerletilemez
	if err := db.Model(&models.Order{}).Where("id = ?", ord.ID).Update("status", models.OrderStatusPaid).Error; err != nil {
		t.Fatalf("durum güncellenemedi: %v", err)
	}
	if err := AdvanceStatus(db, adminActor(), ord.ID, models.OrderStatusDelivered); !errors.Is(err, authz.ErrOrderFinalized) {
		t.Fatalf("paid sipariş ErrOrderFinalized vermeli, got %v", err)
	}

	// Status-advance audit kaydı yazmaz
	var logCount int64
	db.Model(&models.AuditLog{}).
		Where("entity_type = ? AND entity_id = ?", "order", ord.ID).
		Count(&logCount)
	if logCount != 1 { // sadece create kaydı
		t.Fatalf("sadece create audit kaydı bekleniyordu, got %d", logCount)
	}

	if err := AdvanceStatus(db, adminActor(), 9999, models.OrderStatusPrepared); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ErrNotFound bekleniyordu, got %v", err)
	}
}
