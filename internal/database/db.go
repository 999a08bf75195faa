package database

import (
	"log"

	"cayevi-backend/internal/config"
	"cayevi-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

// Migrate - tüm tabloları oluştur/güncelle. Testler aynı şemayı
// in-memory sqlite üzerinde kurmak için de bunu çağırır.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.DailyRevenue{},
		&models.Expense{},
		&models.AuditLog{},
	)
}

// LockForUpdate - satırı transaction süresince kilitle (SELECT ... FOR UPDATE).
// SQLite FOR UPDATE sözdizimini tanımaz; orada zaten tek yazar olduğu için
// kilitsiz devam edilir.
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
