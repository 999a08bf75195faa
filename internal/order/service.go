package order

import (
	"errors"
	"fmt"
	"time"

	"cayevi-backend/internal/audit"
	"cayevi-backend/internal/authz"
	"cayevi-backend/internal/database"
	"cayevi-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("order: sipariş bulunamadı")
	ErrTableNotFound     = errors.New("order: masa bulunamadı")
	ErrTableOccupied     = errors.New("order: masa dolu")
	ErrNoItems           = errors.New("order: sipariş kalemi yok")
	ErrInvalidQuantity   = errors.New("order: adet en az 1 olmalı")
	ErrMenuItemNotFound  = errors.New("order: menü ürünü bulunamadı")
	ErrInvalidAmount     = errors.New("order: tutar negatif olamaz")
	ErrInvalidTransition = errors.New("order: geçersiz durum geçişi")
)

type CreateItemInput struct {
	MenuItemID uint `json:"menu_item_id"`
	Quantity   int  `json:"quantity"`
}

type EditItemInput struct {
	MenuItemID uint    `json:"menu_item_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

type EditInput struct {
	Items   []EditItemInput
	Total   float64
	Status  *models.OrderStatus // nil = değişmez
	TableID *uint               // nil = değişmez
}

// Create - boş bir masaya yeni sipariş aç. Sipariş kaydı ve masanın dolu
// işaretlenmesi tek transaction'dır; yarım kalmış durum oluşamaz.
// Ürün adı ve fiyatı sipariş anında snapshot'lanır, menü sonradan
// değişse bile mevcut siparişler etkilenmez.
func Create(db *gorm.DB, actor authz.Actor, tableID uint, items []CreateItemInput) (*models.Order, error) {
	if err := authz.CanCreateOrder(actor); err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, ErrNoItems
	}
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	var created models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		// Masayı kilitle; iki eşzamanlı sipariş aynı masayı boş görmesin
		var table models.Table
		if err := database.LockForUpdate(tx).First(&table, "id = ?", tableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTableNotFound
			}
			return err
		}
		if table.Status != models.TableStatusEmpty {
			return ErrTableOccupied
		}

		orderItems := make([]models.OrderItem, 0, len(items))
		var total float64
		for _, it := range items {
			var mi models.MenuItem
			if err := tx.First(&mi, "id = ? AND is_active = ?", it.MenuItemID, true).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrMenuItemNotFound
				}
				return err
			}
			orderItems = append(orderItems, models.OrderItem{
				MenuItemID: mi.ID,
				Name:       mi.Name,
				Quantity:   it.Quantity,
				UnitPrice:  mi.Price,
			})
			total += float64(it.Quantity) * mi.Price
		}

		created = models.Order{
			TableID:    &table.ID,
			CreatedBy:  actor.UserID,
			Items:      orderItems,
			Status:     models.OrderStatusTaken,
			TotalPrice: total,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Table{}).
			Where("id = ?", table.ID).
			Update("status", models.TableStatusOccupied).Error; err != nil {
			return err
		}

		return audit.WriteLog(tx, audit.LogOptions{
			UserID:      actor.UserID,
			UserName:    actor.Name,
			EntityType:  "order",
			EntityID:    created.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Sipariş açıldı: masa %d - %.2f TL", table.Number, total),
			After:       orderSnapshot(&created),
		})
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// Edit - sipariş içeriğini / durumunu / masasını güncelle.
// Yetki kontrolleri sırayla: bulunamadı > ödenmiş > sahiplik > teslim sonrası.
// Toplam, gönderilen kalemlerden sunucu tarafında yeniden hesaplanır;
// istemcinin tutarı sadece negatiflik kontrolünden geçer.
func Edit(db *gorm.DB, actor authz.Actor, orderID uint, in EditInput) (*models.Order, error) {
	var ord models.Order
	if err := db.Preload("Items").First(&ord, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := authz.CanEditOrder(actor, &ord); err != nil {
		return nil, err
	}

	if in.Total < 0 {
		return nil, ErrInvalidAmount
	}
	if len(in.Items) == 0 {
		return nil, ErrNoItems
	}
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		if it.UnitPrice < 0 {
			return nil, ErrInvalidAmount
		}
	}

	newStatus := ord.Status
	if in.Status != nil && *in.Status != ord.Status {
		// paid'e sadece tahsilat üzerinden gidilir; geri gidiş hiç yok
		if !models.ValidStatus(*in.Status) ||
			*in.Status == models.OrderStatusPaid ||
			!models.StatusAfter(ord.Status, *in.Status) {
			return nil, ErrInvalidTransition
		}
		newStatus = *in.Status
	}

	before := orderSnapshot(&ord)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", ord.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}

		var total float64
		newItems := make([]models.OrderItem, 0, len(in.Items))
		for _, it := range in.Items {
			newItems = append(newItems, models.OrderItem{
				OrderID:    ord.ID,
				MenuItemID: it.MenuItemID,
				Name:       it.Name,
				Quantity:   it.Quantity,
				UnitPrice:  it.UnitPrice,
			})
			total += float64(it.Quantity) * it.UnitPrice
		}
		if err := tx.Create(&newItems).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"total_price": total,
			"status":      newStatus,
			"updated_at":  time.Now(),
		}
		if in.TableID != nil {
			updates["table_id"] = *in.TableID
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", ord.ID).Updates(updates).Error; err != nil {
			return err
		}

		ord.Items = newItems
		ord.TotalPrice = total
		ord.Status = newStatus
		if in.TableID != nil {
			ord.TableID = in.TableID
		}

		return audit.WriteLog(tx, audit.LogOptions{
			UserID:      actor.UserID,
			UserName:    actor.Name,
			EntityType:  "order",
			EntityID:    ord.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Sipariş güncellendi: %.2f TL", total),
			Before:      before,
			After:       orderSnapshot(&ord),
		})
	})
	if err != nil {
		return nil, err
	}

	return &ord, nil
}

// AdvanceStatus - basit ileri durum geçişi (taken→prepared, prepared→delivered).
// Onaylı her kullanıcı her siparişi ilerletebilir. paid buradan erişilemez.
// Düşük riskli ve sık bir işlem olduğu için audit kaydı yazılmaz.
func AdvanceStatus(db *gorm.DB, actor authz.Actor, orderID uint, newStatus models.OrderStatus) error {
	var ord models.Order
	if err := db.First(&ord, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := authz.CanAdvanceStatus(actor, &ord); err != nil {
		return err
	}

	if !models.ValidStatus(newStatus) ||
		newStatus == models.OrderStatusPaid ||
		!models.StatusAfter(ord.Status, newStatus) {
		return ErrInvalidTransition
	}

	return db.Model(&models.Order{}).Where("id = ?", ord.ID).
		Updates(map[string]interface{}{
			"status":     newStatus,
			"updated_at": time.Now(),
		}).Error
}

type itemSnapshot struct {
	MenuItemID uint    `json:"menu_item_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

// orderSnapshot - audit log için siparişin o anki hali
func orderSnapshot(o *models.Order) map[string]interface{} {
	items := make([]itemSnapshot, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, itemSnapshot{
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
		})
	}
	return map[string]interface{}{
		"table_id":    o.TableID,
		"status":      o.Status,
		"total_price": o.TotalPrice,
		"items":       items,
	}
}
