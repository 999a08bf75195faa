package payment

import (
	"errors"
	"fmt"
	"math"
	"time"

	"cayevi-backend/internal/audit"
	"cayevi-backend/internal/authz"
	"cayevi-backend/internal/database"
	"cayevi-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound        = errors.New("payment: sipariş bulunamadı")
	ErrAlreadyPaid     = errors.New("payment: sipariş zaten ödenmiş")
	ErrNotYetDelivered = errors.New("payment: sipariş henüz teslim edilmedi")
	ErrInvalidMethod   = errors.New("payment: geçersiz ödeme yöntemi")
	ErrInvalidAmount   = errors.New("payment: tutar negatif olamaz")
	ErrZeroPayment     = errors.New("payment: toplam ödeme sıfır olamaz")
	ErrAmountMismatch  = errors.New("payment: ödeme toplamı sipariş tutarını karşılamıyor")
)

// amountTolerance - split ödemede kabul edilen mutlak sapma. Sadece
// yuvarlama gürültüsünü emer, eksik ödemeye izin vermez.
const amountTolerance = 0.01

type Result struct {
	OrderID uint                 `json:"order_id"`
	Amount  float64              `json:"amount"`
	Method  models.PaymentMethod `json:"method"`
}

type SplitResult struct {
	OrderID      uint    `json:"order_id"`
	CashAmount   float64 `json:"cash_amount"`
	OnlineAmount float64 `json:"online_amount"`
	Total        float64 `json:"total"`
}

// Confirm - tek yöntemli tahsilat. Tüm etkiler (ödeme kaydı, sipariş paid,
// ciro upsert, masanın boşaltılması, audit) tek transaction'da commit olur.
// Sipariş satırı transaction boyunca kilitli tutulur; aynı siparişe ikinci
// tahsilat denemesi ilkinin commit'ini bekler ve AlreadyPaid ile reddedilir.
func Confirm(db *gorm.DB, actor authz.Actor, orderID uint, method models.PaymentMethod) (*Result, error) {
	if err := authz.CanSettlePayment(actor); err != nil {
		return nil, err
	}

	if method != models.PaymentMethodCash && method != models.PaymentMethodOnline {
		return nil, ErrInvalidMethod
	}

	var res Result

	err := db.Transaction(func(tx *gorm.DB) error {
		ord, err := lockDeliveredOrder(tx, orderID)
		if err != nil {
			return err
		}

		pay := models.Payment{
			OrderID:   ord.ID,
			Method:    method,
			Amount:    ord.TotalPrice,
			CreatedBy: actor.UserID,
		}
		if err := tx.Create(&pay).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", ord.ID).
			Updates(map[string]interface{}{
				"status":         models.OrderStatusPaid,
				"payment_method": method,
				"updated_at":     time.Now(),
			}).Error; err != nil {
			return err
		}

		var cashDelta, onlineDelta float64
		if method == models.PaymentMethodCash {
			cashDelta = ord.TotalPrice
		} else {
			onlineDelta = ord.TotalPrice
		}
		if err := upsertDailyRevenue(tx, cashDelta, onlineDelta); err != nil {
			return err
		}

		if err := releaseTable(tx, ord); err != nil {
			return err
		}

		res = Result{OrderID: ord.ID, Amount: ord.TotalPrice, Method: method}

		return audit.WriteLog(tx, audit.LogOptions{
			UserID:      actor.UserID,
			UserName:    actor.Name,
			EntityType:  "order",
			EntityID:    ord.ID,
			Action:      models.AuditActionConfirmPayment,
			Description: fmt.Sprintf("Ödeme alındı: %.2f TL (%s)", ord.TotalPrice, method),
			After: map[string]interface{}{
				"amount": ord.TotalPrice,
				"method": method,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	return &res, nil
}

// ConfirmSplit - nakit + online bölünmüş tahsilat. Yöntem başına bir ödeme
// kaydı açılır ama tutarı sıfır olan yöntem için kayıt açılmaz; tamamı tek
// yöntemle ödenmiş bir split tek kayıt üretir. Sipariş yine de "split"
// olarak işaretlenir.
func ConfirmSplit(db *gorm.DB, actor authz.Actor, orderID uint, cashAmount, onlineAmount float64) (*SplitResult, error) {
	if err := authz.CanSettlePayment(actor); err != nil {
		return nil, err
	}

	if cashAmount < 0 || onlineAmount < 0 {
		return nil, ErrInvalidAmount
	}
	if cashAmount+onlineAmount <= 0 {
		return nil, ErrZeroPayment
	}

	var res SplitResult

	err := db.Transaction(func(tx *gorm.DB) error {
		ord, err := lockDeliveredOrder(tx, orderID)
		if err != nil {
			return err
		}

		if math.Abs(cashAmount+onlineAmount-ord.TotalPrice) > amountTolerance {
			return ErrAmountMismatch
		}

		if cashAmount > 0 {
			pay := models.Payment{
				OrderID:   ord.ID,
				Method:    models.PaymentMethodCash,
				Amount:    cashAmount,
				CreatedBy: actor.UserID,
			}
			if err := tx.Create(&pay).Error; err != nil {
				return err
			}
		}
		if onlineAmount > 0 {
			pay := models.Payment{
				OrderID:   ord.ID,
				Method:    models.PaymentMethodOnline,
				Amount:    onlineAmount,
				CreatedBy: actor.UserID,
			}
			if err := tx.Create(&pay).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", ord.ID).
			Updates(map[string]interface{}{
				"status":         models.OrderStatusPaid,
				"payment_method": models.PaymentMethodSplit,
				"updated_at":     time.Now(),
			}).Error; err != nil {
			return err
		}

		// Sıfır delta zararsız no-op'tur
		if err := upsertDailyRevenue(tx, cashAmount, onlineAmount); err != nil {
			return err
		}

		if err := releaseTable(tx, ord); err != nil {
			return err
		}

		res = SplitResult{
			OrderID:      ord.ID,
			CashAmount:   cashAmount,
			OnlineAmount: onlineAmount,
			Total:        ord.TotalPrice,
		}

		return audit.WriteLog(tx, audit.LogOptions{
			UserID:      actor.UserID,
			UserName:    actor.Name,
			EntityType:  "order",
			EntityID:    ord.ID,
			Action:      models.AuditActionConfirmSplitPayment,
			Description: fmt.Sprintf("Bölünmüş ödeme alındı: %.2f nakit + %.2f online", cashAmount, onlineAmount),
			After: map[string]interface{}{
				"cash_amount":   cashAmount,
				"online_amount": onlineAmount,
				"total":         ord.TotalPrice,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	return &res, nil
}

// lockDeliveredOrder - sipariş satırını kilitle ve tahsilata uygunluğunu
// doğrula: var olmalı, ödenmemiş olmalı, teslim edilmiş olmalı.
func lockDeliveredOrder(tx *gorm.DB, orderID uint) (*models.Order, error) {
	var ord models.Order
	if err := database.LockForUpdate(tx).First(&ord, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if ord.Status == models.OrderStatusPaid {
		return nil, ErrAlreadyPaid
	}
	if ord.Status != models.OrderStatusDelivered {
		return nil, ErrNotYetDelivered
	}
	return &ord, nil
}

// upsertDailyRevenue - bugünün ciro satırını artımlı güncelle. Satır yoksa
// delta'larla oluşturulur; varsa sadece ilgili kolonlara eklenir, diğer
// yöntemin toplamına dokunulmaz.
func upsertDailyRevenue(tx *gorm.DB, cashDelta, onlineDelta float64) error {
	today := time.Now().Format("2006-01-02")
	row := models.DailyRevenue{
		Date:        today,
		CashTotal:   cashDelta,
		OnlineTotal: onlineDelta,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"cash_total":   gorm.Expr("daily_revenues.cash_total + ?", cashDelta),
			"online_total": gorm.Expr("daily_revenues.online_total + ?", onlineDelta),
			"updated_at":   time.Now(),
		}),
	}).Create(&row).Error
}

// releaseTable - siparişin masası varsa boşalt. Masa silinmiş olabilir.
func releaseTable(tx *gorm.DB, ord *models.Order) error {
	if ord.TableID == nil {
		return nil
	}
	return tx.Model(&models.Table{}).
		Where("id = ?", *ord.TableID).
		Update("status", models.TableStatusEmpty).Error
}
