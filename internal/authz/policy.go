// Package authz - salt yetki kararları. Girdi dışında hiçbir şeye bağımlı
// değildir; HTTP veya veritabanı olmadan test edilebilir.
package authz

import (
	"errors"

	"cayevi-backend/internal/models"
)

// Actor - işlemi yapan kullanıcı. Middleware veritabanından yükler, böylece
// onayı kaldırılan çalışan bir sonraki istekte hemen yetkisiz kalır.
type Actor struct {
	UserID   uint
	Name     string
	Role     models.UserRole
	Verified bool
}

var (
	ErrNotVerified    = errors.New("authz: hesap onaylı değil")
	ErrAdminOnly      = errors.New("authz: sadece admin yapabilir")
	ErrNotOwner       = errors.New("authz: sipariş başka çalışana ait")
	ErrOrderFinalized = errors.New("authz: ödenmiş sipariş değiştirilemez")
	ErrTooLateToEdit  = errors.New("authz: teslim edilen siparişi çalışan düzenleyemez")
)

// CanCreateOrder - onaylı herkes sipariş açabilir.
func CanCreateOrder(actor Actor) error {
	if !actor.Verified {
		return ErrNotVerified
	}
	return nil
}

// CanEditOrder - kurallar sırayla değerlendirilir, ilk ihlal kazanır:
// ödenmiş sipariş > sahiplik > teslim sonrası düzenleme.
func CanEditOrder(actor Actor, order *models.Order) error {
	if !actor.Verified {
		return ErrNotVerified
	}
	if order.Status == models.OrderStatusPaid {
		// Admin dahil kimse düzenleyemez
		return ErrOrderFinalized
	}
	if actor.Role != models.RoleAdmin {
		if order.CreatedBy != actor.UserID {
			return ErrNotOwner
		}
		if order.Status == models.OrderStatusDelivered {
			return ErrTooLateToEdit
		}
	}
	return nil
}

// CanAdvanceStatus - onaylı herkes herhangi bir siparişin durumunu
// ilerletebilir (mutfak gerçeği: hazır yemeği kim görürse o işaretler).
func CanAdvanceStatus(actor Actor, order *models.Order) error {
	if !actor.Verified {
		return ErrNotVerified
	}
	if order.Status == models.OrderStatusPaid {
		return ErrOrderFinalized
	}
	return nil
}

// CanSettlePayment - tahsilat sadece admin işi.
func CanSettlePayment(actor Actor) error {
	if actor.Role != models.RoleAdmin {
		return ErrAdminOnly
	}
	return nil
}

// CanViewRevenue - ciro raporları sadece admin.
func CanViewRevenue(actor Actor) error {
	if actor.Role != models.RoleAdmin {
		return ErrAdminOnly
	}
	return nil
}
