package models

import "time"

type AuditAction string

const (
	AuditActionCreate              AuditAction = "create"
	AuditActionUpdate              AuditAction = "update"
	AuditActionDelete              AuditAction = "delete"
	AuditActionConfirmPayment      AuditAction = "confirm_payment"
	AuditActionConfirmSplitPayment AuditAction = "confirm_split_payment"
	AuditActionVerifyEmployee      AuditAction = "verify_employee"
	AuditActionRevokeEmployee      AuditAction = "revoke_employee"
)

// AuditLog - append-only işlem kaydı. Her mutasyon için bir satır yazılır
// (düşük riskli status-advance hariç). Asla güncellenmez.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// İşlemi yapan kullanıcı
	UserID   uint   `json:"user_id"`
	UserName string `gorm:"size:100" json:"user_name"` // denormalize

	// Hangi entity? (ör: "order", "payment", "expense", "table", "user")
	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Action AuditAction `gorm:"size:30" json:"action"`

	// Küçük bir özet
	Description string `gorm:"size:255" json:"description"`

	// Önceki ve sonraki hal (JSON)
	BeforeData string `gorm:"type:jsonb" json:"before_data"`
	AfterData  string `gorm:"type:jsonb" json:"after_data"`
}
