package payment

import (
	"errors"
	"fmt"

	"cayevi-backend/internal/auth"
	"cayevi-backend/internal/authz"
	"cayevi-backend/internal/database"
	"cayevi-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ConfirmPaymentRequest struct {
	Method models.PaymentMethod `json:"method"` // cash / online
}

type ConfirmSplitPaymentRequest struct {
	CashAmount   float64 `json:"cash_amount"`
	OnlineAmount float64 `json:"online_amount"`
}

type PaymentResponse struct {
	ID        uint                 `json:"id"`
	OrderID   uint                 `json:"order_id"`
	Method    models.PaymentMethod `json:"method"`
	Amount    float64              `json:"amount"`
	CreatedBy uint                 `json:"created_by"`
	CreatedAt string               `json:"created_at"`
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
	case errors.Is(err, ErrAlreadyPaid):
		return fiber.NewError(fiber.StatusConflict, "Sipariş zaten ödenmiş")
	case errors.Is(err, ErrNotYetDelivered):
		return fiber.NewError(fiber.StatusConflict, "Sipariş henüz teslim edilmedi")
	case errors.Is(err, ErrInvalidMethod):
		return fiber.NewError(fiber.StatusBadRequest, "Ödeme yöntemi cash veya online olmalı")
	case errors.Is(err, ErrInvalidAmount):
		return fiber.NewError(fiber.StatusBadRequest, "Tutar negatif olamaz")
	case errors.Is(err, ErrZeroPayment):
		return fiber.NewError(fiber.StatusBadRequest, "Toplam ödeme sıfırdan büyük olmalı")
	case errors.Is(err, ErrAmountMismatch):
		return fiber.NewError(fiber.StatusBadRequest, "Ödeme toplamı sipariş tutarıyla uyuşmuyor")
	case errors.Is(err, authz.ErrAdminOnly):
		return fiber.NewError(fiber.StatusForbidden, "Tahsilat sadece admin tarafından yapılabilir")
	default:
		return err
	}
}

// POST /api/orders/:id/payment  (admin)
func ConfirmPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		orderID, err := parseOrderID(c)
		if err != nil {
			return err
		}

		var body ConfirmPaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		res, err := Confirm(database.DB, actor, orderID, body.Method)
		if err != nil {
			return toHTTPError(err)
		}

		return c.JSON(res)
	}
}

// POST /api/orders/:id/split-payment  (admin)
func ConfirmSplitPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		orderID, err := parseOrderID(c)
		if err != nil {
			return err
		}

		var body ConfirmSplitPaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		res, err := ConfirmSplit(database.DB, actor, orderID, body.CashAmount, body.OnlineAmount)
		if err != nil {
			return toHTTPError(err)
		}

		return c.JSON(res)
	}
}

// GET /api/admin/payments?from=2025-01-01&to=2025-01-31&order_id=5
func ListPaymentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Payment{})

		if o := c.Query("order_id"); o != "" {
			var oid uint
			if _, err := fmt.Sscan(o, &oid); err != nil || oid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "order_id geçersiz")
			}
			dbq = dbq.Where("order_id = ?", oid)
		}
		if from := c.Query("from"); from != "" {
			dbq = dbq.Where("created_at >= ?", from)
		}
		if to := c.Query("to"); to != "" {
			dbq = dbq.Where("created_at < ?", to)
		}

		var rows []models.Payment
		if err := dbq.Order("created_at desc, id desc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödemeler listelenemedi")
		}

		resp := make([]PaymentResponse, 0, len(rows))
		for _, p := range rows {
			resp = append(resp, PaymentResponse{
				ID:        p.ID,
				OrderID:   p.OrderID,
				Method:    p.Method,
				Amount:    p.Amount,
				CreatedBy: p.CreatedBy,
				CreatedAt: p.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(resp)
	}
}

func parseOrderID(c *fiber.Ctx) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş ID")
	}
	return id, nil
}
