package order

import (
	"errors"
	"fmt"

	"cayevi-backend/internal/auth"
	"cayevi-backend/internal/authz"
	"cayevi-backend/internal/database"
	"cayevi-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateOrderRequest struct {
	TableID uint              `json:"table_id"`
	Items   []CreateItemInput `json:"items"`
}

type EditOrderRequest struct {
	Items      []EditItemInput     `json:"items"`
	TotalPrice float64             `json:"total_price"`
	Status     *models.OrderStatus `json:"status"`
	TableID    *uint               `json:"table_id"`
}

type AdvanceStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

type OrderItemResponse struct {
	MenuItemID uint    `json:"menu_item_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

type OrderResponse struct {
	ID            uint                 `json:"id"`
	TableID       *uint                `json:"table_id"`
	CreatedBy     uint                 `json:"created_by"`
	Status        models.OrderStatus   `json:"status"`
	TotalPrice    float64              `json:"total_price"`
	PaymentMethod models.PaymentMethod `json:"payment_method,omitempty"`
	Items         []OrderItemResponse  `json:"items"`
	CreatedAt     string               `json:"created_at"`
	UpdatedAt     string               `json:"updated_at"`
}

func toOrderResponse(o *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
		})
	}
	return OrderResponse{
		ID:            o.ID,
		TableID:       o.TableID,
		CreatedBy:     o.CreatedBy,
		Status:        o.Status,
		TotalPrice:    o.TotalPrice,
		PaymentMethod: o.PaymentMethod,
		Items:         items,
		CreatedAt:     o.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:     o.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// toHTTPError - servis hatalarını HTTP yanıtına çevir
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
	case errors.Is(err, ErrTableNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Masa bulunamadı")
	case errors.Is(err, ErrTableOccupied):
		return fiber.NewError(fiber.StatusConflict, "Masa dolu")
	case errors.Is(err, ErrNoItems):
		return fiber.NewError(fiber.StatusBadRequest, "En az bir sipariş kalemi gerekli")
	case errors.Is(err, ErrInvalidQuantity):
		return fiber.NewError(fiber.StatusBadRequest, "Adet en az 1 olmalı")
	case errors.Is(err, ErrMenuItemNotFound):
		return fiber.NewError(fiber.StatusBadRequest, "Menü ürünü bulunamadı")
	case errors.Is(err, ErrInvalidAmount):
		return fiber.NewError(fiber.StatusBadRequest, "Tutar negatif olamaz")
	case errors.Is(err, ErrInvalidTransition):
		return fiber.NewError(fiber.StatusBadRequest, "Geçersiz durum geçişi")
	case errors.Is(err, authz.ErrOrderFinalized):
		return fiber.NewError(fiber.StatusConflict, "Ödenmiş sipariş değiştirilemez")
	case errors.Is(err, authz.ErrNotOwner):
		return fiber.NewError(fiber.StatusForbidden, "Sadece kendi siparişinizi düzenleyebilirsiniz")
	case errors.Is(err, authz.ErrTooLateToEdit):
		return fiber.NewError(fiber.StatusForbidden, "Teslim edilen sipariş artık düzenlenemez")
	case errors.Is(err, authz.ErrNotVerified):
		return fiber.NewError(fiber.StatusForbidden, "Hesabınız henüz onaylanmadı")
	default:
		return err
	}
}

// POST /api/orders
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.TableID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "table_id zorunlu")
		}

		ord, err := Create(database.DB, actor, body.TableID, body.Items)
		if err != nil {
			return toHTTPError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(toOrderResponse(ord))
	}
}

// PUT /api/orders/:id
func EditOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		orderID, err := parseID(c)
		if err != nil {
			return err
		}

		var body EditOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		ord, err := Edit(database.DB, actor, orderID, EditInput{
			Items:   body.Items,
			Total:   body.TotalPrice,
			Status:  body.Status,
			TableID: body.TableID,
		})
		if err != nil {
			return toHTTPError(err)
		}

		return c.JSON(toOrderResponse(ord))
	}
}

// POST /api/orders/:id/status
func AdvanceStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		orderID, err := parseID(c)
		if err != nil {
			return err
		}

		var body AdvanceStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if err := AdvanceStatus(database.DB, actor, orderID, body.Status); err != nil {
			return toHTTPError(err)
		}

		return c.JSON(fiber.Map{"message": "Durum güncellendi"})
	}
}

// GET /api/orders?status=taken&table_id=3
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Order{}).Preload("Items")

		if s := c.Query("status"); s != "" {
			if !models.ValidStatus(models.OrderStatus(s)) {
				return fiber.NewError(fiber.StatusBadRequest, "status geçersiz")
			}
			dbq = dbq.Where("status = ?", s)
		}
		if t := c.Query("table_id"); t != "" {
			var tid uint
			if _, err := fmt.Sscan(t, &tid); err != nil || tid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "table_id geçersiz")
			}
			dbq = dbq.Where("table_id = ?", tid)
		}

		var orders []models.Order
		if err := dbq.Order("created_at desc, id desc").Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		resp := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, toOrderResponse(&orders[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := parseID(c)
		if err != nil {
			return err
		}

		var ord models.Order
		if err := database.DB.Preload("Items").First(&ord, "id = ?", orderID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		return c.JSON(toOrderResponse(&ord))
	}
}

func parseID(c *fiber.Ctx) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş ID")
	}
	return id, nil
}
