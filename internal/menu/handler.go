package menu

import (
	"strings"

	"cayevi-backend/internal/database"
	"cayevi-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateMenuItemRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

type UpdateMenuItemRequest struct {
	Name     *string  `json:"name"`
	Category *string  `json:"category"`
	Price    *float64 `json:"price"`
	IsActive *bool    `json:"is_active"`
}

type MenuItemResponse struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	IsActive bool    `json:"is_active"`
}

func toResponse(m *models.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:       m.ID,
		Name:     m.Name,
		Category: m.Category,
		Price:    m.Price,
		IsActive: m.IsActive,
	}
}

// GET /api/menu  (auth olan herkes)
func ListMenuItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.MenuItem{})
		if c.Query("all") != "true" {
			dbq = dbq.Where("is_active = ?", true)
		}

		var items []models.MenuItem
		if err := dbq.Order("category asc, name asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menü listelenemedi")
		}

		resp := make([]MenuItemResponse, 0, len(items))
		for i := range items {
			resp = append(resp, toResponse(&items[i]))
		}
		return c.JSON(resp)
	}
}

// POST /api/admin/menu  (admin)
func CreateMenuItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMenuItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name zorunlu")
		}
		if body.Price < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "price negatif olamaz")
		}

		item := models.MenuItem{
			Name:     body.Name,
			Category: strings.TrimSpace(body.Category),
			Price:    body.Price,
			IsActive: true,
		}
		if err := database.DB.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&item))
	}
}

// PUT /api/admin/menu/:id  (admin)
// Fiyat değişikliği mevcut siparişleri etkilemez; kalemler snapshot taşır.
func UpdateMenuItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var item models.MenuItem
		if err := database.DB.First(&item, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var body UpdateMenuItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name boş olamaz")
			}
			item.Name = name
		}
		if body.Category != nil {
			item.Category = strings.TrimSpace(*body.Category)
		}
		if body.Price != nil {
			if *body.Price < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "price negatif olamaz")
			}
			item.Price = *body.Price
		}
		if body.IsActive != nil {
			item.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		return c.JSON(toResponse(&item))
	}
}

// DELETE /api/admin/menu/:id  (admin)
func DeleteMenuItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if err := database.DB.Delete(&models.MenuItem{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
