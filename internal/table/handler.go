package table

import (
	"fmt"

	"cayevi-backend/internal/audit"
	"cayevi-backend/internal/auth"
	"cayevi-backend/internal/database"
	"cayevi-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateTableRequest struct {
	Number int `json:"number"`
}

type TableResponse struct {
	ID     uint               `json:"id"`
	Number int                `json:"number"`
	Status models.TableStatus `json:"status"`
}

// GET /api/tables  (auth olan herkes)
func ListTablesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tables []models.Table
		if err := database.DB.Order("number asc").Find(&tables).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Masalar listelenemedi")
		}

		resp := make([]TableResponse, 0, len(tables))
		for _, t := range tables {
			resp = append(resp, TableResponse{ID: t.ID, Number: t.Number, Status: t.Status})
		}
		return c.JSON(resp)
	}
}

// POST /api/admin/tables  (admin)
func CreateTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTableRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}
		if body.Number <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "number pozitif olmalı")
		}

		var count int64
		database.DB.Model(&models.Table{}).Where("number = ?", body.Number).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Bu numarayla masa zaten var")
		}

		t := models.Table{Number: body.Number, Status: models.TableStatusEmpty}
		if err := database.DB.Create(&t).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Masa oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(TableResponse{ID: t.ID, Number: t.Number, Status: t.Status})
	}
}

// DELETE /api/admin/tables/:id  (admin)
// Masanın siparişleri silinmez; table_id referansları null'lanır.
func DeleteTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz masa ID")
		}

		var t models.Table
		if err := database.DB.First(&t, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Masa bulunamadı")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Order{}).
				Where("table_id = ?", id).
				Update("table_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Table{}, "id = ?", id).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				UserID:      actor.UserID,
				UserName:    actor.Name,
				EntityType:  "table",
				EntityID:    id,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Masa silindi: %d", t.Number),
				Before: map[string]interface{}{
					"id":     t.ID,
					"number": t.Number,
					"status": t.Status,
				},
			})
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Masa silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
