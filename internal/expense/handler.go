package expense

import (
	"fmt"
	"strings"
	"time"

	"cayevi-backend/internal/audit"
	"cayevi-backend/internal/auth"
	"cayevi-backend/internal/database"
	"cayevi-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateExpenseRequest struct {
	Title  string  `json:"title"`
	Amount float64 `json:"amount"`
}

type ExpenseResponse struct {
	ID        uint    `json:"id"`
	Title     string  `json:"title"`
	Amount    float64 `json:"amount"`
	CreatedBy uint    `json:"created_by"`
	CreatedAt string  `json:"created_at"`
}

// POST /api/admin/expenses  (admin)
func CreateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var body CreateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Title = strings.TrimSpace(body.Title)
		if body.Title == "" {
			return fiber.NewError(fiber.StatusBadRequest, "title zorunlu")
		}
		if body.Amount < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amount negatif olamaz")
		}

		exp := models.Expense{
			Title:     body.Title,
			Amount:    body.Amount,
			CreatedBy: actor.UserID,
		}

		if err := database.DB.Create(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gider kaydedilemedi")
		}

		if logErr := audit.WriteLog(database.DB, audit.LogOptions{
			UserID:      actor.UserID,
			UserName:    actor.Name,
			EntityType:  "expense",
			EntityID:    exp.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Gider eklendi: %s - %.2f TL", exp.Title, exp.Amount),
			After: map[string]interface{}{
				"id":     exp.ID,
				"title":  exp.Title,
				"amount": exp.Amount,
			},
		}); logErr != nil {
			// Log hatası kritik değil, sadece log'la
			fmt.Printf("Audit log yazılamadı: %v\n", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(ExpenseResponse{
			ID:        exp.ID,
			Title:     exp.Title,
			Amount:    exp.Amount,
			CreatedBy: exp.CreatedBy,
			CreatedAt: exp.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// GET /api/admin/expenses?from=2025-01-01&to=2025-01-31  (admin)
func ListExpensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Expense{})

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from geçersiz")
			}
			dbq = dbq.Where("created_at >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to geçersiz")
			}
			dbq = dbq.Where("created_at < ?", to.AddDate(0, 0, 1))
		}

		var rows []models.Expense
		if err := dbq.Order("created_at desc, id desc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Giderler listelenemedi")
		}

		resp := make([]ExpenseResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, ExpenseResponse{
				ID:        r.ID,
				Title:     r.Title,
				Amount:    r.Amount,
				CreatedBy: r.CreatedBy,
				CreatedAt: r.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(resp)
	}
}
