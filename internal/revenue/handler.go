package revenue

import (
	"errors"
	"time"

	"cayevi-backend/internal/auth"
	"cayevi-backend/internal/authz"
	"cayevi-backend/internal/database"
	"cayevi-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type DailyRevenueResponse struct {
	Date         string  `json:"date"`
	CashTotal    float64 `json:"cash_total"`
	OnlineTotal  float64 `json:"online_total"`
	TotalRevenue float64 `json:"total_revenue"` // türetilmiş: cash + online
}

// GET /api/admin/revenue/daily-summary?date=2025-01-15  (admin)
func GetDailySummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}
		if err := authz.CanViewRevenue(actor); err != nil {
			return fiber.NewError(fiber.StatusForbidden, "Ciro raporları sadece admin tarafından görüntülenebilir")
		}

		dateStr := c.Query("date")
		if dateStr == "" {
			dateStr = time.Now().Format("2006-01-02")
		}

		summary, err := ComputeDailySummary(database.DB, dateStr)
		if err != nil {
			if errors.Is(err, ErrInvalidDate) {
				return fiber.NewError(fiber.StatusBadRequest, "date formatı 'YYYY-MM-DD' olmalı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Özet hesaplanamadı")
		}

		return c.JSON(summary)
	}
}

// GET /api/admin/revenue/daily?from=2025-01-01&to=2025-01-31  (admin)
// Tahsilat sırasında artımlı tutulan ciro satırlarını döner.
func ListDailyRevenueHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}
		if err := authz.CanViewRevenue(actor); err != nil {
			return fiber.NewError(fiber.StatusForbidden, "Ciro raporları sadece admin tarafından görüntülenebilir")
		}

		dbq := database.DB.Model(&models.DailyRevenue{})

		if from := c.Query("from"); from != "" {
			if _, err := time.Parse("2006-01-02", from); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from geçersiz")
			}
			dbq = dbq.Where("date >= ?", from)
		}
		if to := c.Query("to"); to != "" {
			if _, err := time.Parse("2006-01-02", to); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to geçersiz")
			}
			dbq = dbq.Where("date <= ?", to)
		}

		var rows []models.DailyRevenue
		if err := dbq.Order("date asc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ciro kayıtları listelenemedi")
		}

		resp := make([]DailyRevenueResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, DailyRevenueResponse{
				Date:         r.Date,
				CashTotal:    r.CashTotal,
				OnlineTotal:  r.OnlineTotal,
				TotalRevenue: r.TotalRevenue(),
			})
		}
		return c.JSON(resp)
	}
}
