package admin

import (
	"fmt"

	"cayevi-backend/internal/audit"
	"cayevi-backend/internal/auth"
	"cayevi-backend/internal/database"
	"cayevi-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type EmployeeResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

// GET /api/admin/employees  (admin)
func ListEmployeesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users []models.User
		if err := database.DB.
			Where("role = ?", models.RoleEmployee).
			Order("name asc").
			Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Çalışanlar listelenemedi")
		}

		resp := make([]EmployeeResponse, 0, len(users))
		for _, u := range users {
			resp = append(resp, EmployeeResponse{
				ID:       u.ID,
				Name:     u.Name,
				Email:    u.Email,
				Verified: u.Verified,
			})
		}
		return c.JSON(resp)
	}
}

// POST /api/admin/employees/:id/verify  (admin)
func VerifyEmployeeHandler() fiber.Handler {
	return setVerifiedHandler(true, models.AuditActionVerifyEmployee, "Çalışan onaylandı")
}

// POST /api/admin/employees/:id/revoke  (admin)
// Onayı kaldırılan çalışan bir sonraki isteğinde yetkisiz kalır.
func RevokeEmployeeHandler() fiber.Handler {
	return setVerifiedHandler(false, models.AuditActionRevokeEmployee, "Çalışan onayı kaldırıldı")
}

func setVerifiedHandler(verified bool, action models.AuditAction, desc string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz çalışan ID")
		}

		var user models.User
		if err := database.DB.First(&user, "id = ? AND role = ?", id, models.RoleEmployee).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Çalışan bulunamadı")
		}

		before := user.Verified
		if err := database.DB.Model(&models.User{}).
			Where("id = ?", user.ID).
			Update("verified", verified).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Çalışan güncellenemedi")
		}

		if logErr := audit.WriteLog(database.DB, audit.LogOptions{
			UserID:      actor.UserID,
			UserName:    actor.Name,
			EntityType:  "user",
			EntityID:    user.ID,
			Action:      action,
			Description: fmt.Sprintf("%s: %s", desc, user.Name),
			Before:      map[string]interface{}{"verified": before},
			After:       map[string]interface{}{"verified": verified},
		}); logErr != nil {
			fmt.Printf("Audit log yazılamadı: %v\n", logErr)
		}

		return c.JSON(EmployeeResponse{
			ID:       user.ID,
			Name:     user.Name,
			Email:    user.Email,
			Verified: verified,
		})
	}
}
