package main

import (
	"log"
	"strings"

	"cayevi-backend/internal/admin"
	"cayevi-backend/internal/audit"
	"cayevi-backend/internal/auth"
	"cayevi-backend/internal/config"
	"cayevi-backend/internal/database"
	"cayevi-backend/internal/expense"
	"cayevi-backend/internal/menu"
	"cayevi-backend/internal/models"
	"cayevi-backend/internal/order"
	"cayevi-backend/internal/payment"
	"cayevi-backend/internal/revenue"
	"cayevi-backend/internal/table"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/register", auth.RegisterEmployeeHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Token gerektiren ama onay gerektirmeyen tek kaynak
	api.Get("/auth/me", auth.JWTMiddleware(cfg), auth.MeHandler())

	// Protected: token + onaylı hesap
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))
	protected.Use(auth.RequireVerified())

	// Menü ve masalar
	protected.Get("/menu", menu.ListMenuItemsHandler())
	protected.Get("/tables", table.ListTablesHandler())

	// Siparişler
	protected.Post("/orders", order.CreateOrderHandler())
	protected.Get("/orders", order.ListOrdersHandler())
	protected.Get("/orders/:id", order.GetOrderHandler())
	protected.Put("/orders/:id", order.EditOrderHandler())
	protected.Post("/orders/:id/status", order.AdvanceStatusHandler())

	// Admin routes
	adminRoutes := protected.Group("")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Tahsilat
	adminRoutes.Post("/orders/:id/payment", payment.ConfirmPaymentHandler())
	adminRoutes.Post("/orders/:id/split-payment", payment.ConfirmSplitPaymentHandler())
	adminRoutes.Get("/admin/payments", payment.ListPaymentsHandler())

	// Ciro raporları
	adminRoutes.Get("/admin/revenue/daily-summary", revenue.GetDailySummaryHandler())
	adminRoutes.Get("/admin/revenue/daily", revenue.ListDailyRevenueHandler())

	// Menü yönetimi
	adminRoutes.Post("/admin/menu", menu.CreateMenuItemHandler())
	adminRoutes.Put("/admin/menu/:id", menu.UpdateMenuItemHandler())
	adminRoutes.Delete("/admin/menu/:id", menu.DeleteMenuItemHandler())

	// Masa yönetimi
	adminRoutes.Post("/admin/tables", table.CreateTableHandler())
	adminRoutes.Delete("/admin/tables/:id", table.DeleteTableHandler())

	// Giderler
	adminRoutes.Post("/admin/expenses", expense.CreateExpenseHandler())
	adminRoutes.Get("/admin/expenses", expense.ListExpensesHandler())

	// Çalışan yönetimi
	adminRoutes.Get("/admin/employees", admin.ListEmployeesHandler())
	adminRoutes.Post("/admin/employees/:id/verify", admin.VerifyEmployeeHandler())
	adminRoutes.Post("/admin/employees/:id/revoke", admin.RevokeEmployeeHandler())

	// Audit logs
	adminRoutes.Get("/admin/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
