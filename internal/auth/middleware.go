package auth

import (
	"fmt"
	"strings"

	"cayevi-backend/internal/authz"
	"cayevi-backend/internal/config"
	"cayevi-backend/internal/database"
	"cayevi-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUserRoleKey = "user_role"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header eksik")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization formatı 'Bearer <token>' olmalı")
		}

		tokenStr := parts[1]

		token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("geçersiz imzalama yöntemi")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Geçersiz veya süresi dolmuş token")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Token çözümlenemedi")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserRoleKey, claims.Role)

		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleVal := c.Locals(CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "Bu işlem için yetkiniz yok")
	}
}

// RequireVerified - onaysız çalışanlar kendi profilleri dışında hiçbir
// şeye erişemez. Onay durumu token'a değil veritabanına bakılarak
// kontrol edilir; onayı kaldırılan çalışan hemen kilitlenir.
func RequireVerified() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := CurrentActor(c)
		if err != nil {
			return err
		}
		if !actor.Verified {
			return fiber.NewError(fiber.StatusForbidden, "Hesabınız henüz onaylanmadı")
		}
		return c.Next()
	}
}

// CurrentActor - istekteki kullanıcıyı veritabanından yükle.
func CurrentActor(c *fiber.Ctx) (authz.Actor, error) {
	userIDVal := c.Locals(CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return authz.Actor{}, fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return authz.Actor{}, fiber.NewError(fiber.StatusUnauthorized, "Kullanıcı bulunamadı")
	}

	return authz.Actor{
		UserID:   user.ID,
		Name:     user.Name,
		Role:     user.Role,
		Verified: user.Verified,
	}, nil
}
