package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/schoolkit/service"
)

// Access là mức truy cập của một route
type Access int

const (
	AccessPublic Access = iota
	AccessAuthenticated
	AccessAdmin         // SYSTEM_ADMIN hoặc SCHOOL_ADMIN
	AccessProviderAdmin // chỉ SYSTEM_ADMIN
	AccessSchoolAdmin   // chỉ SCHOOL_ADMIN có trường
)

func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "PUBLIC"
	case AccessAuthenticated:
		return "AUTHENTICATED"
	case AccessAdmin:
		return "ADMIN"
	case AccessProviderAdmin:
		return "PROVIDER_ADMIN"
	case AccessSchoolAdmin:
		return "SCHOOL_ADMIN"
	}
	return "UNKNOWN"
}

// Allows kiểm tra actor có đủ quyền cho mức truy cập này không
func (a Access) Allows(actor service.Actor) bool {
	switch a {
	case AccessPublic, AccessAuthenticated:
		return true
	case AccessAdmin:
		return actor.IsAdmin()
	case AccessProviderAdmin:
		return actor.IsProviderAdmin()
	case AccessSchoolAdmin:
		return actor.IsSchoolAdmin()
	}
	return false
}

// RequireAccess chặn request không đủ quyền. Phải đứng sau RequireAuth với mọi mức khác Public.
func RequireAccess(access Access) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if access == AccessPublic {
			return c.Next()
		}
		actor, ok := GetActor(c)
		if !ok {
			return goerrorkit.NewAuthError(401, "Yêu cầu đăng nhập")
		}
		if !access.Allows(actor) {
			return goerrorkit.NewAuthError(403, "Không có quyền truy cập endpoint này").WithData(map[string]interface{}{
				"method": c.Method(),
				"path":   c.Path(),
				"access": access.String(),
			})
		}
		return c.Next()
	}
}

// RequireAdmin chỉ cho quản trị hệ thống hoặc quản trị trường
func RequireAdmin() fiber.Handler {
	return RequireAccess(AccessAdmin)
}

// RequireProviderAdmin chỉ cho SYSTEM_ADMIN
func RequireProviderAdmin() fiber.Handler {
	return RequireAccess(AccessProviderAdmin)
}

// RequireSchoolAdmin chỉ cho SCHOOL_ADMIN
func RequireSchoolAdmin() fiber.Handler {
	return RequireAccess(AccessSchoolAdmin)
}
