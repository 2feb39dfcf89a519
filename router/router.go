package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/schoolkit/handlers"
	"github.com/techmaster-vietnam/schoolkit/middleware"
	"github.com/techmaster-vietnam/schoolkit/models"
)

// Handlers gom các handler cần đăng ký
type Handlers struct {
	Auth   *handlers.AuthHandler
	Role   *handlers.RoleHandler
	User   *handlers.UserHandler
	School *handlers.SchoolHandler
}

// SetupRoutes đăng ký toàn bộ route của API vào app.
// Route tĩnh (/search, /export, ...) phải đăng ký trước route có :id cùng prefix.
func SetupRoutes(app fiber.Router, registry *RouteRegistry, authMw *middleware.AuthMiddleware, h Handlers) {
	root := NewAuthRouter(app, registry, authMw)
	root.Get("/health", health).Public().Description("Kiểm tra trạng thái server").Register()

	api := root.Group("/api")
	api.Get("/routes", routesHandler(registry)).ProviderAdmin().Description("Danh sách route và mức truy cập").Register()

	auth := api.Group("/auth")
	auth.Post("/login", h.Auth.Login).Public().Description("Đăng nhập").Register()
	auth.Post("/logout", h.Auth.Logout).Public().Description("Đăng xuất").Register()
	auth.Get("/me", h.Auth.Me).Authenticated().Description("Thông tin người dùng hiện tại").Register()

	roles := api.Group("/roles")
	roles.Get("/", h.Role.List).Authenticated().Description("Danh sách role").Register()
	roles.Get("/search", h.Role.Search).Authenticated().Description("Tìm role").Register()
	roles.Get("/:id", h.Role.Get).Authenticated().Description("Chi tiết role").Register()
	roles.Post("/", h.Role.Create).Admin().Description("Tạo role").Register()
	roles.Put("/:id", h.Role.Update).Admin().Description("Sửa role").Register()
	roles.Delete("/:id", h.Role.Delete).Admin().Description("Xóa role").Register()
	roles.Post("/:id/reassign-and-delete", h.Role.ReassignAndDelete).Admin().Description("Chuyển người dùng và xóa role").Register()

	users := api.Group("/users")
	users.Get("/", h.User.List).Admin().Description("Danh sách người dùng").Register()
	users.Get("/search", h.User.List).Admin().Description("Tìm người dùng").Register()
	users.Get("/export", h.User.Export).Admin().Description("Xuất danh sách người dùng (xlsx)").Register()
	users.Get("/role-in-use/:roleId", h.User.RoleInUse).Admin().Description("Kiểm tra role còn người dùng").Register()
	users.Get("/by-role/:roleId", h.User.ByRole).Admin().Description("Người dùng theo role").Register()
	users.Put("/reassign-role", h.User.ReassignRole).Admin().Description("Chuyển người dùng sang role khác").Register()
	users.Get("/:id", h.User.Get).Admin().Description("Chi tiết người dùng").Register()
	users.Post("/", h.User.Create).Admin().Description("Tạo người dùng").Register()
	users.Put("/:id", h.User.Update).Admin().Description("Sửa người dùng").Register()
	users.Delete("/:id", h.User.Delete).Admin().Description("Xóa người dùng").Register()

	schools := api.Group("/schools")
	schools.Get("/", h.School.List).ProviderAdmin().Description("Danh sách trường").Register()
	schools.Get("/search", h.School.List).ProviderAdmin().Description("Tìm trường theo tên").Register()
	schools.Get("/export", h.School.Export).ProviderAdmin().Description("Xuất danh sách trường (xlsx)").Register()
	schools.Get("/:id", h.School.Get).ProviderAdmin().Description("Chi tiết trường").Register()
	schools.Post("/", h.School.Create).ProviderAdmin().Description("Tạo trường và tài khoản quản trị").Register()
	schools.Put("/:id", h.School.Update).ProviderAdmin().Description("Sửa trường").Register()
	schools.Delete("/:id", h.School.Delete).ProviderAdmin().Description("Xóa trường").Register()
}

func health(c *fiber.Ctx) error {
	return c.JSON(models.Envelope[fiber.Map]{Status: true, Message: "OK", Data: fiber.Map{"status": "up"}})
}

func routesHandler(registry *RouteRegistry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(models.Envelope[[]RouteInfo]{Status: true, Message: "Thành công", Data: registry.Infos()})
	}
}
