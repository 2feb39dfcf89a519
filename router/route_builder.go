package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/schoolkit/middleware"
)

// RouteBuilder cung cấp fluent API để cấu hình route và mức truy cập
type RouteBuilder struct {
	metadata *RouteMetadata
	router   fiber.Router
	registry *RouteRegistry
	authMw   *middleware.AuthMiddleware
}

// Public đánh dấu route là public (không cần đăng nhập)
func (rb *RouteBuilder) Public() *RouteBuilder {
	rb.metadata.Access = middleware.AccessPublic
	return rb
}

// Authenticated cho mọi user đã đăng nhập
func (rb *RouteBuilder) Authenticated() *RouteBuilder {
	rb.metadata.Access = middleware.AccessAuthenticated
	return rb
}

// Admin cho quản trị hệ thống và quản trị trường
func (rb *RouteBuilder) Admin() *RouteBuilder {
	rb.metadata.Access = middleware.AccessAdmin
	return rb
}

// ProviderAdmin chỉ cho SYSTEM_ADMIN
func (rb *RouteBuilder) ProviderAdmin() *RouteBuilder {
	rb.metadata.Access = middleware.AccessProviderAdmin
	return rb
}

// SchoolAdmin chỉ cho SCHOOL_ADMIN
func (rb *RouteBuilder) SchoolAdmin() *RouteBuilder {
	rb.metadata.Access = middleware.AccessSchoolAdmin
	return rb
}

// Description thêm mô tả cho route
func (rb *RouteBuilder) Description(desc string) *RouteBuilder {
	rb.metadata.Description = desc
	return rb
}

// Register hoàn tất việc đăng ký route và áp dụng middleware phù hợp
func (rb *RouteBuilder) Register() {
	rb.registry.Register(rb.metadata)

	if rb.metadata.Access == middleware.AccessPublic {
		rb.router.Add(rb.metadata.Method, rb.metadata.Path, rb.metadata.Handler)
		return
	}
	rb.router.Add(
		rb.metadata.Method,
		rb.metadata.Path,
		rb.authMw.RequireAuth(),
		middleware.RequireAccess(rb.metadata.Access),
		rb.metadata.Handler,
	)
}
