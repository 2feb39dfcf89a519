package router

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/schoolkit/middleware"
)

// AuthRouter wrapper cho fiber.Router với fluent API để cấu hình routes và phân quyền
type AuthRouter struct {
	router   fiber.Router
	registry *RouteRegistry
	authMw   *middleware.AuthMiddleware
	prefix   string // Prefix path của group (để build full path)
}

// NewAuthRouter tạo mới AuthRouter
func NewAuthRouter(router fiber.Router, registry *RouteRegistry, authMw *middleware.AuthMiddleware) *AuthRouter {
	return &AuthRouter{
		router:   router,
		registry: registry,
		authMw:   authMw,
	}
}

// Get tạo GET route với fluent API
func (ar *AuthRouter) Get(path string, handler fiber.Handler) *RouteBuilder {
	return ar.createRouteBuilder(fiber.MethodGet, path, handler)
}

// Post tạo POST route với fluent API
func (ar *AuthRouter) Post(path string, handler fiber.Handler) *RouteBuilder {
	return ar.createRouteBuilder(fiber.MethodPost, path, handler)
}

// Put tạo PUT route với fluent API
func (ar *AuthRouter) Put(path string, handler fiber.Handler) *RouteBuilder {
	return ar.createRouteBuilder(fiber.MethodPut, path, handler)
}

// Delete tạo DELETE route với fluent API
func (ar *AuthRouter) Delete(path string, handler fiber.Handler) *RouteBuilder {
	return ar.createRouteBuilder(fiber.MethodDelete, path, handler)
}

// Group tạo router group với middleware tùy chọn
func (ar *AuthRouter) Group(prefix string, handlers ...fiber.Handler) *AuthRouter {
	group := NewAuthRouter(ar.router.Group(prefix, handlers...), ar.registry, ar.authMw)
	group.prefix = joinPath(ar.prefix, prefix)
	if group.prefix == "/" {
		group.prefix = ""
	}
	return group
}

// joinPath nối prefix và path, bỏ dấu / thừa ở cuối (trừ root)
func joinPath(prefix, path string) string {
	full := strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(path, "/")
	full = strings.TrimSuffix(full, "/")
	if full == "" {
		return "/"
	}
	return full
}

// convertPathToPattern đổi path param thành wildcard
// Ví dụ: /roles/:id -> /roles/*, /users/by-role/:roleId -> /users/by-role/*
func convertPathToPattern(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if strings.HasPrefix(part, ":") {
			parts[i] = "*"
		}
	}
	return strings.Join(parts, "/")
}

// createRouteBuilder tạo RouteBuilder cho route, mặc định yêu cầu đăng nhập
func (ar *AuthRouter) createRouteBuilder(method, path string, handler fiber.Handler) *RouteBuilder {
	return &RouteBuilder{
		metadata: &RouteMetadata{
			Method:   method,
			Path:     path,
			FullPath: convertPathToPattern(joinPath(ar.prefix, path)),
			Handler:  handler,
			Access:   middleware.AccessAuthenticated,
		},
		router:   ar.router,
		registry: ar.registry,
		authMw:   ar.authMw,
	}
}
