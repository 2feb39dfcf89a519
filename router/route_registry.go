package router

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/schoolkit/middleware"
)

// RouteMetadata lưu thông tin route được khai báo trong code
type RouteMetadata struct {
	Method      string
	Path        string // Relative path (để register vào router)
	FullPath    string // Full path bao gồm prefix, path param đổi thành *
	Handler     fiber.Handler
	Access      middleware.Access
	Description string
}

// RouteInfo là thông tin route trả về qua GET /api/routes
type RouteInfo struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Access      string `json:"access"`
	Description string `json:"description"`
}

// RouteRegistry quản lý tất cả routes được đăng ký từ code
type RouteRegistry struct {
	routes []*RouteMetadata
	mutex  sync.RWMutex
}

// NewRouteRegistry tạo mới RouteRegistry
func NewRouteRegistry() *RouteRegistry {
	return &RouteRegistry{routes: make([]*RouteMetadata, 0)}
}

// Register đăng ký một route vào registry
func (rr *RouteRegistry) Register(route *RouteMetadata) {
	rr.mutex.Lock()
	defer rr.mutex.Unlock()

	rr.routes = append(rr.routes, route)
}

// GetAllRoutes trả về tất cả routes đã đăng ký, theo thứ tự đăng ký
func (rr *RouteRegistry) GetAllRoutes() []*RouteMetadata {
	rr.mutex.RLock()
	defer rr.mutex.RUnlock()

	routes := make([]*RouteMetadata, len(rr.routes))
	copy(routes, rr.routes)
	return routes
}

// Infos trả về danh sách route dạng hiển thị
func (rr *RouteRegistry) Infos() []RouteInfo {
	routes := rr.GetAllRoutes()
	infos := make([]RouteInfo, 0, len(routes))
	for _, r := range routes {
		infos = append(infos, RouteInfo{
			Method:      r.Method,
			Path:        r.FullPath,
			Access:      r.Access.String(),
			Description: r.Description,
		})
	}
	return infos
}
