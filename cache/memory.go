package cache

import (
	"context"
	"sync"

	"github.com/techmaster-vietnam/schoolkit/models"
)

// MemoryRoleCache cache role trong process, dùng khi không cấu hình Redis
type MemoryRoleCache struct {
	mu    sync.RWMutex
	roles map[uint]models.Role
}

// NewMemoryRoleCache tạo cache rỗng
func NewMemoryRoleCache() *MemoryRoleCache {
	return &MemoryRoleCache{roles: make(map[uint]models.Role)}
}

func (c *MemoryRoleCache) Get(_ context.Context, id uint) (*models.Role, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	role, ok := c.roles[id]
	if !ok {
		return nil, false
	}
	return &role, true
}

func (c *MemoryRoleCache) Set(_ context.Context, role *models.Role) {
	if role == nil {
		return
	}
	c.mu.Lock()
	c.roles[role.ID] = *role
	c.mu.Unlock()
}

func (c *MemoryRoleCache) Invalidate(_ context.Context, id uint) {
	c.mu.Lock()
	delete(c.roles, id)
	c.mu.Unlock()
}

func (c *MemoryRoleCache) Clear(_ context.Context) {
	c.mu.Lock()
	c.roles = make(map[uint]models.Role)
	c.mu.Unlock()
}
