package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/schoolkit/service"
)

// RoleHandler handles role endpoints
type RoleHandler struct {
	roleService *service.RoleService
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(roleService *service.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

func (h *RoleHandler) query(c *fiber.Ctx, withKeyword bool) (service.RoleQuery, error) {
	q := service.RoleQuery{PageRequest: pageRequest(c)}
	typeRole, err := queryScope(c, "typeRole")
	if err != nil {
		return q, err
	}
	q.TypeRole = typeRole
	if q.SchoolID, err = queryUint(c, "schoolId"); err != nil {
		return q, err
	}
	if withKeyword {
		q.Keyword = c.Query("keyword")
	}
	q.ExcludeNames = queryList(c, "excludeName")
	return q, nil
}

func (h *RoleHandler) list(c *fiber.Ctx, withKeyword bool) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	q, err := h.query(c, withKeyword)
	if err != nil {
		return err
	}

	page, err := h.roleService.List(c.UserContext(), actor, q)
	if err != nil {
		return err
	}
	return ok(c, "Thành công", page)
}

// List lấy danh sách role có phân trang
// GET /api/roles?typeRole=&schoolId=&excludeName=&page=&size=
func (h *RoleHandler) List(c *fiber.Ctx) error {
	return h.list(c, false)
}

// Search tìm role theo tên hoặc mô tả
// GET /api/roles/search?keyword=&typeRole=&schoolId=&excludeName=&page=&size=
func (h *RoleHandler) Search(c *fiber.Ctx) error {
	return h.list(c, true)
}

// Get lấy role theo ID, kèm userCount
// GET /api/roles/:id
func (h *RoleHandler) Get(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	role, err := h.roleService.GetByID(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return ok(c, "Thành công", role)
}

// Create handles create role request
// POST /api/roles
func (h *RoleHandler) Create(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req service.RoleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	role, err := h.roleService.Create(c.UserContext(), actor, req)
	if err != nil {
		return err
	}
	return created(c, "Tạo role thành công", role)
}

// Update handles update role request
// PUT /api/roles/:id
func (h *RoleHandler) Update(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.RoleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	role, err := h.roleService.Update(c.UserContext(), actor, id, req)
	if err != nil {
		return err
	}
	return ok(c, "Cập nhật role thành công", role)
}

// Delete xóa role, trả về 409 nếu role còn người dùng
// DELETE /api/roles/:id
func (h *RoleHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.roleService.Delete(c.UserContext(), actor, id); err != nil {
		return err
	}
	return ok(c, "Xóa role thành công", nil)
}

// ReassignAndDelete chuyển người dùng sang role mới rồi xóa role trong một giao dịch.
// data là số người dùng đã được chuyển.
// POST /api/roles/:id/reassign-and-delete?newRoleId=
func (h *RoleHandler) ReassignAndDelete(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	newRoleID, err := queryUint(c, "newRoleId")
	if err != nil {
		return err
	}
	var target uint
	if newRoleID != nil {
		target = *newRoleID
	}

	updated, err := h.roleService.ReassignAndDelete(c.UserContext(), actor, id, target)
	if err != nil {
		return err
	}
	return ok(c, "Đã chuyển người dùng và xóa role", updated)
}
