package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/schoolkit/export"
	"github.com/techmaster-vietnam/schoolkit/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// UserHandler handles user endpoints
type UserHandler struct {
	userService   *service.UserService
	roleService   *service.RoleService
	schoolService *service.SchoolService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService, roleService *service.RoleService, schoolService *service.SchoolService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		roleService:   roleService,
		schoolService: schoolService,
	}
}

func (h *UserHandler) query(c *fiber.Ctx) (service.UserQuery, error) {
	var q service.UserQuery
	scope, err := queryScope(c, "scope")
	if err != nil {
		return q, err
	}
	q.Scope = scope
	if q.SchoolID, err = queryUint(c, "schoolId"); err != nil {
		return q, err
	}
	q.Keyword = c.Query("keyword")
	return q, nil
}

// List lấy danh sách user theo scope/trường
// GET /api/users?scope=&schoolId=
// GET /api/users/search?keyword=&schoolId=
func (h *UserHandler) List(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	q, err := h.query(c)
	if err != nil {
		return err
	}

	users, err := h.userService.List(c.UserContext(), actor, q)
	if err != nil {
		return err
	}
	return ok(c, "Thành công", nonNil(users))
}

// Get lấy user theo ID
// GET /api/users/:id
func (h *UserHandler) Get(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userService.GetByID(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return ok(c, "Thành công", user)
}

// Create handles create user request
// POST /api/users
func (h *UserHandler) Create(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req service.UserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.userService.Create(c.UserContext(), actor, req)
	if err != nil {
		return err
	}
	return created(c, "Tạo người dùng thành công", user)
}

// Update handles update user request
// PUT /api/users/:id
func (h *UserHandler) Update(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.UserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.userService.Update(c.UserContext(), actor, id, req)
	if err != nil {
		return err
	}
	return ok(c, "Cập nhật người dùng thành công", user)
}

// Delete handles delete user request
// DELETE /api/users/:id
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.userService.Delete(c.UserContext(), actor, id); err != nil {
		return err
	}
	return ok(c, "Xóa người dùng thành công", nil)
}

// RoleInUse trả về true nếu role còn người dùng
// GET /api/users/role-in-use/:roleId
func (h *UserHandler) RoleInUse(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	roleID, err := paramID(c, "roleId")
	if err != nil {
		return err
	}

	inUse, err := h.userService.IsRoleInUse(c.UserContext(), actor, roleID)
	if err != nil {
		return err
	}
	return ok(c, "Thành công", inUse)
}

// ByRole lấy danh sách user đang giữ role
// GET /api/users/by-role/:roleId
func (h *UserHandler) ByRole(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	roleID, err := paramID(c, "roleId")
	if err != nil {
		return err
	}

	users, err := h.userService.ListByRole(c.UserContext(), actor, roleID)
	if err != nil {
		return err
	}
	return ok(c, "Thành công", nonNil(users))
}

// ReassignRole chuyển toàn bộ user từ role cũ sang role mới, data là số user được cập nhật
// PUT /api/users/reassign-role?oldRoleId=&newRoleId=
func (h *UserHandler) ReassignRole(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	oldRoleID, err := queryUint(c, "oldRoleId")
	if err != nil {
		return err
	}
	if oldRoleID == nil {
		return invalidField("oldRoleId", "Thiếu role cần chuyển")
	}
	newRoleID, err := queryUint(c, "newRoleId")
	if err != nil {
		return err
	}
	var target uint
	if newRoleID != nil {
		target = *newRoleID
	}

	updated, err := h.userService.ReassignRole(c.UserContext(), actor, *oldRoleID, target)
	if err != nil {
		return err
	}
	return ok(c, fmt.Sprintf("Đã chuyển %d người dùng sang role mới", updated), updated)
}

// Export xuất danh sách user ra file xlsx, dùng cùng bộ lọc với List
// GET /api/users/export?scope=&schoolId=&keyword=
func (h *UserHandler) Export(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	q, err := h.query(c)
	if err != nil {
		return err
	}
	ctx := c.UserContext()

	users, err := h.userService.List(ctx, actor, q)
	if err != nil {
		return err
	}
	roleNames := make(map[uint]string)
	for _, u := range users {
		if _, done := roleNames[u.RoleID]; done {
			continue
		}
		// Role không còn thì để trống cột
		if role, err := h.roleService.Lookup(ctx, u.RoleID); err == nil {
			roleNames[u.RoleID] = role.RoleName
		} else {
			roleNames[u.RoleID] = ""
		}
	}
	schools, err := h.schoolService.List(ctx, "")
	if err != nil {
		return err
	}
	schoolNames := make(map[uint]string, len(schools))
	for _, s := range schools {
		schoolNames[s.ID] = s.Name
	}

	data, err := export.Users(users, roleNames, schoolNames)
	if err != nil {
		return goerrorkit.WrapWithMessage(err, "Lỗi khi xuất file người dùng")
	}
	return sendXLSX(c, "users", data)
}

func sendXLSX(c *fiber.Ctx, name string, data []byte) error {
	filename := fmt.Sprintf("%s_%s.xlsx", name, time.Now().Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}
