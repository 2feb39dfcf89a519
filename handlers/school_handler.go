package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/schoolkit/export"
	"github.com/techmaster-vietnam/schoolkit/service"
)

// SchoolHandler handles school endpoints, chỉ dành cho quản trị hệ thống
type SchoolHandler struct {
	schoolService *service.SchoolService
}

// NewSchoolHandler creates a new school handler
func NewSchoolHandler(schoolService *service.SchoolService) *SchoolHandler {
	return &SchoolHandler{schoolService: schoolService}
}

// List lấy danh sách trường, /search lọc theo tên
// GET /api/schools
// GET /api/schools/search?name=
func (h *SchoolHandler) List(c *fiber.Ctx) error {
	schools, err := h.schoolService.List(c.UserContext(), c.Query("name"))
	if err != nil {
		return err
	}
	return ok(c, "Thành công", nonNil(schools))
}

// Get lấy trường theo ID
// GET /api/schools/:id
func (h *SchoolHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	school, err := h.schoolService.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, "Thành công", school)
}

// Create tạo trường và tài khoản quản trị trường
// POST /api/schools
func (h *SchoolHandler) Create(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req service.SchoolRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	school, err := h.schoolService.Create(c.UserContext(), actor, req)
	if err != nil {
		return err
	}
	return created(c, "Tạo trường thành công", school)
}

// Update handles update school request
// PUT /api/schools/:id
func (h *SchoolHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.SchoolRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	school, err := h.schoolService.Update(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return ok(c, "Cập nhật trường thành công", school)
}

// Delete xóa trường cùng người dùng và role riêng của trường
// DELETE /api/schools/:id
func (h *SchoolHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.schoolService.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return ok(c, "Xóa trường thành công", nil)
}

// Export xuất danh sách trường ra file xlsx
// GET /api/schools/export?name=
func (h *SchoolHandler) Export(c *fiber.Ctx) error {
	schools, err := h.schoolService.List(c.UserContext(), c.Query("name"))
	if err != nil {
		return err
	}
	data, err := export.Schools(schools)
	if err != nil {
		return goerrorkit.WrapWithMessage(err, "Lỗi khi xuất file trường")
	}
	return sendXLSX(c, "schools", data)
}
