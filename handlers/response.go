package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/schoolkit/middleware"
	"github.com/techmaster-vietnam/schoolkit/models"
	"github.com/techmaster-vietnam/schoolkit/service"
)

func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(models.Envelope[interface{}]{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

func ok(c *fiber.Ctx, message string, data interface{}) error {
	return respond(c, fiber.StatusOK, message, data)
}

func created(c *fiber.Ctx, message string, data interface{}) error {
	return respond(c, fiber.StatusCreated, message, data)
}

// nonNil đảm bảo danh sách rỗng được trả về dạng [] thay vì null
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func invalidField(field, message string) error {
	return goerrorkit.NewValidationError(message, map[string]interface{}{
		"fields": map[string]string{field: message},
	})
}

// paramID đọc path param dạng số dương
func paramID(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || v == 0 {
		return 0, invalidField(name, "ID không hợp lệ")
	}
	return uint(v), nil
}

// queryUint đọc query param dạng số, trả về nil nếu không có
func queryUint(c *fiber.Ctx, name string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, invalidField(name, "Giá trị phải là số nguyên dương")
	}
	id := uint(v)
	return &id, nil
}

// queryList đọc tham số lặp lại (?k=a&k=b) hoặc phân tách bằng dấu phẩy (?k=a,b)
func queryList(c *fiber.Ctx, name string) []string {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(name) {
		for _, part := range strings.Split(string(raw), ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func queryScope(c *fiber.Ctx, name string) (models.Scope, error) {
	scope := models.Scope(strings.ToUpper(strings.TrimSpace(c.Query(name))))
	if scope != "" && !scope.Valid() {
		return "", invalidField(name, "Phạm vi phải là PROVIDER hoặc SCHOOL")
	}
	return scope, nil
}

func pageRequest(c *fiber.Ctx) service.PageRequest {
	return service.PageRequest{Page: c.QueryInt("page", 1), Size: c.QueryInt("size", 0)}
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return goerrorkit.NewValidationError("Dữ liệu không hợp lệ", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return nil
}

// actorOf lấy Actor do AuthMiddleware gắn vào
func actorOf(c *fiber.Ctx) (service.Actor, error) {
	actor, found := middleware.GetActor(c)
	if !found {
		return service.Actor{}, goerrorkit.NewAuthError(401, "Không tìm thấy thông tin người dùng")
	}
	return actor, nil
}
