package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/techmaster-vietnam/schoolkit/models"
)

// RoleClient gọi /api/roles
type RoleClient struct {
	c *Client
}

func (q RoleQuery) values() url.Values {
	v := url.Values{}
	// Server đánh số trang từ 1
	v.Set("page", strconv.Itoa(q.Page+1))
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if q.TypeRole != "" {
		v.Set("typeRole", string(q.TypeRole))
	}
	setUint(v, "schoolId", q.SchoolID)
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	for _, name := range q.ExcludeNames {
		v.Add("excludeName", name)
	}
	return v
}

// List lấy một trang role. Page trong kết quả bắt đầu từ 0.
func (r *RoleClient) List(ctx context.Context, q RoleQuery) (*models.Page[models.Role], error) {
	path := "/api/roles"
	if q.Keyword != "" {
		path = "/api/roles/search"
	}
	var page models.Page[models.Role]
	if err := r.c.do(ctx, http.MethodGet, path, q.values(), nil, &page); err != nil {
		return nil, err
	}
	page.Page--
	return &page, nil
}

// Get lấy role theo ID, kèm userCount
func (r *RoleClient) Get(ctx context.Context, id uint) (*models.Role, error) {
	var role models.Role
	if err := r.c.do(ctx, http.MethodGet, fmt.Sprintf("/api/roles/%d", id), nil, nil, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// Create tạo role
func (r *RoleClient) Create(ctx context.Context, in RoleInput) (*models.Role, error) {
	var role models.Role
	if err := r.c.do(ctx, http.MethodPost, "/api/roles", nil, in, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// Update sửa role
func (r *RoleClient) Update(ctx context.Context, id uint, in RoleInput) (*models.Role, error) {
	var role models.Role
	if err := r.c.do(ctx, http.MethodPut, fmt.Sprintf("/api/roles/%d", id), nil, in, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// Delete xóa role. Role còn người dùng trả về *ConflictError.
func (r *RoleClient) Delete(ctx context.Context, id uint) error {
	return r.c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/roles/%d", id), nil, nil, nil)
}

// ReassignAndDelete chuyển người dùng sang newRoleID và xóa role trong một giao dịch phía server.
// Trả về số người dùng đã được chuyển.
func (r *RoleClient) ReassignAndDelete(ctx context.Context, id, newRoleID uint) (int64, error) {
	q := url.Values{}
	q.Set("newRoleId", strconv.FormatUint(uint64(newRoleID), 10))
	var updated int64
	if err := r.c.do(ctx, http.MethodPost, fmt.Sprintf("/api/roles/%d/reassign-and-delete", id), q, nil, &updated); err != nil {
		return 0, err
	}
	return updated, nil
}
