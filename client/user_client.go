package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/techmaster-vietnam/schoolkit/models"
)

// UserClient gọi /api/users
type UserClient struct {
	c *Client
}

func (q UserQuery) values() url.Values {
	v := url.Values{}
	if q.Scope != "" {
		v.Set("scope", string(q.Scope))
	}
	setUint(v, "schoolId", q.SchoolID)
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	return v
}

// List lấy danh sách user. Có Keyword thì gọi /search.
func (u *UserClient) List(ctx context.Context, q UserQuery) ([]models.User, error) {
	path := "/api/users"
	if q.Keyword != "" {
		path = "/api/users/search"
	}
	var users []models.User
	if err := u.c.do(ctx, http.MethodGet, path, q.values(), nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Get lấy user theo ID
func (u *UserClient) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := u.c.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create tạo user
func (u *UserClient) Create(ctx context.Context, in UserInput) (*models.User, error) {
	var user models.User
	if err := u.c.do(ctx, http.MethodPost, "/api/users", nil, in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update sửa user
func (u *UserClient) Update(ctx context.Context, id uint, in UserInput) (*models.User, error) {
	var user models.User
	if err := u.c.do(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d", id), nil, in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete xóa user
func (u *UserClient) Delete(ctx context.Context, id uint) error {
	return u.c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/users/%d", id), nil, nil, nil)
}

// IsRoleInUse kiểm tra role còn người dùng không
func (u *UserClient) IsRoleInUse(ctx context.Context, roleID uint) (bool, error) {
	var inUse bool
	if err := u.c.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/role-in-use/%d", roleID), nil, nil, &inUse); err != nil {
		return false, err
	}
	return inUse, nil
}

// ByRole lấy danh sách user đang giữ role
func (u *UserClient) ByRole(ctx context.Context, roleID uint) ([]models.User, error) {
	var users []models.User
	if err := u.c.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/by-role/%d", roleID), nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ReassignRole chuyển toàn bộ user từ oldRoleID sang newRoleID, không xóa role cũ
func (u *UserClient) ReassignRole(ctx context.Context, oldRoleID, newRoleID uint) (int64, error) {
	q := url.Values{}
	q.Set("oldRoleId", strconv.FormatUint(uint64(oldRoleID), 10))
	q.Set("newRoleId", strconv.FormatUint(uint64(newRoleID), 10))
	var updated int64
	if err := u.c.do(ctx, http.MethodPut, "/api/users/reassign-role", q, nil, &updated); err != nil {
		return 0, err
	}
	return updated, nil
}

// Export tải file xlsx danh sách user
func (u *UserClient) Export(ctx context.Context, q UserQuery) ([]byte, error) {
	return u.c.download(ctx, "/api/users/export", q.values())
}
