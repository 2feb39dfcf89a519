package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/techmaster-vietnam/schoolkit/models"
)

// SchoolClient gọi /api/schools, chỉ dành cho quản trị hệ thống
type SchoolClient struct {
	c *Client
}

// List lấy danh sách trường, name khác rỗng thì tìm theo tên
func (s *SchoolClient) List(ctx context.Context, name string) ([]models.School, error) {
	path := "/api/schools"
	var q url.Values
	if name != "" {
		path = "/api/schools/search"
		q = url.Values{"name": {name}}
	}
	var schools []models.School
	if err := s.c.do(ctx, http.MethodGet, path, q, nil, &schools); err != nil {
		return nil, err
	}
	return schools, nil
}

// Get lấy trường theo ID
func (s *SchoolClient) Get(ctx context.Context, id uint) (*models.School, error) {
	var school models.School
	if err := s.c.do(ctx, http.MethodGet, fmt.Sprintf("/api/schools/%d", id), nil, nil, &school); err != nil {
		return nil, err
	}
	return &school, nil
}

// Create tạo trường, server đồng thời tạo tài khoản quản trị trường
func (s *SchoolClient) Create(ctx context.Context, in SchoolInput) (*models.School, error) {
	var school models.School
	if err := s.c.do(ctx, http.MethodPost, "/api/schools", nil, in, &school); err != nil {
		return nil, err
	}
	return &school, nil
}

// Update sửa trường
func (s *SchoolClient) Update(ctx context.Context, id uint, in SchoolInput) (*models.School, error) {
	var school models.School
	if err := s.c.do(ctx, http.MethodPut, fmt.Sprintf("/api/schools/%d", id), nil, in, &school); err != nil {
		return nil, err
	}
	return &school, nil
}

// Delete xóa trường
func (s *SchoolClient) Delete(ctx context.Context, id uint) error {
	return s.c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/schools/%d", id), nil, nil, nil)
}

// Export tải file xlsx danh sách trường
func (s *SchoolClient) Export(ctx context.Context, name string) ([]byte, error) {
	var q url.Values
	if name != "" {
		q = url.Values{"name": {name}}
	}
	return s.c.download(ctx, "/api/schools/export", q)
}
