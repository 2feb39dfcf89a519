package client

import (
	"context"
	"net/http"
)

// AuthClient gọi /api/auth
type AuthClient struct {
	c *Client
}

// Login đăng nhập. Client không tự lưu token, gọi SetToken nếu cần.
func (a *AuthClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var result LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := a.c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Me lấy thông tin user của token hiện tại
func (a *AuthClient) Me(ctx context.Context) (*Principal, error) {
	var p Principal
	if err := a.c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
