package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config cấu hình client
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	RetryCount    int // chỉ áp dụng cho GET, 0 = không retry
	RetryWaitTime time.Duration
	Logger        *zap.Logger
}

// Client gọi REST API của schoolkit. Token được gắn vào mọi request sau khi SetToken.
type Client struct {
	http   *resty.Client
	logger *zap.Logger

	mu    sync.RWMutex
	token string

	Auth    *AuthClient
	Roles   *RoleClient
	Users   *UserClient
	Schools *SchoolClient
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *envelope) fields() map[string]string {
	if len(e.Data) == 0 {
		return nil
	}
	var data struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(e.Data, &data); err != nil {
		return nil
	}
	return data.Fields
}

// New tạo client mới
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RetryWaitTime <= 0 {
		cfg.RetryWaitTime = 500 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	if cfg.RetryCount > 0 {
		httpClient.
			SetRetryCount(cfg.RetryCount).
			SetRetryWaitTime(cfg.RetryWaitTime).
			SetRetryMaxWaitTime(4 * cfg.RetryWaitTime).
			AddRetryCondition(retryIdempotent)
	}

	c := &Client{http: httpClient, logger: logger}
	c.Auth = &AuthClient{c: c}
	c.Roles = &RoleClient{c: c}
	c.Users = &UserClient{c: c}
	c.Schools = &SchoolClient{c: c}
	return c
}

// retryIdempotent chỉ retry GET khi lỗi mạng hoặc 5xx. Thao tác ghi không bao giờ được retry.
func retryIdempotent(resp *resty.Response, err error) bool {
	if resp == nil || resp.Request == nil || resp.Request.Method != http.MethodGet {
		return false
	}
	return err != nil || resp.StatusCode() >= http.StatusInternalServerError
}

// SetToken gắn access token cho các request sau
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token trả về access token hiện tại
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString())
	if token := c.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// do gửi request, bóc envelope và giải mã data vào out (nếu out khác nil)
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	req := c.request(ctx)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Warn("API call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	var env envelope
	if raw := resp.Body(); len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.IsSuccess() {
			return &ServerError{Status: resp.StatusCode(), Message: "response không đúng định dạng envelope"}
		}
	}
	if apiErr := decodeError(resp.StatusCode(), &env); apiErr != nil {
		c.logger.Debug("API returned error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("message", env.Message),
		)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		c.logger.Warn("API response missing data",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode()),
		)
		return &EnvelopeError{Message: fmt.Sprintf("%s %s: response thiếu data", method, path)}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// download tải nội dung nhị phân (xlsx). Lỗi vẫn được trả về dạng envelope.
func (c *Client) download(ctx context.Context, path string, query url.Values) ([]byte, error) {
	req := c.request(ctx)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	resp, err := req.Get(path)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.IsError() {
		var env envelope
		_ = json.Unmarshal(resp.Body(), &env)
		return nil, decodeError(resp.StatusCode(), &env)
	}
	return resp.Body(), nil
}

func setUint(q url.Values, key string, v *uint) {
	if v != nil {
		q.Set(key, fmt.Sprint(*v))
	}
}
