package middleware_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/schoolkit/handlers"
	"github.com/techmaster-vietnam/schoolkit/middleware"
	"github.com/techmaster-vietnam/schoolkit/models"
	"github.com/techmaster-vietnam/schoolkit/service"
)

// stubAuthenticator trả Actor theo token cố định
type stubAuthenticator map[string]service.Actor

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (service.Actor, error) {
	actor, found := s[token]
	if !found {
		return service.Actor{}, goerrorkit.NewAuthError(401, "Token không hợp lệ")
	}
	return actor, nil
}

func uintPtr(v uint) *uint { return &v }

var tokens = stubAuthenticator{
	"provider-admin": {UserID: 1, Scope: models.ScopeProvider, RoleName: models.RoleSystemAdmin},
	"provider-staff": {UserID: 2, Scope: models.ScopeProvider, RoleName: "SYSTEM_STAFF"},
	"school-admin":   {UserID: 3, Scope: models.ScopeSchool, SchoolID: uintPtr(1), RoleName: models.RoleSchoolAdmin},
	"orphan-admin":   {UserID: 9, Scope: models.ScopeSchool, RoleName: models.RoleSchoolAdmin},
	"teacher":        {UserID: 4, Scope: models.ScopeSchool, SchoolID: uintPtr(1), RoleName: "TEACHER"},
}

func newApp(access middleware.Access) *fiber.App {
	app := fiber.New()
	app.Use(handlers.ErrorHandler())
	authMw := middleware.NewAuthMiddleware(tokens)
	app.Get("/protected", authMw.RequireAuth(), middleware.RequireAccess(access), func(c *fiber.Ctx) error {
		actor, _ := middleware.GetActor(c)
		userID, _ := middleware.GetUserIDFromContext(c)
		if actor.UserID != userID {
			return fiber.ErrInternalServerError
		}
		return c.SendString(actor.RoleName)
	})
	return app
}

func TestRequireAuth_TokenSources(t *testing.T) {
	app := newApp(middleware.AccessAuthenticated)

	tests := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{"không có token", "", "", 401},
		{"bearer header", "Bearer teacher", "", 200},
		{"bearer viết thường", "bearer teacher", "", 200},
		{"sai định dạng header", "Token teacher", "", 401},
		{"cookie", "", "teacher", 200},
		{"token không hợp lệ", "Bearer nope", "", 401},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.Header.Set("Cookie", "token="+tt.cookie)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestRequireAccess(t *testing.T) {
	tests := []struct {
		access middleware.Access
		token  string
		want   int
	}{
		{middleware.AccessAuthenticated, "teacher", 200},
		{middleware.AccessAdmin, "provider-admin", 200},
		{middleware.AccessAdmin, "school-admin", 200},
		{middleware.AccessAdmin, "provider-staff", 403},
		{middleware.AccessAdmin, "teacher", 403},
		{middleware.AccessAdmin, "orphan-admin", 403},
		{middleware.AccessProviderAdmin, "provider-admin", 200},
		{middleware.AccessProviderAdmin, "school-admin", 403},
		{middleware.AccessSchoolAdmin, "school-admin", 200},
		{middleware.AccessSchoolAdmin, "provider-admin", 403},
	}
	for _, tt := range tests {
		t.Run(tt.access.String()+"/"+tt.token, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			resp, err := newApp(tt.access).Test(req, -1)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestRequireAccess_WithoutAuth(t *testing.T) {
	app := fiber.New()
	app.Use(handlers.ErrorHandler())
	app.Get("/public", middleware.RequireAccess(middleware.AccessPublic), func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/admin", middleware.RequireAdmin(), func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, _ := app.Test(httptest.NewRequest("GET", "/public", nil), -1)
	if resp.StatusCode != 200 {
		t.Errorf("public = %d", resp.StatusCode)
	}
	// Guard đứng một mình, không có actor trong context
	resp, _ = app.Test(httptest.NewRequest("GET", "/admin", nil), -1)
	if resp.StatusCode != 401 {
		t.Errorf("admin without actor = %d, want 401", resp.StatusCode)
	}
}
