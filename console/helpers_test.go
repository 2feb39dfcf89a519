package console_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/require"
	"github.com/techmaster-vietnam/schoolkit"
	"github.com/techmaster-vietnam/schoolkit/client"
	"github.com/techmaster-vietnam/schoolkit/config"
	"github.com/techmaster-vietnam/schoolkit/console"
	"github.com/techmaster-vietnam/schoolkit/handlers"
	"github.com/techmaster-vietnam/schoolkit/models"
)

const (
	providerEmail = "admin@system.com"
	school1Admin  = "an.nguyen@school1.edu.vn"
	school1Staff  = "lan.tran@school1.edu.vn"
)

// startServer chạy server thật với bộ nhớ trong và dữ liệu mẫu, trả về base URL
func startServer(t *testing.T) string {
	t.Helper()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(requestid.New())
	app.Use(handlers.ErrorHandler())

	cfg := &config.Config{
		JWT:     config.JWTConfig{Secret: "console-test-secret", Issuer: "schoolkit-test", Expiration: time.Hour},
		Storage: config.StorageConfig{Driver: config.StorageMemory},
		Seed:    config.SeedConfig{Enabled: true, Version: 1, DefaultSchoolAdminPassword: "admin123"},
	}
	kit, err := schoolkit.New(app).WithConfig(cfg).Initialize(context.Background())
	require.NoError(t, err)
	kit.SetupRoutes()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() {
		_ = app.Shutdown()
		_ = kit.Close()
	})
	return "http://" + ln.Addr().String()
}

func newClient(baseURL string) *client.Client {
	return client.New(client.Config{BaseURL: baseURL, Timeout: 5 * time.Second})
}

func login(t *testing.T, baseURL, email, password string) (*client.Client, console.Session) {
	t.Helper()
	c := newClient(baseURL)
	s, err := console.Login(context.Background(), c, email, password, nil)
	require.NoError(t, err)
	return c, s
}

func providerSession() console.Session {
	return console.Session{
		Token:     "token",
		Principal: client.Principal{ID: 1, Scope: models.ScopeProvider, RoleID: 1},
		Role:      &models.Role{ID: 1, RoleName: models.RoleSystemAdmin, TypeRole: models.ScopeProvider},
	}
}

func schoolSession(schoolID uint) console.Session {
	return console.Session{
		Token:     "token",
		Principal: client.Principal{ID: 3, Scope: models.ScopeSchool, SchoolID: &schoolID, RoleID: 3},
		Role:      &models.Role{ID: 3, RoleName: models.RoleSchoolAdmin, TypeRole: models.ScopeSchool},
	}
}

func writeEnvelope(w http.ResponseWriter, status int, ok bool, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.Envelope[interface{}]{Status: ok, Message: message, Data: data})
}

// stubServer dựng server giả với các route cho trước, route lạ trả về 404
func stubServer(t *testing.T, routes map[string]http.HandlerFunc) *client.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := routes[r.Method+" "+r.URL.Path]; ok {
			h(w, r)
			return
		}
		writeEnvelope(w, http.StatusNotFound, false, "not found", nil)
	}))
	t.Cleanup(srv.Close)
	c := newClient(srv.URL)
	c.SetToken("token")
	return c
}

func uintPtr(v uint) *uint { return &v }

func roleIDs(roles []models.Role) []uint {
	ids := make([]uint, 0, len(roles))
	for _, r := range roles {
		ids = append(ids, r.ID)
	}
	return ids
}

func userIDs(users []models.User) []uint {
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}
