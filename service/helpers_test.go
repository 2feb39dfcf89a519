package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/schoolkit/cache"
	"github.com/techmaster-vietnam/schoolkit/config"
	"github.com/techmaster-vietnam/schoolkit/core"
	"github.com/techmaster-vietnam/schoolkit/database"
	"github.com/techmaster-vietnam/schoolkit/models"
	"github.com/techmaster-vietnam/schoolkit/repository"
	"github.com/techmaster-vietnam/schoolkit/utils"
)

var (
	seedOnce sync.Once
	seedData database.Dataset
)

// devData trả về dataset với password đã băm, chỉ băm một lần cho cả package
func devData() database.Dataset {
	seedOnce.Do(func() {
		seedData = database.DevDataset()
		for i := range seedData.Users {
			hashed, _ := utils.HashPassword(seedData.Users[i].Password)
			seedData.Users[i].Password = hashed
		}
	})
	return seedData
}

type fixture struct {
	store   *repository.MemoryStore
	usage   *RoleUsageService
	roles   *RoleService
	users   *UserService
	schools *SchoolService
	auth    *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ds := devData()
	store := repository.NewMemoryStore()
	store.Load(1, ds.Schools, ds.Roles, ds.Users)
	return newFixtureWith(store, store.Roles(), store.Users())
}

func newFixtureWith(store *repository.MemoryStore, roleRepo core.RoleRepository, userRepo core.UserRepository) *fixture {
	usage := NewRoleUsageService(roleRepo, userRepo)
	roleCache := cache.NewMemoryRoleCache()
	roles := NewRoleService(roleRepo, usage, roleCache)
	return &fixture{
		store:   store,
		usage:   usage,
		roles:   roles,
		users:   NewUserService(userRepo, roleRepo, usage),
		schools: NewSchoolService(store.Schools(), roleRepo, userRepo, roleCache, "admin123"),
		auth:    NewAuthService(userRepo, roles, config.JWTConfig{Secret: "test-secret", Issuer: "test", Expiration: time.Hour}),
	}
}

func uintPtr(v uint) *uint { return &v }

var (
	systemAdmin  = Actor{UserID: 1, Scope: models.ScopeProvider, RoleID: 1, RoleName: models.RoleSystemAdmin}
	systemStaff  = Actor{UserID: 2, Scope: models.ScopeProvider, RoleID: 2, RoleName: "SYSTEM_STAFF"}
	school1Admin = Actor{UserID: 3, Scope: models.ScopeSchool, SchoolID: uintPtr(1), RoleID: 3, RoleName: models.RoleSchoolAdmin}
	school2Admin = Actor{UserID: 6, Scope: models.ScopeSchool, SchoolID: uintPtr(2), RoleID: 3, RoleName: models.RoleSchoolAdmin}
	school1Staff = Actor{UserID: 4, Scope: models.ScopeSchool, SchoolID: uintPtr(1), RoleID: 4, RoleName: "TEACHER"}
)

// assertAppError kiểm tra err là *goerrorkit.AppError với code và (tùy chọn) đoạn message mong đợi
func assertAppError(t *testing.T, err error, code int, msgContains string) *goerrorkit.AppError {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error with code %d but got nil", code)
	}
	var appErr *goerrorkit.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("Expected *goerrorkit.AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Errorf("Expected code %d, got %d (%s)", code, appErr.Code, appErr.Message)
	}
	if msgContains != "" && !strings.Contains(appErr.Message, msgContains) {
		t.Errorf("Expected message to contain %q, got %q", msgContains, appErr.Message)
	}
	return appErr
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	appErr := assertAppError(t, err, 400, "")
	if appErr.Type != goerrorkit.ValidationError {
		t.Errorf("Expected ValidationError type, got %s", appErr.Type)
	}
	fields, _ := appErr.Data["fields"].(map[string]string)
	return fields
}

// failingUserRepository trả lỗi cho các truy vấn đếm, để kiểm tra đường lỗi hệ thống
type failingUserRepository struct {
	core.UserRepository
	err error
}

func (f failingUserRepository) CountByRoles(ctx context.Context, ids []uint) (map[uint]int64, error) {
	return nil, f.err
}
