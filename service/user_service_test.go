package service

import (
	"context"
	"testing"

	"github.com/techmaster-vietnam/schoolkit/models"
	"github.com/techmaster-vietnam/schoolkit/utils"
)

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name  string
		actor Actor
		query UserQuery
		want  int
	}{
		{"provider admin thấy tất cả", systemAdmin, UserQuery{}, 8},
		{"provider admin lọc theo trường", systemAdmin, UserQuery{Scope: models.ScopeSchool, SchoolID: uintPtr(2)}, 3},
		{"school admin bị giới hạn trong trường", school1Admin, UserQuery{SchoolID: uintPtr(2)}, 3},
		{"tìm theo số điện thoại", systemAdmin, UserQuery{Keyword: "0945678901"}, 1},
		{"tìm theo họ tên có dấu", school2Admin, UserQuery{Keyword: "hoàng thị"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := f.users.List(ctx, tt.actor, tt.query)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(users) != tt.want {
				t.Errorf("got %d users, want %d", len(users), tt.want)
			}
		})
	}
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()
	valid := UserRequest{
		FullName: "Võ Văn Lâm",
		Gender:   models.GenderMale,
		Email:    "lam.vo@school1.edu.vn",
		Password: "teacher123",
		IsActive: true,
		RoleID:   4,
	}

	t.Run("school admin tạo user cho trường mình", func(t *testing.T) {
		f := newFixture(t)
		user, err := f.users.Create(ctx, school1Admin, valid)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if user.Scope != models.ScopeSchool || !user.BelongsToSchool(1) {
			t.Errorf("user scope/school = %s/%v", user.Scope, user.SchoolID)
		}
		if !utils.CheckPassword(user.Password, "teacher123") {
			t.Error("password must be stored as bcrypt hash")
		}
	})

	tests := []struct {
		name      string
		actor     Actor
		mutate    func(r *UserRequest)
		wantCode  int
		wantField string
	}{
		{"thiếu họ tên và mật khẩu", school1Admin, func(r *UserRequest) { r.FullName = ""; r.Password = "" }, 400, "password"},
		{"email sai định dạng", school1Admin, func(r *UserRequest) { r.Email = "lam.vo" }, 400, "email"},
		{"email đã tồn tại", school1Admin, func(r *UserRequest) { r.Email = "LAN.TRAN@school1.edu.vn" }, 409, ""},
		{"role của trường khác", school1Admin, func(r *UserRequest) { r.RoleID = 6 }, 400, "roleId"},
		{"role không tồn tại", school1Admin, func(r *UserRequest) { r.RoleID = 99 }, 400, "roleId"},
		{"role khác phạm vi", systemAdmin, func(r *UserRequest) { r.Scope = models.ScopeProvider; r.RoleID = 4 }, 400, "roleId"},
		{"gán SYSTEM_ADMIN", systemAdmin, func(r *UserRequest) { r.Scope = models.ScopeProvider; r.RoleID = 1 }, 403, ""},
		{"school admin gán SCHOOL_ADMIN", school1Admin, func(r *UserRequest) { r.RoleID = 3 }, 403, ""},
		{"giới tính sai", school1Admin, func(r *UserRequest) { r.Gender = "X" }, 400, "gender"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := valid
			tt.mutate(&req)
			_, err := f.users.Create(ctx, tt.actor, req)
			if tt.wantField != "" {
				if fields := fieldErrors(t, err); fields[tt.wantField] == "" {
					t.Errorf("expected field error on %q, got %v", tt.wantField, fields)
				}
				return
			}
			assertAppError(t, err, tt.wantCode, "")
		})
	}
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("user thường giữ nguyên email và mật khẩu", func(t *testing.T) {
		f := newFixture(t)
		before, _ := f.store.Users().GetByID(ctx, 4)
		updated, err := f.users.Update(ctx, school1Admin, 4, UserRequest{
			FullName: "Trần Thị Lan Anh",
			Email:    "changed@school1.edu.vn",
			Password: "newpass",
			IsActive: true,
			RoleID:   5,
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.Email != "lan.tran@school1.edu.vn" {
			t.Errorf("Email = %q, want unchanged", updated.Email)
		}
		if updated.Password != before.Password {
			t.Error("password must not change for non-admin users")
		}
		if updated.FullName != "Trần Thị Lan Anh" || updated.RoleID != 5 {
			t.Errorf("profile not applied: %+v", updated)
		}
		if updated.UpdateBy != school1Admin.UserID {
			t.Errorf("UpdateBy = %d", updated.UpdateBy)
		}
	})

	t.Run("admin trường được đổi email và mật khẩu", func(t *testing.T) {
		f := newFixture(t)
		updated, err := f.users.Update(ctx, systemAdmin, 3, UserRequest{
			FullName: "Nguyễn Văn An",
			Email:    "principal@school1.edu.vn",
			Password: "secret456",
			IsActive: true,
			RoleID:   3,
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.Email != "principal@school1.edu.vn" {
			t.Errorf("Email = %q", updated.Email)
		}
		if !utils.CheckPassword(updated.Password, "secret456") {
			t.Error("password should be replaced")
		}
	})

	t.Run("mật khẩu rỗng giữ mật khẩu cũ", func(t *testing.T) {
		f := newFixture(t)
		updated, err := f.users.Update(ctx, systemAdmin, 3, UserRequest{FullName: "An", Email: "an.nguyen@school1.edu.vn", IsActive: true, RoleID: 3})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if !utils.CheckPassword(updated.Password, "admin123") {
			t.Error("empty password must keep the old one")
		}
	})

	t.Run("không sửa được user của trường khác", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.users.Update(ctx, school2Admin, 4, UserRequest{FullName: "X", RoleID: 4})
		assertAppError(t, err, 404, "")
	})

	t.Run("school admin không xem được tài khoản admin hệ thống", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.users.GetByID(ctx, school1Admin, 1)
		assertAppError(t, err, 404, "")
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		actor    Actor
		id       uint
		wantCode int
	}{
		{"school admin xóa giáo viên", school1Admin, 4, 0},
		{"tự xóa mình", school1Admin, 3, 400},
		{"xóa admin hệ thống", systemAdmin, 1, 400},
		{"provider xóa admin hệ thống khác", Actor{UserID: 99, Scope: models.ScopeProvider, RoleName: models.RoleSystemAdmin}, 1, 403},
		{"provider xóa admin trường", systemAdmin, 3, 0},
		{"user trường khác", school2Admin, 4, 404},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			err := f.users.Delete(ctx, tt.actor, tt.id)
			if tt.wantCode == 0 {
				if err != nil {
					t.Fatalf("Delete() error = %v", err)
				}
				return
			}
			assertAppError(t, err, tt.wantCode, "")
		})
	}
}

func TestUserService_RoleUsage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	inUse, err := f.users.IsRoleInUse(ctx, school1Admin, 4)
	if err != nil || !inUse {
		t.Errorf("IsRoleInUse(4) = %v, %v", inUse, err)
	}
	created, _ := f.roles.Create(ctx, school1Admin, RoleRequest{RoleName: "Bảo vệ"})
	inUse, err = f.users.IsRoleInUse(ctx, school1Admin, created.ID)
	if err != nil || inUse {
		t.Errorf("IsRoleInUse(new) = %v, %v", inUse, err)
	}
	if _, err := f.users.IsRoleInUse(ctx, school1Admin, 6); err == nil {
		t.Error("role of another school should be hidden")
	}

	// Role dùng chung: school admin chỉ thấy user của trường mình
	users, err := f.users.ListByRole(ctx, school1Admin, 3)
	if err != nil {
		t.Fatalf("ListByRole() error = %v", err)
	}
	if len(users) != 1 || users[0].ID != 3 {
		t.Errorf("ListByRole(3) for school 1 = %+v", users)
	}
	users, _ = f.users.ListByRole(ctx, systemAdmin, 3)
	if len(users) != 2 {
		t.Errorf("ListByRole(3) for provider = %d users, want 2", len(users))
	}
}

func TestUserService_ReassignRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alt, _ := f.roles.Create(ctx, school2Admin, RoleRequest{RoleName: "Học viên"})
	updated, err := f.users.ReassignRole(ctx, school2Admin, 7, alt.ID)
	if err != nil {
		t.Fatalf("ReassignRole() error = %v", err)
	}
	if updated != 1 {
		t.Errorf("updated = %d, want 1", updated)
	}
	// Role cũ vẫn còn, chỉ user được chuyển
	if _, err := f.store.Roles().GetByID(ctx, 7); err != nil {
		t.Error("ReassignRole must not delete the old role")
	}
	inUse, _ := f.usage.IsRoleInUse(ctx, 7)
	if inUse {
		t.Error("old role should have no users left")
	}

	_, err = f.users.ReassignRole(ctx, school2Admin, 7, 0)
	if fields := fieldErrors(t, err); fields["newRoleId"] == "" {
		t.Errorf("expected newRoleId field error, got %v", fields)
	}
}
