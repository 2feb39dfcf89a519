package database

import (
	"time"

	"github.com/techmaster-vietnam/schoolkit/models"
	"github.com/techmaster-vietnam/schoolkit/utils"
)

// Dataset là dữ liệu khởi tạo cho môi trường phát triển. Password ở dạng plain text,
// được băm khi seed.
type Dataset struct {
	Schools []models.School
	Roles   []models.Role
	Users   []models.User
}

func day(s string) time.Time {
	t, _ := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local)
	return t
}

func birth(s string) *models.Date {
	d, _ := models.ParseDate(s)
	return &d
}

func id(v uint) *uint { return &v }

// DevDataset trả về 3 trường, 7 role, 8 user dùng cho phát triển và demo
func DevDataset() Dataset {
	schools := []models.School{
		{ID: 1, Name: "Trường Tiểu học Nguyễn Du", Code: "TH001", Email: "thnguyendu@edu.vn", Hotline: "0241234567",
			Address: "123 Đường Nguyễn Du, Quận Hoàn Kiếm, Hà Nội", PrincipalName: "Nguyễn Văn An",
			CreatedAt: day("2024-01-15T08:00:00"), UpdatedAt: day("2024-01-15T08:00:00")},
		{ID: 2, Name: "Trường THCS Lê Lợi", Code: "THCS002", Email: "thcsleloi@edu.vn", Hotline: "0242345678",
			Address: "456 Đường Lê Lợi, Quận Ba Đình, Hà Nội", PrincipalName: "Trần Thị Bình",
			CreatedAt: day("2024-01-20T08:00:00"), UpdatedAt: day("2024-01-20T08:00:00")},
		{ID: 3, Name: "Trường THPT Chu Văn An", Code: "THPT003", Email: "thptchuvanan@edu.vn", Hotline: "0243456789",
			Address: "789 Đường Chu Văn An, Quận Đống Đa, Hà Nội", PrincipalName: "Lê Văn Cường",
			CreatedAt: day("2024-02-01T08:00:00"), UpdatedAt: day("2024-02-01T08:00:00")},
	}

	role := func(rid uint, name string, typ models.Scope, desc string, school *uint, created string) models.Role {
		return models.Role{
			ID: rid, RoleName: utils.NormalizeRoleName(name), TypeRole: typ, Description: desc, SchoolID: school,
			CreateBy: 1, UpdateBy: 1, CreatedAt: day(created), UpdatedAt: day(created),
		}
	}
	roles := []models.Role{
		role(1, "System Admin", models.ScopeProvider, "Quản trị viên hệ thống, có toàn quyền quản lý", nil, "2024-01-01T08:00:00"),
		role(2, "System Staff", models.ScopeProvider, "Nhân viên hệ thống, quản lý các trường học", nil, "2024-01-01T08:00:00"),
		role(3, "School Admin", models.ScopeSchool, "Quản trị viên trường học", nil, "2024-01-01T08:00:00"),
		role(4, "Teacher", models.ScopeSchool, "Giáo viên", id(1), "2024-01-15T08:00:00"),
		role(5, "Student", models.ScopeSchool, "Học sinh", id(1), "2024-01-15T08:00:00"),
		role(6, "Teacher", models.ScopeSchool, "Giáo viên", id(2), "2024-01-20T08:00:00"),
		role(7, "Student", models.ScopeSchool, "Học sinh", id(2), "2024-01-20T08:00:00"),
	}

	type u struct {
		id        uint
		name      string
		gender    models.Gender
		birthYear string
		address   string
		phone     string
		email     string
		password  string
		scope     models.Scope
		school    *uint
		roleID    uint
		createdAt string
		by        uint
	}
	raw := []u{
		{1, "Admin Hệ Thống", models.GenderMale, "1980-05-15", "10 Đường Trần Phú, Hà Nội", "0912345678", "admin@system.com", "admin123", models.ScopeProvider, nil, 1, "2024-01-01T08:00:00", 1},
		{2, "Nhân Viên Hệ Thống", models.GenderFemale, "1990-08-20", "20 Đường Lý Thường Kiệt, Hà Nội", "0923456789", "staff@system.com", "staff123", models.ScopeProvider, nil, 2, "2024-01-05T08:00:00", 1},
		{3, "Nguyễn Văn An", models.GenderMale, "1975-03-10", "123 Đường Nguyễn Du, Hà Nội", "0934567890", "an.nguyen@school1.edu.vn", "admin123", models.ScopeSchool, id(1), 3, "2024-01-15T08:00:00", 1},
		{4, "Trần Thị Lan", models.GenderFemale, "1985-07-25", "456 Đường Nguyễn Du, Hà Nội", "0945678901", "lan.tran@school1.edu.vn", "teacher123", models.ScopeSchool, id(1), 4, "2024-01-16T08:00:00", 3},
		{5, "Lê Văn Hùng", models.GenderMale, "2010-09-15", "789 Đường Nguyễn Du, Hà Nội", "0956789012", "hung.le@school1.edu.vn", "student123", models.ScopeSchool, id(1), 5, "2024-01-17T08:00:00", 3},
		{6, "Trần Thị Bình", models.GenderFemale, "1978-11-30", "123 Đường Lê Lợi, Hà Nội", "0967890123", "binh.tran@school2.edu.vn", "admin123", models.ScopeSchool, id(2), 3, "2024-01-20T08:00:00", 1},
		{7, "Phạm Văn Đức", models.GenderMale, "1988-04-12", "456 Đường Lê Lợi, Hà Nội", "0978901234", "duc.pham@school2.edu.vn", "teacher123", models.ScopeSchool, id(2), 6, "2024-01-21T08:00:00", 6},
		{8, "Hoàng Thị Mai", models.GenderFemale, "2011-02-28", "789 Đường Lê Lợi, Hà Nội", "0989012345", "mai.hoang@school2.edu.vn", "student123", models.ScopeSchool, id(2), 7, "2024-01-22T08:00:00", 6},
	}
	users := make([]models.User, 0, len(raw))
	for _, r := range raw {
		users = append(users, models.User{
			ID: r.id, FullName: r.name, Gender: r.gender, BirthYear: birth(r.birthYear), Address: r.address,
			PhoneNumber: r.phone, Email: r.email, Password: r.password, Active: true, Scope: r.scope,
			SchoolID: r.school, RoleID: r.roleID, CreateBy: r.by, UpdateBy: r.by,
			CreatedAt: day(r.createdAt), UpdatedAt: day(r.createdAt),
		})
	}

	return Dataset{Schools: schools, Roles: roles, Users: users}
}
