package core

import (
	"context"

	"github.com/techmaster-vietnam/schoolkit/models"
)

// RoleFilter điều kiện lọc danh sách role
type RoleFilter struct {
	Keyword       string       // Tìm theo tên hoặc mô tả (không phân biệt hoa thường)
	TypeRole      models.Scope // Rỗng = mọi loại
	SchoolID      *uint        // nil = không lọc theo trường
	IncludeGlobal bool         // Khi lọc theo SchoolID, có kèm role dùng chung không
	ExcludeNames  []string
	Offset        int
	Limit         int // <= 0 = không giới hạn
}

// UserFilter điều kiện lọc danh sách user
type UserFilter struct {
	Keyword  string // Tìm theo họ tên, email, số điện thoại
	Scope    models.Scope
	SchoolID *uint
	RoleID   *uint
}

// RoleRepository định nghĩa interface cho Role Repository
// Cho phép mock repository trong tests
type RoleRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Role, error)
	// GetByName tìm role theo tên trong cùng loại và cùng phạm vi trường (nil = role dùng chung)
	GetByName(ctx context.Context, name string, typeRole models.Scope, schoolID *uint) (*models.Role, error)
	List(ctx context.Context, filter RoleFilter) ([]models.Role, int64, error)
	Create(ctx context.Context, role *models.Role) error
	Update(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, id uint) error
	// ReassignAndDelete chuyển mọi user từ oldID sang newID rồi xóa oldID trong cùng một giao dịch
	ReassignAndDelete(ctx context.Context, oldID, newID uint) (int64, error)
}

// UserRepository định nghĩa interface cho User Repository
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter UserFilter) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	CountByRoles(ctx context.Context, roleIDs []uint) (map[uint]int64, error)
	ReassignRole(ctx context.Context, oldRoleID, newRoleID uint) (int64, error)
}

// SchoolRepository định nghĩa interface cho School Repository
type SchoolRepository interface {
	GetByID(ctx context.Context, id uint) (*models.School, error)
	GetByCode(ctx context.Context, code string) (*models.School, error)
	List(ctx context.Context, name string) ([]models.School, error)
	// CreateWithAdmin tạo trường và tài khoản admin trường trong cùng một giao dịch
	CreateWithAdmin(ctx context.Context, school *models.School, admin *models.User) error
	Update(ctx context.Context, school *models.School) error
	// Delete xóa trường cùng user và role riêng của trường
	Delete(ctx context.Context, id uint) error
}

// RoleCache cache tra cứu role theo ID, dùng bởi middleware và service
// để không phải đọc DB ở mỗi request
type RoleCache interface {
	Get(ctx context.Context, id uint) (*models.Role, bool)
	Set(ctx context.Context, role *models.Role)
	Invalidate(ctx context.Context, id uint)
	Clear(ctx context.Context)
}
