package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/techmaster-vietnam/schoolkit/core"
	"github.com/techmaster-vietnam/schoolkit/models"
	"gorm.io/gorm"
)

// MemoryStore lưu role, user, school trong bộ nhớ, dùng cho môi trường phát triển
// (STORAGE_DRIVER=memory) và cho test. Mọi thao tác nhiều bước chạy dưới cùng một khóa
// nên ReassignAndDelete và CreateWithAdmin cũng nguyên tử như bản Postgres.
// Lỗi trả về dùng cùng sentinel với gorm (gorm.ErrRecordNotFound, gorm.ErrDuplicatedKey).
type MemoryStore struct {
	mu      sync.RWMutex
	roles   map[uint]models.Role
	users   map[uint]models.User
	schools map[uint]models.School
	nextID  struct{ role, user, school uint }
	version int
}

// NewMemoryStore tạo store rỗng
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		roles:   make(map[uint]models.Role),
		users:   make(map[uint]models.User),
		schools: make(map[uint]models.School),
	}
}

// Load thay toàn bộ dữ liệu nếu version khác version đang giữ. Trả về true nếu đã nạp lại.
func (s *MemoryStore) Load(version int, schools []models.School, roles []models.Role, users []models.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version == version && len(s.roles) > 0 {
		return false
	}

	s.roles = make(map[uint]models.Role, len(roles))
	s.users = make(map[uint]models.User, len(users))
	s.schools = make(map[uint]models.School, len(schools))
	s.nextID.role, s.nextID.user, s.nextID.school = 0, 0, 0

	for _, sc := range schools {
		s.schools[sc.ID] = sc
		s.nextID.school = max(s.nextID.school, sc.ID)
	}
	for _, r := range roles {
		s.roles[r.ID] = r
		s.nextID.role = max(s.nextID.role, r.ID)
	}
	for _, u := range users {
		s.users[u.ID] = u
		s.nextID.user = max(s.nextID.user, u.ID)
	}
	s.version = version
	return true
}

// Version trả về version dữ liệu đang nạp
func (s *MemoryStore) Version() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Roles trả về RoleRepository trên store
func (s *MemoryStore) Roles() core.RoleRepository { return memoryRoles{s} }

// Users trả về UserRepository trên store
func (s *MemoryStore) Users() core.UserRepository { return memoryUsers{s} }

// Schools trả về SchoolRepository trên store
func (s *MemoryStore) Schools() core.SchoolRepository { return memorySchools{s} }

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func sameSchool(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func stamp(created *time.Time, updated *time.Time) {
	now := time.Now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

// ---- roles ----

type memoryRoles struct{ s *MemoryStore }

func (m memoryRoles) GetByID(ctx context.Context, id uint) (*models.Role, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	role, ok := m.s.roles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &role, nil
}

func (m memoryRoles) GetByName(ctx context.Context, name string, typeRole models.Scope, schoolID *uint) (*models.Role, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, role := range m.s.roles {
		if role.RoleName == name && role.TypeRole == typeRole && sameSchool(role.SchoolID, schoolID) {
			return &role, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m memoryRoles) List(ctx context.Context, filter core.RoleFilter) ([]models.Role, int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	kw := strings.TrimSpace(filter.Keyword)
	matched := make([]models.Role, 0, len(m.s.roles))
	for _, role := range m.s.roles {
		if kw != "" && !containsFold(role.RoleName, kw) && !containsFold(role.Description, kw) {
			continue
		}
		if filter.TypeRole != "" && role.TypeRole != filter.TypeRole {
			continue
		}
		if filter.SchoolID != nil {
			own := role.SchoolID != nil && *role.SchoolID == *filter.SchoolID
			if !own && !(filter.IncludeGlobal && role.SchoolID == nil) {
				continue
			}
		}
		if excluded(role.RoleName, filter.ExcludeNames) {
			continue
		}
		matched = append(matched, role)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := min(max(filter.Offset, 0), len(matched))
	end := len(matched)
	if filter.Limit > 0 {
		end = min(start+filter.Limit, len(matched))
	}
	return matched[start:end], total, nil
}

func excluded(name string, names []string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func (m memoryRoles) Create(ctx context.Context, role *models.Role) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.nextID.role++
	role.ID = m.s.nextID.role
	stamp(&role.CreatedAt, &role.UpdatedAt)
	m.s.roles[role.ID] = *role
	return nil
}

func (m memoryRoles) Update(ctx context.Context, role *models.Role) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.roles[role.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stamp(&role.CreatedAt, &role.UpdatedAt)
	m.s.roles[role.ID] = *role
	return nil
}

func (m memoryRoles) Delete(ctx context.Context, id uint) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.roles[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.roles, id)
	return nil
}

func (m memoryRoles) ReassignAndDelete(ctx context.Context, oldID, newID uint) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.roles[oldID]; !ok {
		return 0, gorm.ErrRecordNotFound
	}
	var updated int64
	for id, u := range m.s.users {
		if u.RoleID == oldID {
			u.RoleID = newID
			u.UpdatedAt = time.Now()
			m.s.users[id] = u
			updated++
		}
	}
	delete(m.s.roles, oldID)
	return updated, nil
}

// ---- users ----

type memoryUsers struct{ s *MemoryStore }

func (m memoryUsers) GetByID(ctx context.Context, id uint) (*models.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	user, ok := m.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (m memoryUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if u, ok := m.s.findEmail(email); ok {
		return &u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// findEmail phải được gọi khi đang giữ khóa
func (s *MemoryStore) findEmail(email string) (models.User, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if strings.ToLower(u.Email) == email {
			return u, true
		}
	}
	return models.User{}, false
}

func (m memoryUsers) List(ctx context.Context, filter core.UserFilter) ([]models.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	kw := strings.TrimSpace(filter.Keyword)
	users := make([]models.User, 0, len(m.s.users))
	for _, u := range m.s.users {
		if kw != "" && !containsFold(u.FullName, kw) && !containsFold(u.Email, kw) && !strings.Contains(u.PhoneNumber, kw) {
			continue
		}
		if filter.Scope != "" && u.Scope != filter.Scope {
			continue
		}
		if filter.SchoolID != nil && !u.BelongsToSchool(*filter.SchoolID) {
			continue
		}
		if filter.RoleID != nil && u.RoleID != *filter.RoleID {
			continue
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m memoryUsers) Create(ctx context.Context, user *models.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.s.insertUser(user)
}

// insertUser phải được gọi khi đang giữ khóa ghi
func (s *MemoryStore) insertUser(user *models.User) error {
	if _, exists := s.findEmail(user.Email); exists {
		return gorm.ErrDuplicatedKey
	}
	s.nextID.user++
	user.ID = s.nextID.user
	stamp(&user.CreatedAt, &user.UpdatedAt)
	s.users[user.ID] = *user
	return nil
}

func (m memoryUsers) Update(ctx context.Context, user *models.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if other, exists := m.s.findEmail(user.Email); exists && other.ID != user.ID {
		return gorm.ErrDuplicatedKey
	}
	stamp(&user.CreatedAt, &user.UpdatedAt)
	m.s.users[user.ID] = *user
	return nil
}

func (m memoryUsers) Delete(ctx context.Context, id uint) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.users, id)
	return nil
}

func (m memoryUsers) CountByRoles(ctx context.Context, roleIDs []uint) (map[uint]int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	counts := make(map[uint]int64, len(roleIDs))
	if len(roleIDs) == 0 {
		return counts, nil
	}
	wanted := make(map[uint]struct{}, len(roleIDs))
	for _, id := range roleIDs {
		wanted[id] = struct{}{}
	}
	for _, u := range m.s.users {
		if _, ok := wanted[u.RoleID]; ok {
			counts[u.RoleID]++
		}
	}
	return counts, nil
}

func (m memoryUsers) ReassignRole(ctx context.Context, oldRoleID, newRoleID uint) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var updated int64
	for id, u := range m.s.users {
		if u.RoleID == oldRoleID {
			u.RoleID = newRoleID
			u.UpdatedAt = time.Now()
			m.s.users[id] = u
			updated++
		}
	}
	return updated, nil
}

// ---- schools ----

type memorySchools struct{ s *MemoryStore }

func (m memorySchools) GetByID(ctx context.Context, id uint) (*models.School, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	school, ok := m.s.schools[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &school, nil
}

func (m memorySchools) GetByCode(ctx context.Context, code string) (*models.School, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, school := range m.s.schools {
		if strings.EqualFold(school.Code, code) {
			return &school, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m memorySchools) List(ctx context.Context, name string) ([]models.School, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	name = strings.TrimSpace(name)
	schools := make([]models.School, 0, len(m.s.schools))
	for _, school := range m.s.schools {
		if name != "" && !containsFold(school.Name, name) {
			continue
		}
		schools = append(schools, school)
	}
	sort.Slice(schools, func(i, j int) bool { return schools[i].ID < schools[j].ID })
	return schools, nil
}

func (m memorySchools) CreateWithAdmin(ctx context.Context, school *models.School, admin *models.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, exists := m.s.findEmail(admin.Email); exists {
		return gorm.ErrDuplicatedKey
	}
	m.s.nextID.school++
	school.ID = m.s.nextID.school
	stamp(&school.CreatedAt, &school.UpdatedAt)
	m.s.schools[school.ID] = *school

	admin.SchoolID = &school.ID
	return m.s.insertUser(admin)
}

func (m memorySchools) Update(ctx context.Context, school *models.School) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.schools[school.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stamp(&school.CreatedAt, &school.UpdatedAt)
	m.s.schools[school.ID] = *school
	return nil
}

func (m memorySchools) Delete(ctx context.Context, id uint) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.schools[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for uid, u := range m.s.users {
		if u.BelongsToSchool(id) {
			delete(m.s.users, uid)
		}
	}
	for rid, r := range m.s.roles {
		if r.SchoolID != nil && *r.SchoolID == id {
			delete(m.s.roles, rid)
		}
	}
	delete(m.s.schools, id)
	return nil
}
