package console

import (
	"context"
	"sync"

	"github.com/techmaster-vietnam/schoolkit/client"
	"github.com/techmaster-vietnam/schoolkit/models"
	"github.com/techmaster-vietnam/schoolkit/utils"
	"go.uber.org/zap"
)

const roleLookupSize = 1000

// UserForm là dữ liệu form thêm/sửa người dùng. ID = 0 là thêm mới.
// Password rỗng khi sửa nghĩa là giữ nguyên.
type UserForm struct {
	ID          uint
	FullName    string
	Gender      models.Gender
	BirthYear   *models.Date
	Address     string
	PhoneNumber string
	Email       string
	Password    string
	IsActive    bool
	Scope       models.Scope
	SchoolID    *uint
	RoleID      uint
}

// UserList là controller danh sách người dùng.
// Biến thể PROVIDER hiển thị tài khoản hệ thống (trừ SYSTEM_ADMIN) và tài khoản admin các trường.
// Biến thể SCHOOL chỉ hiển thị người dùng của trường, trừ tài khoản admin trường.
type UserList struct {
	users  *client.UserClient
	roles  *client.RoleClient
	scope  scope
	opts   options
	logger *zap.Logger
	busy   busy
	search *Debouncer

	mu          sync.RWMutex
	keyword     string
	items       []models.User
	roleNames   map[uint]string
	roleOptions []models.Role
	form        *UserForm
	fieldErrors map[string]string
}

// NewUserList tạo controller theo quyền của session
func NewUserList(c *client.Client, s Session, opts ...Option) (*UserList, error) {
	sc, err := scopeOf(s)
	if err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &UserList{
		users:  c.Users,
		roles:  c.Roles,
		scope:  sc,
		opts:   o,
		logger: o.logger.With(zap.String("controller", "users")),
		search: NewDebouncer(o.debounce),
	}, nil
}

// Items trả về bản sao danh sách đang hiển thị
func (l *UserList) Items() []models.User {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.User(nil), l.items...)
}

// RoleOptions là các role được phép chọn trong form
func (l *UserList) RoleOptions() []models.Role {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.Role(nil), l.roleOptions...)
}

// RoleName trả về tên role để hiển thị
func (l *UserList) RoleName(roleID uint) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.roleNames[roleID]
}

// FieldErrors trả về lỗi theo field của lần Save gần nhất
func (l *UserList) FieldErrors() map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return copyFields(l.fieldErrors)
}

// Form trả về form đang mở
func (l *UserList) Form() (UserForm, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.form == nil {
		return UserForm{}, false
	}
	return *l.form, true
}

// SetForm cập nhật dữ liệu form đang mở
func (l *UserList) SetForm(f UserForm) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.form = &f
}

// CloseForm đóng form
func (l *UserList) CloseForm() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.form = nil
	l.fieldErrors = nil
}

// Load tải role và người dùng
func (l *UserList) Load(ctx context.Context) error {
	if err := l.busy.enter(); err != nil {
		return err
	}
	defer l.busy.leave()
	return l.load(ctx)
}

// Search đặt từ khóa (họ tên, email, số điện thoại) và tải lại sau khoảng lặng
func (l *UserList) Search(ctx context.Context, term string) {
	l.mu.Lock()
	l.keyword = term
	l.mu.Unlock()

	debouncedLoad(ctx, l.search, l.opts, l.logger, term, l.Load)
}

// Close hủy lần tìm kiếm đang chờ
func (l *UserList) Close() {
	l.search.Cancel()
}

func (l *UserList) load(ctx context.Context) error {
	rq := client.RoleQuery{Size: roleLookupSize}
	uq := client.UserQuery{}
	if !l.scope.provider {
		rq.TypeRole = models.ScopeSchool
		rq.SchoolID = l.scope.schoolID
		uq.Scope = models.ScopeSchool
		uq.SchoolID = l.scope.schoolID
	}

	roles, err := l.roles.List(ctx, rq)
	if err != nil {
		return err
	}
	names := make(map[uint]string, len(roles.Data))
	options := make([]models.Role, 0, len(roles.Data))
	for _, r := range roles.Data {
		names[r.ID] = r.RoleName
		if r.TypeRole == l.scope.typeRole() && !models.IsProtectedRoleName(r.RoleName) {
			options = append(options, r)
		}
	}

	l.mu.RLock()
	uq.Keyword = l.keyword
	l.mu.RUnlock()

	users, err := l.users.List(ctx, uq)
	if err != nil {
		return err
	}
	items := make([]models.User, 0, len(users))
	for _, u := range users {
		if l.visible(u, names[u.RoleID]) {
			items = append(items, u)
		}
	}

	l.mu.Lock()
	l.items = items
	l.roleNames = names
	l.roleOptions = options
	l.mu.Unlock()
	return nil
}

func (l *UserList) visible(u models.User, roleName string) bool {
	if l.scope.provider {
		return (u.Scope == models.ScopeProvider && roleName != models.RoleSystemAdmin) ||
			roleName == models.RoleSchoolAdmin
	}
	return roleName != models.RoleSchoolAdmin
}

// OpenAdd mở form thêm người dùng
func (l *UserList) OpenAdd() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.form = &UserForm{
		Gender:   models.GenderMale,
		IsActive: true,
		Scope:    l.scope.typeRole(),
		SchoolID: l.scope.schoolID,
	}
	l.fieldErrors = nil
}

// OpenEdit mở form sửa người dùng, mật khẩu để trống
func (l *UserList) OpenEdit(u models.User) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.form = &UserForm{
		ID:          u.ID,
		FullName:    u.FullName,
		Gender:      u.Gender,
		BirthYear:   u.BirthYear,
		Address:     u.Address,
		PhoneNumber: u.PhoneNumber,
		Email:       u.Email,
		IsActive:    u.Active,
		Scope:       u.Scope,
		SchoolID:    u.SchoolID,
		RoleID:      u.RoleID,
	}
	l.fieldErrors = nil
}

// Save kiểm tra form, tạo hoặc sửa người dùng rồi tải lại danh sách
func (l *UserList) Save(ctx context.Context) error {
	if err := l.busy.enter(); err != nil {
		return err
	}
	defer l.busy.leave()

	form, ok := l.Form()
	if !ok {
		return ErrNoForm
	}

	fe := utils.FieldErrors{}
	fe.Required("fullName", form.FullName, "Họ tên là bắt buộc")
	fe.Email("email", form.Email)
	if form.ID == 0 {
		fe.Required("password", form.Password, "Mật khẩu là bắt buộc")
	}
	if form.RoleID == 0 {
		fe.Add("roleId", "Vui lòng chọn role")
	} else if name := l.RoleName(form.RoleID); name == models.RoleSystemAdmin || name == l.scope.hiddenRole() {
		fe.Add("roleId", "Không được chọn role này")
	}
	if len(fe) > 0 {
		l.setFieldErrors(fe)
		return ErrInvalidForm
	}

	in := client.UserInput{
		FullName:    form.FullName,
		Gender:      form.Gender,
		BirthYear:   form.BirthYear,
		Address:     form.Address,
		PhoneNumber: form.PhoneNumber,
		Email:       form.Email,
		Password:    form.Password,
		IsActive:    form.IsActive,
		Scope:       form.Scope,
		SchoolID:    form.SchoolID,
		RoleID:      form.RoleID,
	}
	if !l.scope.provider {
		in.Scope = models.ScopeSchool
		in.SchoolID = l.scope.schoolID
	}

	var err error
	if form.ID == 0 {
		_, err = l.users.Create(ctx, in)
	} else {
		_, err = l.users.Update(ctx, form.ID, in)
	}
	if err != nil {
		if fields, ok := fieldErrorsOf(err); ok {
			l.setFieldErrors(fields)
		}
		return err
	}

	l.CloseForm()
	return l.load(ctx)
}

// Delete xóa người dùng rồi tải lại danh sách
func (l *UserList) Delete(ctx context.Context, id uint) error {
	if err := l.busy.enter(); err != nil {
		return err
	}
	defer l.busy.leave()

	if err := l.users.Delete(ctx, id); err != nil {
		return err
	}
	return l.load(ctx)
}

// Export tải file xlsx theo điều kiện lọc hiện tại
func (l *UserList) Export(ctx context.Context) ([]byte, error) {
	q := client.UserQuery{Keyword: l.keywordValue()}
	if !l.scope.provider {
		q.Scope = models.ScopeSchool
		q.SchoolID = l.scope.schoolID
	}
	return l.users.Export(ctx, q)
}

func (l *UserList) keywordValue() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.keyword
}

func (l *UserList) setFieldErrors(fields map[string]string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fieldErrors = copyFields(fields)
}
