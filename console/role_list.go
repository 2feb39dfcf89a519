package console

import (
	"context"
	"fmt"
	"sync"

	"github.com/techmaster-vietnam/schoolkit/client"
	"github.com/techmaster-vietnam/schoolkit/models"
	"github.com/techmaster-vietnam/schoolkit/utils"
	"go.uber.org/zap"
)

// scope xác định biến thể của controller: PROVIDER hoặc SCHOOL (kèm schoolID)
type scope struct {
	provider bool
	schoolID *uint
}

func scopeOf(s Session) (scope, error) {
	switch {
	case s.IsProviderAdmin():
		return scope{provider: true}, nil
	case s.IsSchoolAdmin():
		id := *s.Principal.SchoolID
		return scope{schoolID: &id}, nil
	default:
		return scope{}, fmt.Errorf("%w: yêu cầu quyền quản trị", ErrForbidden)
	}
}

func (sc scope) typeRole() models.Scope {
	if sc.provider {
		return models.ScopeProvider
	}
	return models.ScopeSchool
}

// hiddenRole là role không hiển thị và không được chọn ở biến thể này
func (sc scope) hiddenRole() string {
	if sc.provider {
		return models.RoleSystemAdmin
	}
	return models.RoleSchoolAdmin
}

// RoleForm là dữ liệu form thêm/sửa role. ID = 0 là thêm mới.
type RoleForm struct {
	ID          uint
	RoleName    string
	TypeRole    models.Scope
	Description string
	SchoolID    *uint
}

// RoleList là controller danh sách role có phân trang
type RoleList struct {
	roles  *client.RoleClient
	scope  scope
	opts   options
	logger *zap.Logger
	busy   busy
	search *Debouncer

	mu          sync.RWMutex
	keyword     string
	items       []models.Role
	pager       Pager
	form        *RoleForm
	fieldErrors map[string]string
}

// NewRoleList tạo controller theo quyền của session: admin hệ thống quản lý role PROVIDER,
// admin trường quản lý role SCHOOL của trường mình
func NewRoleList(c *client.Client, s Session, opts ...Option) (*RoleList, error) {
	sc, err := scopeOf(s)
	if err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &RoleList{
		roles:  c.Roles,
		scope:  sc,
		opts:   o,
		logger: o.logger.With(zap.String("controller", "roles")),
		search: NewDebouncer(o.debounce),
		pager:  NewPager(o.pageSize),
	}, nil
}

// Items trả về bản sao danh sách đang hiển thị
func (l *RoleList) Items() []models.Role {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.Role(nil), l.items...)
}

// Pager trả về trạng thái phân trang
func (l *RoleList) Pager() Pager {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.pager
}

// Keyword trả về từ khóa tìm kiếm hiện tại
func (l *RoleList) Keyword() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.keyword
}

// FieldErrors trả về lỗi theo field của lần Save gần nhất
func (l *RoleList) FieldErrors() map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return copyFields(l.fieldErrors)
}

// Form trả về form đang mở
func (l *RoleList) Form() (RoleForm, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.form == nil {
		return RoleForm{}, false
	}
	return *l.form, true
}

// SetForm cập nhật dữ liệu form đang mở
func (l *RoleList) SetForm(f RoleForm) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.form = &f
}

// CloseForm đóng form, bỏ các thay đổi
func (l *RoleList) CloseForm() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.form = nil
	l.fieldErrors = nil
}

// Load tải trang hiện tại
func (l *RoleList) Load(ctx context.Context) error {
	if err := l.busy.enter(); err != nil {
		return err
	}
	defer l.busy.leave()
	return l.load(ctx)
}

// SetPage chuyển trang rồi tải lại
func (l *RoleList) SetPage(ctx context.Context, page int) error {
	if page < 0 {
		page = 0
	}
	l.mu.Lock()
	l.pager.Page = page
	l.mu.Unlock()
	return l.Load(ctx)
}

// Search đặt từ khóa, về trang đầu và tải lại sau khoảng lặng
func (l *RoleList) Search(ctx context.Context, term string) {
	l.mu.Lock()
	l.keyword = term
	l.pager.Page = 0
	l.mu.Unlock()

	debouncedLoad(ctx, l.search, l.opts, l.logger, term, l.Load)
}

// Close hủy lần tìm kiếm đang chờ
func (l *RoleList) Close() {
	l.search.Cancel()
}

func (l *RoleList) load(ctx context.Context) error {
	l.mu.RLock()
	q := client.RoleQuery{
		Keyword:      l.keyword,
		TypeRole:     l.scope.typeRole(),
		SchoolID:     l.scope.schoolID,
		ExcludeNames: []string{l.scope.hiddenRole()},
		Page:         l.pager.Page,
		Size:         l.pager.Size,
	}
	l.mu.RUnlock()

	// Role ẩn bị loại ở server để trang và tổng số phần tử khớp nhau
	page, err := l.roles.List(ctx, q)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.items = page.Data
	l.pager.update(page.Page, page.TotalElements, page.TotalPages)
	l.mu.Unlock()
	return nil
}

// OpenAdd mở form thêm role với giá trị mặc định của biến thể
func (l *RoleList) OpenAdd() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.form = &RoleForm{TypeRole: l.scope.typeRole(), SchoolID: l.scope.schoolID}
	l.fieldErrors = nil
}

// OpenEdit mở form sửa role
func (l *RoleList) OpenEdit(r models.Role) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.form = &RoleForm{
		ID:          r.ID,
		RoleName:    r.RoleName,
		TypeRole:    r.TypeRole,
		Description: r.Description,
		SchoolID:    r.SchoolID,
	}
	l.fieldErrors = nil
}

// Save kiểm tra form, tạo hoặc sửa role tùy theo ID rồi tải lại danh sách
func (l *RoleList) Save(ctx context.Context) error {
	if err := l.busy.enter(); err != nil {
		return err
	}
	defer l.busy.leave()

	form, ok := l.Form()
	if !ok {
		return ErrNoForm
	}

	fe := utils.FieldErrors{}
	name := utils.NormalizeRoleName(form.RoleName)
	if name == "" {
		fe.Add("roleName", "Tên role không hợp lệ")
	} else if name == l.scope.hiddenRole() {
		fe.Add("roleName", "Không được dùng tên role hệ thống")
	}
	if len(fe) > 0 {
		l.setFieldErrors(fe)
		return ErrInvalidForm
	}

	in := client.RoleInput{
		RoleName:    name,
		TypeRole:    form.TypeRole,
		Description: form.Description,
		SchoolID:    form.SchoolID,
	}
	if !l.scope.provider {
		in.TypeRole = models.ScopeSchool
		in.SchoolID = l.scope.schoolID
	}
	if in.TypeRole == "" {
		in.TypeRole = l.scope.typeRole()
	}

	var err error
	if form.ID == 0 {
		_, err = l.roles.Create(ctx, in)
	} else {
		_, err = l.roles.Update(ctx, form.ID, in)
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

// Delete xóa trực tiếp role không còn người dùng. Role đang được dùng trả về ConflictError,
// khi đó dùng ReassignWorkflow.
func (l *RoleList) Delete(ctx context.Context, id uint) error {
	if err := l.busy.enter(); err != nil {
		return err
	}
	defer l.busy.leave()

	if err := l.roles.Delete(ctx, id); err != nil {
		return err
	}
	return l.afterDelete(ctx)
}

// AfterDelete lùi trang nếu cần rồi tải lại, dùng sau khi một role bị xóa ở nơi khác
func (l *RoleList) AfterDelete(ctx context.Context) error {
	if err := l.busy.enter(); err != nil {
		return err
	}
	defer l.busy.leave()
	return l.afterDelete(ctx)
}

func (l *RoleList) afterDelete(ctx context.Context) error {
	l.mu.Lock()
	l.pager.AfterDelete(len(l.items))
	l.mu.Unlock()
	return l.load(ctx)
}

func (l *RoleList) setFieldErrors(fields map[string]string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fieldErrors = copyFields(fields)
}
