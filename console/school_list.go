package console

import (
	"context"
	"sync"

	"github.com/techmaster-vietnam/schoolkit/client"
	"github.com/techmaster-vietnam/schoolkit/models"
	"github.com/techmaster-vietnam/schoolkit/utils"
	"go.uber.org/zap"
)

// SchoolForm là dữ liệu form thêm/sửa trường. ID = 0 là thêm mới.
type SchoolForm struct {
	ID            uint
	Name          string
	Code          string
	Email         string
	Hotline       string
	Address       string
	PrincipalName string
}

// SchoolList là controller danh sách trường, chỉ dành cho admin hệ thống
type SchoolList struct {
	schools *client.SchoolClient
	opts    options
	logger  *zap.Logger
	busy    busy
	search  *Debouncer

	mu          sync.RWMutex
	keyword     string
	items       []models.School
	form        *SchoolForm
	fieldErrors map[string]string
}

// NewSchoolList tạo controller, session phải là admin hệ thống
func NewSchoolList(c *client.Client, s Session, opts ...Option) (*SchoolList, error) {
	if err := GuardProviderAdmin(s); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &SchoolList{
		schools: c.Schools,
		opts:    o,
		logger:  o.logger.With(zap.String("controller", "schools")),
		search:  NewDebouncer(o.debounce),
	}, nil
}

// Items trả về bản sao danh sách đang hiển thị
func (l *SchoolList) Items() []models.School {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.School(nil), l.items...)
}

// FieldErrors trả về lỗi theo field của lần Save gần nhất
func (l *SchoolList) FieldErrors() map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return copyFields(l.fieldErrors)
}

// Form trả về form đang mở
func (l *SchoolList) Form() (SchoolForm, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.form == nil {
		return SchoolForm{}, false
	}
	return *l.form, true
}

// SetForm cập nhật dữ liệu form đang mở
func (l *SchoolList) SetForm(f SchoolForm) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.form = &f
}

// CloseForm đóng form
func (l *SchoolList) CloseForm() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.form = nil
	l.fieldErrors = nil
}

// Load tải danh sách trường theo từ khóa hiện tại
func (l *SchoolList) Load(ctx context.Context) error {
	if err := l.busy.enter(); err != nil {
		return err
	}
	defer l.busy.leave()
	return l.load(ctx)
}

// Search tìm trường theo tên sau khoảng lặng
func (l *SchoolList) Search(ctx context.Context, term string) {
	l.mu.Lock()
	l.keyword = term
	l.mu.Unlock()

	debouncedLoad(ctx, l.search, l.opts, l.logger, term, l.Load)
}

// Close hủy lần tìm kiếm đang chờ
func (l *SchoolList) Close() {
	l.search.Cancel()
}

func (l *SchoolList) load(ctx context.Context) error {
	l.mu.RLock()
	keyword := l.keyword
	l.mu.RUnlock()

	schools, err := l.schools.List(ctx, keyword)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.items = schools
	l.mu.Unlock()
	return nil
}

// OpenAdd mở form thêm trường
func (l *SchoolList) OpenAdd() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.form = &SchoolForm{}
	l.fieldErrors = nil
}

// OpenEdit mở form sửa trường
func (l *SchoolList) OpenEdit(s models.School) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.form = &SchoolForm{
		ID:            s.ID,
		Name:          s.Name,
		Code:          s.Code,
		Email:         s.Email,
		Hotline:       s.Hotline,
		Address:       s.Address,
		PrincipalName: s.PrincipalName,
	}
	l.fieldErrors = nil
}

// Save kiểm tra form, tạo hoặc sửa trường rồi tải lại danh sách.
// Tạo trường mới thì server tạo kèm tài khoản admin trường.
func (l *SchoolList) Save(ctx context.Context) error {
	if err := l.busy.enter(); err != nil {
		return err
	}
	defer l.busy.leave()

	form, ok := l.Form()
	if !ok {
		return ErrNoForm
	}

	fe := utils.FieldErrors{}
	fe.Required("name", form.Name, "Tên trường là bắt buộc")
	fe.Required("code", form.Code, "Mã trường là bắt buộc")
	fe.Email("email", form.Email)
	if len(fe) > 0 {
		l.setFieldErrors(fe)
		return ErrInvalidForm
	}

	in := client.SchoolInput{
		Name:          form.Name,
		Code:          form.Code,
		Email:         form.Email,
		Hotline:       form.Hotline,
		Address:       form.Address,
		PrincipalName: form.PrincipalName,
	}

	var err error
	if form.ID == 0 {
		_, err = l.schools.Create(ctx, in)
	} else {
		_, err = l.schools.Update(ctx, form.ID, in)
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

// Delete xóa trường (kèm người dùng và role riêng của trường) rồi tải lại
func (l *SchoolList) Delete(ctx context.Context, id uint) error {
	if err := l.busy.enter(); err != nil {
		return err
	}
	defer l.busy.leave()

	if err := l.schools.Delete(ctx, id); err != nil {
		return err
	}
	return l.load(ctx)
}

// Export tải file xlsx theo từ khóa hiện tại
func (l *SchoolList) Export(ctx context.Context) ([]byte, error) {
	l.mu.RLock()
	keyword := l.keyword
	l.mu.RUnlock()
	return l.schools.Export(ctx, keyword)
}

func (l *SchoolList) setFieldErrors(fields map[string]string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fieldErrors = copyFields(fields)
}
