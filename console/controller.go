package console

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/techmaster-vietnam/schoolkit/client"
	"github.com/techmaster-vietnam/schoolkit/logging"
	"go.uber.org/zap"
)

// Option cấu hình controller
type Option func(*options)

type options struct {
	logger      *zap.Logger
	debounce    time.Duration
	pageSize    int
	twoStep     bool
	onReload    func()
	onSearchErr func(error)
}

// WithLogger gắn logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithDebounce đổi khoảng lặng của Search
func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}

// WithPageSize đổi số phần tử mỗi trang (chỉ RoleList phân trang)
func WithPageSize(size int) Option {
	return func(o *options) { o.pageSize = size }
}

// WithTwoStepReassign dùng hai request riêng (chuyển user rồi xóa role) thay vì endpoint gộp
func WithTwoStepReassign() Option {
	return func(o *options) { o.twoStep = true }
}

// OnReload đăng ký callback sau mỗi lần danh sách được tải lại từ Search
func OnReload(fn func()) Option {
	return func(o *options) { o.onReload = fn }
}

// OnSearchError đăng ký callback khi lần tìm kiếm debounce bị lỗi
func OnSearchError(fn func(error)) Option {
	return func(o *options) { o.onSearchErr = fn }
}

func buildOptions(opts []Option) options {
	o := options{debounce: DefaultDebounce, pageSize: defaultPageSize}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = logging.OrNop(o.logger)
	return o
}

// busy chặn thao tác chồng lên nhau (double submit)
type busy struct {
	mu sync.Mutex
	on bool
}

func (b *busy) enter() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.on {
		return ErrBusy
	}
	b.on = true
	return nil
}

func (b *busy) leave() {
	b.mu.Lock()
	b.on = false
	b.mu.Unlock()
}

// debouncedLoad hẹn tải lại danh sách cho Search. Nếu controller đang bận
// (Save/Delete chưa xong) thì hẹn lại thay vì bỏ lần tìm kiếm.
func debouncedLoad(ctx context.Context, d *Debouncer, o options, logger *zap.Logger, term string, load func(context.Context) error) {
	var run func()
	run = func() {
		err := load(ctx)
		if errors.Is(err, ErrBusy) && ctx.Err() == nil {
			logger.Debug("Đang bận, hẹn lại tìm kiếm", zap.String("keyword", term))
			d.Rearm(run)
			return
		}
		if err != nil {
			logger.Warn("Tìm kiếm thất bại", zap.String("keyword", term), zap.Error(err))
			if o.onSearchErr != nil {
				o.onSearchErr(err)
			}
			return
		}
		if o.onReload != nil {
			o.onReload()
		}
	}
	d.Call(run)
}

// fieldErrorsOf lấy lỗi theo field từ ValidationError của API
func fieldErrorsOf(err error) (map[string]string, bool) {
	v, ok := client.AsValidation(err)
	if !ok {
		return nil, false
	}
	fields := make(map[string]string, len(v.Fields))
	for k, msg := range v.Fields {
		fields[k] = msg
	}
	if len(fields) == 0 {
		fields["_"] = v.Message
	}
	return fields, true
}

func copyFields(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
