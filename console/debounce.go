package console

import (
	"sync"
	"time"
)

// DefaultDebounce là khoảng lặng mặc định trước khi tìm kiếm
const DefaultDebounce = 500 * time.Millisecond

// Debouncer chỉ chạy lần gọi cuối cùng sau một khoảng lặng.
// Cancel dừng lần gọi đang chờ, kể cả khi timer đã kịp bắn.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	running uint64 // seq của lần gọi đang chạy gần nhất
}

// NewDebouncer tạo debouncer, delay <= 0 dùng DefaultDebounce
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Call hẹn chạy fn sau khoảng lặng, hủy lần hẹn trước đó
func (d *Debouncer) Call(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.schedule(fn)
}

// Rearm được gọi từ bên trong fn đang chạy để hẹn lại fn sau một khoảng lặng nữa.
// Không làm gì nếu từ lúc fn bắt đầu đã có Call mới hoặc Cancel.
func (d *Debouncer) Rearm(fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seq != d.running {
		return false
	}
	d.schedule(fn)
	return true
}

func (d *Debouncer) schedule(fn func()) {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := seq == d.seq
		if current {
			d.timer = nil
			d.running = seq
		}
		d.mu.Unlock()

		if current {
			fn()
		}
	})
}

// Cancel hủy lần gọi đang chờ
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
}
