package console_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/techmaster-vietnam/schoolkit/console"
)

func TestPager_AfterDelete(t *testing.T) {
	tests := []struct {
		name        string
		page        int
		itemsOnPage int
		wantPage    int
		wantStepped bool
	}{
		{"xóa phần tử cuối của trang 3", 2, 1, 1, true},
		{"trang còn nhiều phần tử", 2, 3, 2, false},
		{"trang đầu không lùi", 0, 1, 0, false},
		{"trang rỗng không phải trang đầu", 1, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := console.NewPager(10)
			p.Page = tt.page
			assert.Equal(t, tt.wantStepped, p.AfterDelete(tt.itemsOnPage))
			assert.Equal(t, tt.wantPage, p.Page)
		})
	}
}

func TestNewPager_DefaultSize(t *testing.T) {
	assert.Equal(t, 10, console.NewPager(0).Size)
	assert.Equal(t, 25, console.NewPager(25).Size)

	p := console.NewPager(10)
	p.TotalPages = 3
	p.Page = 1
	assert.True(t, p.HasNext())
	p.Page = 2
	assert.False(t, p.HasNext())
}

func TestDebouncer(t *testing.T) {
	t.Run("chỉ chạy lần gọi cuối", func(t *testing.T) {
		d := console.NewDebouncer(30 * time.Millisecond)
		var calls, last int32
		for i := int32(1); i <= 5; i++ {
			v := i
			d.Call(func() {
				atomic.AddInt32(&calls, 1)
				atomic.StoreInt32(&last, v)
			})
		}
		assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)
		time.Sleep(60 * time.Millisecond)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		assert.Equal(t, int32(5), atomic.LoadInt32(&last))
	})

	t.Run("rearm chạy lại lần gọi hiện tại", func(t *testing.T) {
		d := console.NewDebouncer(10 * time.Millisecond)
		var calls int32
		var run func()
		run = func() {
			if atomic.AddInt32(&calls, 1) == 1 {
				assert.True(t, d.Rearm(run))
			}
		}
		d.Call(run)
		assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 2 }, time.Second, 5*time.Millisecond)
	})

	t.Run("rearm bỏ qua khi đã có lần gọi mới", func(t *testing.T) {
		d := console.NewDebouncer(10 * time.Millisecond)
		var stale, fresh int32
		var run func()
		run = func() {
			atomic.AddInt32(&stale, 1)
			d.Call(func() { atomic.AddInt32(&fresh, 1) })
			assert.False(t, d.Rearm(run))
		}
		d.Call(run)
		assert.Eventually(t, func() bool { return atomic.LoadInt32(&fresh) == 1 }, time.Second, 5*time.Millisecond)
		time.Sleep(40 * time.Millisecond)
		assert.Equal(t, int32(1), atomic.LoadInt32(&stale))
	})

	t.Run("cancel hủy lần gọi đang chờ", func(t *testing.T) {
		d := console.NewDebouncer(20 * time.Millisecond)
		var calls int32
		d.Call(func() { atomic.AddInt32(&calls, 1) })
		d.Cancel()
		time.Sleep(60 * time.Millisecond)
		assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	})
}
