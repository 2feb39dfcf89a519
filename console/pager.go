package console

const defaultPageSize = 10

// Pager giữ trạng thái phân trang của danh sách. Page bắt đầu từ 0.
type Pager struct {
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
}

// NewPager tạo pager ở trang đầu
func NewPager(size int) Pager {
	if size <= 0 {
		size = defaultPageSize
	}
	return Pager{Size: size}
}

func (p *Pager) update(page int, total int64, totalPages int) {
	p.Page = page
	p.TotalElements = total
	p.TotalPages = totalPages
}

// AfterDelete được gọi sau khi xóa thành công một phần tử của trang hiện tại.
// Nếu trang chỉ còn phần tử vừa xóa và không phải trang đầu thì lùi một trang.
func (p *Pager) AfterDelete(itemsOnPage int) bool {
	if itemsOnPage <= 1 && p.Page > 0 {
		p.Page--
		return true
	}
	return false
}

// HasNext còn trang sau không
func (p Pager) HasNext() bool {
	return p.Page+1 < p.TotalPages
}
