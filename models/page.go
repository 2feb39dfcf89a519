package models

// Envelope là định dạng response chung của API: {status, message, data}
type Envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Page là kết quả phân trang. Page trên wire bắt đầu từ 1.
type Page[T any] struct {
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Data          []T   `json:"data"`
}

// NewPage tạo Page từ danh sách và tổng số phần tử
func NewPage[T any](items []T, page, size int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return Page[T]{
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		Data:          items,
	}
}
