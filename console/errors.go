package console

import (
	"errors"
	"fmt"
)

var (
	// ErrForbidden được bọc bởi lỗi của các guard khi session không đủ quyền
	ErrForbidden = errors.New("console: không có quyền truy cập")
	// ErrBusy khi controller đang xử lý một thao tác khác
	ErrBusy = errors.New("console: đang xử lý, vui lòng chờ")
	// ErrInvalidForm khi form không qua kiểm tra cục bộ, chi tiết nằm trong FieldErrors
	ErrInvalidForm = errors.New("console: dữ liệu không hợp lệ")
	// ErrNoForm khi Save được gọi mà chưa OpenAdd/OpenEdit
	ErrNoForm = errors.New("console: chưa mở form")
)

// RejectionError là lỗi người dùng (chưa chọn role thay thế, ...). Không có request nào được gửi đi.
type RejectionError struct {
	Message string
}

func (e *RejectionError) Error() string { return e.Message }

// PartialSuccessError: user đã được chuyển sang role mới nhưng xóa role cũ thất bại
type PartialSuccessError struct {
	Reassigned int64
	Cause      error
}

func (e *PartialSuccessError) Error() string {
	return fmt.Sprintf("đã chuyển %d người dùng sang role mới nhưng chưa xóa được role cũ: %v", e.Reassigned, e.Cause)
}

func (e *PartialSuccessError) Unwrap() error { return e.Cause }
