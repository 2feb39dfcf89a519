package utils

import (
	"regexp"
	"strings"

	"github.com/techmaster-vietnam/goerrorkit"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// FieldErrors gom lỗi theo từng field để trả về một ValidationError duy nhất
type FieldErrors map[string]string

// Add ghi nhận lỗi đầu tiên của field
func (f FieldErrors) Add(field, message string) {
	if _, exists := f[field]; !exists {
		f[field] = message
	}
}

// Required thêm lỗi nếu value rỗng sau khi trim
func (f FieldErrors) Required(field, value, message string) {
	if strings.TrimSpace(value) == "" {
		f.Add(field, message)
	}
}

// Email kiểm tra format email
func (f FieldErrors) Email(field, value string) {
	if msg := EmailProblem(value); msg != "" {
		f.Add(field, msg)
	}
}

// Err trả về nil nếu không có lỗi, ngược lại trả về goerrorkit ValidationError
// với data {"fields": {...}}
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	fields := make(map[string]string, len(f))
	for k, v := range f {
		fields[k] = v
	}
	return goerrorkit.NewValidationError("Dữ liệu không hợp lệ", map[string]interface{}{
		"fields": fields,
	})
}

// ValidateEmail kiểm tra format email hợp lệ
// Email hợp lệ phải:
// - Không rỗng
// - Có format local@domain.tld
// - Local part tối đa 64 ký tự, tổng độ dài tối đa 320 ký tự (RFC 5321)
func ValidateEmail(email string) error {
	if msg := EmailProblem(email); msg != "" {
		return goerrorkit.NewValidationError(msg, map[string]interface{}{
			"field": "email",
			"value": email,
		})
	}
	return nil
}

// EmailProblem trả về mô tả lỗi của email, rỗng nếu email hợp lệ
func EmailProblem(email string) string {
	if strings.TrimSpace(email) == "" {
		return "Email là bắt buộc"
	}
	if !strings.Contains(email, "@") {
		return "Email không hợp lệ: thiếu ký tự @"
	}
	if len(email) > 320 {
		return "Email quá dài (tối đa 320 ký tự)"
	}
	if !emailRegex.MatchString(email) {
		return "Email không hợp lệ: format không đúng"
	}
	if local := email[:strings.Index(email, "@")]; len(local) > 64 {
		return "Email không hợp lệ: phần trước @ không hợp lệ"
	}
	return ""
}
