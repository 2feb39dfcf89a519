package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Lỗi từ API được giải mã một lần tại client thành một trong các kiểu dưới đây.
// Dùng errors.As để phân biệt.

// ValidationError là lỗi 400, Fields chứa lỗi theo từng field nếu server trả về
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s %v", e.Message, e.Fields)
}

// ConflictError là lỗi 409 (trùng dữ liệu, role đang được sử dụng, ...)
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NotFoundError là lỗi 404
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// AuthError là lỗi 401/403
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Forbidden trả về true với lỗi 403
func (e *AuthError) Forbidden() bool { return e.Status == http.StatusForbidden }

// ServerError là lỗi 5xx hoặc mã lỗi không thuộc các loại trên
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
}

// EnvelopeError là response 2xx nhưng status=false
type EnvelopeError struct {
	Message string
}

func (e *EnvelopeError) Error() string { return e.Message }

// IsConflict kiểm tra err có phải ConflictError không
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsNotFound kiểm tra err có phải NotFoundError không
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// AsValidation trả về ValidationError nếu err là lỗi validation
func AsValidation(err error) (*ValidationError, bool) {
	var target *ValidationError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// decodeError chuyển status + envelope thành lỗi có kiểu
func decodeError(status int, env *envelope) error {
	message := env.Message
	if message == "" {
		message = http.StatusText(status)
	}
	switch {
	case status == http.StatusBadRequest:
		return &ValidationError{Message: message, Fields: env.fields()}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthError{Status: status, Message: message}
	case status == http.StatusNotFound:
		return &NotFoundError{Message: message}
	case status == http.StatusConflict:
		return &ConflictError{Message: message}
	case status >= 300:
		return &ServerError{Status: status, Message: message}
	case !env.Status:
		return &EnvelopeError{Message: message}
	}
	return nil
}
