package service

import (
	"errors"

	"github.com/techmaster-vietnam/goerrorkit"
	"gorm.io/gorm"
)

const referencedMsg = "Dữ liệu đang được tham chiếu bởi bản ghi khác"

// notFoundOr chuyển gorm.ErrRecordNotFound thành lỗi 404, vi phạm khóa ngoại thành 409,
// các lỗi khác bọc thành lỗi hệ thống
func notFoundOr(err error, notFoundMsg, wrapMsg string, data map[string]interface{}) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return goerrorkit.NewBusinessError(404, notFoundMsg).WithData(data)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return goerrorkit.NewBusinessError(409, referencedMsg).WithData(data)
	}
	return goerrorkit.WrapWithMessage(err, wrapMsg).WithData(data)
}

// duplicateOr chuyển gorm.ErrDuplicatedKey thành lỗi 409
func duplicateOr(err error, duplicateMsg, wrapMsg string, data map[string]interface{}) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return goerrorkit.NewBusinessError(409, duplicateMsg).WithData(data)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return goerrorkit.NewBusinessError(409, referencedMsg).WithData(data)
	}
	return goerrorkit.WrapWithMessage(err, wrapMsg).WithData(data)
}

func forbidden(msg string) error {
	return goerrorkit.NewAuthError(403, msg)
}
