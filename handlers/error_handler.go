package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/schoolkit/models"
)

// ErrorHandler bắt lỗi và panic từ các handler phía sau, ghi log qua goerrorkit
// và trả về envelope {status: false, message, data}.
// RequestID middleware phải đứng trước ErrorHandler.
func ErrorHandler() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		requestPath := c.Method() + " " + c.Path()
		requestID := "unknown"
		if rid, found := c.Locals("requestid").(string); found {
			requestID = rid
		}

		defer func() {
			if r := recover(); r != nil {
				err = writeError(c, goerrorkit.HandlePanic(r, requestID), requestPath)
			}
		}()

		if nextErr := c.Next(); nextErr != nil {
			return writeError(c, toAppError(nextErr, requestID), requestPath)
		}
		return nil
	}
}

func toAppError(err error, requestID string) *goerrorkit.AppError {
	var appErr *goerrorkit.AppError
	if errors.As(err, &appErr) {
		appErr.RequestID = requestID
		return appErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		errType := goerrorkit.BusinessError
		if fiberErr.Code >= 500 {
			errType = goerrorkit.SystemError
		}
		return &goerrorkit.AppError{
			Type:      errType,
			Code:      fiberErr.Code,
			Message:   fiberErr.Message,
			RequestID: requestID,
		}
	}
	return goerrorkit.ConvertToAppError(err, requestID)
}

func writeError(c *fiber.Ctx, appErr *goerrorkit.AppError, requestPath string) error {
	goerrorkit.LogError(appErr, requestPath)

	status := appErr.Code
	if status < 400 || status > 599 {
		status = fiber.StatusInternalServerError
	}
	message := appErr.Message
	if appErr.Type == goerrorkit.PanicError {
		message = "Internal server error"
	}

	var data interface{}
	if appErr.Type == goerrorkit.ValidationError {
		if fields, found := appErr.Data["fields"]; found {
			data = fiber.Map{"fields": fields}
		} else if field, found := appErr.Data["field"].(string); found {
			data = fiber.Map{"fields": map[string]string{field: appErr.Message}}
		}
	}

	return c.Status(status).JSON(models.Envelope[interface{}]{
		Status:  false,
		Message: message,
		Data:    data,
	})
}
