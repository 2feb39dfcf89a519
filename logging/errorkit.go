package logging

import (
	"go.uber.org/zap"
)

// ErrorkitLogger chuyển log của goerrorkit sang zap, dùng với goerrorkit.SetLogger
// khi LOG_BACKEND=zap.
type ErrorkitLogger struct {
	logger *zap.Logger
}

// NewErrorkitLogger bọc zap logger thành goerrorkit.Logger
func NewErrorkitLogger(logger *zap.Logger) *ErrorkitLogger {
	return &ErrorkitLogger{logger: OrNop(logger)}
}

func (l *ErrorkitLogger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, toZapFields(fields)...)
}

func (l *ErrorkitLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, toZapFields(fields)...)
}

func (l *ErrorkitLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, toZapFields(fields)...)
}

func (l *ErrorkitLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, toZapFields(fields)...)
}

func toZapFields(fields map[string]interface{}) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}
