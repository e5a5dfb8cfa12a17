package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Log field keys shared by every analyst log entry.
const (
	FieldProvider = "ai_provider"
	FieldModel    = "ai_model"
)

// StringField is a key/value pair destined for a zap.String field.
type StringField struct {
	Key   string
	Value string
}

// StringFields builds zap fields from the given pairs. Keys and values are
// trimmed; a pair with a blank key or blank value produces no field.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		value := strings.TrimSpace(field.Value)
		if key == "" || value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields returns the logger with the fields attached. A nil logger is
// replaced with a no-op one, so the result is always usable.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields names the AI provider and model for a log entry. Blank values
// are dropped rather than logged as empty strings.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithCommonFields attaches the provider and model fields to the logger.
func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}
