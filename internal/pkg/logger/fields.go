package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldProvider = "oracle_provider"
	FieldModel    = "oracle_model"
	FieldUserID   = "user_id"
	FieldJobID    = "job_id"
)

type StringField struct {
	Key   string
	Value string
}

// StringFields drops entries whose key or value is blank.
func StringFields(fields ...StringField) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		k := strings.TrimSpace(f.Key)
		v := strings.TrimSpace(f.Value)
		if k == "" || v == "" {
			continue
		}
		out = append(out, zap.String(k, v))
	}
	return out
}

func WithFields(l *zap.Logger, fields ...zap.Field) *zap.Logger {
	l = OrNop(l)
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

func OracleFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

func WithOracle(l *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(l, OracleFields(provider, model)...)
}
