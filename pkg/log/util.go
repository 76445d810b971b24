package log

import (
	"fmt"

	"go.uber.org/zap"
)

// toFields converts logr-style variadic arguments to zap fields. Bare
// zap.Field and error values are accepted between pairs; malformed input
// (trailing value, non-string key) is kept under a synthetic key rather
// than dropped.
func toFields(args ...any) []zap.Field {
	if len(args) == 0 {
		return nil
	}

	fields := make([]zap.Field, 0, len(args)/2+1)
	for i := 0; i < len(args); {
		switch v := args[i].(type) {
		case zap.Field:
			fields = append(fields, v)
			i++
			continue
		case error:
			fields = append(fields, zap.Error(v))
			i++
			continue
		}

		if i == len(args)-1 {
			fields = append(fields, zap.Any(fmt.Sprintf("arg#%d", i), args[i]))
			break
		}

		key, val := args[i], args[i+1]
		i += 2

		if keyStr, ok := key.(string); ok {
			fields = append(fields, zap.Any(keyStr, val))
			continue
		}
		fields = append(fields, zap.Any(fmt.Sprintf("invalid_key_%d", i/2), map[string]any{
			"key":   key,
			"value": val,
		}))
	}
	return fields
}
