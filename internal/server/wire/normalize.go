// Package wire prepares keyed records for transport boundaries whose number
// type cannot safely carry values above 2^31-1 (notably JSON consumed by
// JavaScript clients).
package wire

import (
	"strconv"
	"strings"
)

const maxSafeInt = int64(2147483647)

// Normalize walks a record and re-encodes every integer that is either
// larger than 2^31-1 or stored under a field name containing "permissions"
// as its decimal string representation. Nested maps and slices are walked
// recursively; everything else passes through unchanged. The operation is
// idempotent: normalizing already-normalized data is a no-op.
func Normalize(data map[string]any) map[string]any {
	for k, v := range data {
		data[k] = normalizeValue(k, v)
	}
	return data
}

func normalizeValue(key string, v any) any {
	switch value := v.(type) {
	case map[string]any:
		return Normalize(value)
	case []any:
		for i, item := range value {
			value[i] = normalizeValue(key, item)
		}
		return value
	case int:
		return normalizeInt(key, int64(value))
	case int32:
		return normalizeInt(key, int64(value))
	case int64:
		return normalizeInt(key, value)
	case uint:
		return normalizeUint(key, uint64(value))
	case uint32:
		return normalizeUint(key, uint64(value))
	case uint64:
		return normalizeUint(key, value)
	default:
		return v
	}
}

func normalizeInt(key string, v int64) any {
	if v > maxSafeInt || isPermissionsField(key) {
		return strconv.FormatInt(v, 10)
	}
	return v
}

func normalizeUint(key string, v uint64) any {
	if v > uint64(maxSafeInt) || isPermissionsField(key) {
		return strconv.FormatUint(v, 10)
	}
	return v
}

func isPermissionsField(key string) bool {
	return strings.Contains(key, "permissions")
}
