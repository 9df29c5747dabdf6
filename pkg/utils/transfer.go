package utils

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Transfer 把 jwt claims 里的数字转换为 int64，jwt 解析后数字默认为 float64
func Transfer(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	}
	return 0, false
}

// ParseID 解析路径参数中的正整数 id
func ParseID(v string) (int64, bool) {
	res, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || res <= 0 {
		return 0, false
	}
	return res, true
}

// ParseOptionalID 空字符串视为未提供
func ParseOptionalID(v string) (*int64, bool) {
	if strings.TrimSpace(v) == "" {
		return nil, true
	}
	id, ok := ParseID(v)
	if !ok {
		return nil, false
	}
	return &id, true
}
