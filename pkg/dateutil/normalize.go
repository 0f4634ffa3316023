// Package dateutil 把各种来源的日期值规整成下游服务要求的统一时间串。
//
// 统一格式为 YYYY-MM-DDTHH:MM:SS.000Z：秒级精度，固定 .000Z 后缀，
// 不做时区换算（源值的墙上时间即视为目标时区时间）。
package dateutil

import (
	"database/sql"
	"strings"
	"time"
)

// Sentinel 缺失日期的占位值
const Sentinel = "1900-01-01T00:00:00.000Z"

const canonicalLayout = "2006-01-02T15:04:05"

// 按顺序尝试的字符串格式，第一个是源表的标准格式
var layouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Normalize 把日期值转换成统一时间串，无法识别时返回 Sentinel，从不失败
func Normalize(v interface{}) string {
	t, ok := toTime(v)
	if !ok {
		return Sentinel
	}
	return Format(t)
}

// Format 按墙上时间输出统一时间串
func Format(t time.Time) string {
	if t.IsZero() || t.Year() < 1 || t.Year() > 9999 {
		return Sentinel
	}
	return t.Format(canonicalLayout) + ".000Z"
}

// Now 当前本地时间的统一时间串
func Now() string {
	return Format(time.Now())
}

// IsCanonical 判断字符串是否为统一格式
func IsCanonical(s string) bool {
	if !strings.HasSuffix(s, ".000Z") || len(s) != len(Sentinel) {
		return false
	}
	_, err := time.Parse(canonicalLayout, strings.TrimSuffix(s, ".000Z"))
	return err == nil
}

func toTime(v interface{}) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return val, !val.IsZero()
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		return *val, !val.IsZero()
	case sql.NullTime:
		if !val.Valid {
			return time.Time{}, false
		}
		return val.Time, !val.Time.IsZero()
	case Value:
		return toTime(val.Raw)
	case *Value:
		if val == nil {
			return time.Time{}, false
		}
		return toTime(val.Raw)
	case []byte:
		return parseString(string(val))
	case string:
		return parseString(val)
	default:
		return time.Time{}, false
	}
}

func parseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
