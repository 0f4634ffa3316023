package dateutil

import (
	"database/sql/driver"
	"time"
)

// Value 数据库日期列的原始值，列类型可能是 DATETIME、DATE 或字符串
type Value struct {
	Raw interface{}
}

// Scan 实现 sql.Scanner
func (v *Value) Scan(src interface{}) error {
	switch s := src.(type) {
	case []byte:
		// 驱动复用缓冲区，必须拷贝
		v.Raw = string(s)
	default:
		v.Raw = s
	}
	return nil
}

// Value 实现 driver.Valuer
func (v Value) Value() (driver.Value, error) {
	switch raw := v.Raw.(type) {
	case nil:
		return nil, nil
	case time.Time, string:
		return raw, nil
	default:
		return Normalize(raw), nil
	}
}

// String 统一时间串
func (v Value) String() string {
	return Normalize(v.Raw)
}

// GormDataType 让 gorm 按普通列处理，而不是当作关联结构体解析
func (Value) GormDataType() string {
	return "datetime"
}
