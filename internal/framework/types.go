package framework

import (
	"context"
	"errors"
	"fmt"
	"time"

	"oip/ordersync/internal/entity"
)

// ErrSkipped 工单被有意跳过（类型未实现、未启用或字段缺失），不计为失败
var ErrSkipped = errors.New("work item skipped")

// Skip 构造跳过原因
func Skip(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrSkipped, fmt.Sprintf(format, args...))
}

// Outcome 单个工单的处理结果
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

// String 日志用
func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ItemResult 处理结果
type ItemResult struct {
	Outcome  Outcome
	Err      error
	Output   interface{}
	Duration time.Duration
}

// Proc 业务处理函数类型（GetProcess 的函数签名）
type Proc func(ctx context.Context, item *entity.WorkItem) *ItemResult
