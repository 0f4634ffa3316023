package framework

import (
	"context"

	"oip/ordersync/internal/entity"
)

// ItemSource 工单来源
type ItemSource interface {
	// FetchOpen 拉取全部待处理工单，顺序即处理顺序
	FetchOpen(ctx context.Context) ([]*entity.WorkItem, error)
}

// Logger 日志接口
type Logger interface {
	Debugf(ctx context.Context, format string, args ...interface{})
	Infof(ctx context.Context, format string, args ...interface{})
	Warnf(ctx context.Context, format string, args ...interface{})
	Errorf(ctx context.Context, format string, args ...interface{})
}

// ProcessorFunc 处理函数类型
type ProcessorFunc func(ctx context.Context) error

// BusinessHandler 业务处理器接口
type BusinessHandler interface {
	Handle(ctx context.Context) (interface{}, error)
}

// Resulter 结果处理器接口
type Resulter interface {
	Set(ctx context.Context, data interface{}) error
	Get(ctx context.Context) interface{}
}
