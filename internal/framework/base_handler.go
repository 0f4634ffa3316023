package framework

import (
	"context"
	"fmt"

	"oip/ordersync/internal/entity"
)

// BaseHandler 抽象基类
// 提供基础设施方法，不包含业务流程控制
type BaseHandler struct {
	meta     *ItemMeta        // 工单元信息
	item     *entity.WorkItem // 归一后的工单
	output   interface{}      // 最终输出结果
	resulter Resulter         // 结果处理器（业务提供）
}

// ItemMeta 工单元信息
type ItemMeta struct {
	TraceID   string
	ID        string
	OrderType int
}

// NewBaseHandler 由工单构造基类
func NewBaseHandler(ctx context.Context, traceID string, item *entity.WorkItem) *BaseHandler {
	return &BaseHandler{
		meta: &ItemMeta{
			TraceID:   traceID,
			ID:        item.ID,
			OrderType: item.OrderType,
		},
		item: item,
	}
}

// WrapError 统一包装错误
func (b *BaseHandler) WrapError(err error, msg string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

// GetMeta 获取 meta
func (b *BaseHandler) GetMeta() *ItemMeta {
	return b.meta
}

// GetItem 获取工单
func (b *BaseHandler) GetItem() *entity.WorkItem {
	return b.item
}

// SetOutput 设置输出
func (b *BaseHandler) SetOutput(output interface{}) {
	b.output = output
}

// GetOutput 获取输出
func (b *BaseHandler) GetOutput() interface{} {
	return b.output
}

// SetResulter 设置结果处理器
func (b *BaseHandler) SetResulter(resulter Resulter) {
	b.resulter = resulter
}

// GetResulter 获取结果处理器
func (b *BaseHandler) GetResulter() Resulter {
	return b.resulter
}
