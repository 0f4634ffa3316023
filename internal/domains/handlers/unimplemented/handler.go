// Package unimplemented 已登记但尚未实现的工单类型，统一跳过。
package unimplemented

import (
	"context"

	"oip/ordersync/internal/domains/common"
	"oip/ordersync/internal/domains/common/order"
	"oip/ordersync/internal/framework"
)

// Handler 占位处理器
type Handler struct {
	framework.BaseHandler
}

// NewHandler 创建占位处理器
func NewHandler(
	ctx context.Context,
	baseHandler *framework.BaseHandler,
	deps *common.Dependencies,
) (framework.BusinessHandler, error) {
	return &Handler{BaseHandler: *baseHandler}, nil
}

// Handle 不做任何处理，返回跳过
func (h *Handler) Handle(ctx context.Context) (interface{}, error) {
	t := order.Type(h.GetMeta().OrderType)
	return nil, framework.Skip("%s (%s) is not implemented", t.Title(), t)
}
