package domains

import (
	"context"

	"oip/ordersync/internal/domains/common"
	"oip/ordersync/internal/domains/common/order"
	"oip/ordersync/internal/domains/handlers/incident"
	"oip/ordersync/internal/domains/handlers/unimplemented"
	"oip/ordersync/internal/framework"
)

// HandlerFactory Handler 构造函数类型
type HandlerFactory func(
	ctx context.Context,
	baseHandler *framework.BaseHandler,
	deps *common.Dependencies,
) (framework.BusinessHandler, error)

// HandlerMap 路由表（工单类型 → Handler）
var HandlerMap = map[order.Type]HandlerFactory{
	order.TypeCaseRegistration: incident.NewHandler,

	order.TypeMonitorPayment:              unimplemented.NewHandler,
	order.TypeMonitorPaymentCancel:        unimplemented.NewHandler,
	order.TypeCloseMonitorIfNoTransaction: unimplemented.NewHandler,
}

// Implemented 类型是否有实际处理逻辑
func Implemented(t order.Type) bool {
	return t == order.TypeCaseRegistration
}
