package domains

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"oip/ordersync/internal/domains/common"
	"oip/ordersync/internal/domains/common/order"
	"oip/ordersync/internal/entity"
	"oip/ordersync/internal/framework"
	"oip/ordersync/pkg/errorutil"
	"oip/ordersync/pkg/logger"
)

// TypeSet 启用的工单类型，空集合表示全部启用
type TypeSet map[order.Type]bool

// NewTypeSet 由类型列表构造
func NewTypeSet(types ...order.Type) TypeSet {
	s := make(TypeSet, len(types))
	for _, t := range types {
		s[t] = true
	}
	return s
}

// Enabled 是否启用
func (s TypeSet) Enabled(t order.Type) bool {
	return len(s) == 0 || s[t]
}

// GetProcess 返回核心处理函数（注入到 Processor）
func GetProcess(log logger.Logger, deps *common.Dependencies, enabled TypeSet) framework.Proc {
	return func(ctx context.Context, item *entity.WorkItem) *framework.ItemResult {
		startTime := time.Now()

		// 1. 注入 TraceID 和工单维度到 Context
		traceID := uuid.New().String()
		ctx = logger.WithTraceID(ctx, traceID)
		ctx = logger.WithWorkItem(ctx, item.OrderType, item.AccountNumber, item.IncidentID)

		// 2. 解析工单类型
		orderType, err := order.FromInt(item.OrderType)
		if err != nil {
			log.Warnf(ctx, "[GetProcess] %v, work item %s skipped", err, item.ID)
			return &framework.ItemResult{Outcome: framework.OutcomeSkipped, Err: err}
		}
		if !enabled.Enabled(orderType) {
			return &framework.ItemResult{
				Outcome: framework.OutcomeSkipped,
				Err:     framework.Skip("order type %s not enabled", orderType),
			}
		}

		// 3. 从 HandlerMap 获取 Handler
		handlerFunc, ok := HandlerMap[orderType]
		if !ok {
			log.Errorf(ctx, "[GetProcess] handler not found for order type: %s", orderType)
			return &framework.ItemResult{
				Outcome: framework.OutcomeSkipped,
				Err:     framework.Skip("no handler for order type %s", orderType),
			}
		}

		log.Infof(ctx, "[GetProcess] Processing work item: id=%s, order_type=%s", item.ID, orderType)

		// 4. 调用 Handler（捕获 panic）
		var resp *framework.ItemResult
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Errorf(ctx, "[GetProcess] handler panic: %v", r)
					resp = &framework.ItemResult{
						Outcome: framework.OutcomeFailed,
						Err:     fmt.Errorf("handler panic: %v", r),
					}
				}
			}()

			baseHandler := framework.NewBaseHandler(ctx, traceID, item)
			handler, err := handlerFunc(ctx, baseHandler, deps)
			if err != nil {
				log.Errorf(ctx, "[GetProcess] handler creation failed: %v", err)
				resp = &framework.ItemResult{Outcome: framework.OutcomeFailed, Err: err}
				return
			}

			output, err := handler.Handle(ctx)
			resp = doItemReport(output, err)
		}()

		if resp.Outcome == framework.OutcomeFailed {
			logFailure(ctx, log, resp.Err)
		}

		// 5. 记录处理时长
		log.Infof(ctx, "[GetProcess] Processing complete: outcome=%s, duration=%v", resp.Outcome, time.Since(startTime))

		return resp
	}
}

// doItemReport 按错误类型归类结果
func doItemReport(output interface{}, err error) *framework.ItemResult {
	switch {
	case err == nil:
		return &framework.ItemResult{Outcome: framework.OutcomeCompleted, Output: output}
	case errors.Is(err, framework.ErrSkipped):
		return &framework.ItemResult{Outcome: framework.OutcomeSkipped, Err: err}
	default:
		return &framework.ItemResult{Outcome: framework.OutcomeFailed, Err: err}
	}
}

// logFailure 记录失败的分类、是否可重试和调试信息
func logFailure(ctx context.Context, log logger.Logger, err error) {
	e := errorutil.Wrap(err)
	if e == nil {
		return
	}
	log.Errorf(ctx, "[GetProcess] failed: kind=%s retryable=%t details=%q", e.Kind, e.Retryable, e.DevDetails)
}
