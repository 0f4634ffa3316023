package incident

import (
	"context"
	"errors"
	"time"

	"oip/ordersync/internal/domains/common"
	"oip/ordersync/internal/framework"
	"oip/ordersync/internal/model"
	"oip/ordersync/pkg/logger"
)

// Handler 立案工单处理器：组装 -> 提交 -> 完成 -> 通知
type Handler struct {
	framework.BaseHandler

	deps        *common.Dependencies
	log         logger.Logger
	doc         *model.IncidentDocument
	apiResponse interface{}
	completedAt time.Time
}

// NewHandler 创建立案处理器
func NewHandler(
	ctx context.Context,
	baseHandler *framework.BaseHandler,
	deps *common.Dependencies,
) (framework.BusinessHandler, error) {
	if deps == nil || deps.Assembler == nil || deps.Submitter == nil || deps.Transitioner == nil {
		return nil, errors.New("case registration handler: missing dependencies")
	}

	handler := &Handler{
		BaseHandler: *baseHandler,
		deps:        deps,
		log:         deps.Logger,
	}
	if handler.log == nil {
		handler.log = logger.NewNop()
	}

	handler.SetResulter(NewCompletionResulter())

	return handler, nil
}

// Handle 处理入口
func (h *Handler) Handle(ctx context.Context) (interface{}, error) {
	preProcessor := framework.NewPreProcessor(
		h.PreProcess,
		h.Process,
		h.PostProcess,
	)
	if err := preProcessor.Run(ctx); err != nil {
		return nil, err
	}

	return h.GetOutput(), nil
}
