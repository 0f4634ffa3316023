package common

import (
	"context"
	"time"

	"oip/ordersync/internal/entity"
	"oip/ordersync/internal/model"
	"oip/ordersync/pkg/logger"
)

// Assembler 事件文档组装
type Assembler interface {
	Assemble(ctx context.Context, accountNum string, incidentID int64) (*model.IncidentDocument, error)
}

// Submitter 事件文档提交
type Submitter interface {
	Submit(ctx context.Context, doc *model.IncidentDocument) (interface{}, error)
}

// Transitioner 工单状态迁移
type Transitioner interface {
	Complete(ctx context.Context, item *entity.WorkItem, response interface{}) (time.Time, error)
}

// Notifier 完成通知，失败不影响工单结果
type Notifier interface {
	Notify(ctx context.Context, n *model.CompletionNotification) error
}

// Dependencies Handler 依赖
type Dependencies struct {
	Assembler    Assembler
	Submitter    Submitter
	Transitioner Transitioner
	Notifier     Notifier // 可为 nil
	Logger       logger.Logger
}
