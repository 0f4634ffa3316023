package incident

import (
	"context"
	"fmt"
	"time"

	"oip/ordersync/internal/entity"
	"oip/ordersync/pkg/errorutil"
	"oip/ordersync/pkg/logger"
)

// WorkItemStore 工单条件更新能力
type WorkItemStore interface {
	CompleteOpen(
		ctx context.Context,
		item *entity.WorkItem,
		response interface{},
		completedAt time.Time,
	) (matched int64, modified int64, err error)
}

// Transitioner 工单 Open -> Completed 迁移
type Transitioner struct {
	store WorkItemStore
	log   logger.Logger
	now   func() time.Time
}

// NewTransitioner 创建迁移器
func NewTransitioner(store WorkItemStore, log logger.Logger) *Transitioner {
	return &Transitioner{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// Complete 仅当工单仍为 Open 时置为 Completed，返回完成时间
// 恰好命中并修改一条才算成功，重复调用返回 TransitionFailed
func (t *Transitioner) Complete(
	ctx context.Context,
	item *entity.WorkItem,
	response interface{},
) (time.Time, error) {
	completedAt := t.now()

	matched, modified, err := t.store.CompleteOpen(ctx, item, response, completedAt)
	if err != nil {
		return time.Time{}, errorutil.NonRetriable(errorutil.KindTransitionFailed, "complete work item", err)
	}
	if matched != 1 || modified != 1 {
		return time.Time{}, errorutil.New(errorutil.KindTransitionFailed,
			fmt.Sprintf("expected exactly one open work item, matched=%d modified=%d", matched, modified))
	}

	t.log.Infof(ctx, "[Transitioner] work item %s completed: account=%s incident=%d",
		item.ID, item.AccountNumber, item.IncidentID)
	return completedAt, nil
}
