package incident

import (
	"context"
	"fmt"
	"time"

	"oip/ordersync/internal/entity"
	"oip/ordersync/internal/model"
)

// CompletionData 业务处理结果
type CompletionData struct {
	TraceID     string
	Item        *entity.WorkItem
	Status      string
	APIResponse interface{}
	CompletedAt time.Time
}

// CompletionResulter 把处理结果整理成完成通知
type CompletionResulter struct {
	srcData *CompletionData
	dstData *model.CompletionNotification
}

// NewCompletionResulter 创建结果处理器
func NewCompletionResulter() *CompletionResulter {
	return &CompletionResulter{}
}

// Set 设置业务结果数据
func (r *CompletionResulter) Set(ctx context.Context, data interface{}) error {
	resultData, ok := data.(*CompletionData)
	if !ok || resultData == nil || resultData.Item == nil {
		return fmt.Errorf("unexpected result data %T", data)
	}
	r.srcData = resultData

	r.dstData = &model.CompletionNotification{
		TraceID:       resultData.TraceID,
		WorkItemID:    resultData.Item.ID,
		OrderType:     resultData.Item.OrderType,
		AccountNumber: resultData.Item.AccountNumber,
		IncidentID:    resultData.Item.IncidentID,
		Status:        resultData.Status,
		APIResponse:   resultData.APIResponse,
		CompletedAt:   resultData.CompletedAt.Unix(),
	}

	return nil
}

// Get 获取格式化后的输出
func (r *CompletionResulter) Get(ctx context.Context) interface{} {
	return r.dstData
}
