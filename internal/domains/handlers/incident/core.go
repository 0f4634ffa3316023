package incident

import (
	"context"

	"oip/ordersync/internal/entity"
	"oip/ordersync/internal/framework"
	"oip/ordersync/internal/model"
)

// PreProcess 预处理：账号和事件号缺一则跳过
func (h *Handler) PreProcess(ctx context.Context) error {
	item := h.GetItem()

	if item.AccountNumber == "" || item.IncidentID <= 0 {
		return framework.Skip("missing required fields in work item %s", item.ID)
	}

	return nil
}

// Process 核心处理
func (h *Handler) Process(ctx context.Context) error {
	item := h.GetItem()

	doc, err := h.deps.Assembler.Assemble(ctx, item.AccountNumber, item.IncidentID)
	if err != nil {
		return err
	}
	h.doc = doc

	resp, err := h.deps.Submitter.Submit(ctx, doc)
	if err != nil {
		return err
	}
	h.apiResponse = resp

	completedAt, err := h.deps.Transitioner.Complete(ctx, item, resp)
	if err != nil {
		return err
	}
	h.completedAt = completedAt

	return nil
}

// PostProcess 后处理：生成输出并尽力发送完成通知
func (h *Handler) PostProcess(ctx context.Context) error {
	item := h.GetItem()

	err := h.GetResulter().Set(ctx, &CompletionData{
		TraceID:     h.GetMeta().TraceID,
		Item:        item,
		Status:      entity.RequestStatusCompleted,
		APIResponse: h.apiResponse,
		CompletedAt: h.completedAt,
	})
	if err != nil {
		return err
	}

	output := h.GetResulter().Get(ctx)
	h.SetOutput(output)

	h.sendNotification(ctx)

	return nil
}

// sendNotification 通知失败只告警，工单已完成不回滚
func (h *Handler) sendNotification(ctx context.Context) {
	if h.deps.Notifier == nil {
		return
	}

	n, ok := h.GetOutput().(*model.CompletionNotification)
	if !ok {
		return
	}
	if err := h.deps.Notifier.Notify(ctx, n); err != nil {
		h.log.Warnf(ctx, "[Handler] completion notification failed: %v", err)
	}
}
