package logger

import "context"

type ctxKey int

const (
	traceIDKey ctxKey = iota
	orderTypeKey
	accountKey
	incidentKey
)

// WithTraceID 注入链路 ID
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceID 读取链路 ID
func TraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(traceIDKey).(string)
	return traceID
}

// WithWorkItem 注入工单维度字段
func WithWorkItem(ctx context.Context, orderType int, account string, incidentID int64) context.Context {
	ctx = context.WithValue(ctx, orderTypeKey, orderType)
	ctx = context.WithValue(ctx, accountKey, account)
	return context.WithValue(ctx, incidentKey, incidentID)
}
