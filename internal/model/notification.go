package model

// CompletionNotification 工单完成通知（发往 Redis 频道或 lmstfy 队列）
type CompletionNotification struct {
	TraceID       string      `json:"trace_id"`
	WorkItemID    string      `json:"work_item_id"`
	OrderType     int         `json:"order_type"`
	AccountNumber string      `json:"account_number"`
	IncidentID    int64       `json:"incident_id"`
	Status        string      `json:"status"`
	APIResponse   interface{} `json:"api_response,omitempty"`
	CompletedAt   int64       `json:"completed_at"` // Unix timestamp
}
