package entity

import "time"

// 工单状态
const (
	RequestStatusOpen      = "Open"
	RequestStatusCompleted = "Completed"
)

// WorkItem 待处理工单（来自文档库，已在入口处完成字段归一）
type WorkItem struct {
	ID            string    // 文档 _id 的十六进制表示
	OrderType     int       // 工单类型
	AccountNumber string    // 账号，account_number 优先，其次 account_num
	IncidentID    int64     // parameters.incident_id
	RequestStatus string    // Open / Completed
	CompletedAt   time.Time // 完成时间

	// Source 文档库侧的原始键值，条件更新时原样回填，业务层不解读
	Source interface{}
}

// IsOpen 是否待处理
func (w *WorkItem) IsOpen() bool {
	return w.RequestStatus == RequestStatusOpen
}
