package framework

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/atomic"

	"oip/ordersync/internal/entity"
)

// Stats 处理计数，进程生命周期内累加
type Stats struct {
	Completed *atomic.Int64
	Skipped   *atomic.Int64
	Failed    *atomic.Int64
}

// StatsSnapshot 某一时刻的计数
type StatsSnapshot struct {
	Completed int64
	Skipped   int64
	Failed    int64
}

// NewStats 创建计数器
func NewStats() *Stats {
	return &Stats{
		Completed: atomic.NewInt64(0),
		Skipped:   atomic.NewInt64(0),
		Failed:    atomic.NewInt64(0),
	}
}

// Snapshot 读取当前计数
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Completed: s.Completed.Load(),
		Skipped:   s.Skipped.Load(),
		Failed:    s.Failed.Load(),
	}
}

// Sub 两次快照之差
func (s StatsSnapshot) Sub(prev StatsSnapshot) StatsSnapshot {
	return StatsSnapshot{
		Completed: s.Completed - prev.Completed,
		Skipped:   s.Skipped - prev.Skipped,
		Failed:    s.Failed - prev.Failed,
	}
}

func (s *Stats) record(o Outcome) {
	switch o {
	case OutcomeCompleted:
		s.Completed.Inc()
	case OutcomeSkipped:
		s.Skipped.Inc()
	default:
		s.Failed.Inc()
	}
}

// Processor 处理器：对单个工单调用业务处理函数
type Processor struct {
	cfg    *ProcessorConfig
	proc   Proc // 业务处理函数（注入的 GetProcess）
	logger Logger
	stats  *Stats
}

// NewProcessor 创建处理器
func NewProcessor(cfg *ProcessorConfig, proc Proc, logger Logger) *Processor {
	return &Processor{
		cfg:    cfg,
		proc:   proc,
		logger: logger,
		stats:  NewStats(),
	}
}

// Stats 返回计数器
func (p *Processor) Stats() *Stats {
	return p.stats
}

// Process 处理单个工单
// 处理期间不受上层取消影响，只受自身超时约束，保证进行中的工单能跑完
func (p *Processor) Process(ctx context.Context, item *entity.WorkItem) *ItemResult {
	if item == nil {
		return nil
	}

	startTime := time.Now()

	// 1. 与上层取消解耦，单独设置超时
	procCtx := context.WithoutCancel(ctx)
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		procCtx, cancel = context.WithTimeout(procCtx, p.cfg.Timeout)
		defer cancel()
	}

	p.logger.Debugf(procCtx, "[Processor] Processing work item: %s, order_type: %d", item.ID, item.OrderType)

	// 2. 调用业务处理函数（捕获 panic）
	res := p.invoke(procCtx, item)
	res.Duration = time.Since(startTime)
	p.stats.record(res.Outcome)

	// 3. 记录处理结果
	switch res.Outcome {
	case OutcomeFailed:
		p.logger.Errorf(procCtx, "[Processor] Work item %s failed after %v: %v", item.ID, res.Duration, res.Err)
	case OutcomeSkipped:
		p.logger.Infof(procCtx, "[Processor] Work item %s skipped: %v", item.ID, res.Err)
	default:
		p.logger.Infof(procCtx, "[Processor] Work item %s completed, duration: %v", item.ID, res.Duration)
	}

	return res
}

func (p *Processor) invoke(ctx context.Context, item *entity.WorkItem) (res *ItemResult) {
	defer func() {
		if r := recover(); r != nil {
			res = &ItemResult{Outcome: OutcomeFailed, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	res = p.proc(ctx, item)
	if res == nil {
		res = &ItemResult{Outcome: OutcomeFailed, Err: errors.New("nil result from handler")}
	}
	return res
}
