package framework

import (
	"context"
	"sync"
	"time"
)

// Poller 轮询者：拉取待处理工单，逐个交给 Processor
// 单协程顺序处理，不并发
type Poller struct {
	cfg        *PollerConfig
	source     ItemSource
	processor  *Processor
	logger     Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewPoller 创建轮询者
func NewPoller(cfg *PollerConfig, source ItemSource, processor *Processor, logger Logger) *Poller {
	return &Poller{
		cfg:       cfg,
		source:    source,
		processor: processor,
		logger:    logger,
	}
}

// Start 启动轮询循环
func (p *Poller) Start(parentCtx context.Context) {
	ctx, cancel := context.WithCancel(parentCtx)
	p.cancelFunc = cancel

	p.logger.Infof(ctx, "[Poller] Starting, idle: %v, pass: %v, error backoff: %v",
		p.cfg.IdleInterval, p.cfg.PassInterval, p.cfg.ErrorBackoff)

	p.wg.Add(1)
	go p.loop(ctx)
}

// Stop 停止轮询（不再开始新的工单，进行中的工单继续跑完）
func (p *Poller) Stop() {
	p.logger.Infof(context.Background(), "[Poller] Stopping...")
	if p.cancelFunc != nil {
		p.cancelFunc()
	}
}

// Wait 等待轮询协程退出
func (p *Poller) Wait() {
	p.wg.Wait()
	p.logger.Infof(context.Background(), "[Poller] Exited")
}

func (p *Poller) loop(ctx context.Context) {
	defer p.wg.Done()

	for {
		wait := p.RunOnce(ctx)
		if !sleep(ctx, wait) {
			p.logger.Infof(ctx, "[Poller] Context cancelled, exiting")
			return
		}
	}
}

// RunOnce 执行一轮：拉取并处理，返回下一轮前应等待的时间
func (p *Poller) RunOnce(ctx context.Context) time.Duration {
	// 1. 拉取工单（出错不退出，退避后重试）
	items, err := p.source.FetchOpen(ctx)
	if err != nil {
		p.logger.Warnf(ctx, "[Poller] Fetch error: %v, retrying in %v", err, p.cfg.ErrorBackoff)
		return p.cfg.ErrorBackoff
	}

	if len(items) == 0 {
		p.logger.Debugf(ctx, "[Poller] No open work items, waiting %v", p.cfg.IdleInterval)
		return p.cfg.IdleInterval
	}

	p.logger.Infof(ctx, "[Poller] Found %d open work items", len(items))

	// 2. 顺序处理，每个工单之间检查退出
	before := p.processor.Stats().Snapshot()
	for i, item := range items {
		if ctx.Err() != nil {
			p.logger.Warnf(ctx, "[Poller] Shutdown requested, %d work items left for next run", len(items)-i)
			break
		}
		p.processor.Process(ctx, item)
	}

	pass := p.processor.Stats().Snapshot().Sub(before)
	p.logger.Infof(ctx, "[Poller] Pass finished: completed=%d skipped=%d failed=%d",
		pass.Completed, pass.Skipped, pass.Failed)

	return p.cfg.PassInterval
}

// sleep 等待 d，期间收到取消返回 false
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
