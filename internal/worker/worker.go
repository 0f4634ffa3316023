package worker

import (
	"context"

	"oip/ordersync/internal/framework"
	"oip/ordersync/pkg/logger"
)

// Worker 接口
type Worker interface {
	Start()
	Shutdown()
	GetName() string
}

// WorkerInstance Worker 实例
type WorkerInstance struct {
	ctx        context.Context
	name       string
	poller     *framework.Poller
	processor  *framework.Processor
	shutdownCh chan struct{}
	logger     logger.Logger
}

// NewWorkerInstance 创建 Worker 实例
func NewWorkerInstance(
	ctx context.Context,
	name string,
	pollerCfg *framework.PollerConfig,
	processorCfg *framework.ProcessorConfig,
	source framework.ItemSource,
	proc framework.Proc, // 注入 GetProcess
	log logger.Logger,
) (Worker, error) {
	processor := framework.NewProcessor(processorCfg, proc, log)
	poller := framework.NewPoller(pollerCfg, source, processor, log)

	return &WorkerInstance{
		ctx:        ctx,
		name:       name,
		poller:     poller,
		processor:  processor,
		shutdownCh: make(chan struct{}),
		logger:     log,
	}, nil
}

// Start 启动 Worker
func (w *WorkerInstance) Start() {
	w.logger.Infof(w.ctx, "[Worker] %s started", w.name)

	w.poller.Start(w.ctx)

	// 阻塞，等待关闭指令
	<-w.shutdownCh
}

// Shutdown 优雅退出
func (w *WorkerInstance) Shutdown() {
	w.logger.Infof(w.ctx, "[Worker] %s began to close", w.name)

	// 【第 1 步】不再开始新的工单
	w.poller.Stop()

	// 【第 2 步】等待进行中的工单处理完
	w.poller.Wait()

	stats := w.processor.Stats().Snapshot()
	w.logger.Infof(w.ctx, "[Worker] %s totals: completed=%d skipped=%d failed=%d",
		w.name, stats.Completed, stats.Skipped, stats.Failed)

	close(w.shutdownCh)
	w.logger.Infof(w.ctx, "[Worker] %s shutdown complete", w.name)
}

// GetName 获取 Worker 名称
func (w *WorkerInstance) GetName() string {
	return w.name
}
