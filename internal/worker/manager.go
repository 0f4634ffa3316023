package worker

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/atomic"

	biz "oip/ordersync/internal/business/incident"
	"oip/ordersync/internal/domains"
	"oip/ordersync/internal/domains/common"
	"oip/ordersync/internal/framework"
	"oip/ordersync/pkg/config"
	mongostore "oip/ordersync/pkg/infra/mongo"
	"oip/ordersync/pkg/infra/rdb"
	"oip/ordersync/pkg/infra/redis"
	"oip/ordersync/pkg/lmstfy"
	"oip/ordersync/pkg/logger"
	"oip/ordersync/pkg/retry"
)

const pollerWorkerName = "order-poller"

// Manager 接口
type Manager interface {
	Start() error
	Shutdown()
}

// ManagerInstance Manager 实例
type ManagerInstance struct {
	ctx         context.Context
	cfg         *config.Config
	enabled     domains.TypeSet
	mongoClient *mongo.Client
	notifier    common.Notifier
	closeNotify func() error
	workers     []Worker
	closing     *atomic.Bool
	shutdownCh  chan struct{}
	wg          sync.WaitGroup
	logger      logger.Logger
}

// NewManagerInstance 创建 Manager，工单库连不上直接返回错误
func NewManagerInstance(ctx context.Context, cfg *config.Config, enabled domains.TypeSet, log logger.Logger) (Manager, error) {
	// 初始化工单库长连接
	mongoClient, err := mongostore.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.ConnectTimeout)
	if err != nil {
		return nil, err
	}

	// 初始化完成通知
	notifier, closeNotify, err := newNotifier(ctx, cfg.Notifier)
	if err != nil {
		_ = mongoClient.Disconnect(context.Background())
		return nil, err
	}

	log.Infof(ctx, "[Manager] Initialized, notifier: %s", notifierKind(cfg.Notifier))

	return &ManagerInstance{
		ctx:         ctx,
		cfg:         cfg,
		enabled:     enabled,
		mongoClient: mongoClient,
		notifier:    notifier,
		closeNotify: closeNotify,
		closing:     atomic.NewBool(false),
		shutdownCh:  make(chan struct{}),
		workers:     make([]Worker, 0),
		logger:      log,
	}, nil
}

// Start 启动 Manager
func (m *ManagerInstance) Start() error {
	m.logger.Infof(m.ctx, "[Manager] Starting...")

	// 1. 加载 Worker
	if err := m.loadWorkers(); err != nil {
		return fmt.Errorf("failed to load workers: %w", err)
	}

	// 2. 启动 Worker（独立 goroutine）
	for _, worker := range m.workers {
		w := worker
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			w.Start()
		}()
		m.logger.Infof(m.ctx, "[Manager] Worker started: %s", w.GetName())
	}

	m.logger.Infof(m.ctx, "[Manager] Start success")

	// 3. 阻塞等待退出信号
	<-m.shutdownCh

	return nil
}

// Shutdown 优雅退出
func (m *ManagerInstance) Shutdown() {
	m.logger.Infof(m.ctx, "[Manager] Began to close")

	// 原子操作，保证并发安全
	if m.closing.CAS(false, true) {
		// 1. 所有 Worker 安全退出
		for _, worker := range m.workers {
			m.logger.Infof(m.ctx, "[Manager] Shutting down worker: %s", worker.GetName())
			worker.Shutdown()
		}

		// 2. 等待所有 Worker 退出
		m.wg.Wait()

		// 3. 释放外部连接
		if m.closeNotify != nil {
			if err := m.closeNotify(); err != nil {
				m.logger.Warnf(m.ctx, "[Manager] Close notifier: %v", err)
			}
		}
		if err := m.mongoClient.Disconnect(context.Background()); err != nil {
			m.logger.Warnf(m.ctx, "[Manager] Disconnect mongo: %v", err)
		}

		// 4. 关闭信号通道
		close(m.shutdownCh)

		m.logger.Infof(m.ctx, "[Manager] Shutdown complete")
	}
}

// loadWorkers 加载 Worker：单个轮询者顺序处理全部工单
func (m *ManagerInstance) loadWorkers() error {
	coll := m.mongoClient.Database(m.cfg.Mongo.Database).Collection(m.cfg.Mongo.Collection)
	store := mongostore.NewWorkItemStore(coll)

	deps, err := buildDependencies(m.cfg, store, m.notifier, m.logger)
	if err != nil {
		return err
	}

	pollerCfg := &framework.PollerConfig{
		IdleInterval: m.cfg.Poller.IdleInterval,
		PassInterval: m.cfg.Poller.PassInterval,
		ErrorBackoff: m.cfg.Poller.ErrorBackoff,
	}
	procCfg := &framework.ProcessorConfig{
		Timeout: m.cfg.Processor.Timeout,
	}

	// 获取 GetProcess 函数
	getProcess := domains.GetProcess(m.logger, deps, m.enabled)

	worker, err := NewWorkerInstance(m.ctx, pollerWorkerName, pollerCfg, procCfg, store, getProcess, m.logger)
	if err != nil {
		return fmt.Errorf("failed to create worker %s: %w", pollerWorkerName, err)
	}
	m.workers = append(m.workers, worker)

	return nil
}

// buildDependencies 组装立案流程的依赖
func buildDependencies(
	cfg *config.Config,
	store biz.WorkItemStore,
	notifier common.Notifier,
	log logger.Logger,
) (*common.Dependencies, error) {
	dial, err := rdb.NewDialer(cfg.Relational.Driver, cfg.Relational.DSN)
	if err != nil {
		return nil, err
	}

	queryPolicy := policyFrom(cfg.Retry, cfg.Relational.QueryTimeout)
	submitPolicy := policyFrom(cfg.Retry, cfg.Submitter.Timeout)

	return &common.Dependencies{
		Assembler:    biz.NewAssembler(rdb.NewRowSource(dial, queryPolicy), log),
		Submitter:    biz.NewSubmitter(biz.StaticURL(cfg.Submitter.URL), &http.Client{}, submitPolicy, log),
		Transitioner: biz.NewTransitioner(store, log),
		Notifier:     notifier,
		Logger:       log,
	}, nil
}

// policyFrom 以默认策略为底，配置中非零的项覆盖
func policyFrom(rc config.RetryConfig, attemptTimeout time.Duration) retry.Policy {
	p := retry.DefaultPolicy()
	if rc.MaxAttempts > 0 {
		p.MaxAttempts = rc.MaxAttempts
	}
	if rc.InitialInterval > 0 {
		p.InitialInterval = rc.InitialInterval
	}
	if rc.MaxInterval > 0 {
		p.MaxInterval = rc.MaxInterval
	}
	if attemptTimeout > 0 {
		p.AttemptTimeout = attemptTimeout
	}
	return p
}

// newNotifier 按配置创建通知器，kind 为空或 none 时返回 nil
func newNotifier(ctx context.Context, nc config.NotifierConfig) (common.Notifier, func() error, error) {
	switch nc.Kind {
	case "redis":
		ps, err := redis.NewPubSub(ctx, nc.Redis.Addr, nc.Redis.Password, nc.Redis.DB, nc.Redis.Channel)
		if err != nil {
			return nil, nil, err
		}
		return ps, ps.Close, nil
	case "lmstfy":
		c := nc.Lmstfy
		return lmstfy.NewClient(c.Host, c.Port, c.Namespace, c.Token, c.Queue), nil, nil
	case "", "none":
		return nil, nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported notifier kind: %s", nc.Kind)
	}
}

func notifierKind(nc config.NotifierConfig) string {
	if nc.Kind == "" {
		return "none"
	}
	return nc.Kind
}
