// Package retry 对瞬时故障做有界的指数退避重试。
//
// 只有 errorutil.IsRetryable 为 true 的错误才会重试，配置错误、数据缺失等
// 永久性错误第一次就直接返回。
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"oip/ordersync/pkg/errorutil"
)

// Policy 重试策略
type Policy struct {
	MaxAttempts     int           // 总尝试次数（含首次），<=1 表示不重试
	InitialInterval time.Duration // 首次退避
	MaxInterval     time.Duration // 单次退避上限
	AttemptTimeout  time.Duration // 单次调用超时，0 表示不设
}

// DefaultPolicy 默认策略
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		AttemptTimeout:  30 * time.Second,
	}
}

// NoRetry 只调用一次
func NoRetry() Policy {
	return Policy{MaxAttempts: 1}
}

// OnRetry 每次失败后、退避前的回调
type OnRetry func(err error, wait time.Duration)

// Do 按策略执行 fn，fn 收到的 ctx 带单次超时
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error, notify OnRetry) error {
	op := func() error {
		attemptCtx := ctx
		if p.AttemptTimeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, p.AttemptTimeout)
			defer cancel()
		}

		err := fn(attemptCtx)
		if err == nil {
			return nil
		}
		if !errorutil.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	var b backoff.BackOff = newExponential(p)
	if p.MaxAttempts > 1 {
		b = backoff.WithMaxRetries(b, uint64(p.MaxAttempts-1))
	} else {
		b = &backoff.StopBackOff{}
	}
	b = backoff.WithContext(b, ctx)

	var n backoff.Notify
	if notify != nil {
		n = backoff.Notify(notify)
	}

	return backoff.RetryNotify(op, b, n)
}

func newExponential(p Policy) *backoff.ExponentialBackOff {
	eb := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		eb.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		eb.MaxInterval = p.MaxInterval
	}
	// 次数由 WithMaxRetries 控制
	eb.MaxElapsedTime = 0
	eb.Reset()
	return eb
}
