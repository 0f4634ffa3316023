package framework

import "time"

// PollerConfig Poller 配置
type PollerConfig struct {
	IdleInterval time.Duration // 没有待处理工单时的等待时间
	PassInterval time.Duration // 一轮处理完后的等待时间
	ErrorBackoff time.Duration // 拉取失败后的退避时间
}

// ProcessorConfig Processor 配置
type ProcessorConfig struct {
	Timeout time.Duration // 单个工单处理超时
}
