package framework

import (
	"context"
	"fmt"
)

// PreProcessor 函数链处理器
type PreProcessor struct {
	processFuncs []ProcessorFunc
}

// NewPreProcessor 创建函数链处理器
func NewPreProcessor(processFuncs ...ProcessorFunc) *PreProcessor {
	return &PreProcessor{
		processFuncs: processFuncs,
	}
}

// Run 按顺序执行函数链，任一函数返回 error 则立即停止
// 错误以 %w 包装，上层可用 errors.Is 识别 ErrSkipped
func (p *PreProcessor) Run(ctx context.Context) error {
	for i, processFunc := range p.processFuncs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("stage[%d] not started: %w", i, err)
		}
		if err := processFunc(ctx); err != nil {
			return fmt.Errorf("stage[%d] failed: %w", i, err)
		}
	}
	return nil
}
