// Package saga 实现带补偿的分步执行
//
// 核心思想：
// 1. 把一次操作拆成若干步骤，每个步骤带对应的补偿操作
// 2. 某步失败时，按逆序执行已完成步骤的补偿
//
// 本仓库的主要用途是购物车的乐观更新：
// 步骤1 = 本地乐观修改（补偿 = 回滚本地状态），
// 步骤2 = 远端提交（失败即触发步骤1的补偿）。
// 补偿必须幂等，且只依赖自己步骤的结果，不依赖后续步骤。
package saga

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Step 表示一个步骤
type Step struct {
	Name       string                          // 步骤名称（用于日志）
	Action     func(ctx context.Context) error // 正向操作
	Compensate func(ctx context.Context) error // 补偿操作（可为nil）
}

// Saga 一次带补偿的分步执行
type Saga struct {
	steps    []Step        // 所有步骤
	executed []Step        // 已执行的步骤（用于补偿）
	timeout  time.Duration // 整体超时时间（0表示不限制）
}

// New 创建Saga
//
// 示例：
//
//	s := saga.New(0)
//	s.AddStep("本地乐观更新", applyLocal, rollbackLocal)
//	s.AddStep("远端提交", callRemote, nil)
//	err := s.Execute(ctx)
func New(timeout time.Duration) *Saga {
	return &Saga{
		steps:   make([]Step, 0),
		timeout: timeout,
	}
}

// AddStep 添加一个步骤（按添加顺序执行，按逆序补偿）
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
}

// Execute 按顺序执行所有步骤
//
// 某步失败或整体超时时，逆序补偿已完成的步骤并返回错误。
// 补偿使用独立的Context，避免原Context超时导致补偿也被打断。
func (s *Saga) Execute(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		select {
		case <-ctx.Done():
			s.compensate(context.Background())
			return fmt.Errorf("操作超时: %w", ctx.Err())
		default:
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				s.compensate(context.Background())
				return fmt.Errorf("步骤[%d:%s]执行失败: %w", i, step.Name, err)
			}
		}

		s.executed = append(s.executed, step)
	}

	return nil
}

// compensate 逆序执行已完成步骤的补偿
//
// 某个补偿失败时记录日志并继续执行剩余补偿（尽最大努力）。
func (s *Saga) compensate(ctx context.Context) {
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]

		if step.Compensate != nil {
			if err := step.Compensate(ctx); err != nil {
				log.Printf("⚠️ 补偿失败[步骤:%s]: %v", step.Name, err)
			}
		}
	}

	s.executed = nil
}
