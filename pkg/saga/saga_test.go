package saga

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestSaga_Execute_Success 所有步骤成功时不触发补偿
func TestSaga_Execute_Success(t *testing.T) {
	executed := make([]string, 0)

	s := New(0)
	s.AddStep("本地乐观更新",
		func(ctx context.Context) error {
			executed = append(executed, "本地乐观更新")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "回滚本地状态")
			return nil
		},
	)
	s.AddStep("远端提交",
		func(ctx context.Context) error {
			executed = append(executed, "远端提交")
			return nil
		},
		nil,
	)

	if err := s.Execute(context.Background()); err != nil {
		t.Fatalf("执行失败: %v", err)
	}

	if len(executed) != 2 {
		t.Errorf("期望执行2个步骤，实际%d个: %v", len(executed), executed)
	}
	if executed[0] != "本地乐观更新" || executed[1] != "远端提交" {
		t.Errorf("执行顺序错误: %v", executed)
	}
}

// TestSaga_Execute_FailureAndCompensate 远端失败触发本地回滚
func TestSaga_Execute_FailureAndCompensate(t *testing.T) {
	executed := make([]string, 0)

	s := New(0)
	s.AddStep("本地乐观更新",
		func(ctx context.Context) error {
			executed = append(executed, "本地乐观更新")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "回滚本地状态")
			return nil
		},
	)
	s.AddStep("远端提交",
		func(ctx context.Context) error {
			executed = append(executed, "远端提交")
			return errors.New("网络错误")
		},
		nil,
	)

	err := s.Execute(context.Background())
	if err == nil {
		t.Fatal("远端失败应返回错误")
	}

	// 期望：本地乐观更新 → 远端提交（失败） → 回滚本地状态
	expected := []string{"本地乐观更新", "远端提交", "回滚本地状态"}
	if len(executed) != len(expected) {
		t.Fatalf("期望%d个步骤，实际%d个: %v", len(expected), len(executed), executed)
	}
	for i, step := range expected {
		if executed[i] != step {
			t.Errorf("步骤%d期望'%s'，实际'%s'", i, step, executed[i])
		}
	}
}

// TestSaga_Execute_Timeout 超时触发补偿
func TestSaga_Execute_Timeout(t *testing.T) {
	executed := make([]string, 0)

	s := New(50 * time.Millisecond)
	s.AddStep("快速步骤",
		func(ctx context.Context) error {
			executed = append(executed, "快速步骤")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "快速步骤补偿")
			return nil
		},
	)
	s.AddStep("慢速步骤",
		func(ctx context.Context) error {
			select {
			case <-time.After(200 * time.Millisecond):
				executed = append(executed, "慢速步骤")
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
		nil,
	)

	if err := s.Execute(context.Background()); err == nil {
		t.Fatal("应该超时但返回成功")
	}

	if len(executed) < 2 || executed[len(executed)-1] != "快速步骤补偿" {
		t.Errorf("超时后应触发补偿，实际执行: %v", executed)
	}
}

// TestSaga_CompensateContinuesOnFailure 某个补偿失败不阻断其余补偿
func TestSaga_CompensateContinuesOnFailure(t *testing.T) {
	executed := make([]string, 0)

	s := New(0)
	s.AddStep("步骤A",
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error {
			executed = append(executed, "补偿A")
			return nil
		},
	)
	s.AddStep("步骤B",
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error {
			executed = append(executed, "补偿B")
			return errors.New("补偿B失败")
		},
	)
	s.AddStep("步骤C",
		func(ctx context.Context) error { return errors.New("正向失败") },
		nil,
	)

	if err := s.Execute(context.Background()); err == nil {
		t.Fatal("应该失败")
	}

	// 补偿逆序执行：B失败后A仍应执行
	expected := []string{"补偿B", "补偿A"}
	if len(executed) != len(expected) {
		t.Fatalf("期望%d次补偿，实际%d次: %v", len(expected), len(executed), executed)
	}
	for i, step := range expected {
		if executed[i] != step {
			t.Errorf("补偿%d期望'%s'，实际'%s'", i, step, executed[i])
		}
	}
}
