package meeting

import "errors"

var (
	// ErrPlanningFailed 规划调用失败或结果不可用，项目创建中止
	ErrPlanningFailed = errors.New("meeting planning failed")

	// ErrResumeInconsistency 存档缺少恢复该位置所需的字段
	// 恢复时绝不凭空补造缺失状态
	ErrResumeInconsistency = errors.New("stored project is missing required state for resume")
)
