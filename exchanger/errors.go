package exchanger

import "errors"

// 求解失败时返回的哨兵错误，调用方用 errors.Is 识别
// 任何一种失败都意味着结果不可用，不允许读取部分结果
var (
	ErrTooManyUnknowns  = errors.New("未知出口温度超过三个")
	ErrNoTargetUA       = errors.New("三个未知出口温度时必须给定目标 UA")
	ErrSingularJacobian = errors.New("雅可比矩阵奇异")
	ErrInfeasible       = errors.New("随机重置次数耗尽，未找到可行状态")
	ErrNotConverged     = errors.New("达到最大迭代次数仍未收敛")
)
