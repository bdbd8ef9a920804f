package domain

import "errors"

var (
	// 用户试图操作一个自己不属于的商家，且不是超级管理员
	ErrUnauthorizedBusiness = errors.New("无权访问该商家")
	// 用户没有加入任何商家，且不是超级管理员
	ErrNoBusinessAvailable = errors.New("当前账号未加入任何商家")
	// 同一员工在相同日期、时段和门店已存在未归档的班次
	ErrDuplicateShift = errors.New("该员工在相同日期、时段和门店已存在排班")
)

// ConflictError 携带冲突的班次列表，调用方可以把它们展示给用户
// 提供正确的覆盖码后可以重试
type ConflictError struct {
	Conflicts []*ScheduledShift
}

func (e *ConflictError) Error() string {
	return "该员工当天在该门店已有其他班次"
}
