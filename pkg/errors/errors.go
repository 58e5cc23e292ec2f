package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrInvalidState 记录当前状态不允许执行该操作（如重复审批、重复认领）
var ErrInvalidState = errors.New("当前状态不允许该操作")
