package errors

import "errors"

// ErrConcurrentUpdate 并发更新冲突：记录状态已被其他操作抢先修改
var ErrConcurrentUpdate = errors.New("数据已被其他操作修改，请刷新后重试")
