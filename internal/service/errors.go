package service

import "errors"

var (
	// ErrNotFound 引用的模板/计划/训练日/动作不存在
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden 资源存在但不属于当前用户；对外与 ErrNotFound 表现一致
	ErrForbidden = errors.New("resource belongs to another user")
	// ErrValidation 写操作输入不合法，在任何写入前拒绝
	ErrValidation = errors.New("invalid input")
)

