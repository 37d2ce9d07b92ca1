package service

import "errors"

var (
	// ErrCartSessionInvalid 购物车会话 ID 非法
	ErrCartSessionInvalid = errors.New("cart session invalid")
	// ErrCartStorageUnavailable 购物车存储读取失败，暂不接受变更
	ErrCartStorageUnavailable = errors.New("cart storage unavailable")
)
