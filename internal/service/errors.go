package service

import "errors"

// 业务失败全部用哨兵错误表达，transport 层据此映射 code/msg，
// 不让底层异常直接穿出边界。
var (
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrDuplicateMobile = errors.New("mobile number already exists")
	ErrNotFound        = errors.New("record not found")

	// 登录三种失败内部保留区分（日志用），对外由 handler 合并成
	// 同一句 invalid credentials，避免账号枚举
	ErrInvalidPassword = errors.New("invalid password")
	ErrInactive        = errors.New("user is not active")

	ErrInvalidOTP    = errors.New("invalid or expired otp")
	ErrAlreadyActive = errors.New("user is already active")

	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")

	ErrImageTooLarge      = errors.New("profile image too large")
	ErrBadOTP             = errors.New("invalid otp")
	ErrBadCurrentPassword = errors.New("current password is incorrect")
	ErrPasswordMismatch   = errors.New("passwords do not match")

	ErrInternal = errors.New("internal error")
)
