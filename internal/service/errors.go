package service

import "errors"

// Sentinel errors carry the message shown to the caller.
var (
	ErrInvalidPhone         = errors.New("请输入有效的11位手机号")
	ErrInvalidCode          = errors.New("验证码必须是4-6位数字")
	ErrCodeInvalidOrExpired = errors.New("验证码错误或已过期")

	ErrMissingCredentials = errors.New("请输入用户名和密码")
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrPasswordTooShort   = errors.New("密码长度至少6位")
	ErrAdminExists        = errors.New("用户名已存在")
	ErrAdminNotFound      = errors.New("管理员不存在")
	ErrCannotDeleteSelf   = errors.New("不能删除自己")

	ErrUserNotFound    = errors.New("用户不存在")
	ErrInvalidLoanDate = errors.New("放款时间格式应为YYYY-MM-DD")
	ErrNothingToUpdate = errors.New("没有需要更新的字段")
	ErrInvalidCSV      = errors.New("CSV文件格式错误")

	ErrSettingKeyRequired = errors.New("缺少设置键")
	ErrSettingNotFound    = errors.New("设置不存在")
	ErrInvalidSettingJSON = errors.New("设置值必须是有效的JSON")

	ErrNoFiles           = errors.New("请先选择图片")
	ErrInvalidFileFormat = errors.New("仅支持jpg、png格式的图片")
	ErrFileSizeExceeded  = errors.New("图片大小不能超过5MB")
	ErrReceiptNotFound   = errors.New("凭证不存在")
)
