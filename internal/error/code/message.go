package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:          "成功",
	ErrUnknown:          "操作失败，请稍后重试",
	ErrBind:             "请求参数绑定错误",
	ErrValidation:       "请求参数验证错误",
	ErrTokenInvalid:     "无效的认证令牌",
	ErrPermissionDenied: "权限不足",
	ErrTooManyRequests:  "请求频率过高",

	// 用户相关错误码
	ErrUserNotFound:          "用户不存在",
	ErrUserAlreadyExist:      "用户已存在",
	ErrUserPasswordIncorrect: "用户密码错误",

	// 线索相关错误码
	ErrLeadNotFound:         "线索不存在",
	ErrLeadAlreadyConverted: "线索已转化为联系人",
	ErrLeadImportFailed:     "线索文件解析失败",

	// 联系人相关错误码
	ErrContactNotFound:        "联系人不存在",
	ErrContactStatusInvalid:   "联系人状态值无效",
	ErrContactLinkRoleInvalid: "联系人房源关联角色无效",

	// 房源相关错误码
	ErrPropertyNotFound:     "房源不存在",
	ErrPropertyAlreadyExist: "房源已存在",

	// 日程相关错误码
	ErrEventNotFound:    "日程不存在",
	ErrEventTimeInvalid: "日程时间无效",

	// 文件相关错误码
	ErrFileNotFound:    "文件不存在",
	ErrSignedURLFailed: "签名URL签发失败",

	// 自动化相关错误码
	ErrWorkflowNotFound:   "自动化流程不存在",
	ErrSweepSecretInvalid: "扫描触发密钥无效",

	// 数据库相关错误码
	ErrDatabase:       "数据库错误",
	ErrRecordNotFound: "记录不存在",

	// 上游服务相关错误码
	ErrUpstreamFailed:        "上游服务调用失败",
	ErrUpstreamNotConfigured: "上游服务未配置",

	// 交易相关错误码
	ErrTransactionNotFound: "交易不存在",
	ErrTxStageInvalid:      "交易阶段无效",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:          StatusOK,
	ErrUnknown:          StatusInternalServerError,
	ErrBind:             StatusBadRequest,
	ErrValidation:       StatusBadRequest,
	ErrTokenInvalid:     StatusUnauthorized,
	ErrPermissionDenied: StatusForbidden,
	ErrTooManyRequests:  StatusTooManyRequests,

	// 用户相关错误码
	ErrUserNotFound:          StatusNotFound,
	ErrUserAlreadyExist:      StatusBadRequest,
	ErrUserPasswordIncorrect: StatusUnauthorized,

	// 线索相关错误码
	ErrLeadNotFound:         StatusNotFound,
	ErrLeadAlreadyConverted: StatusBadRequest,
	ErrLeadImportFailed:     StatusBadRequest,

	// 联系人相关错误码
	ErrContactNotFound:        StatusNotFound,
	ErrContactStatusInvalid:   StatusBadRequest,
	ErrContactLinkRoleInvalid: StatusBadRequest,

	// 房源相关错误码
	ErrPropertyNotFound:     StatusNotFound,
	ErrPropertyAlreadyExist: StatusBadRequest,

	// 日程相关错误码
	ErrEventNotFound:    StatusNotFound,
	ErrEventTimeInvalid: StatusBadRequest,

	// 文件相关错误码
	ErrFileNotFound:    StatusNotFound,
	ErrSignedURLFailed: StatusBadGateway,

	// 自动化相关错误码
	ErrWorkflowNotFound:   StatusNotFound,
	ErrSweepSecretInvalid: StatusUnauthorized,

	// 数据库相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,

	// 上游服务相关错误码
	ErrUpstreamFailed:        StatusBadGateway,
	ErrUpstreamNotConfigured: StatusInternalServerError,

	// 交易相关错误码
	ErrTransactionNotFound: StatusNotFound,
	ErrTxStageInvalid:      StatusBadRequest,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "操作失败，请稍后重试"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
