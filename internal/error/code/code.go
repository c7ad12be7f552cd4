package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusForbidden - 403: 禁止访问.
	StatusForbidden = 403
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
	// StatusBadGateway - 502: 上游服务错误.
	StatusBadGateway = 502
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTokenInvalid - 401: 令牌无效.
	ErrTokenInvalid
	// ErrPermissionDenied - 403: 权限不足.
	ErrPermissionDenied
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
)

// 用户相关错误码 (101xxx).
const (
	// ErrUserNotFound - 404: 用户不存在.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 400: 用户已存在.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401: 用户密码错误.
	ErrUserPasswordIncorrect
)

// 线索相关错误码 (102xxx).
const (
	// ErrLeadNotFound - 404: 线索不存在.
	ErrLeadNotFound int = iota + 102000
	// ErrLeadAlreadyConverted - 400: 线索已转化为联系人.
	ErrLeadAlreadyConverted
	// ErrLeadImportFailed - 400: 线索文件解析失败.
	ErrLeadImportFailed
)

// 联系人相关错误码 (103xxx).
const (
	// ErrContactNotFound - 404: 联系人不存在.
	ErrContactNotFound int = iota + 103000
	// ErrContactStatusInvalid - 400: 联系人状态值无效.
	ErrContactStatusInvalid
	// ErrContactLinkRoleInvalid - 400: 联系人房源关联角色无效.
	ErrContactLinkRoleInvalid
)

// 房源相关错误码 (104xxx).
const (
	// ErrPropertyNotFound - 404: 房源不存在.
	ErrPropertyNotFound int = iota + 104000
	// ErrPropertyAlreadyExist - 400: 房源已存在.
	ErrPropertyAlreadyExist
)

// 日程相关错误码 (105xxx).
const (
	// ErrEventNotFound - 404: 日程不存在.
	ErrEventNotFound int = iota + 105000
	// ErrEventTimeInvalid - 400: 日程时间无效.
	ErrEventTimeInvalid
)

// 文件相关错误码 (106xxx).
const (
	// ErrFileNotFound - 404: 文件不存在.
	ErrFileNotFound int = iota + 106000
	// ErrSignedURLFailed - 502: 签名URL签发失败.
	ErrSignedURLFailed
)

// 自动化相关错误码 (107xxx).
const (
	// ErrWorkflowNotFound - 404: 自动化流程不存在.
	ErrWorkflowNotFound int = iota + 107000
	// ErrSweepSecretInvalid - 401: 扫描触发密钥无效.
	ErrSweepSecretInvalid
)

// 数据库相关错误码 (108xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 108000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
)

// 上游服务相关错误码 (109xxx).
const (
	// ErrUpstreamFailed - 502: 上游服务调用失败.
	ErrUpstreamFailed int = iota + 109000
	// ErrUpstreamNotConfigured - 500: 上游服务未配置.
	ErrUpstreamNotConfigured
)

// 交易相关错误码 (110xxx).
const (
	// ErrTransactionNotFound - 404: 交易不存在.
	ErrTransactionNotFound int = iota + 110000
	// ErrTxStageInvalid - 400: 交易阶段无效.
	ErrTxStageInvalid
)
