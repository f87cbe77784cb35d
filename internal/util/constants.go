package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// MaxOTPAttempts 单个 OTP 会话允许的最大校验次数，用尽后需重新发送
const MaxOTPAttempts = 5

// Cookie 名称
const (
	UserTokenCookie  = "userToken"
	AdminTokenCookie = "adminToken"
)

// Session 类型
const (
	SessionKindUser  = "user"
	SessionKindAdmin = "admin"
)

// gin.Context keys set by the session middleware
const (
	CtxUserID  = "userId"
	CtxUser    = "user"
	CtxAdminID = "adminId"
	CtxAdmin   = "admin"
)
