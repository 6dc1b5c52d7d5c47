// internal/api/error_codes.go
package api

// API错误代码常量
const (
	// 通用错误
	ErrorBadRequest    = "BAD_REQUEST"
	ErrorNotFound      = "NOT_FOUND"
	ErrorInternalError = "INTERNAL_ERROR"
	ErrorConflict      = "CONFLICT"
	ErrorForbidden     = "FORBIDDEN"
	ErrorUnauthorized  = "UNAUTHORIZED"

	// 认证相关错误
	ErrorInvalidCredentials = "INVALID_CREDENTIALS"
	ErrorAccountBanned      = "ACCOUNT_BANNED"
	ErrorTokenInvalid       = "TOKEN_INVALID"

	// 人格相关错误
	ErrorPersonaNotFound  = "PERSONA_NOT_FOUND"
	ErrorTextTooShort     = "TEXT_TOO_SHORT"
	ErrorPersonaGenFailed = "PERSONA_GENERATION_FAILED"

	// 会话相关错误
	ErrorSessionNotFound = "SESSION_NOT_FOUND"
	ErrorMessageEmpty    = "MESSAGE_EMPTY"

	// 分享相关错误
	ErrorShareNotFound = "SHARE_NOT_FOUND"
	ErrorShareExpired  = "SHARE_EXPIRED"

	// 举报相关错误
	ErrorReportNotFound = "REPORT_NOT_FOUND"
	ErrorReportResolved = "REPORT_ALREADY_RESOLVED"
)
