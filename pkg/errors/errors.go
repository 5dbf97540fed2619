// Package errors 提供统一的错误定义
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 通用错误 (1xxx)
	CodeSuccess            ErrorCode = "0"
	CodeUnknown            ErrorCode = "1000"
	CodeInvalidParam       ErrorCode = "1001"
	CodeUnauthorized       ErrorCode = "1002"
	CodeForbidden          ErrorCode = "1003"
	CodeNotFound           ErrorCode = "1004"
	CodeConflict           ErrorCode = "1005"
	CodeTooManyRequests    ErrorCode = "1006"
	CodeInternalError      ErrorCode = "1007"
	CodeServiceUnavailable ErrorCode = "1008"

	// 认证授权错误 (2xxx)
	CodeTokenExpired  ErrorCode = "2001"
	CodeTokenInvalid  ErrorCode = "2002"
	CodeTokenMissing  ErrorCode = "2003"
	CodeAuthFailed    ErrorCode = "2004"
	CodeCredentialNil ErrorCode = "2005"

	// 资源错误 (3xxx)
	CodeBookNotFound    ErrorCode = "3001"
	CodeOutlineNotFound ErrorCode = "3002"
	CodeChapterNotFound ErrorCode = "3003"
	CodeIdeaNotFound    ErrorCode = "3004"

	// 业务错误 (4xxx)
	CodeValidationFailed  ErrorCode = "4001"
	CodeInvalidState      ErrorCode = "4002"
	CodeGenerationFailed  ErrorCode = "4003"
	CodeResponseParse     ErrorCode = "4004"
	CodeExportFailed      ErrorCode = "4005"
	CodeUnsupportedFormat ErrorCode = "4006"

	// 外部服务错误 (5xxx)
	CodeDatabaseError ErrorCode = "5001"
	CodeCacheError    ErrorCode = "5002"
	CodeUpstreamError ErrorCode = "5003"
	CodeRendererError ErrorCode = "5004"
)

// AppError 应用错误
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail 添加详细信息
func (e *AppError) WithDetail(detail string) *AppError {
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithError 添加底层错误
func (e *AppError) WithError(err error) *AppError {
	clone := *e
	clone.Err = err
	return &clone
}

// Is 支持 errors.Is 按错误码匹配
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

// codeToHTTPStatus 错误码转 HTTP 状态码
func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeInvalidParam, CodeValidationFailed, CodeUnsupportedFormat:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeTokenExpired, CodeTokenInvalid, CodeTokenMissing, CodeAuthFailed, CodeCredentialNil:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound, CodeBookNotFound, CodeOutlineNotFound, CodeChapterNotFound, CodeIdeaNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInvalidState:
		return http.StatusConflict
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeUpstreamError, CodeRendererError:
		return http.StatusBadGateway
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// 预定义错误
var (
	ErrInvalidParam       = New(CodeInvalidParam, "invalid parameter")
	ErrUnauthorized       = New(CodeUnauthorized, "unauthorized")
	ErrForbidden          = New(CodeForbidden, "forbidden")
	ErrNotFound           = New(CodeNotFound, "resource not found")
	ErrConflict           = New(CodeConflict, "resource conflict")
	ErrTooManyRequests    = New(CodeTooManyRequests, "too many requests")
	ErrInternalError      = New(CodeInternalError, "internal server error")
	ErrServiceUnavailable = New(CodeServiceUnavailable, "service unavailable")

	ErrTokenExpired  = New(CodeTokenExpired, "token expired")
	ErrTokenInvalid  = New(CodeTokenInvalid, "token invalid")
	ErrTokenMissing  = New(CodeTokenMissing, "token missing")
	ErrAuthFailed    = New(CodeAuthFailed, "generation credential rejected")
	ErrCredentialNil = New(CodeCredentialNil, "generation credential not configured")

	ErrBookNotFound    = New(CodeBookNotFound, "book not found")
	ErrOutlineNotFound = New(CodeOutlineNotFound, "outline not found")
	ErrChapterNotFound = New(CodeChapterNotFound, "chapter not found")
	ErrIdeaNotFound    = New(CodeIdeaNotFound, "idea not found")

	ErrValidationFailed  = New(CodeValidationFailed, "validation failed")
	ErrInvalidState      = New(CodeInvalidState, "operation not allowed in current state")
	ErrGenerationFailed  = New(CodeGenerationFailed, "text generation failed")
	ErrResponseParse     = New(CodeResponseParse, "failed to parse generated response")
	ErrExportFailed      = New(CodeExportFailed, "manuscript export failed")
	ErrUnsupportedFormat = New(CodeUnsupportedFormat, "unsupported export format")
	ErrUpstreamError     = New(CodeUpstreamError, "upstream service error")
)

// IsAppError 检查是否为 AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError 将错误转换为 AppError
func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Wrap(err, CodeUnknown, "unknown error")
}
