package errorutil

import (
	"errors"
	"fmt"
)

// Kind 错误分类
type Kind string

const (
	KindUnknown             Kind = "Unknown"
	KindConnection          Kind = "ConnectionError"
	KindAssemblyFailed      Kind = "AssemblyFailed"
	KindPaymentLookupFailed Kind = "PaymentLookupFailed"
	KindConfig              Kind = "ConfigError"
	KindSubmissionFailed    Kind = "SubmissionFailed"
	KindTransitionFailed    Kind = "TransitionFailed"
	KindInvalidCommand      Kind = "InvalidCommand"
)

// Error 错误结构（包含可重试标记）
type Error struct {
	Kind       Kind   `json:"kind"`
	Code       int    `json:"code"`
	Message    string `json:"message"`
	Retryable  bool   `json:"retryable"`
	DevDetails string `json:"dev_details,omitempty"`

	cause error
}

// Error 实现 error 接口
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap 支持 errors.Is / errors.As
func (e *Error) Unwrap() error {
	return e.cause
}

// Is 同 Kind 即视为相等，便于 errors.Is(err, errorutil.New(KindX, ""))
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Retriable 创建可重试错误（网络错误、临时故障等）
func Retriable(kind Kind, message string, cause error) *Error {
	return &Error{
		Kind:      kind,
		Code:      500,
		Message:   message,
		Retryable: true,
		cause:     cause,
	}
}

// NonRetriable 创建不可重试错误（配置错误、数据缺失等）
func NonRetriable(kind Kind, message string, cause error) *Error {
	return &Error{
		Kind:      kind,
		Code:      400,
		Message:   message,
		Retryable: false,
		cause:     cause,
	}
}

// New 创建不带原因的不可重试错误
func New(kind Kind, message string) *Error {
	return NonRetriable(kind, message, nil)
}

// WithDetails 附加调试信息
func (e *Error) WithDetails(details string) *Error {
	e.DevDetails = details
	return e
}

// Wrap 包装错误（已是 Error 则原样返回，否则为不可重试）
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{
		Kind:       KindUnknown,
		Code:       500,
		Message:    err.Error(),
		Retryable:  false,
		DevDetails: fmt.Sprintf("%+v", err),
		cause:      err,
	}
}

// IsRetryable 判断错误链上是否存在可重试的 Error
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

// KindOf 返回错误分类，非 Error 返回 KindUnknown
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is 判断错误链上是否存在指定分类
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
