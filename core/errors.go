package core

import (
	"errors"
	"fmt"
)

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型，按 Code 分类
//   - errors.Is 按 Code 匹配，调用方只需对哨兵错误做判断
//   - Err 保留底层原因，Unwrap 可继续向下展开
//
// 错误分类：
//   - VALIDATION：请求字段非法，在打分前被拒绝
//   - UNSCOREABLE：模型无法为单个候选人打分，候选人被跳过
//   - POOL_UNAVAILABLE：候选池不可用，整次匹配失败
//   - MODEL_UNAVAILABLE：远程模型不可用，整次匹配失败
//   - TIMEOUT：匹配超出截止时间，整次匹配失败
type DomainError struct {
	Code    string // 错误代码（如 "VALIDATION", "TIMEOUT"）
	Message string // 错误消息
	Module  string // 模块名称（如 "engine", "registry"）
	Err     error  // 底层原因（可选）
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// Is 按错误代码匹配，使 errors.Is(err, ErrTimeout) 对任意模块的超时错误都成立。
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// WrapDomainError 以 err 为原因创建领域错误。
func WrapDomainError(module, code, message string, err error) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// GetDomainError 获取错误链上的 DomainError，如果不存在则返回 nil
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// 错误代码常量
const (
	ErrorCodeValidation       = "VALIDATION"
	ErrorCodeUnscoreable      = "UNSCOREABLE"
	ErrorCodePoolUnavailable  = "POOL_UNAVAILABLE"
	ErrorCodeModelUnavailable = "MODEL_UNAVAILABLE"
	ErrorCodeTimeout          = "TIMEOUT"
	ErrorCodeNotFound         = "NOT_FOUND"
	ErrorCodeConflict         = "CONFLICT"
	ErrorCodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	ErrorCodeInternalError    = "INTERNAL_ERROR"
)

// 模块名称常量
const (
	ModuleRequest  = "request"
	ModuleFeature  = "feature"
	ModuleModel    = "model"
	ModuleEngine   = "engine"
	ModuleRegistry = "registry"
	ModuleStore    = "store"
)

// 哨兵错误，仅用于 errors.Is 判断。
var (
	ErrValidation       = NewDomainError("", ErrorCodeValidation, "validation failed")
	ErrUnscoreable      = NewDomainError("", ErrorCodeUnscoreable, "candidate unscoreable")
	ErrPoolUnavailable  = NewDomainError("", ErrorCodePoolUnavailable, "candidate pool unavailable")
	ErrModelUnavailable = NewDomainError("", ErrorCodeModelUnavailable, "probability model unavailable")
	ErrTimeout          = NewDomainError("", ErrorCodeTimeout, "match run timed out")
	ErrNotFound         = NewDomainError("", ErrorCodeNotFound, "not found")
	ErrConflict         = NewDomainError("", ErrorCodeConflict, "already exists")
	ErrPayloadTooLarge  = NewDomainError("", ErrorCodePayloadTooLarge, "request body too large")
)

// ValidationError 描述单个非法字段。
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is 使 errors.Is(err, ErrValidation) 对 *ValidationError 成立。
func (e *ValidationError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == ErrorCodeValidation
}

// NewValidationError 创建字段校验错误。
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation 检查错误是否为校验错误
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsUnscoreable 检查错误是否表示候选人无法打分
func IsUnscoreable(err error) bool { return errors.Is(err, ErrUnscoreable) }
