package apperror

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// AppError is the structured error carried across module boundaries.
type AppError struct {
	Code      Code      `json:"code"`
	Message   string    `json:"message"`
	Context   string    `json:"context,omitempty"`
	TraceID   string    `json:"traceId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	cause     error
	stack     []uintptr
}

// Error implements the error interface
func (e *AppError) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Code))
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Context != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Context)
		sb.WriteString(")")
	}
	if e.cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.cause.Error())
	}
	return sb.String()
}

// Unwrap implements the errors.Unwrap interface
func (e *AppError) Unwrap() error {
	return e.cause
}

// Is matches any *AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithTraceID sets the trace ID for distributed tracing
func (e *AppError) WithTraceID(traceID string) *AppError {
	e.TraceID = traceID
	return e
}

// ToLog flattens the error for structured logging.
func (e *AppError) ToLog() map[string]any {
	out := map[string]any{
		"code":      e.Code,
		"message":   e.Message,
		"timestamp": e.Timestamp.Format(time.RFC3339),
	}
	if e.Context != "" {
		out["context"] = e.Context
	}
	if e.TraceID != "" {
		out["traceId"] = e.TraceID
	}
	if e.cause != nil {
		out["cause"] = e.cause.Error()
	}
	if len(e.stack) > 0 {
		out["stack"] = e.formatStack()
	}
	return out
}

func (e *AppError) formatStack() string {
	var sb strings.Builder
	frames := runtime.CallersFrames(e.stack)
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", frame.File, frame.Line, frame.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

func captureStack() []uintptr {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	return pcs[:n]
}

// New creates a new AppError with the given code and options
func New(code Code, opts ...Option) *AppError {
	err := &AppError{
		Code:      code,
		Message:   messages[code],
		Timestamp: time.Now(),
		stack:     captureStack(),
	}

	for _, opt := range opts {
		opt(err)
	}

	if err.Message == "" {
		err.Message = string(code)
	}

	return err
}

// Option is a functional option for AppError
type Option func(*AppError)

// WithMessage overrides the code's default message.
func WithMessage(message string) Option {
	return func(e *AppError) {
		e.Message = message
	}
}

// WithContext adds context information
func WithContext(context string) Option {
	return func(e *AppError) {
		e.Context = context
	}
}

// WithCause wraps an underlying error
func WithCause(cause error) Option {
	return func(e *AppError) {
		e.cause = cause
	}
}

// Validation reports bad caller input.
func Validation(code Code, context string) *AppError {
	return New(code, WithContext(context))
}

// External reports a failing dependency (RPC node, indexer, price API).
func External(code Code, context string, cause error) *AppError {
	return New(code, WithContext(context), WithCause(cause))
}

// Wrap converts err into an AppError unless it already is one, in which
// case the existing code wins and context is only filled if empty.
func Wrap(err error, code Code, context string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if context != "" && appErr.Context == "" {
			appErr.Context = context
		}
		return appErr
	}

	return New(code, WithContext(context), WithCause(err))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetCode extracts the error code from an error
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknownError
}

// HasCode reports whether any AppError in err's chain carries code.
func HasCode(err error, code Code) bool {
	return errors.Is(err, &AppError{Code: code})
}

// UserMessage is the text shown to a person for err: the AppError's
// message when there is one, otherwise fallback.
func UserMessage(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

// retryable are the codes of failures that may clear without user action.
var retryable = map[Code]bool{
	CodeExternalServiceError:     true,
	CodeServiceTimeout:           true,
	CodeRateLimitExceeded:        true,
	CodeEthereumConnectionFailed: true,
	CodeEthereumRPCError:         true,
	CodeSubgraphQueryFailed:      true,
	CodePriceFetchFailed:         true,
	CodeCircuitOpen:              true,
	CodeCircuitHalfOpen:          true,
	CodeConfirmationTimeout:      true,
}

// Retryable reports whether err is a dependency failure worth retrying.
func Retryable(err error) bool {
	return retryable[GetCode(err)]
}
