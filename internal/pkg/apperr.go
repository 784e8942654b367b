package pkg

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind 错误分类，对应固定的HTTP状态码
type Kind string

const (
	KindValidation      Kind = "validation"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindInternal        Kind = "internal"
)

type AppError struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *AppError) Unwrap() error { return e.Err }

func NewError(kind Kind, msg string) *AppError {
	return &AppError{Kind: kind, Msg: msg}
}

func WrapError(kind Kind, msg string, err error) *AppError {
	return &AppError{Kind: kind, Msg: msg, Err: err}
}

// ErrStatus kind到状态码的映射；非AppError一律500
func ErrStatus(err error) int {
	var ae *AppError
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError
	}
	switch ae.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError 统一错误响应：{"kind": ..., "msg": ...}
func WriteError(c *gin.Context, err error) {
	var ae *AppError
	if !errors.As(err, &ae) {
		c.JSON(http.StatusInternalServerError, gin.H{"kind": KindInternal, "msg": "internal error"})
		return
	}
	c.JSON(ErrStatus(ae), gin.H{"kind": ae.Kind, "msg": ae.Msg})
}
