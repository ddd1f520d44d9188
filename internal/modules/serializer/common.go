package serializer

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hossamkoky599/crowdfund/internal/pkg/apperr"
	"go.uber.org/zap"
)

var log *zap.Logger

// SetLogger wires the package logger used for unexpected errors.
func SetLogger(l *zap.Logger) { log = l }

// Response is the uniform API envelope.
type Response struct {
	Code   int               `json:"code"`
	Data   interface{}       `json:"data,omitempty"`
	Msg    string            `json:"msg"`
	Fields map[string]string `json:"fields,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// Err builds an error response; error detail is only exposed outside release
// mode.
func Err(errCode int, msg string, err error) Response {
	res := Response{
		Code: errCode,
		Msg:  msg,
	}
	if err != nil && gin.Mode() != gin.ReleaseMode {
		res.Error = fmt.Sprintf("%+v", err)
	}
	return res
}

// DBErr
func DBErr(msg string, err error) Response {
	if msg == "" {
		msg = "database error"
	}
	if log != nil && err != nil {
		log.Sugar().Errorw("internal error", "err", err)
	}
	return Err(http.StatusInternalServerError, msg, err)
}

// ParamErr
func ParamErr(msg string, err error) Response {
	if msg == "" {
		msg = "parameter error"
	}
	return Err(http.StatusBadRequest, msg, err)
}

// AuthErr
func AuthErr(msg string) Response {
	if msg == "" {
		msg = "authentication error"
	}
	return Err(http.StatusUnauthorized, msg, nil)
}

// statusFor maps error kinds to HTTP statuses. Policy refusals are 400s with
// a readable reason; not-found stays generic so sibling resources don't leak.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindPolicy:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindPermission:
		return http.StatusForbidden
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders any service error through the envelope, picking the
// status from the error kind and falling back to a logged 500.
func WriteError(c *gin.Context, err error) {
	var e *apperr.Error
	if errors.As(err, &e) {
		res := Response{Code: statusFor(e.Kind), Msg: e.Msg, Fields: e.Fields}
		c.JSON(res.Code, res)
		return
	}
	c.JSON(http.StatusInternalServerError, DBErr("", err))
}
