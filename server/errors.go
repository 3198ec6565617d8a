package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/rushteam/seatmatch/api"
	"github.com/rushteam/seatmatch/core"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		validationHandler,
		sentinelHandler(core.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge),
		sentinelHandler(core.ErrConflict, http.StatusConflict),
		sentinelHandler(core.ErrNotFound, http.StatusNotFound),
		sentinelHandler(core.ErrPoolUnavailable, http.StatusServiceUnavailable),
		sentinelHandler(core.ErrModelUnavailable, http.StatusServiceUnavailable),
		sentinelHandler(core.ErrTimeout, http.StatusGatewayTimeout),
		sentinelHandler(core.ErrUnscoreable, http.StatusUnprocessableEntity),
	}
}

func validationHandler(w http.ResponseWriter, err error) bool {
	var ve *core.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, api.ErrorResponse{
		Code:    core.ErrorCodeValidation,
		Message: ve.Error(),
		Field:   ve.Field,
	})
	return true
}

// sentinelHandler 按错误代码匹配，客户端只看到哨兵错误的消息，不暴露内部原因。
func sentinelHandler(sentinel *core.DomainError, status int) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, sentinel.Code, sentinel.Message)
		return true
	}
}

func (s *Server) handleError(w http.ResponseWriter, sess *Session, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			sess.Logger.Warn("request failed", zap.Error(err))
			return
		}
	}
	sess.Logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, core.ErrorCodeInternalError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, api.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
