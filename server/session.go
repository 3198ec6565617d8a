package server

import (
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rushteam/seatmatch/pkg/logger"
)

// Session 是单个请求的显式上下文，由服务端为每个请求构造并传给 handler，
// 取代任何进程级的“当前用户”状态。
type Session struct {
	RequestID string
	UserID    int64 // 解码请求体后才已知，未知时为 0
	Logger    *zap.Logger
	Started   time.Time
}

func newSession(r *http.Request) *Session {
	return &Session{
		RequestID: chiMiddleware.GetReqID(r.Context()),
		Logger:    logger.FromContext(r.Context()),
		Started:   time.Now(),
	}
}

// SetUser 记录发起人并把 user_id 附加到会话日志。
func (s *Session) SetUser(userID int64) {
	if userID <= 0 {
		return
	}
	s.UserID = userID
	s.Logger = s.Logger.With(zap.Int64("user_id", userID))
}

// HandlerFunc 是带会话的 handler。
type HandlerFunc func(w http.ResponseWriter, r *http.Request, sess *Session)

func (s *Server) withSession(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := newSession(r)
		h(w, r.WithContext(logger.ContextWithLogger(r.Context(), sess.Logger)), sess)
	}
}
