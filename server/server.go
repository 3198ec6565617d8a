// Package server 是 HTTP 传输层：chi 路由、会话、错误映射与中间件。
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rushteam/seatmatch/core"
	"github.com/rushteam/seatmatch/engine"
	"github.com/rushteam/seatmatch/pkg/metrics"
)

// Server 持有匹配引擎与乘客登记表，handler 之间不共享其它可变状态。
type Server struct {
	engine        *engine.Engine
	registry      core.PassengerRegistry
	threshold     float64
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// Options 是 Server 的依赖。
type Options struct {
	Engine    *engine.Engine
	Registry  core.PassengerRegistry
	Threshold float64 // 愿意换座的百分比阈值
	Logger    *zap.Logger
}

// New creates an HTTP API server.
func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		engine:        opts.Engine,
		registry:      opts.Registry,
		threshold:     opts.Threshold,
		logger:        log,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Router 返回挂好中间件与路由的 http.Handler。
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(metrics.Middleware())

	r.Post("/predict_matches", s.withSession(s.PredictMatches))
	r.Post("/predict", s.withSession(s.Predict))
	r.Post("/register", s.withSession(s.Register))
	r.Get("/healthz", s.withSession(s.Healthz))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, core.ErrorCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})
	return r
}
