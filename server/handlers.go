package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/rushteam/seatmatch/api"
	"github.com/rushteam/seatmatch/core"
)

// maxBodyBytes 限制请求体大小。
const maxBodyBytes = 64 << 10

// PredictMatches handles POST /predict_matches.
func (s *Server) PredictMatches(w http.ResponseWriter, r *http.Request, sess *Session) {
	req, err := api.DecodeMatchRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.handleError(w, sess, err)
		return
	}
	sess.SetUser(req.UserID)

	set, err := s.engine.Match(r.Context(), req, s.registry, s.threshold)
	if err != nil {
		s.handleError(w, sess, err)
		return
	}
	writeJSON(w, http.StatusOK, api.NormalizeMatches(set))
}

// Predict handles POST /predict.
// 指定 candidate_id 时为该已登记乘客打分，否则用仅由请求构造的中性候选人。
func (s *Server) Predict(w http.ResponseWriter, r *http.Request, sess *Session) {
	req, candidateID, err := api.DecodePredictRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.handleError(w, sess, err)
		return
	}
	sess.SetUser(req.UserID)

	var requester *core.Passenger
	if req.UserID > 0 {
		p, err := s.registry.Get(r.Context(), req.UserID)
		switch {
		case err == nil:
			requester = &p
		case errors.Is(err, core.ErrNotFound):
			// 未登记的发起人按请求中的车厢距离打分
		default:
			s.handleError(w, sess, poolUnavailable(err))
			return
		}
	}

	var candidate core.Passenger
	if candidateID != nil {
		p, err := s.registry.Get(r.Context(), *candidateID)
		if err != nil {
			if !errors.Is(err, core.ErrNotFound) {
				err = poolUnavailable(err)
			}
			s.handleError(w, sess, err)
			return
		}
		candidate = p
	}

	p, err := s.engine.Predict(r.Context(), req, requester, candidate)
	if err != nil {
		s.handleError(w, sess, err)
		return
	}
	writeJSON(w, http.StatusOK, api.NormalizePrediction(p, s.threshold))
}

// Register handles POST /register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request, sess *Session) {
	p, err := api.DecodeRegisterRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.handleError(w, sess, err)
		return
	}

	registered, err := s.registry.Register(r.Context(), p)
	if err != nil {
		if !core.IsValidation(err) && !errors.Is(err, core.ErrConflict) {
			err = poolUnavailable(err)
		}
		s.handleError(w, sess, err)
		return
	}
	sess.SetUser(registered.UserID)
	sess.Logger.Info("passenger registered", zap.String("pool", s.registry.Name()))
	writeJSON(w, http.StatusCreated, api.RegisterResponse{UserID: registered.UserID})
}

// Healthz handles GET /healthz，对候选池做一次快照探测。
func (s *Server) Healthz(w http.ResponseWriter, r *http.Request, sess *Session) {
	if _, err := s.registry.Snapshot(r.Context()); err != nil {
		s.handleError(w, sess, poolUnavailable(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func poolUnavailable(err error) error {
	return core.WrapDomainError(core.ModuleRegistry, core.ErrorCodePoolUnavailable, "candidate pool unavailable", err)
}
