// Package api 定义唯一的 HTTP 线上契约：请求解码与响应归一化。
//
// 候选人 ID 一律为 passenger_id；匹配列表中的概率为 0-100 的百分比，
// 单次预测的概率为 0-1。
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rushteam/seatmatch/core"
)

// MatchRequest 是 POST /predict_matches 与 POST /predict 的请求体。
// 字段用指针区分“缺失”与零值。
type MatchRequest struct {
	UserID         *int64   `json:"user_id"`
	GenderMatch    *int     `json:"gender_match"`
	SeatUpgrade    *int     `json:"seat_upgrade"`
	CoachDistance  *int     `json:"coach_distance"`
	GroupSize      *int     `json:"group_size"`
	TravelDuration *float64 `json:"travel_duration"`

	// CandidateID 仅用于 /predict：指定要打分的已登记乘客
	CandidateID *int64 `json:"candidate_id,omitempty"`
}

// RegisterRequest 是 POST /register 的请求体。
type RegisterRequest struct {
	Name      string `json:"name"`
	PNR       string `json:"pnr"`
	SeatType  string `json:"seat_type,omitempty"`
	Coach     *int   `json:"coach,omitempty"`
	GroupSize *int   `json:"group_size,omitempty"`
}

// DecodeMatchRequest 解码 /predict_matches 请求，user_id 必填。
func DecodeMatchRequest(r io.Reader) (core.ExchangeRequest, error) {
	var body MatchRequest
	if err := decodeStrict(r, &body); err != nil {
		return core.ExchangeRequest{}, err
	}
	if body.CandidateID != nil {
		return core.ExchangeRequest{}, core.NewValidationError("candidate_id", "unknown field")
	}
	if body.UserID == nil {
		return core.ExchangeRequest{}, required("user_id")
	}
	req, err := body.toExchangeRequest()
	if err != nil {
		return core.ExchangeRequest{}, err
	}
	return req, req.Validate()
}

// DecodePredictRequest 解码 /predict 请求，user_id 与 candidate_id 可选。
func DecodePredictRequest(r io.Reader) (core.ExchangeRequest, *int64, error) {
	var body MatchRequest
	if err := decodeStrict(r, &body); err != nil {
		return core.ExchangeRequest{}, nil, err
	}
	req, err := body.toExchangeRequest()
	if err != nil {
		return core.ExchangeRequest{}, nil, err
	}
	if body.UserID != nil && *body.UserID <= 0 {
		return core.ExchangeRequest{}, nil, core.NewValidationError("user_id", "must be a positive integer, got %d", *body.UserID)
	}
	if body.CandidateID != nil && *body.CandidateID <= 0 {
		return core.ExchangeRequest{}, nil, core.NewValidationError("candidate_id", "must be a positive integer, got %d", *body.CandidateID)
	}
	if body.CandidateID != nil && body.UserID != nil && *body.CandidateID == *body.UserID {
		return core.ExchangeRequest{}, nil, core.NewValidationError("candidate_id", "must differ from user_id")
	}
	return req, body.CandidateID, req.ValidateFeatures()
}

// DecodeRegisterRequest 解码 /register 请求并校验。
func DecodeRegisterRequest(r io.Reader) (core.Passenger, error) {
	var body RegisterRequest
	if err := decodeStrict(r, &body); err != nil {
		return core.Passenger{}, err
	}
	p := core.Passenger{
		Name:     strings.TrimSpace(body.Name),
		PNR:      strings.TrimSpace(body.PNR),
		SeatType: strings.TrimSpace(body.SeatType),
		Coach:    body.Coach,
	}
	if body.GroupSize != nil {
		if *body.GroupSize < core.MinGroupSize {
			return core.Passenger{}, core.NewValidationError("group_size", "must be >= %d, got %d", core.MinGroupSize, *body.GroupSize)
		}
		p.GroupSize = *body.GroupSize
	}
	return p, p.Validate()
}

func (b MatchRequest) toExchangeRequest() (core.ExchangeRequest, error) {
	var req core.ExchangeRequest
	if b.UserID != nil {
		req.UserID = *b.UserID
	}

	var err error
	if req.GenderMatch, err = flag("gender_match", b.GenderMatch); err != nil {
		return req, err
	}
	if req.SeatUpgrade, err = flag("seat_upgrade", b.SeatUpgrade); err != nil {
		return req, err
	}
	switch {
	case b.CoachDistance == nil:
		return req, required("coach_distance")
	case b.GroupSize == nil:
		return req, required("group_size")
	case b.TravelDuration == nil:
		return req, required("travel_duration")
	}
	req.CoachDistance = *b.CoachDistance
	req.GroupSize = *b.GroupSize
	req.TravelDuration = *b.TravelDuration
	return req, nil
}

func flag(field string, v *int) (bool, error) {
	if v == nil {
		return false, required(field)
	}
	switch *v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, core.NewValidationError(field, "must be 0 or 1, got %d", *v)
}

func required(field string) error {
	return core.NewValidationError(field, "is required")
}

// decodeStrict 只接受单个 JSON 对象，拒绝未知字段。
func decodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return decodeError(err)
	}
	if dec.More() {
		return core.NewValidationError("body", "must contain a single JSON object")
	}
	return nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	var sizeErr *http.MaxBytesError
	switch {
	case errors.As(err, &sizeErr):
		return core.WrapDomainError(core.ModuleRequest, core.ErrorCodePayloadTooLarge,
			fmt.Sprintf("body exceeds %d bytes", sizeErr.Limit), err)
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return core.NewValidationError(field, "must be %s, got %s", typeErr.Type.String(), typeErr.Value)
	case errors.As(err, &syntaxErr):
		return core.NewValidationError("body", "malformed JSON at offset %d", syntaxErr.Offset)
	case errors.Is(err, io.EOF):
		return core.NewValidationError("body", "must not be empty")
	case errors.Is(err, io.ErrUnexpectedEOF):
		return core.NewValidationError("body", "malformed JSON")
	}
	// encoding/json 对未知字段只返回文本错误：json: unknown field "x"
	if name, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return core.NewValidationError(strings.Trim(name, `"`), "unknown field")
	}
	return core.NewValidationError("body", "%s", fmt.Sprint(err))
}
