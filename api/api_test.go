package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rushteam/seatmatch/core"
)

const validBody = `{"user_id": 7, "gender_match": 1, "seat_upgrade": 0, "coach_distance": 2, "group_size": 1, "travel_duration": 6.5}`

func TestDecodeMatchRequest(t *testing.T) {
	req, err := DecodeMatchRequest(strings.NewReader(validBody))
	if err != nil {
		t.Fatalf("DecodeMatchRequest() error = %v", err)
	}
	want := core.ExchangeRequest{UserID: 7, GenderMatch: true, CoachDistance: 2, GroupSize: 1, TravelDuration: 6.5}
	if req != want {
		t.Errorf("DecodeMatchRequest() = %+v, want %+v", req, want)
	}
}

func TestDecodeMatchRequest_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{name: "negative distance", body: `{"user_id":7,"gender_match":1,"seat_upgrade":0,"coach_distance":-1,"group_size":1,"travel_duration":2}`, wantField: "coach_distance"},
		{name: "flag out of range", body: `{"user_id":7,"gender_match":2,"seat_upgrade":0,"coach_distance":1,"group_size":1,"travel_duration":2}`, wantField: "gender_match"},
		{name: "missing user", body: `{"gender_match":1,"seat_upgrade":0,"coach_distance":1,"group_size":1,"travel_duration":2}`, wantField: "user_id"},
		{name: "missing duration", body: `{"user_id":7,"gender_match":1,"seat_upgrade":0,"coach_distance":1,"group_size":1}`, wantField: "travel_duration"},
		{name: "short trip", body: `{"user_id":7,"gender_match":1,"seat_upgrade":0,"coach_distance":1,"group_size":1,"travel_duration":0.2}`, wantField: "travel_duration"},
		{name: "zero group", body: `{"user_id":7,"gender_match":1,"seat_upgrade":0,"coach_distance":1,"group_size":0,"travel_duration":2}`, wantField: "group_size"},
		{name: "legacy alias", body: `{"user_id":7,"gender_match":1,"seat_upgrade":0,"coach_distance":1,"requester_group_size":1,"travel_duration":2}`, wantField: "requester_group_size"},
		{name: "fractional distance", body: `{"user_id":7,"gender_match":1,"seat_upgrade":0,"coach_distance":1.5,"group_size":1,"travel_duration":2}`, wantField: "coach_distance"},
		{name: "candidate on matches", body: `{"user_id":7,"gender_match":1,"seat_upgrade":0,"coach_distance":1,"group_size":1,"travel_duration":2,"candidate_id":3}`, wantField: "candidate_id"},
		{name: "malformed", body: `{"user_id":`, wantField: "body"},
		{name: "empty", body: ``, wantField: "body"},
		{name: "two objects", body: validBody + validBody, wantField: "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeMatchRequest(strings.NewReader(tt.body))
			var ve *core.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("DecodeMatchRequest() error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestDecodePredictRequest(t *testing.T) {
	req, candidate, err := DecodePredictRequest(strings.NewReader(
		`{"gender_match":0,"seat_upgrade":1,"coach_distance":0,"group_size":2,"travel_duration":1,"candidate_id":12}`))
	if err != nil {
		t.Fatalf("DecodePredictRequest() error = %v", err)
	}
	if req.UserID != 0 || !req.SeatUpgrade || req.GroupSize != 2 {
		t.Errorf("request = %+v", req)
	}
	if candidate == nil || *candidate != 12 {
		t.Errorf("candidate = %v, want 12", candidate)
	}

	_, candidate, err = DecodePredictRequest(strings.NewReader(validBody))
	if err != nil || candidate != nil {
		t.Errorf("DecodePredictRequest(no candidate) = %v, %v", candidate, err)
	}

	_, _, err = DecodePredictRequest(strings.NewReader(
		`{"user_id":7,"gender_match":0,"seat_upgrade":1,"coach_distance":0,"group_size":2,"travel_duration":1,"candidate_id":7}`))
	var ve *core.ValidationError
	if !errors.As(err, &ve) || ve.Field != "candidate_id" {
		t.Errorf("DecodePredictRequest(candidate_id == user_id) error = %v, want candidate_id validation error", err)
	}
}

func TestDecodeMatchRequest_BodyTooLarge(t *testing.T) {
	body := `{"user_id":1,"pad":"` + strings.Repeat("x", 256) + `"}`
	rec := httptest.NewRecorder()
	_, err := DecodeMatchRequest(http.MaxBytesReader(rec, io.NopCloser(strings.NewReader(body)), 64))
	if !errors.Is(err, core.ErrPayloadTooLarge) {
		t.Errorf("DecodeMatchRequest() error = %v, want payload too large", err)
	}
	if core.IsValidation(err) {
		t.Error("oversized body should not be reported as a validation error")
	}
}

func TestDecodeRegisterRequest(t *testing.T) {
	p, err := DecodeRegisterRequest(strings.NewReader(`{"name":" Alice ","pnr":"1234567890","seat_type":"Upper","coach":4}`))
	if err != nil {
		t.Fatalf("DecodeRegisterRequest() error = %v", err)
	}
	if p.Name != "Alice" || p.Coach == nil || *p.Coach != 4 || p.EffectiveGroupSize() != 1 {
		t.Errorf("passenger = %+v", p)
	}

	for _, body := range []string{
		`{"name":"Alice","pnr":"12345"}`,
		`{"name":"Alice","pnr":"12345abcde"}`,
		`{"name":"  ","pnr":"1234567890"}`,
		`{"name":"Alice","pnr":"1234567890","group_size":0}`,
		`{"name":"Alice","pnr":"1234567890","password":"x"}`,
	} {
		if _, err := DecodeRegisterRequest(strings.NewReader(body)); !core.IsValidation(err) {
			t.Errorf("DecodeRegisterRequest(%s) error = %v, want validation", body, err)
		}
	}
}

func TestNormalizeMatches(t *testing.T) {
	empty := NormalizeMatches(&core.MatchSet{Matches: nil})
	data, err := json.Marshal(empty)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"total_analyzed":0,"willing_to_exchange":0,"matches":[]}` {
		t.Errorf("empty response = %s", data)
	}

	set := &core.MatchSet{
		TotalConsidered: 3,
		WillingCount:    1,
		Matches: []core.Match{
			{CandidateID: 10, Probability: 0.904, Percent: 90, CoachDistance: 0, GroupSize: 2, SeatType: "Lower"},
		},
	}
	data, err = json.Marshal(NormalizeMatches(set))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"total_analyzed":3,"willing_to_exchange":1,"matches":[{"passenger_id":10,"acceptance_probability":90,"coach_distance":0,"group_size":2,"seat_type":"Lower"}]}`
	if string(data) != want {
		t.Errorf("response = %s\nwant %s", data, want)
	}
}

func TestNormalizePrediction(t *testing.T) {
	tests := []struct {
		p         float64
		threshold float64
		want      string
	}{
		{0.70, 70, DecisionSend},
		{0.696, 70, DecisionSend},
		{0.69, 70, DecisionNotRecommended},
		{0.0, 0, DecisionSend},
		{1.0, 101, DecisionNotRecommended},
	}
	for _, tt := range tests {
		got := NormalizePrediction(tt.p, tt.threshold)
		if got.Decision != tt.want {
			t.Errorf("NormalizePrediction(%v, %v) = %q, want %q", tt.p, tt.threshold, got.Decision, tt.want)
		}
		if got.AcceptanceProbability != tt.p {
			t.Errorf("probability = %v, want %v", got.AcceptanceProbability, tt.p)
		}
	}
}
