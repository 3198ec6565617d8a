package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rushteam/seatmatch/core"
)

// RPCModel 是通过 HTTP 调用外部训练好的分类器的 ProbabilityModel 实现。
// 适用于离线训练（sklearn / XGBoost 等）后以服务形式部署的模型。
//
// 传输失败、非 200 响应、条数不一致都视为模型不可用（整次运行失败）；
// 单行分数越界由调用方判定为该候选人不可打分。
type RPCModel struct {
	name     string
	Endpoint string // 例如 "http://localhost:5000/score"
	Timeout  time.Duration
	Client   *http.Client
}

func NewRPCModel(name, endpoint string, timeout time.Duration) *RPCModel {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	if name == "" {
		name = "rpc"
	}
	return &RPCModel{
		name:     name,
		Endpoint: endpoint,
		Timeout:  timeout,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (m *RPCModel) Name() string {
	return m.name
}

// Predict 单条预测，内部调用批量接口。
func (m *RPCModel) Predict(ctx context.Context, v core.FeatureVector) (float64, error) {
	scores, err := m.PredictBatch(ctx, []core.FeatureVector{v})
	if err != nil {
		return 0, err
	}
	return Check(m.name, scores[0])
}

// PredictBatch 调用远程模型服务进行批量预测。
// 请求格式（JSON）：
//
//	{"features_list": [{"coach_distance": 2, "seat_upgrade": 1, ...}, ...]}
//
// 响应格式（JSON）：
//
//	{"scores": [0.85, 0.72, ...]}
func (m *RPCModel) PredictBatch(ctx context.Context, vs []core.FeatureVector) ([]float64, error) {
	if m.Client == nil {
		m.Client = &http.Client{Timeout: m.Timeout}
	}
	if len(vs) == 0 {
		return []float64{}, nil
	}

	featuresList := make([]map[string]float64, len(vs))
	for i, v := range vs {
		featuresList[i] = v.Map()
	}
	jsonData, err := json.Marshal(map[string]any{"features_list": featuresList})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, m.unavailable(fmt.Errorf("rpc call: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if err != nil {
			return nil, m.unavailable(fmt.Errorf("status=%d, read body failed: %w", resp.StatusCode, err))
		}
		return nil, m.unavailable(fmt.Errorf("status=%d, body=%s", resp.StatusCode, string(body)))
	}

	var result struct {
		Scores []float64 `json:"scores"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, m.unavailable(fmt.Errorf("decode response: %w", err))
	}
	if len(result.Scores) != len(vs) {
		return nil, m.unavailable(fmt.Errorf("response scores count mismatch: expected %d, got %d", len(vs), len(result.Scores)))
	}
	return result.Scores, nil
}

func (m *RPCModel) unavailable(err error) error {
	return core.WrapDomainError(core.ModuleModel, core.ErrorCodeModelUnavailable, m.name+": model unavailable", err)
}

var _ BatchModel = (*RPCModel)(nil)
