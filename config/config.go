// Package config 加载 seatmatch 的运行配置，并维护模型与候选池的构建注册表。
//
// 加载顺序：
//  1. 读取 YAML（config/<env>.yaml 或显式路径），替换 ${VAR} / ${VAR:-default}
//  2. 以 SEATMATCH_* 环境变量覆盖（caarlos0/env）
//  3. ApplyDefaults 补齐缺省值，Validate 校验
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/seatmatch/core"
)

// Config 是服务的完整配置。
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
	Match   MatchConfig   `yaml:"match"`
	Model   ModelConfig   `yaml:"model"`
	Pool    PoolConfig    `yaml:"pool"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port" env:"SEATMATCH_HTTP_PORT"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level" env:"SEATMATCH_LOG_LEVEL"` // debug, info, warn, error
}

// MatchConfig 是匹配引擎参数。
type MatchConfig struct {
	// Threshold 为百分比阈值；nil 表示使用默认值 70。0 及负数表示全部视为愿意交换。
	Threshold  *float64      `yaml:"threshold" env:"SEATMATCH_MATCH_THRESHOLD"`
	Workers    int           `yaml:"workers" env:"SEATMATCH_MATCH_WORKERS"`
	Timeout    time.Duration `yaml:"timeout" env:"SEATMATCH_MATCH_TIMEOUT"`
	FilterExpr string        `yaml:"filter_expr" env:"SEATMATCH_MATCH_FILTER_EXPR"`
}

// ModelConfig 选择概率模型。Params 的键由对应的 builder 解释，
// 例如 lr 的 bias / weights / path，rpc 的 endpoint / timeout_ms。
type ModelConfig struct {
	Type   string         `yaml:"type" env:"SEATMATCH_MODEL_TYPE"`
	Params map[string]any `yaml:"params"`
}

// PoolConfig 选择候选池（乘客注册表）实现。
// SeedCSV 非空时，启动后把该 CSV 中的乘客注册进池。
type PoolConfig struct {
	Type    string         `yaml:"type" env:"SEATMATCH_POOL_TYPE"`
	Params  map[string]any `yaml:"params"`
	SeedCSV string         `yaml:"seed_csv" env:"SEATMATCH_POOL_SEED_CSV"`
}

// Load 按环境名（local, dev, prod）读取 config/<env>.yaml。
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile 从指定路径读取配置。
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse 解析 YAML 内容，并依次应用环境变量覆盖、默认值与校验。
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	defaults := &core.DefaultMatchConfig{}

	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Match.Threshold == nil {
		t := defaults.DefaultThreshold()
		c.Match.Threshold = &t
	}
	if c.Match.Workers <= 0 {
		c.Match.Workers = defaults.DefaultWorkers()
	}
	if c.Match.Timeout <= 0 {
		c.Match.Timeout = defaults.DefaultTimeout()
	}
	if c.Model.Type == "" {
		c.Model.Type = "heuristic"
	}
	if c.Pool.Type == "" {
		c.Pool.Type = "memory"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Match.Threshold != nil && math.IsNaN(*c.Match.Threshold) {
		return fmt.Errorf("match.threshold must be a number")
	}
	if !hasBuilder(modelBuilders, c.Model.Type) {
		return fmt.Errorf("unsupported model type %q (supported: %v)", c.Model.Type, SupportedModelTypes())
	}
	if !hasBuilder(poolBuilders, c.Pool.Type) {
		return fmt.Errorf("unsupported pool type %q (supported: %v)", c.Pool.Type, SupportedPoolTypes())
	}
	return nil
}

// ThresholdValue 返回生效的阈值。
func (c *Config) ThresholdValue() float64 {
	if c.Match.Threshold == nil {
		return (&core.DefaultMatchConfig{}).DefaultThreshold()
	}
	return *c.Match.Threshold
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 相对源码位置查找，便于在子目录中运行测试
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(b))
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
