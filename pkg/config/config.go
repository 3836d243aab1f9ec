package config

import (
	"time"
)

// デフォルト値の定義
const (
	DefaultBaseURL      = "http://localhost:8000"
	DefaultHTTPTimeout  = 3 * time.Minute
	DefaultRateInterval = 0
	DefaultStoreBackend = "file"
	DefaultDataDir      = ".storybook"
	DefaultOutputDir    = "output"
	DefaultRedisPrefix  = "storybook:"
)

// Config は Storybook Kit の各 Runner を動作させるための基本設定です。
type Config struct {
	// --- Remote API ---
	BaseURL string

	// --- Generation Settings ---
	// RateInterval は挿絵リクエストの間隔です。0 なら待ちません。
	RateInterval time.Duration

	// --- Storage Settings ---
	StoreBackend  string // "file" | "redis" | "memory"
	DataDir       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	// --- Output Settings ---
	OutputDir string

	// --- Timeout & Retries ---
	// リトライは行いません。各リクエストは RequestTimeout で打ち切られます。
	RequestTimeout time.Duration
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数です。
func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		RateInterval:   DefaultRateInterval,
		StoreBackend:   DefaultStoreBackend,
		DataDir:        DefaultDataDir,
		RedisPrefix:    DefaultRedisPrefix,
		OutputDir:      DefaultOutputDir,
		RequestTimeout: DefaultHTTPTimeout,
	}
}
