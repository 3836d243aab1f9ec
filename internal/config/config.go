package config

import (
	"log/slog"
	"time"

	"github.com/shouni/go-utils/envutil"

	kitconfig "github.com/shouni/go-storybook-kit/pkg/config"
)

// デフォルト値の定義なのだ
const (
	DefaultHTTPTimeout = kitconfig.DefaultHTTPTimeout
	DefaultLogLevel    = "info"
	DefaultStoryFile   = "output/story.json" // 書き出し済みの物語を読み直すときのデフォルトなのだ
)

// Config はアプリケーション全体の環境設定を保持する構造体なのだ。
type Config struct {
	Kit     kitconfig.Config
	Options Options
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	kit := kitconfig.DefaultConfig()
	kit.BaseURL = envutil.GetEnv("STORYBOOK_API_URL", kit.BaseURL)
	kit.StoreBackend = envutil.GetEnv("STORYBOOK_STORE", kit.StoreBackend)
	kit.DataDir = envutil.GetEnv("STORYBOOK_DATA_DIR", kit.DataDir)
	kit.OutputDir = envutil.GetEnv("STORYBOOK_OUTPUT_DIR", kit.OutputDir)
	kit.RedisAddr = envutil.GetEnv("REDIS_ADDR", kit.RedisAddr)
	kit.RedisPassword = envutil.GetEnv("REDIS_PASSWORD", "")
	kit.RedisPrefix = envutil.GetEnv("STORYBOOK_REDIS_PREFIX", kit.RedisPrefix)
	kit.RedisDB = envutil.GetEnvAsInt("REDIS_DB", kit.RedisDB)
	kit.RequestTimeout = envDuration("STORYBOOK_HTTP_TIMEOUT", kit.RequestTimeout)
	kit.RateInterval = envDuration("STORYBOOK_RATE_INTERVAL", kit.RateInterval)

	return &Config{
		Kit: kit,
		Options: Options{
			LogLevel: envutil.GetEnv("STORYBOOK_LOG_LEVEL", DefaultLogLevel),
		},
	}
}

// Options は CLI フラグから渡される実行時のパラメータなのだ。
type Options struct {
	// キャラクター関連
	Nickname    string   // --name
	Photos      []string // --photo (最大3枚なのだ)
	CharacterID string   // --character

	// 物語の選択肢
	Universe    string // --universe
	Style       string // --style
	Genre       string // --genre
	Description string // --description

	// 入出力
	StoryFile string // --story
	StoryID   string // --id
	Slot      string // --slot
	NoPublish bool   // --no-publish
	Read      bool   // --read

	LogLevel string // --log-level
}

func envDuration(key string, def time.Duration) time.Duration {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v < 0 {
		slog.Warn("環境変数の値が期間として解釈できないのでデフォルトを使うのだ", "key", key, "value", raw)
		return def
	}
	return v
}
