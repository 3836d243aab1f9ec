package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/shouni/go-storybook-kit/pkg/asset"
	"github.com/shouni/go-storybook-kit/pkg/client"
	"github.com/shouni/go-storybook-kit/pkg/config"
	"github.com/shouni/go-storybook-kit/pkg/generator"
	"github.com/shouni/go-storybook-kit/pkg/publisher"
	"github.com/shouni/go-storybook-kit/pkg/store"
)

// ストアのバックエンド名です。
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// ManagerArgs は Manager の初期化に必要な依存関係です。
type ManagerArgs struct {
	Config config.Config
	// HTTPClient はバックエンドとの通信と、バックエンドが返した挿絵のダウンロードに使います。
	HTTPClient client.HTTPDoer
	// PhotoHTTPClient は利用者が指定した参照写真の URL を取得します。nil の場合は HTTPClient を使います。
	PhotoHTTPClient client.HTTPDoer
	// KeyValue が nil の場合は Config.StoreBackend から作成します。
	KeyValue store.KeyValue
	// Writer が nil の場合はローカルファイルに書き出します。
	Writer publisher.OutputWriter
	Logger *slog.Logger
}

// Manager は、ワークフローの各工程を担う Runner 群を構築・管理します。
type Manager struct {
	cfg          config.Config
	logger       *slog.Logger
	client       *client.Client
	characters   *store.CharacterStore
	orchestrator *generator.Orchestrator
	photos       *asset.PhotoResolver
	images       *asset.PhotoResolver
	writer       publisher.OutputWriter
	redis        *redis.Client
}

// New は、設定を基に新しい Manager を初期化します。
func New(ctx context.Context, args ManagerArgs) (*Manager, error) {
	if args.HTTPClient == nil {
		return nil, fmt.Errorf("httpClient は必須です")
	}
	logger := args.Logger
	if logger == nil {
		logger = slog.Default()
	}

	apiClient, err := client.New(args.Config.BaseURL, args.HTTPClient)
	if err != nil {
		return nil, fmt.Errorf("APIクライアントの初期化に失敗しました: %w", err)
	}

	m := &Manager{
		cfg:    args.Config,
		logger: logger,
		client: apiClient,
		photos: asset.NewPhotoResolver(args.HTTPClient),
		images: asset.NewPhotoResolver(args.HTTPClient),
		writer: args.Writer,
	}
	if args.PhotoHTTPClient != nil {
		m.photos = asset.NewPhotoResolver(args.PhotoHTTPClient)
	}
	if m.writer == nil {
		m.writer = publisher.NewLocalWriter()
	}

	kv := args.KeyValue
	if kv == nil {
		kv, err = m.openKeyValue(ctx)
		if err != nil {
			return nil, err
		}
	}

	m.characters, err = store.NewCharacterStore(ctx, kv, store.WithLogger(logger))
	if err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("キャラクターストアの初期化に失敗しました: %w", err)
	}

	m.orchestrator, err = generator.NewOrchestrator(apiClient,
		generator.WithLogger(logger),
		generator.WithInterval(args.Config.RateInterval),
	)
	if err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("オーケストレーターの初期化に失敗しました: %w", err)
	}

	return m, nil
}

// openKeyValue は設定されたバックエンドのキー・バリューストアを開きます。
func (m *Manager) openKeyValue(ctx context.Context) (store.KeyValue, error) {
	switch m.cfg.StoreBackend {
	case StoreFile, "":
		dir := filepath.Join(m.cfg.DataDir, "characters")
		kv, err := store.NewFileStore(dir)
		if err != nil {
			return nil, fmt.Errorf("ファイルストアの初期化に失敗しました: %w", err)
		}
		return kv, nil
	case StoreRedis:
		rdb, err := store.DialRedis(ctx, m.cfg.RedisAddr, m.cfg.RedisPassword, m.cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("Redisへの接続に失敗しました: %w", err)
		}
		m.redis = rdb
		kv, err := store.NewRedisStore(rdb, m.cfg.RedisPrefix)
		if err != nil {
			_ = m.Close()
			return nil, err
		}
		return kv, nil
	case StoreMemory:
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("未対応のストアです: %q", m.cfg.StoreBackend)
	}
}

// Client は API クライアントを返します。
func (m *Manager) Client() *client.Client { return m.client }

// Close は Manager が開いた接続を閉じます。
func (m *Manager) Close() error {
	if m.redis == nil {
		return nil
	}
	err := m.redis.Close()
	m.redis = nil
	return err
}
