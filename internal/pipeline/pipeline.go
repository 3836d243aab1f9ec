package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/shouni/go-http-kit/httpkit"

	"github.com/shouni/go-storybook-kit/internal/config"
	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/generator"
	"github.com/shouni/go-storybook-kit/pkg/reader"
	"github.com/shouni/go-storybook-kit/pkg/runner"
	"github.com/shouni/go-storybook-kit/pkg/workflow"
)

// newBackendClient は設定されたバックエンド用のクライアントを作るのだ。
// localhost や LAN 上のバックエンドにも届くよう、ネットワーク検証は外すのだよ。
func newBackendClient(timeout time.Duration) httpkit.Doer {
	return httpkit.New(timeout, httpkit.WithSkipNetworkValidation(true))
}

// newPhotoClient は利用者が指定した写真 URL の取得に使う SSRF 対策つきクライアントなのだ。
func newPhotoClient(timeout time.Duration) httpkit.Doer {
	return httpkit.New(timeout)
}

// setupManager は設定から Manager を組み立てるのだ。
func setupManager(ctx context.Context, cfg *config.Config) (*workflow.Manager, error) {
	m, err := workflow.New(ctx, workflow.ManagerArgs{
		Config:          cfg.Kit,
		HTTPClient:      newBackendClient(cfg.Kit.RequestTimeout),
		PhotoHTTPClient: newPhotoClient(cfg.Kit.RequestTimeout),
		Logger:          slog.Default(),
	})
	if err != nil {
		return nil, fmt.Errorf("ワークフローの初期化に失敗したのだ: %w", err)
	}
	return m, nil
}

func storyOptions(opts config.Options) runner.StoryOptions {
	return runner.StoryOptions{
		Universe:    opts.Universe,
		Style:       opts.Style,
		Genre:       opts.Genre,
		Description: opts.Description,
		CharacterID: opts.CharacterID,
	}
}

// ExecuteGenerate は物語の生成、書き出し、必要ならリーダーでの表示までを一気に実行するのだ！
func ExecuteGenerate(ctx context.Context, cfg *config.Config, out io.Writer) error {
	m, err := setupManager(ctx, cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	storyRunner, err := m.BuildStoryRunner()
	if err != nil {
		return fmt.Errorf("StoryRunnerの構築に失敗したのだ: %w", err)
	}

	// 進捗ログを新しい行だけ流すのだ
	cancel := followLogs(storyRunner.State(), out)
	doc, err := storyRunner.Run(ctx, storyOptions(cfg.Options))
	cancel()
	if err != nil {
		return err
	}

	if !cfg.Options.NoPublish {
		if err := publish(ctx, m, doc); err != nil {
			return err
		}
	}

	if cfg.Options.Read {
		return reader.Run(ctx, doc, reader.WithURLResolver(m.Client().ResolveURL))
	}
	return nil
}

// ExecuteRegenerate は書き出し済みの物語から1枚だけ挿絵を作り直すのだ。
func ExecuteRegenerate(ctx context.Context, cfg *config.Config, out io.Writer) error {
	slot, err := domain.ParseImageSlot(cfg.Options.Slot)
	if err != nil {
		return err
	}
	doc, err := loadStoryFile(cfg.Options.StoryFile)
	if err != nil {
		return err
	}

	m, err := setupManager(ctx, cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	storyRunner, err := m.BuildStoryRunner()
	if err != nil {
		return fmt.Errorf("StoryRunnerの構築に失敗したのだ: %w", err)
	}

	url, err := storyRunner.Regenerate(ctx, storyOptions(cfg.Options), doc, slot)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %s\n", slot.Descriptor(), url)

	if cfg.Options.NoPublish {
		return nil
	}
	return publish(ctx, m, doc)
}

// ExecuteSave は書き出し済みの物語をバックエンドのライブラリに保存するのだ。
func ExecuteSave(ctx context.Context, cfg *config.Config, out io.Writer) error {
	doc, err := loadStoryFile(cfg.Options.StoryFile)
	if err != nil {
		return err
	}

	m, err := setupManager(ctx, cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	storyRunner, err := m.BuildStoryRunner()
	if err != nil {
		return fmt.Errorf("StoryRunnerの構築に失敗したのだ: %w", err)
	}

	if err := storyRunner.Save(ctx, doc); err != nil {
		fmt.Fprintln(out, generator.LogSaveFailed)
		return err
	}
	fmt.Fprintln(out, generator.LogSaved)
	return nil
}

func publish(ctx context.Context, m *workflow.Manager, doc *domain.StoryDocument) error {
	publishRunner, err := m.BuildPublishRunner()
	if err != nil {
		return fmt.Errorf("PublishRunnerの構築に失敗したのだ: %w", err)
	}
	result, err := publishRunner.Run(ctx, doc, "")
	if err != nil {
		return fmt.Errorf("物語の書き出しに失敗したのだ: %w", err)
	}
	slog.Info("物語を書き出したのだ！", "markdown", result.MarkdownPath, "json", result.JSONPath, "images", len(result.ImagePaths))
	return nil
}

// followLogs は State の変化を購読して、まだ表示していないログ行を書き出すのだ。
func followLogs(state *generator.State, out io.Writer) (cancel func()) {
	printed := 0
	return state.Subscribe(func(s generator.Snapshot) {
		if len(s.Logs) < printed {
			printed = 0
		}
		for _, line := range s.Logs[printed:] {
			fmt.Fprintln(out, line)
		}
		printed = len(s.Logs)
	})
}

// ExecuteRead は物語をターミナルのリーダーで開くのだ。--id があればライブラリから取得するのだよ。
func ExecuteRead(ctx context.Context, cfg *config.Config) error {
	m, err := setupManager(ctx, cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	var doc *domain.StoryDocument
	if cfg.Options.StoryID != "" {
		libraryRunner, err := m.BuildLibraryRunner()
		if err != nil {
			return fmt.Errorf("LibraryRunnerの構築に失敗したのだ: %w", err)
		}
		doc, err = libraryRunner.Show(ctx, cfg.Options.StoryID)
		if err != nil {
			return err
		}
	} else {
		doc, err = loadStoryFile(cfg.Options.StoryFile)
		if err != nil {
			return err
		}
	}

	return reader.Run(ctx, doc, reader.WithURLResolver(m.Client().ResolveURL))
}

// loadStoryFile は publisher が書き出した story.json を読み込むのだ。
func loadStoryFile(path string) (*domain.StoryDocument, error) {
	if path == "" {
		path = config.DefaultStoryFile
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("物語ファイル '%s' の読み込みに失敗したのだ: %w", path, err)
	}
	defer f.Close()

	var doc domain.StoryDocument
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("物語ファイル '%s' のデコードに失敗したのだ: %w", path, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("物語ファイル '%s' が壊れているのだ: %w", path, err)
	}
	return &doc, nil
}
