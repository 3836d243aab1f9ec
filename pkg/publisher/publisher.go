package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/shouni/go-storybook-kit/pkg/asset"
	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// OutputWriter はデータを外部ストレージに保存するためのインターフェースです。
type OutputWriter interface {
	Write(ctx context.Context, path string, r io.Reader, contentType string) error
}

// ImageFetcher は挿絵の URL から画像データを取得します。asset.PhotoResolver が満たします。
type ImageFetcher interface {
	Resolve(ctx context.Context, ref string) (domain.Photo, error)
}

// PublishResult はパブリッシュ処理の結果として生成されたファイルの情報を保持します。
type PublishResult struct {
	MarkdownPath string   // 生成された story.md のパス
	JSONPath     string   // 生成された story.json のパス
	ImagePaths   []string // ダウンロードして保存した挿絵のパスリスト
}

// Option は StoryPublisher の設定を変更します。
type Option func(*StoryPublisher)

// WithImageFetcher を指定すると、挿絵をダウンロードして出力先に保存し、Markdown からはローカルの画像を参照します。
func WithImageFetcher(f ImageFetcher) Option {
	return func(p *StoryPublisher) { p.fetcher = f }
}

// WithURLResolver はバックエンドが返す相対 URL を絶対 URL に変換する関数を設定します。
func WithURLResolver(fn func(string) string) Option {
	return func(p *StoryPublisher) {
		if fn != nil {
			p.resolveURL = fn
		}
	}
}

// WithLogger はロガーを設定します。
func WithLogger(l *slog.Logger) Option {
	return func(p *StoryPublisher) {
		if l != nil {
			p.logger = l
		}
	}
}

// StoryPublisher は完成した物語を Markdown と JSON として書き出します。
type StoryPublisher struct {
	writer     OutputWriter
	fetcher    ImageFetcher
	resolveURL func(string) string
	logger     *slog.Logger
}

// NewStoryPublisher は StoryPublisher を初期化します。
func NewStoryPublisher(writer OutputWriter, opts ...Option) (*StoryPublisher, error) {
	if writer == nil {
		return nil, fmt.Errorf("OutputWriter は必須です")
	}
	p := &StoryPublisher{
		writer:     writer,
		resolveURL: func(s string) string { return s },
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Publish は挿絵の保存、Markdownの構築、JSONの書き出しを一括して実行します。
func (p *StoryPublisher) Publish(ctx context.Context, doc *domain.StoryDocument, outputDir string) (PublishResult, error) {
	result := PublishResult{}
	if doc == nil {
		return result, fmt.Errorf("publisher: ドキュメントが空です")
	}
	if err := doc.Validate(); err != nil {
		return result, fmt.Errorf("publisher: %w", err)
	}

	// 1. 出力パスの解決
	markdownPath, err := asset.ResolveOutputPath(outputDir, asset.DefaultStoryMarkdownName)
	if err != nil {
		return result, err
	}
	jsonPath, err := asset.ResolveOutputPath(outputDir, asset.DefaultStoryJSONName)
	if err != nil {
		return result, err
	}

	// 2. 挿絵の参照先を決める
	links, saved := p.imageLinks(ctx, doc, outputDir)
	result.ImagePaths = saved

	// 3. Markdownの書き出し
	content := buildMarkdown(doc, links)
	if err := p.writer.Write(ctx, markdownPath, strings.NewReader(content), "text/markdown; charset=utf-8"); err != nil {
		return result, fmt.Errorf("markdownファイルの書き込みに失敗しました: %w", err)
	}
	result.MarkdownPath = markdownPath

	// 4. JSONの書き出し
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return result, fmt.Errorf("JSONのエンコードに失敗しました: %w", err)
	}
	if err := p.writer.Write(ctx, jsonPath, bytes.NewReader(data), "application/json"); err != nil {
		return result, fmt.Errorf("JSONファイルの書き込みに失敗しました: %w", err)
	}
	result.JSONPath = jsonPath

	p.logger.Info("物語を書き出しました", "title", doc.Title, "markdown", markdownPath, "json", jsonPath, "images", len(saved))
	return result, nil
}

// imageLinks は Markdown に埋め込む画像の参照先を返します。links[0] が表紙、links[i+1] が i 番目の章です。
// ダウンロードに失敗した画像はリモートの URL のまま残します。
func (p *StoryPublisher) imageLinks(ctx context.Context, doc *domain.StoryDocument, outputDir string) (links []string, saved []string) {
	refs := make([]string, 0, len(doc.Chapters)+1)
	refs = append(refs, doc.CoverImage)
	for _, ch := range doc.Chapters {
		refs = append(refs, ch.ImageURL)
	}

	links = make([]string, len(refs))
	for i, ref := range refs {
		if ref == "" || domain.IsPlaceholder(ref) {
			links[i] = ref
			continue
		}
		links[i] = p.resolveURL(ref)
		if p.fetcher == nil {
			continue
		}

		name, err := imageFileName(i)
		if err != nil {
			p.logger.Warn("画像ファイル名の生成に失敗しました", "index", i, "error", err)
			continue
		}
		rel := path.Join(asset.DefaultImageDir, name)
		fullPath, err := asset.ResolveOutputPath(outputDir, filepath.FromSlash(rel))
		if err != nil {
			p.logger.Warn("出力パスの解決に失敗しました", "file", rel, "error", err)
			continue
		}

		photo, err := p.fetcher.Resolve(ctx, links[i])
		if err != nil {
			p.logger.Warn("挿絵のダウンロードに失敗したためリモートURLを使います", "url", links[i], "error", err)
			continue
		}
		if err := p.writer.Write(ctx, fullPath, bytes.NewReader(photo.Data), photo.MimeType); err != nil {
			p.logger.Warn("挿絵の書き込みに失敗したためリモートURLを使います", "path", fullPath, "error", err)
			continue
		}
		links[i] = rel
		saved = append(saved, fullPath)
	}
	return links, saved
}

func imageFileName(i int) (string, error) {
	if i == 0 {
		return asset.DefaultCoverFileName, nil
	}
	return asset.GenerateIndexedPath(asset.DefaultChapterFileName, i)
}
