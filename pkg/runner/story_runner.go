package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/generator"
	"github.com/shouni/go-storybook-kit/pkg/store"
)

// StoryOptions は1回の生成で選ぶ内容です。CharacterID が空の場合はアクティブなキャラクターを使います。
type StoryOptions struct {
	Universe    string
	Style       string
	Genre       string
	Description string
	CharacterID string
}

// StoryRunner はロスターからキャラクターを選び、Orchestrator で物語を生成します。
type StoryRunner struct {
	store        *store.CharacterStore
	orchestrator *generator.Orchestrator
}

// NewStoryRunner は StoryRunner を初期化します。
func NewStoryRunner(s *store.CharacterStore, o *generator.Orchestrator) *StoryRunner {
	return &StoryRunner{store: s, orchestrator: o}
}

// State は生成状態を返します。進捗の表示に使います。
func (r *StoryRunner) State() *generator.State { return r.orchestrator.State() }

// Config は選択内容から StoryConfig を組み立てます。キャラクターが見つからない場合は Character が nil になります。
func (r *StoryRunner) Config(opts StoryOptions) (domain.StoryConfig, error) {
	if err := domain.ValidateSelection(opts.Universe, opts.Style, opts.Genre); err != nil {
		return domain.StoryConfig{}, err
	}
	cfg := domain.StoryConfig{
		Universe:    opts.Universe,
		Style:       opts.Style,
		Genre:       opts.Genre,
		Description: opts.Description,
	}

	var (
		ch domain.Character
		ok bool
	)
	if opts.CharacterID != "" {
		ch, ok = r.store.Character(opts.CharacterID)
	} else {
		ch, ok = r.store.ActiveCharacter()
	}
	if ok {
		cfg.Character = &ch
	}
	return cfg, nil
}

// Run は物語を生成します。
func (r *StoryRunner) Run(ctx context.Context, opts StoryOptions) (*domain.StoryDocument, error) {
	cfg, err := r.Config(opts)
	if err != nil {
		return nil, err
	}
	slog.Info("StoryRunner: 生成を開始します", "universe", cfg.Universe, "style", cfg.Style, "genre", cfg.Genre)
	return r.orchestrator.StartGeneration(ctx, cfg)
}

// Regenerate は生成済みドキュメントの1枚を作り直します。
func (r *StoryRunner) Regenerate(ctx context.Context, opts StoryOptions, doc *domain.StoryDocument, slot domain.ImageSlot) (string, error) {
	cfg, err := r.Config(opts)
	if err != nil {
		return "", err
	}
	url, err := r.orchestrator.RegenerateImage(ctx, cfg, doc, slot)
	if err != nil {
		return "", fmt.Errorf("%s の再生成に失敗しました: %w", slot.Descriptor(), err)
	}
	return url, nil
}

// Save はドキュメントを保存エンドポイントに送ります。
func (r *StoryRunner) Save(ctx context.Context, doc *domain.StoryDocument) error {
	return r.orchestrator.SaveStory(ctx, doc)
}
