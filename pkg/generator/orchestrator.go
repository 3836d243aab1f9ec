package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/shouni/go-storybook-kit/pkg/client"
	"github.com/shouni/go-storybook-kit/pkg/domain"

	"golang.org/x/time/rate"
)

// StoryAPI は Orchestrator が利用するバックエンドの操作です。
type StoryAPI interface {
	GenerateStory(ctx context.Context, r client.StoryRequest) (*domain.GeneratedStory, error)
	GenerateImage(ctx context.Context, r client.ImageRequest) (string, error)
	SaveStory(ctx context.Context, payload domain.SavePayload) error
}

// Orchestrator は物語テキストと挿絵の生成を順番に実行し、State に進捗を反映します。
type Orchestrator struct {
	api     StoryAPI
	state   *State
	logger  *slog.Logger
	limiter *rate.Limiter
	busy    atomic.Bool
}

// Option は Orchestrator の設定を変更します。
type Option func(*Orchestrator)

// WithLogger はロガーを設定します。
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithInterval は挿絵リクエストの最小間隔を設定します。0 以下なら待ちません。
func WithInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.limiter = rate.NewLimiter(rate.Every(d), 1)
		} else {
			o.limiter = rate.NewLimiter(rate.Inf, 1)
		}
	}
}

// WithState は外部で作成した State を使います。
func WithState(s *State) Option {
	return func(o *Orchestrator) {
		if s != nil {
			o.state = s
		}
	}
}

// NewOrchestrator は Orchestrator を初期化します。
func NewOrchestrator(api StoryAPI, opts ...Option) (*Orchestrator, error) {
	if api == nil {
		return nil, fmt.Errorf("StoryAPI は必須です")
	}
	o := &Orchestrator{
		api:     api,
		state:   NewState(),
		logger:  slog.Default(),
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// State は生成状態を返します。
func (o *Orchestrator) State() *State { return o.state }

// StartGeneration は1回分の生成を最後まで実行します。
// 挿絵の失敗はプレースホルダーに置き換えて続行し、保存の失敗はログに残すだけです。
func (o *Orchestrator) StartGeneration(ctx context.Context, cfg domain.StoryConfig) (*domain.StoryDocument, error) {
	if !o.busy.CompareAndSwap(false, true) {
		return nil, domain.ErrBusy
	}
	defer o.busy.Store(false)

	if err := cfg.Validate(); err != nil {
		o.logger.Error("キャラクターが指定されていないため生成を開始できません")
		o.state.reject(err.Error())
		return nil, err
	}

	// 以降は投入時点のスナップショットだけを使う
	cfg = cfg.Snapshot()
	hero := cfg.Character

	o.state.begin(LogStarting, LogConnecting)
	o.logger.Info("物語の生成を開始します",
		"character", hero.Nickname,
		"universe", cfg.Universe,
		"style", cfg.Style,
		"genre", cfg.Genre,
	)

	o.state.appendLog(LogProcessingProfile)
	refs := hero.Photos

	o.state.appendLog(LogSendingToOracle)
	story, err := o.api.GenerateStory(ctx, client.StoryRequest{
		Name:            hero.Nickname,
		Style:           cfg.Style,
		Universe:        cfg.Universe,
		Genre:           cfg.Genre,
		Description:     cfg.Description,
		ReferenceImages: refs,
	})
	if err != nil {
		var sge *domain.StoryGenerationError
		if !errors.As(err, &sge) {
			err = &domain.StoryGenerationError{Err: err}
		}
		o.logger.Error("物語テキストの生成に失敗しました", "error", err)
		o.state.fail(err.Error())
		return nil, err
	}

	o.state.appendLog(LogStoryWritten, LogIllustrationsStarted)
	o.logger.Info("物語テキストを受信しました", "title", story.Title, "chapters", len(story.Parts))

	cover := o.illustrate(ctx, cfg, domain.CoverSlot(), story.CoverPrompt, refs)
	chapterImages := make([]string, len(story.Parts))
	for i, part := range story.Parts {
		chapterImages[i] = o.illustrate(ctx, cfg, domain.ChapterSlot(i), part.ImagePrompt, refs)
	}

	doc, err := domain.NewStoryDocument(*story, cover, chapterImages)
	if err != nil {
		err = &domain.StoryGenerationError{Err: err}
		o.state.fail(err.Error())
		return nil, err
	}

	saveLine := LogSaved
	if err := o.SaveStory(ctx, doc); err != nil {
		saveLine = LogSaveFailed
	}

	o.state.succeed(doc, LogFinished, saveLine)
	o.logger.Info("物語の生成が完了しました", "title", doc.Title)
	return doc, nil
}

// illustrate は1枚分の挿絵を生成します。失敗した場合はプレースホルダーの URL を返します。
func (o *Orchestrator) illustrate(ctx context.Context, cfg domain.StoryConfig, slot domain.ImageSlot, prompt string, refs []domain.Photo) string {
	descriptor := slot.Descriptor()
	o.state.appendLog(PaintingLog(descriptor))

	url, err := o.generateImage(ctx, cfg, slot, prompt, refs)
	if err != nil {
		o.logger.Warn("挿絵の生成に失敗したためプレースホルダーに置き換えます",
			"slot", slot.String(),
			"descriptor", descriptor,
			"error", err,
		)
		return domain.PlaceholderImageURL(descriptor)
	}
	return url
}

func (o *Orchestrator) generateImage(ctx context.Context, cfg domain.StoryConfig, slot domain.ImageSlot, prompt string, refs []domain.Photo) (string, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return "", &domain.IllustrationError{Slot: slot, Err: err}
	}
	url, err := o.api.GenerateImage(ctx, client.ImageRequest{
		Slot:            slot,
		Prompt:          prompt,
		PersonName:      cfg.Character.Nickname,
		UniverseContext: cfg.Universe,
		ReferenceImages: refs,
	})
	if err != nil {
		var ie *domain.IllustrationError
		if !errors.As(err, &ie) {
			err = &domain.IllustrationError{Slot: slot, Err: err}
		}
		return "", err
	}
	return url, nil
}

// RegenerateImage は完成済みドキュメントの1枚を作り直します。
// 成功時はスロットの画像参照をその場で差し替え、失敗時はドキュメントを変更しません。
// 生成の実行中は ErrBusy を返します。
func (o *Orchestrator) RegenerateImage(ctx context.Context, cfg domain.StoryConfig, doc *domain.StoryDocument, slot domain.ImageSlot) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("doc は必須です")
	}
	if !o.busy.CompareAndSwap(false, true) {
		return "", domain.ErrBusy
	}
	defer o.busy.Store(false)

	if err := cfg.Validate(); err != nil {
		return "", err
	}
	prompt, err := doc.Prompt(slot)
	if err != nil {
		return "", err
	}

	cfg = cfg.Snapshot()
	o.logger.Info("挿絵を再生成します", "slot", slot.String(), "descriptor", slot.Descriptor())

	url, err := o.generateImage(ctx, cfg, slot, prompt, cfg.Character.Photos)
	if err != nil {
		o.logger.Warn("挿絵の再生成に失敗しました", "slot", slot.String(), "error", err)
		return "", err
	}
	if err := o.state.setImage(doc, slot, url); err != nil {
		return "", err
	}
	return url, nil
}

// SaveStory はドキュメントを保存エンドポイントに送ります。
// 失敗はログに残し、呼び出し側が必要な場合のためにエラーとしても返します。
func (o *Orchestrator) SaveStory(ctx context.Context, doc *domain.StoryDocument) error {
	payload, err := doc.SavePayload()
	if err != nil {
		err = &domain.PersistenceError{Err: err}
		o.logger.Warn("物語の保存に失敗しました", "error", err)
		return err
	}
	if err := o.api.SaveStory(ctx, payload); err != nil {
		var pe *domain.PersistenceError
		if !errors.As(err, &pe) {
			err = &domain.PersistenceError{Err: err}
		}
		o.logger.Warn("物語の保存に失敗しました", "title", doc.Title, "error", err)
		return err
	}
	o.logger.Info("物語を保存しました", "title", doc.Title)
	return nil
}
