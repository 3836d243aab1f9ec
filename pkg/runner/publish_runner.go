package runner

import (
	"context"

	"github.com/shouni/go-storybook-kit/pkg/config"
	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/publisher"
)

// DefaultPublishRunner は pkg/publisher を利用した標準実装です。
type DefaultPublishRunner struct {
	cfg       config.Config
	publisher *publisher.StoryPublisher
}

func NewDefaultPublishRunner(cfg config.Config, pub *publisher.StoryPublisher) *DefaultPublishRunner {
	return &DefaultPublishRunner{
		cfg:       cfg,
		publisher: pub,
	}
}

// Run は物語を書き出します。outputDir が空の場合は設定の OutputDir を使います。
func (pr *DefaultPublishRunner) Run(ctx context.Context, doc *domain.StoryDocument, outputDir string) (publisher.PublishResult, error) {
	if outputDir == "" {
		outputDir = pr.cfg.OutputDir
	}
	return pr.publisher.Publish(ctx, doc, outputDir)
}
