package workflow

import (
	"context"

	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/generator"
	"github.com/shouni/go-storybook-kit/pkg/publisher"
	"github.com/shouni/go-storybook-kit/pkg/runner"
)

// Workflow は、絵本生成ワークフローの各工程を担当するRunnerを構築するためのインターフェースを定義します。
type Workflow interface {
	BuildCharacterRunner() (CharacterRunner, error)
	BuildStoryRunner() (StoryRunner, error)
	BuildPublishRunner() (PublishRunner, error)
	BuildLibraryRunner() (LibraryRunner, error)
}

// CharacterRunner は、キャラクターのロスターを管理する責務を持ちます。
type CharacterRunner interface {
	Add(ctx context.Context, nickname string, photoRefs []string) (domain.Character, error)
	List() ([]domain.Character, string)
	Select(id string) (domain.Character, error)
	Delete(id string) bool
}

// StoryRunner は、物語テキストと挿絵を生成して StoryDocument を組み立てる責務を持ちます。
type StoryRunner interface {
	Run(ctx context.Context, opts runner.StoryOptions) (*domain.StoryDocument, error)
	Regenerate(ctx context.Context, opts runner.StoryOptions, doc *domain.StoryDocument, slot domain.ImageSlot) (string, error)
	Save(ctx context.Context, doc *domain.StoryDocument) error
	State() *generator.State
}

// PublishRunner は、物語を Markdown と JSON として書き出す責務を持ちます。
type PublishRunner interface {
	Run(ctx context.Context, doc *domain.StoryDocument, outputDir string) (publisher.PublishResult, error)
}

// LibraryRunner は、バックエンドに保存された物語を取得する責務を持ちます。
type LibraryRunner interface {
	List(ctx context.Context) ([]domain.StorySummary, error)
	Show(ctx context.Context, id string) (*domain.StoryDocument, error)
}
