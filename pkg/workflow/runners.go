package workflow

import (
	"fmt"

	"github.com/shouni/go-storybook-kit/pkg/publisher"
	"github.com/shouni/go-storybook-kit/pkg/runner"
)

// BuildCharacterRunner は、キャラクター管理を担当する Runner を作成します。
func (m *Manager) BuildCharacterRunner() (CharacterRunner, error) {
	return runner.NewCharacterRunner(m.characters, m.photos), nil
}

// BuildStoryRunner は、物語生成を担当する Runner を作成します。
func (m *Manager) BuildStoryRunner() (StoryRunner, error) {
	return runner.NewStoryRunner(m.characters, m.orchestrator), nil
}

// BuildPublishRunner は、成果物の書き出しを担当する Runner を作成します。
func (m *Manager) BuildPublishRunner() (PublishRunner, error) {
	pub, err := publisher.NewStoryPublisher(m.writer,
		publisher.WithImageFetcher(m.images),
		publisher.WithURLResolver(m.client.ResolveURL),
		publisher.WithLogger(m.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("publisher の初期化に失敗しました: %w", err)
	}
	return runner.NewDefaultPublishRunner(m.cfg, pub), nil
}

// BuildLibraryRunner は、保存済み物語の取得を担当する Runner を作成します。
func (m *Manager) BuildLibraryRunner() (LibraryRunner, error) {
	return runner.NewLibraryRunner(m.client), nil
}

var _ Workflow = (*Manager)(nil)
