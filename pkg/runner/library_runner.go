package runner

import (
	"context"
	"fmt"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// LibraryClient は保存済み物語を取得するクライアントです。
type LibraryClient interface {
	ListStories(ctx context.Context) ([]domain.StorySummary, error)
	GetStory(ctx context.Context, id string) (*domain.StoryDetail, error)
}

// LibraryRunner はバックエンドに保存された物語を一覧・取得します。
type LibraryRunner struct {
	client LibraryClient
}

func NewLibraryRunner(c LibraryClient) *LibraryRunner {
	return &LibraryRunner{client: c}
}

// List は保存済み物語の一覧を返します。
func (r *LibraryRunner) List(ctx context.Context) ([]domain.StorySummary, error) {
	stories, err := r.client.ListStories(ctx)
	if err != nil {
		return nil, fmt.Errorf("物語の一覧の取得に失敗しました: %w", err)
	}
	return stories, nil
}

// Show は保存済み物語をリーダーで読める形で返します。
func (r *LibraryRunner) Show(ctx context.Context, id string) (*domain.StoryDocument, error) {
	detail, err := r.client.GetStory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("物語 %s の取得に失敗しました: %w", id, err)
	}
	return detail.Document(), nil
}
