package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// SaveStory は物語を保存エンドポイントに送ります。
// 失敗は *domain.PersistenceError として返しますが、呼び出し側はログに残すだけの想定です。
func (c *Client) SaveStory(ctx context.Context, payload domain.SavePayload) error {
	status, body, err := c.postJSON(ctx, saveStoryPath, payload)
	if err != nil {
		return &domain.PersistenceError{Err: err}
	}
	if !isSuccess(status) {
		detail := detailFrom(body)
		if detail == "" {
			return &domain.PersistenceError{StatusCode: status}
		}
		return &domain.PersistenceError{StatusCode: status, Err: fmt.Errorf("%s", detail)}
	}
	return nil
}

// ListStories は保存済み物語の一覧を返します。
func (c *Client) ListStories(ctx context.Context) ([]domain.StorySummary, error) {
	var stories []domain.StorySummary
	if err := c.getJSON(ctx, storiesPath, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

// GetStory は保存済み物語の詳細を返します。
func (c *Client) GetStory(ctx context.Context, id string) (*domain.StoryDetail, error) {
	if id == "" || strings.ContainsAny(id, "/?#") {
		return nil, fmt.Errorf("client: invalid story id %q", id)
	}
	var detail domain.StoryDetail
	if err := c.getJSON(ctx, storiesPath+"/"+id, &detail); err != nil {
		return nil, err
	}
	if detail.ID == "" {
		detail.ID = id
	}
	return &detail, nil
}
