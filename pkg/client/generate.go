package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// StoryRequest は /api/generate-story に送る内容です。
type StoryRequest struct {
	Name            string
	Style           string
	Universe        string
	Genre           string
	Description     string
	ReferenceImages []domain.Photo
}

// ImageRequest は /api/generate-image に送る内容です。
type ImageRequest struct {
	Slot            domain.ImageSlot
	Prompt          string
	PersonName      string
	UniverseContext string
	ReferenceImages []domain.Photo
}

type storyEnvelope struct {
	Status string                 `json:"status"`
	Data   *domain.GeneratedStory `json:"data"`
	Detail string                 `json:"detail"`
}

type imageEnvelope struct {
	Status   string `json:"status"`
	ImageURL string `json:"image_url"`
	Detail   string `json:"detail"`
}

// GenerateStory は物語テキストを生成します。
// 失敗はすべて *domain.StoryGenerationError として返します。
func (c *Client) GenerateStory(ctx context.Context, r StoryRequest) (*domain.GeneratedStory, error) {
	fields := []formField{
		{name: "nome", value: r.Name},
		{name: "estilo", value: r.Style},
		{name: "universo", value: r.Universe},
		{name: "genero", value: r.Genre},
	}
	if r.Description != "" {
		fields = append(fields, formField{name: "descricao", value: r.Description})
	}

	body, contentType, err := buildMultipart(fields, "imagens", "reference.jpg", r.ReferenceImages)
	if err != nil {
		return nil, &domain.StoryGenerationError{Err: err}
	}

	status, respBody, err := c.postMultipart(ctx, generateStoryPath, body, contentType)
	if err != nil {
		return nil, &domain.StoryGenerationError{Err: err}
	}
	if !isSuccess(status) {
		return nil, &domain.StoryGenerationError{StatusCode: status, Detail: detailFrom(respBody)}
	}

	var env storyEnvelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, &domain.StoryGenerationError{StatusCode: status, Err: fmt.Errorf("invalid story response: %w", err)}
	}
	if env.Status != statusSuccess {
		return nil, &domain.StoryGenerationError{StatusCode: status, Detail: env.Detail, Err: fmt.Errorf("status %q", env.Status)}
	}
	if env.Data == nil {
		return nil, &domain.StoryGenerationError{StatusCode: status, Err: fmt.Errorf("story response has no data")}
	}
	if err := env.Data.Validate(); err != nil {
		return nil, &domain.StoryGenerationError{StatusCode: status, Err: fmt.Errorf("invalid story response: %w", err)}
	}
	return env.Data, nil
}

// GenerateImage は1枚の挿絵を生成し、その URL を返します。
// 失敗はすべて *domain.IllustrationError として返します。
func (c *Client) GenerateImage(ctx context.Context, r ImageRequest) (string, error) {
	fields := []formField{
		{name: "prompt", value: r.Prompt},
		{name: "person_name", value: r.PersonName},
		{name: "universe_context", value: r.UniverseContext},
	}
	body, contentType, err := buildMultipart(fields, "reference_images", "ref.jpg", r.ReferenceImages)
	if err != nil {
		return "", &domain.IllustrationError{Slot: r.Slot, Err: err}
	}

	status, respBody, err := c.postMultipart(ctx, generateImagePath, body, contentType)
	if err != nil {
		return "", &domain.IllustrationError{Slot: r.Slot, Err: err}
	}
	if !isSuccess(status) {
		return "", &domain.IllustrationError{Slot: r.Slot, StatusCode: status, Detail: detailFrom(respBody)}
	}

	var env imageEnvelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return "", &domain.IllustrationError{Slot: r.Slot, StatusCode: status, Err: fmt.Errorf("invalid image response: %w", err)}
	}
	if env.Status != statusSuccess {
		return "", &domain.IllustrationError{Slot: r.Slot, StatusCode: status, Detail: env.Detail, Err: fmt.Errorf("status %q", env.Status)}
	}
	if env.ImageURL == "" {
		return "", &domain.IllustrationError{Slot: r.Slot, StatusCode: status, Err: fmt.Errorf("image response has no image_url")}
	}
	return env.ImageURL, nil
}

func (c *Client) postMultipart(ctx context.Context, p string, body *bytes.Buffer, contentType string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(p), body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	return c.do(req)
}

type formField struct {
	name  string
	value string
}

// buildMultipart はテキスト項目と参照画像をひとつの multipart フォームにまとめます。
func buildMultipart(fields []formField, fileField, defaultFileName string, photos []domain.Photo) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("フォーム項目 %s の書き込みに失敗しました: %w", f.name, err)
		}
	}
	for i, p := range photos {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fileField, defaultFileName))
		mimeType := p.MimeType
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		h.Set("Content-Type", mimeType)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("参照画像 %d の書き込みに失敗しました: %w", i+1, err)
		}
		if _, err := part.Write(p.Data); err != nil {
			return nil, "", fmt.Errorf("参照画像 %d の書き込みに失敗しました: %w", i+1, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
