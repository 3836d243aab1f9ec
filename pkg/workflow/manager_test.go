package workflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-storybook-kit/pkg/config"
	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/runner"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n0000")

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate-story", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data": map[string]any{
				"title":        "A Ilha",
				"cover_prompt": "capa",
				"parts":        [][]string{{"Era uma vez", "p1"}},
			},
		})
	})
	mux.HandleFunc("/api/generate-image", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "success", "image_url": "/images/a.png"})
	})
	mux.HandleFunc("/api/save-story", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/images/a.png", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(pngBytes)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestManager_EndToEnd(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t)
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.DataDir = filepath.Join(dir, "data")
	cfg.OutputDir = filepath.Join(dir, "out")

	m, err := New(ctx, ManagerArgs{Config: cfg, HTTPClient: srv.Client()})
	require.NoError(t, err)
	defer m.Close()

	chars, err := m.BuildCharacterRunner()
	require.NoError(t, err)
	photo := filepath.Join(dir, "hero.png")
	require.NoError(t, os.WriteFile(photo, pngBytes, 0o644))
	lia, err := chars.Add(ctx, "Lia", []string{photo})
	require.NoError(t, err)
	_, err = chars.Select(lia.ID)
	require.NoError(t, err)

	stories, err := m.BuildStoryRunner()
	require.NoError(t, err)
	doc, err := stories.Run(ctx, runner.StoryOptions{Universe: "pirates", Style: "pixar", Genre: "comedy"})
	require.NoError(t, err, "保存に失敗しても生成は成功すること")
	assert.Equal(t, "A Ilha", doc.Title)

	pub, err := m.BuildPublishRunner()
	require.NoError(t, err)
	res, err := pub.Run(ctx, doc, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "story.md"), res.MarkdownPath)
	assert.Len(t, res.ImagePaths, 2)

	t.Run("ロスターがファイルに永続化されること", func(t *testing.T) {
		again, err := New(ctx, ManagerArgs{Config: cfg, HTTPClient: srv.Client()})
		require.NoError(t, err)
		r, err := again.BuildCharacterRunner()
		require.NoError(t, err)
		list, active := r.List()
		require.Len(t, list, 1)
		assert.Equal(t, lia.ID, active)
		assert.Equal(t, pngBytes, list[0].Photos[0].Data)
	})
}

func TestNew_Errors(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultConfig()

	_, err := New(ctx, ManagerArgs{Config: cfg})
	assert.Error(t, err)

	cfg.StoreBackend = "sqlite"
	_, err = New(ctx, ManagerArgs{Config: cfg, HTTPClient: http.DefaultClient})
	assert.Error(t, err)

	cfg = config.DefaultConfig()
	cfg.BaseURL = "not a url"
	_, err = New(ctx, ManagerArgs{Config: cfg, HTTPClient: http.DefaultClient})
	assert.Error(t, err)
}

type countingDoer struct {
	next  *http.Client
	calls int
}

func (d *countingDoer) Do(req *http.Request) (*http.Response, error) {
	d.calls++
	return d.next.Do(req)
}

func TestManager_PhotoHTTPClient(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t)

	cfg := config.DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.StoreBackend = StoreMemory
	cfg.OutputDir = t.TempDir()

	backend := &countingDoer{next: srv.Client()}
	photos := &countingDoer{next: srv.Client()}
	m, err := New(ctx, ManagerArgs{Config: cfg, HTTPClient: backend, PhotoHTTPClient: photos})
	require.NoError(t, err)

	chars, err := m.BuildCharacterRunner()
	require.NoError(t, err)
	_, err = chars.Add(ctx, "Lia", []string{srv.URL + "/images/a.png"})
	require.NoError(t, err)
	assert.Equal(t, 1, photos.calls, "参照写真は PhotoHTTPClient で取得すること")
	assert.Zero(t, backend.calls)

	story, err := domain.NewStoryDocument(domain.GeneratedStory{
		Title: "A Ilha",
		Parts: []domain.Part{{Text: "Era uma vez", ImagePrompt: "p1"}},
	}, "/images/a.png", []string{"/images/a.png"})
	require.NoError(t, err)

	pub, err := m.BuildPublishRunner()
	require.NoError(t, err)
	_, err = pub.Run(ctx, story, "")
	require.NoError(t, err)
	assert.Equal(t, 1, photos.calls, "挿絵のダウンロードにはバックエンド用のクライアントを使うこと")
	assert.Equal(t, 1, backend.calls, "同じ URL の挿絵はキャッシュから返すこと")
}
