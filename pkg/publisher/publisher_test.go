package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

type memoryWriter struct {
	mu    sync.Mutex
	files map[string][]byte
	types map[string]string
}

func newMemoryWriter() *memoryWriter {
	return &memoryWriter{files: map[string][]byte{}, types: map[string]string{}}
}

func (w *memoryWriter) Write(_ context.Context, path string, r io.Reader, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = data
	w.types[path] = contentType
	return nil
}

type stubFetcher struct {
	fail map[string]bool
	refs []string
}

func (f *stubFetcher) Resolve(_ context.Context, ref string) (domain.Photo, error) {
	f.refs = append(f.refs, ref)
	if f.fail[ref] {
		return domain.Photo{}, errors.New("unreachable")
	}
	return domain.Photo{Name: "x.png", MimeType: "image/png", Data: []byte("png:" + ref)}, nil
}

func sampleDocument(t *testing.T) *domain.StoryDocument {
	t.Helper()
	doc, err := domain.NewStoryDocument(domain.GeneratedStory{
		Title:       "A Floresta",
		CoverPrompt: "capa",
		Parts: []domain.Part{
			{Text: "Era uma vez", ImagePrompt: "p1"},
			{Text: "Fim", ImagePrompt: "p2"},
		},
	}, "/images/cover.png", []string{"/images/0.png", domain.PlaceholderImageURL("Cena 2")})
	require.NoError(t, err)
	return doc
}

func resolver(s string) string { return "http://localhost:8000" + s }

func TestNewStoryPublisher(t *testing.T) {
	_, err := NewStoryPublisher(nil)
	assert.Error(t, err)
}

func TestPublish_RemoteLinks(t *testing.T) {
	w := newMemoryWriter()
	p, err := NewStoryPublisher(w, WithURLResolver(resolver))
	require.NoError(t, err)

	doc := sampleDocument(t)
	res, err := p.Publish(context.Background(), doc, "out")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("out", "story.md"), res.MarkdownPath)
	assert.Equal(t, filepath.Join("out", "story.json"), res.JSONPath)
	assert.Empty(t, res.ImagePaths)

	md := string(w.files[res.MarkdownPath])
	assert.True(t, strings.HasPrefix(md, "# A Floresta\n"))
	assert.Contains(t, md, "![Capa do Livro](http://localhost:8000/images/cover.png)")
	assert.Contains(t, md, "## Cena 1")
	assert.Contains(t, md, "![Cena 1](http://localhost:8000/images/0.png)")
	assert.Contains(t, md, "Era uma vez")
	assert.Contains(t, md, "Não foi possível gerar a ilustração: Cena 2")
	assert.Equal(t, "text/markdown; charset=utf-8", w.types[res.MarkdownPath])

	var decoded domain.StoryDocument
	require.NoError(t, json.Unmarshal(w.files[res.JSONPath], &decoded))
	assert.Equal(t, *doc, decoded)
}

func TestPublish_DownloadsImages(t *testing.T) {
	w := newMemoryWriter()
	f := &stubFetcher{fail: map[string]bool{"http://localhost:8000/images/0.png": true}}
	p, err := NewStoryPublisher(w, WithURLResolver(resolver), WithImageFetcher(f))
	require.NoError(t, err)

	res, err := p.Publish(context.Background(), sampleDocument(t), "out")
	require.NoError(t, err)

	coverPath := filepath.Join("out", "images", "cover.png")
	assert.Equal(t, []string{coverPath}, res.ImagePaths)
	assert.Equal(t, []byte("png:http://localhost:8000/images/cover.png"), w.files[coverPath])
	assert.Len(t, f.refs, 2, "プレースホルダーは取得しないこと")

	md := string(w.files[res.MarkdownPath])
	assert.Contains(t, md, "![Capa do Livro](images/cover.png)")
	assert.Contains(t, md, "![Cena 1](http://localhost:8000/images/0.png)", "失敗した画像はリモートURLのまま")
}

func TestPublish_InvalidDocument(t *testing.T) {
	p, err := NewStoryPublisher(newMemoryWriter())
	require.NoError(t, err)

	_, err = p.Publish(context.Background(), nil, "out")
	assert.Error(t, err)

	doc := sampleDocument(t)
	doc.Chapters = doc.Chapters[:1]
	_, err = p.Publish(context.Background(), doc, "out")
	assert.Error(t, err)
}

func TestLocalWriter(t *testing.T) {
	dir := t.TempDir()
	p, err := NewStoryPublisher(NewLocalWriter())
	require.NoError(t, err)

	res, err := p.Publish(context.Background(), sampleDocument(t), filepath.Join(dir, "book"))
	require.NoError(t, err)

	md, err := os.ReadFile(res.MarkdownPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "# A Floresta")

	_, err = os.Stat(res.JSONPath)
	assert.NoError(t, err)
}
