package asset

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

func TestPhotoResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(pngHeader)
	}))
	defer srv.Close()

	r := NewPhotoResolver(srv.Client())

	t.Run("ローカルファイルを読み込めること", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "hero.png")
		require.NoError(t, os.WriteFile(p, pngHeader, 0o644))

		photo, err := r.Resolve(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, "hero.png", photo.Name)
		assert.Equal(t, "image/png", photo.MimeType)
		assert.Equal(t, pngHeader, photo.Data)
	})

	t.Run("URLはキャッシュされること", func(t *testing.T) {
		u := srv.URL + "/hero.png"
		first, err := r.Resolve(ctx, u)
		require.NoError(t, err)
		second, err := r.Resolve(ctx, u)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("2xx以外はエラー", func(t *testing.T) {
		_, err := r.Resolve(ctx, srv.URL+"/missing.png")
		assert.Error(t, err)
	})

	t.Run("base64のdata URIを読めること", func(t *testing.T) {
		uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader)
		photo, err := r.Resolve(ctx, uri)
		require.NoError(t, err)
		assert.Equal(t, "image/png", photo.MimeType)
		assert.Equal(t, pngHeader, photo.Data)
	})

	t.Run("存在しないファイルはエラー", func(t *testing.T) {
		_, err := r.Resolve(ctx, filepath.Join(t.TempDir(), "none.jpg"))
		assert.Error(t, err)
	})
}

func TestPhotoResolver_ResolveAll(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	var refs []string
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, append([]byte(name), pngHeader...), 0o644))
		refs = append(refs, p)
	}

	r := NewPhotoResolver(nil)
	photos, err := r.ResolveAll(ctx, refs)
	require.NoError(t, err)
	require.Len(t, photos, 3)
	for i, name := range []string{"a.png", "b.png", "c.png"} {
		assert.Equal(t, name, photos[i].Name, "順序が保たれていること")
	}

	_, err = r.ResolveAll(ctx, append(refs, refs[0]))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = r.ResolveAll(ctx, []string{"https://example.invalid/x.png"})
	assert.Error(t, err, "HTTPクライアント未設定ならURLは扱えないこと")
}
