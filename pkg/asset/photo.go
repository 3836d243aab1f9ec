package asset

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

const (
	defaultCacheExpiration = 5 * time.Minute
	cacheCleanupInterval   = 15 * time.Minute
	// MaxPhotoBytes は1枚の参照写真として取り込めるサイズの上限です。
	MaxPhotoBytes = 10 << 20
)

// HTTPDoer は写真の取得に使う HTTP クライアントです。httpkit のクライアントをそのまま渡せます。
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// PhotoResolver は一時的な写真の参照（ローカルパス、http(s) URL、data URI）を
// 所有するバイト列に変換します。キャラクター作成時に一度だけ呼ぶ想定です。
type PhotoResolver struct {
	httpClient HTTPDoer
	cache      *cache.Cache
}

// NewPhotoResolver は PhotoResolver を初期化します。httpClient が nil の場合は URL を扱えません。
func NewPhotoResolver(httpClient HTTPDoer) *PhotoResolver {
	return &PhotoResolver{
		httpClient: httpClient,
		cache:      cache.New(defaultCacheExpiration, cacheCleanupInterval),
	}
}

// ResolveAll は全ての参照を並列に取り込み、入力と同じ順序で返します。
func (r *PhotoResolver) ResolveAll(ctx context.Context, refs []string) ([]domain.Photo, error) {
	if len(refs) > domain.MaxPhotos {
		return nil, &domain.ValidationError{
			Field:   "photos",
			Message: fmt.Sprintf("at most %d photos are allowed, got %d", domain.MaxPhotos, len(refs)),
		}
	}

	photos := make([]domain.Photo, len(refs))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		eg.Go(func() error {
			p, err := r.Resolve(egCtx, ref)
			if err != nil {
				return fmt.Errorf("写真 %d (%s) の取り込みに失敗しました: %w", i+1, ref, err)
			}
			photos[i] = p
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return photos, nil
}

// Resolve は1つの参照をバイト列に変換します。同じ参照はキャッシュから返します。
func (r *PhotoResolver) Resolve(ctx context.Context, ref string) (domain.Photo, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Photo{}, fmt.Errorf("empty photo reference")
	}
	if cached, ok := r.cache.Get(ref); ok {
		return clonePhoto(cached.(domain.Photo)), nil
	}

	var (
		p   domain.Photo
		err error
	)
	switch {
	case strings.HasPrefix(ref, "data:"):
		p, err = decodeDataURI(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		p, err = r.fetch(ctx, ref)
	default:
		p, err = readFile(ref)
	}
	if err != nil {
		return domain.Photo{}, err
	}
	if len(p.Data) == 0 {
		return domain.Photo{}, fmt.Errorf("photo %s is empty", ref)
	}

	r.cache.Set(ref, clonePhoto(p), cache.DefaultExpiration)
	slog.Debug("Photo resolved", "ref", ref, "bytes", len(p.Data), "mime_type", p.MimeType)
	return p, nil
}

func (r *PhotoResolver) fetch(ctx context.Context, rawURL string) (domain.Photo, error) {
	if r.httpClient == nil {
		return domain.Photo{}, fmt.Errorf("http client is not configured for %s", rawURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return domain.Photo{}, err
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return domain.Photo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Photo{}, fmt.Errorf("GET %s: unexpected status %d", rawURL, resp.StatusCode)
	}
	data, err := readLimited(resp.Body)
	if err != nil {
		return domain.Photo{}, err
	}
	name := path.Base(req.URL.Path)
	if name == "/" || name == "." {
		name = "reference.jpg"
	}
	return domain.Photo{Name: name, MimeType: detectMimeType(data), Data: data}, nil
}

func readFile(p string) (domain.Photo, error) {
	f, err := os.Open(p)
	if err != nil {
		return domain.Photo{}, err
	}
	defer f.Close()

	data, err := readLimited(f)
	if err != nil {
		return domain.Photo{}, err
	}
	return domain.Photo{Name: filepath.Base(p), MimeType: detectMimeType(data), Data: data}, nil
}

// decodeDataURI は data:[<mime>][;base64],<data> 形式を解釈します。
func decodeDataURI(uri string) (domain.Photo, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return domain.Photo{}, fmt.Errorf("malformed data URI")
	}
	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return domain.Photo{}, fmt.Errorf("only base64 data URIs are supported")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return domain.Photo{}, fmt.Errorf("data URI の base64 デコードに失敗しました: %w", err)
	}
	if mimeType == "" {
		mimeType = detectMimeType(data)
	}
	return domain.Photo{Name: "reference.jpg", MimeType: mimeType, Data: data}, nil
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxPhotoBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxPhotoBytes {
		return nil, fmt.Errorf("photo exceeds %d bytes", MaxPhotoBytes)
	}
	return data, nil
}

func detectMimeType(data []byte) string {
	return http.DetectContentType(data)
}

func clonePhoto(p domain.Photo) domain.Photo {
	p.Data = append([]byte(nil), p.Data...)
	return p
}
