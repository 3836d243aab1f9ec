// Package client は物語・挿絵生成バックエンドの HTTP API を型付きで呼び出すクライアントです。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	generateStoryPath = "/api/generate-story"
	generateImagePath = "/api/generate-image"
	saveStoryPath     = "/api/save-story"
	storiesPath       = "/api/stories"

	statusSuccess = "success"

	maxResponseBytes = 16 << 20
)

// HTTPDoer は HTTP リクエストを実行するクライアントです。
// httpkit のクライアントや *http.Client をそのまま渡せます。
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client はバックエンド API のクライアントです。
type Client struct {
	baseURL    *url.URL
	httpClient HTTPDoer
}

// New はベース URL を検証して Client を返します。
func New(baseURL string, httpClient HTTPDoer) (*Client, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("client: httpClient は必須です")
	}
	u, err := url.ParseRequestURI(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: 無効なベースURLです: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client: unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return &Client{baseURL: u, httpClient: httpClient}, nil
}

// BaseURL は設定されたベース URL を返します。
func (c *Client) BaseURL() string { return c.baseURL.String() }

// ResolveURL はバックエンドが返す相対パス (/images/x.png など) を絶対 URL にします。
// すでに絶対 URL の場合や空文字はそのまま返します。
func (c *Client) ResolveURL(ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil || u.IsAbs() {
		return ref
	}
	return c.baseURL.ResolveReference(u).String()
}

func (c *Client) endpoint(p string) string {
	u := *c.baseURL
	u.Path = u.Path + p
	return u.String()
}

func (c *Client) do(req *http.Request) (status int, body []byte, err error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("レスポンスの読み込みに失敗しました: %w", err)
	}
	return resp.StatusCode, body, nil
}

func (c *Client) getJSON(ctx context.Context, p string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(p), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", p, err)
	}
	if !isSuccess(status) {
		return fmt.Errorf("GET %s: status %d: %s", p, status, detailFrom(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("GET %s: JSONのデコードに失敗しました: %w", p, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, p string, payload any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(p), bytes.NewReader(data))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.do(req)
}

func isSuccess(status int) bool { return status >= 200 && status <= 299 }

// detailFrom はエラーレスポンスの detail を取り出します。
// FastAPI の検証エラーのように detail が文字列でない場合は JSON をそのまま返します。
func detailFrom(body []byte) string {
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil {
		return s
	}
	return string(env.Detail)
}
