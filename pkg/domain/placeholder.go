package domain

import (
	"net/url"
	"strings"
)

const placeholderBase = "https://placehold.co/600x400/e3dccb/2a1a10?text="

// placeholderTextPrefix は text パラメータの "Erro: " に相当する部分です。
const placeholderTextPrefix = "Erro:+"

// PlaceholderImageURL は挿絵生成に失敗したときの決定的な代替画像 URL を返します。
// descriptor は encodeURIComponent と同じ規則でエスケープされます。
func PlaceholderImageURL(descriptor string) string {
	return placeholderBase + placeholderTextPrefix + encodeURIComponent(descriptor)
}

// IsPlaceholder は URL が PlaceholderImageURL で生成されたものかを判定します。
func IsPlaceholder(imageURL string) bool {
	return strings.HasPrefix(imageURL, placeholderBase+placeholderTextPrefix)
}

// PlaceholderDescriptor はプレースホルダー URL に埋め込まれた記述子を取り出します。
func PlaceholderDescriptor(imageURL string) (string, bool) {
	if !IsPlaceholder(imageURL) {
		return "", false
	}
	encoded := strings.TrimPrefix(imageURL, placeholderBase+placeholderTextPrefix)
	d, err := url.PathUnescape(encoded)
	if err != nil {
		return "", false
	}
	return d, true
}

func encodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	// encodeURIComponent がエスケープしない記号を戻す
	r := strings.NewReplacer(
		"%21", "!",
		"%27", "'",
		"%28", "(",
		"%29", ")",
		"%2A", "*",
	)
	return r.Replace(escaped)
}
