package asset

import (
	"github.com/shouni/go-utils/urlpath"
)

const (
	// DefaultImageDir はエクスポート時に挿絵を保存するディレクトリ名です。
	DefaultImageDir = "images"
	// DefaultCoverFileName は表紙画像のファイル名です。
	DefaultCoverFileName = "cover.png"
	// DefaultChapterFileName は章の挿絵の共通のベースファイル名です。
	DefaultChapterFileName = "chapter.png"
	// DefaultStoryMarkdownName はエクスポートする物語の Markdown ファイル名です。
	DefaultStoryMarkdownName = "story.md"
	// DefaultStoryJSONName はエクスポートする StoryDocument の JSON ファイル名です。
	DefaultStoryJSONName = "story.json"
)

// ResolveOutputPath は、ベースとなるディレクトリパスとファイル名から、
// リモートURI/ローカルを考慮した最終的な出力パスを生成します。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	return urlpath.ResolvePath(baseDir, fileName)
}

// GenerateIndexedPath は、指定されたベースパスの拡張子の前に連番を挿入します。
// 例: "images/chapter.png", 1 -> "images/chapter_1.png"
func GenerateIndexedPath(basePath string, index int) (string, error) {
	return urlpath.GenerateIndexedPath(basePath, index)
}
