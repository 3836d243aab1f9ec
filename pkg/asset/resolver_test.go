package asset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOutputPath(t *testing.T) {
	got, err := ResolveOutputPath("output", DefaultStoryJSONName)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("output", "story.json"), got)

	got, err = ResolveOutputPath("gs://bucket/stories", DefaultStoryMarkdownName)
	require.NoError(t, err)
	assert.Equal(t, "gs://bucket/stories/story.md", got)
}

func TestGenerateIndexedPath(t *testing.T) {
	got, err := GenerateIndexedPath(filepath.Join(DefaultImageDir, DefaultChapterFileName), 2)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("images", "chapter_2.png"), got)

	_, err = GenerateIndexedPath(DefaultChapterFileName, 0)
	assert.Error(t, err)
}
