package reader

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

func sampleDocument(t *testing.T) *domain.StoryDocument {
	t.Helper()
	doc, err := domain.NewStoryDocument(domain.GeneratedStory{
		Title: "A Floresta",
		Parts: []domain.Part{
			{Text: "Era uma vez", ImagePrompt: "p1"},
			{Text: "No meio da floresta", ImagePrompt: "p2"},
			{Text: "Fim", ImagePrompt: "p3"},
		},
	}, "/images/cover.png", []string{"/images/0.png", domain.PlaceholderImageURL("Cena 2"), ""})
	require.NoError(t, err)
	return doc
}

func TestNavigator_Bounds(t *testing.T) {
	nav := NewNavigator(sampleDocument(t))
	assert.Equal(t, CoverPage, nav.Page())
	assert.Equal(t, 3, nav.TotalPages())

	assert.False(t, nav.Prev(), "表紙での Prev は何もしないこと")
	assert.Equal(t, CoverPage, nav.Page())

	for want := 0; want < 3; want++ {
		assert.True(t, nav.Next())
		assert.Equal(t, want, nav.Page())
	}
	assert.False(t, nav.Next(), "最終ページでの Next は何もしないこと")
	assert.Equal(t, 2, nav.Page())

	assert.True(t, nav.Prev())
	assert.Equal(t, 1, nav.Page())

	nav.First()
	assert.Equal(t, CoverPage, nav.Page())
	nav.Last()
	assert.Equal(t, 2, nav.Page())
}

func TestNavigator_Current(t *testing.T) {
	nav := NewNavigator(sampleDocument(t))

	cover := nav.Current()
	assert.True(t, cover.IsCover)
	assert.Equal(t, "A Floresta", cover.Title)
	assert.True(t, cover.Resolved)
	assert.Equal(t, domain.CoverDescriptor, cover.Descriptor)

	nav.Next()
	page := nav.Current()
	assert.Equal(t, "Era uma vez", page.Text)
	assert.Equal(t, "/images/0.png", page.ImageURL)
	assert.True(t, page.Resolved)

	nav.Next()
	page = nav.Current()
	assert.False(t, page.Resolved, "プレースホルダーは未解決として扱うこと")
	assert.Equal(t, "Cena 2", page.Descriptor)

	nav.Next()
	page = nav.Current()
	assert.False(t, page.Resolved, "空の画像参照でも読めること")
	assert.Equal(t, "Fim", page.Text)
}

func TestNavigator_ShortChapters(t *testing.T) {
	doc := &domain.StoryDocument{
		Title: "T",
		Parts: []domain.Part{{Text: "a"}, {Text: "b"}},
	}
	nav := NewNavigator(doc)
	nav.Last()
	page := nav.Current()
	assert.Equal(t, "b", page.Text)
	assert.False(t, page.Resolved)
}

func TestNavigator_EmptyDocument(t *testing.T) {
	nav := NewNavigator(nil)
	assert.Equal(t, 0, nav.TotalPages())
	assert.False(t, nav.Next())
	assert.False(t, nav.Prev())
	assert.True(t, nav.Current().IsCover)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_Update(t *testing.T) {
	m := NewModel(sampleDocument(t), WithGlamourStyle("notty"))

	steps := []struct {
		key  string
		want int
	}{
		{"left", CoverPage},
		{"right", 0},
		{"l", 1},
		{" ", 2},
		{"right", 2},
		{"h", 1},
		{"left", 0},
		{"left", CoverPage},
	}
	var model tea.Model = m
	for _, s := range steps {
		var cmd tea.Cmd
		model, cmd = model.Update(key(s.key))
		assert.Nil(t, cmd)
		assert.Equal(t, s.want, model.(Model).Navigator().Page(), "key=%q", s.key)
	}

	_, cmd := model.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_View(t *testing.T) {
	m := NewModel(sampleDocument(t),
		WithGlamourStyle("notty"),
		WithURLResolver(func(s string) string { return "http://localhost:8000" + s }),
	)

	out := m.View()
	assert.Contains(t, out, "A Floresta")
	assert.Contains(t, out, "Capa")
	assert.Contains(t, out, "http://localhost:8000/images/cover.png")

	m.Update(key("right"))
	m.Update(key("right"))
	out = m.View()
	assert.Contains(t, out, "Página 2 de 3")
	assert.Contains(t, out, "ilustração indisponível: Cena 2")
	assert.Contains(t, out, "No meio da floresta")
}
